package analysis

import "unicode/utf8"

// DetectLaughter 累计匹配到的字符数，并记录最长的一次
// patterns 为 nil 时使用默认规则
func DetectLaughter(texts []string, patterns *LaughterPatterns) (LaughterStats, error) {
	var stats LaughterStats
	if patterns == nil {
		patterns = DefaultLaughterPatterns()
	}
	re, err := patterns.Regexp()
	if err != nil {
		return stats, err
	}
	for _, text := range texts {
		for _, match := range re.FindAllString(text, -1) {
			n := int64(utf8.RuneCountInString(match))
			stats.TotalCount += n
			stats.MatchCount++
			if n > stats.LongestLength {
				stats.LongestLength = n
				stats.LongestMatch = match
			}
		}
	}
	return stats, nil
}
