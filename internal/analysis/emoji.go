package analysis

import "sort"

const emojiTopN = 5

// ClassifyEmoji 统计表情出现次数并按分类累计，得分最高的分类即表情人格
// table 为 nil 时使用默认分类表
func ClassifyEmoji(texts []string, table *EmojiTable) (EmojiPersonality, error) {
	if table == nil {
		table = DefaultEmojiTable()
	}
	p := EmojiPersonality{
		Tag:          table.NoneTag,
		Label:        table.NoneLabel,
		CategoryHits: make(map[string]int64, len(table.Categories)),
		Top:          []TokenCount{},
	}
	re, err := table.Regexp()
	if err != nil {
		return p, err
	}
	for _, c := range table.Categories {
		p.CategoryHits[c.Tag] = 0
	}

	freq := make(map[string]int64)
	for _, text := range texts {
		for _, token := range re.FindAllString(text, -1) {
			freq[token]++
			p.TotalHits++
			if i := table.CategoryOf(token); i >= 0 {
				p.CategoryHits[table.Categories[i].Tag]++
			}
		}
	}

	var best int64
	winners := 0
	for _, c := range table.Categories {
		n := p.CategoryHits[c.Tag]
		switch {
		case n > best:
			best, winners = n, 1
			p.Tag, p.Label = c.Tag, c.Label
		case n == best && n > 0:
			winners++
		}
	}
	if winners > 1 {
		p.Tag, p.Label = table.TieTag, table.TieLabel
	}

	for token, n := range freq {
		p.Top = append(p.Top, TokenCount{Token: token, Count: n})
	}
	sort.Slice(p.Top, func(i, j int) bool {
		if p.Top[i].Count != p.Top[j].Count {
			return p.Top[i].Count > p.Top[j].Count
		}
		return p.Top[i].Token < p.Top[j].Token
	})
	if len(p.Top) > emojiTopN {
		p.Top = p.Top[:emojiTopN]
	}
	return p, nil
}
