package analysis

import (
	"sort"
	"unicode/utf8"

	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

// TruncateMarker 超长文本截断后追加的标记
const TruncateMarker = "…"

// DefaultMaxDisplayLength 最长消息的展示上限（字符）
const DefaultMaxDisplayLength = 100

// SummarizeTypes 按类型名合并计数，数量降序、名称升序
func SummarizeTypes(hist map[int64]int64) TypeDistribution {
	d := TypeDistribution{Types: []TypeShare{}}
	byName := make(map[string]int64)
	for code, n := range hist {
		if n <= 0 {
			continue
		}
		byName[model.TypeName(code)] += n
		d.Total += n
	}
	for name, n := range byName {
		d.Types = append(d.Types, TypeShare{
			Name:       name,
			Count:      n,
			Percentage: float64(n) * 100 / float64(d.Total),
		})
	}
	sort.Slice(d.Types, func(i, j int) bool {
		if d.Types[i].Count != d.Types[j].Count {
			return d.Types[i].Count > d.Types[j].Count
		}
		return d.Types[i].Name < d.Types[j].Name
	})
	return d
}

// SummarizeLength 平均长度与最长一条消息；最长消息超过 maxLen 时截断
func SummarizeLength(stats *model.LengthStats, maxLen int, names map[string]string) LengthSummary {
	var s LengthSummary
	if stats == nil || stats.Count == 0 {
		return s
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxDisplayLength
	}
	s.TextCount = stats.Count
	s.AverageLength = float64(stats.TotalRunes) / float64(stats.Count)
	s.LongestLength = stats.LongestRunes
	s.LongestText = util.TruncateRunes(stats.LongestText, maxLen, TruncateMarker)
	s.Truncated = utf8.RuneCountInString(stats.LongestText) > maxLen
	s.LongestContactID = stats.LongestTalker
	if stats.LongestTalker != "" {
		s.LongestDisplayName = displayName(names, stats.LongestTalker)
	}
	s.LongestTimestamp = stats.LongestUnix
	s.LongestIsSelf = stats.LongestIsSelf
	return s
}

// BuildOverview 总量、活跃联系人数与活跃天数
func BuildOverview(counts map[string]*model.ContactCount, activeDates []string) Overview {
	var o Overview
	for _, c := range counts {
		if c == nil || c.Total() == 0 {
			continue
		}
		o.SentMessages += c.Sent
		o.ReceivedMessages += c.Received
		o.ActiveContacts++
	}
	o.TotalMessages = o.SentMessages + o.ReceivedMessages

	days := make(map[string]struct{}, len(activeDates))
	for _, d := range activeDates {
		if d == "" {
			continue
		}
		days[d] = struct{}{}
		if o.FirstDate == "" || d < o.FirstDate {
			o.FirstDate = d
		}
		if d > o.LastDate {
			o.LastDate = d
		}
	}
	o.ActiveDays = len(days)
	return o
}
