package analysis

// 深夜时段 [start, end)，按本地时间小时
const (
	DefaultMidnightStart = 0
	DefaultMidnightEnd   = 5
)

// windowHours 按时段内的先后顺序列出小时，支持跨零点的时段
func windowHours(start, end int) []int {
	start, end = ((start%24)+24)%24, ((end%24)+24)%24
	hours := make([]int, 0, 24)
	for h := start; h != end; h = (h + 1) % 24 {
		hours = append(hours, h)
	}
	return hours
}

// RankMidnight 按深夜消息数排行，并给出第一名的占比和最活跃的小时
func RankMidnight(hist map[string]map[int]int64, names map[string]string, start, end int) MidnightRanking {
	m := MidnightRanking{
		Ranking:     Ranking{Kind: string(RankingMidnight), Entries: []RankingEntry{}},
		BusiestHour: -1,
	}
	hours := windowHours(start, end)
	busiest := make(map[string]int, len(hist))
	for id, byHour := range hist {
		var total, top int64
		hour := -1
		for _, h := range hours {
			n := byHour[h]
			total += n
			if n > top {
				top, hour = n, h
			}
		}
		if total == 0 {
			continue
		}
		busiest[id] = hour
		m.Ranking.Total += total
		m.Ranking.Entries = append(m.Ranking.Entries, RankingEntry{
			ContactID:    id,
			DisplayName:  displayName(names, id),
			PrimaryCount: total,
			Details:      map[string]float64{DetailBusiestHour: float64(hour)},
		})
	}
	for i := range m.Ranking.Entries {
		m.Ranking.Entries[i].Score = float64(m.Ranking.Entries[i].PrimaryCount) * 100 / float64(m.Ranking.Total)
	}
	sortEntries(m.Ranking.Entries, byPrimary)

	if len(m.Ranking.Entries) == 0 {
		return m
	}
	top := m.Ranking.Entries[0]
	m.TopContactID = top.ContactID
	m.TopDisplayName = top.DisplayName
	m.TopCount = top.PrimaryCount
	m.TopShare = float64(top.PrimaryCount) / float64(m.Ranking.Total)
	m.BusiestHour = busiest[top.ContactID]
	return m
}
