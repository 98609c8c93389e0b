package analysis

import (
	"math"
	"sort"

	"github.com/whoamihappyhacking/chatlens/internal/model"
)

// 比例类排行的最小消息量，稀疏数据上的比例没有意义
const (
	MinRatioMessages   = 50
	MinBalanceMessages = 100
)

// 排行条目 Details 中使用的键
const (
	DetailSent            = "sent"
	DetailReceived        = "received"
	DetailPercent         = "percent"
	DetailRatio           = "ratio"
	DetailDaysInitiated   = "days_initiated"
	DetailDaysActive      = "days_active"
	DetailSegments        = "segments"
	DetailSegmentsByMe    = "segments_by_me"
	DetailSegmentsByOther = "segments_by_other"
	DetailBusiestHour     = "busiest_hour"
)

// sortEntries 按 key 降序，相同时按 contact_id 升序
func sortEntries(entries []RankingEntry, key func(e *RankingEntry) float64) {
	sort.SliceStable(entries, func(i, j int) bool {
		ki, kj := key(&entries[i]), key(&entries[j])
		if ki != kj {
			return ki > kj
		}
		return entries[i].ContactID < entries[j].ContactID
	})
}

func byScore(e *RankingEntry) float64   { return e.Score }
func byPrimary(e *RankingEntry) float64 { return float64(e.PrimaryCount) }

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func countDetails(c *model.ContactCount) map[string]float64 {
	return map[string]float64{
		DetailSent:     float64(c.Sent),
		DetailReceived: float64(c.Received),
	}
}

// sortedCounts 以 contact_id 升序遍历，保证结果与 map 迭代顺序无关
func sortedCounts(counts map[string]*model.ContactCount) []*model.ContactCount {
	list := make([]*model.ContactCount, 0, len(counts))
	for _, c := range counts {
		if c != nil {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Talker < list[j].Talker })
	return list
}

// RankAbsolute 按双方消息总数排行，Score 为占全部参与联系人总量的百分比
func RankAbsolute(counts map[string]*model.ContactCount, names map[string]string) Ranking {
	r := Ranking{Kind: string(RankingAbsolute), Entries: []RankingEntry{}}
	for _, c := range sortedCounts(counts) {
		if c.Total() <= 0 {
			continue
		}
		r.Total += c.Total()
		r.Entries = append(r.Entries, RankingEntry{
			ContactID:    c.Talker,
			DisplayName:  displayName(names, c.Talker),
			PrimaryCount: c.Total(),
			Details:      countDetails(c),
		})
	}
	for i := range r.Entries {
		if r.Total > 0 {
			r.Entries[i].Score = float64(r.Entries[i].PrimaryCount) * 100 / float64(r.Total)
		}
	}
	sortEntries(r.Entries, byPrimary)
	return r
}

// rankRatio confidant 与 listener 的公共部分：Score 为 num/den，Details 带展示用百分比
func rankRatio(kind RankingKind, counts map[string]*model.ContactCount, names map[string]string,
	ratio func(c *model.ContactCount) (num, den int64)) Ranking {
	r := Ranking{Kind: string(kind), Entries: []RankingEntry{}}
	for _, c := range sortedCounts(counts) {
		num, den := ratio(c)
		if c.Total() < MinRatioMessages || den <= 0 {
			continue
		}
		index := float64(num) / float64(den)
		details := countDetails(c)
		details[DetailPercent] = clamp(index*10, 0, 100)
		r.Total += c.Total()
		r.Entries = append(r.Entries, RankingEntry{
			ContactID:    c.Talker,
			DisplayName:  displayName(names, c.Talker),
			PrimaryCount: c.Total(),
			Score:        index,
			Details:      details,
		})
	}
	sortEntries(r.Entries, byScore)
	return r
}

// RankConfidant 我说得更多：sent / received
func RankConfidant(counts map[string]*model.ContactCount, names map[string]string) Ranking {
	return rankRatio(RankingConfidant, counts, names, func(c *model.ContactCount) (int64, int64) {
		return c.Sent, c.Received
	})
}

// RankListener 对方说得更多：received / sent
func RankListener(counts map[string]*model.ContactCount, names map[string]string) Ranking {
	return rankRatio(RankingListener, counts, names, func(c *model.ContactCount) (int64, int64) {
		return c.Received, c.Sent
	})
}

// BalanceScore 1 表示完全对等，比例偏离 1 达到 10 及以上时为 0
// 任一方为 0 时没有意义，返回 0
func BalanceScore(sent, received int64) float64 {
	if sent <= 0 || received <= 0 {
		return 0
	}
	ratio := float64(sent) / float64(received)
	return 1 - clamp(math.Abs(ratio-1), 0, 10)/10
}

// RankBalance 双向平衡度排行
func RankBalance(counts map[string]*model.ContactCount, names map[string]string) Ranking {
	r := Ranking{Kind: string(RankingBalance), Entries: []RankingEntry{}}
	for _, c := range sortedCounts(counts) {
		if c.Total() < MinBalanceMessages || c.Sent <= 0 || c.Received <= 0 {
			continue
		}
		details := countDetails(c)
		details[DetailRatio] = float64(c.Sent) / float64(c.Received)
		r.Total += c.Total()
		r.Entries = append(r.Entries, RankingEntry{
			ContactID:    c.Talker,
			DisplayName:  displayName(names, c.Talker),
			PrimaryCount: c.Total(),
			Score:        BalanceScore(c.Sent, c.Received),
			Details:      details,
		})
	}
	sortEntries(r.Entries, byScore)
	return r
}

// RankInitiative 主动率：当天第一条消息由自己发出的天数 / 有消息的天数 * 100
func RankInitiative(buckets map[string]map[string]*model.DayBucket, counts map[string]*model.ContactCount, names map[string]string) Ranking {
	r := Ranking{Kind: string(RankingInitiative), Entries: []RankingEntry{}}
	for _, c := range sortedCounts(counts) {
		if c.Total() < MinBalanceMessages {
			continue
		}
		days := buckets[c.Talker]
		var active, initiated int64
		for _, b := range days {
			if b == nil || b.Count <= 0 {
				continue
			}
			active++
			if b.FirstIsSelf {
				initiated++
			}
		}
		if active == 0 {
			continue
		}
		details := countDetails(c)
		details[DetailDaysInitiated] = float64(initiated)
		details[DetailDaysActive] = float64(active)
		r.Total += c.Total()
		r.Entries = append(r.Entries, RankingEntry{
			ContactID:    c.Talker,
			DisplayName:  displayName(names, c.Talker),
			PrimaryCount: c.Total(),
			Score:        float64(initiated) * 100 / float64(active),
			Details:      details,
		})
	}
	sortEntries(r.Entries, byScore)
	return r
}

// InitiativeCandidates 满足主动率门槛的联系人，contact_id 升序
func InitiativeCandidates(counts map[string]*model.ContactCount) []string {
	ids := make([]string, 0)
	for _, c := range sortedCounts(counts) {
		if c.Total() >= MinBalanceMessages {
			ids = append(ids, c.Talker)
		}
	}
	return ids
}

// Truncate 返回只保留前 n 个条目的副本；n <= 0 不截断
func (r Ranking) Truncate(n int) Ranking {
	if n <= 0 || len(r.Entries) <= n {
		return r
	}
	out := r
	out.Entries = append([]RankingEntry(nil), r.Entries[:n]...)
	return out
}

// CountMessages 扫描消息列表得到收发计数，聚合查询不可用时使用
func CountMessages(talker string, msgs []*model.Message) *model.ContactCount {
	c := &model.ContactCount{Talker: talker}
	for _, m := range msgs {
		if m.IsSelf {
			c.Sent++
		} else {
			c.Received++
		}
	}
	return c
}
