package analysis

import "github.com/whoamihappyhacking/chatlens/internal/model"

func boundaryOf(m *model.Message, names map[string]string) *BoundaryMessage {
	return &BoundaryMessage{
		ContactID:   m.Talker,
		DisplayName: displayName(names, m.Talker),
		Content:     m.PlainTextContent(),
		Timestamp:   m.Time.Unix(),
		IsSelf:      m.IsSelf,
	}
}

// earlier 时间相同按 contact_id、序号排序
func earlier(a, b *model.Message) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	if a.Talker != b.Talker {
		return a.Talker < b.Talker
	}
	return a.Seq < b.Seq
}

// FindYearBoundaries 在候选消息中找最早和最晚的一条；无消息时均为 nil
func FindYearBoundaries(candidates []*model.Message, names map[string]string) YearBoundaries {
	var first, last *model.Message
	for _, m := range candidates {
		if m == nil {
			continue
		}
		if first == nil || earlier(m, first) {
			first = m
		}
		if last == nil || lastBefore(last, m) {
			last = m
		}
	}
	var yb YearBoundaries
	if first != nil {
		yb.First = boundaryOf(first, names)
	}
	if last != nil {
		yb.Last = boundaryOf(last, names)
	}
	return yb
}

// lastBefore 判断 cur 是否应被 m 取代为最晚的一条：时间更晚，或时间相同时 contact_id 更小
func lastBefore(cur, m *model.Message) bool {
	if !cur.Time.Equal(m.Time) {
		return cur.Time.Before(m.Time)
	}
	if cur.Talker != m.Talker {
		return m.Talker < cur.Talker
	}
	return m.Seq > cur.Seq
}
