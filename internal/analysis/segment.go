package analysis

import (
	"sort"

	"github.com/whoamihappyhacking/chatlens/internal/model"
)

// SegmentGap 超过 20 分钟没有消息视为新的一段对话（秒）
const SegmentGap int64 = 1200

// Segment 按时间升序切分对话，间隔严格大于 gap 时开启新段
func Segment(msgs []*model.Message, gap int64) ConversationSegments {
	var seg ConversationSegments
	if len(msgs) == 0 {
		return seg
	}
	seg.ContactID = msgs[0].Talker
	if gap <= 0 {
		gap = SegmentGap
	}

	sorted := make([]*model.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Time.Equal(sorted[j].Time) {
			return sorted[i].Time.Before(sorted[j].Time)
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	var prev int64
	for i, m := range sorted {
		ts := m.Time.Unix()
		if i == 0 || ts-prev > gap {
			seg.Total++
			if m.IsSelf {
				seg.ByMe++
			} else {
				seg.ByOther++
			}
		}
		prev = ts
	}
	return seg
}

// attachSegments 给排行条目附加分段计数
func attachSegments(r *Ranking, segments map[string]ConversationSegments, topN int) {
	for i := range r.Entries {
		if topN > 0 && i >= topN {
			break
		}
		seg, ok := segments[r.Entries[i].ContactID]
		if !ok {
			continue
		}
		r.Entries[i].Details[DetailSegments] = float64(seg.Total)
		r.Entries[i].Details[DetailSegmentsByMe] = float64(seg.ByMe)
		r.Entries[i].Details[DetailSegmentsByOther] = float64(seg.ByOther)
	}
}
