package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

// memSource 基于内存消息列表的数据源，时间按 UTC 计算
type memSource struct {
	sessions []*model.Session
	names    map[string]string
	msgs     []*model.Message

	failSessions error
	failNames    error
	failCounts   error
	failBuckets  map[string]error
	failMessages map[string]error
	broken       map[string]bool // 返回含 nil 的消息列表

	getMessages int
}

func (s *memSource) filter(year int, talkers []string) []*model.Message {
	var allowed map[string]bool
	if talkers != nil {
		allowed = make(map[string]bool, len(talkers))
		for _, t := range talkers {
			allowed[t] = true
		}
	}
	out := make([]*model.Message, 0, len(s.msgs))
	for _, m := range s.msgs {
		if allowed != nil && !allowed[m.Talker] {
			continue
		}
		if year != 0 && m.Time.UTC().Year() != year {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *memSource) ListSessions(ctx context.Context) ([]*model.Session, error) {
	if s.failSessions != nil {
		return nil, s.failSessions
	}
	return s.sessions, nil
}

func (s *memSource) GetDisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	if s.failNames != nil {
		return nil, s.failNames
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := s.names[id]; ok {
			out[id] = name
		} else {
			out[id] = id
		}
	}
	return out, nil
}

func (s *memSource) GetMessages(ctx context.Context, talker string, year int) ([]*model.Message, error) {
	s.getMessages++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.failMessages[talker]; err != nil {
		return nil, err
	}
	msgs := s.filter(year, []string{talker})
	if s.broken[talker] {
		msgs = append(msgs, nil)
	}
	return msgs, nil
}

func (s *memSource) ContactCounts(ctx context.Context, year int, talkers []string) (map[string]*model.ContactCount, error) {
	if s.failCounts != nil {
		return nil, s.failCounts
	}
	out := make(map[string]*model.ContactCount)
	for _, m := range s.filter(year, talkers) {
		c, ok := out[m.Talker]
		if !ok {
			c = &model.ContactCount{Talker: m.Talker}
			out[m.Talker] = c
		}
		if m.IsSelf {
			c.Sent++
		} else {
			c.Received++
		}
	}
	return out, nil
}

func (s *memSource) DailyBuckets(ctx context.Context, talker string, year int) (map[string]*model.DayBucket, error) {
	if err := s.failBuckets[talker]; err != nil {
		return nil, err
	}
	msgs := s.filter(year, []string{talker})
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Time.Before(msgs[j].Time) })
	out := make(map[string]*model.DayBucket)
	for _, m := range msgs {
		d := m.Time.UTC().Format(util.DateLayout)
		b, ok := out[d]
		if !ok {
			b = &model.DayBucket{FirstIsSelf: m.IsSelf}
			out[d] = b
		}
		b.Count++
	}
	return out, nil
}

func (s *memSource) HourWeekdayHistogram(ctx context.Context, year int, talkers []string) (*model.HourWeekdayGrid, error) {
	var grid model.HourWeekdayGrid
	for _, m := range s.filter(year, talkers) {
		t := m.Time.UTC()
		grid[t.Hour()][t.Weekday()]++
	}
	return &grid, nil
}

func (s *memSource) TypeHistogram(ctx context.Context, year int, talkers []string) (map[int64]int64, error) {
	out := make(map[int64]int64)
	for _, m := range s.filter(year, talkers) {
		out[m.Type]++
	}
	return out, nil
}

func (s *memSource) TextLengthStats(ctx context.Context, year int, talkers []string) (*model.LengthStats, error) {
	stats := &model.LengthStats{}
	for _, m := range s.filter(year, talkers) {
		if !m.IsText() {
			continue
		}
		n := int64(utf8.RuneCountInString(m.Content))
		stats.Count++
		stats.TotalRunes += n
		if n > stats.LongestRunes {
			stats.LongestRunes = n
			stats.LongestText = m.Content
			stats.LongestTalker = m.Talker
			stats.LongestUnix = m.Time.Unix()
			stats.LongestIsSelf = m.IsSelf
		}
	}
	return stats, nil
}

func (s *memSource) MidnightHistogram(ctx context.Context, year int, talkers []string, startHour, endHour int) (map[string]map[int]int64, error) {
	out := make(map[string]map[int]int64)
	for _, m := range s.filter(year, talkers) {
		h := m.Time.UTC().Hour()
		if h < startHour || h >= endHour {
			continue
		}
		if out[m.Talker] == nil {
			out[m.Talker] = make(map[int]int64)
		}
		out[m.Talker][h]++
	}
	return out, nil
}

func (s *memSource) ContactDates(ctx context.Context, year int, talkers []string) (map[string][]string, error) {
	byTalker := make(map[string][]*model.Message)
	for _, m := range s.filter(year, talkers) {
		byTalker[m.Talker] = append(byTalker[m.Talker], m)
	}
	out := make(map[string][]string, len(byTalker))
	for talker, msgs := range byTalker {
		out[talker] = DatesOf(msgs, time.UTC)
	}
	return out, nil
}

func (s *memSource) DailyCounts(ctx context.Context, year int, talkers []string) (map[string]map[string]int64, error) {
	out := make(map[string]map[string]int64)
	for _, m := range s.filter(year, talkers) {
		d := m.Time.UTC().Format(util.DateLayout)
		if out[d] == nil {
			out[d] = make(map[string]int64)
		}
		out[d][m.Talker]++
	}
	return out, nil
}

// chatBuilder 生成测试消息
type chatBuilder struct {
	msgs []*model.Message
	seq  int64
}

func (b *chatBuilder) add(talker string, at time.Time, self bool, typ int64, content string) {
	b.seq++
	b.msgs = append(b.msgs, &model.Message{
		Seq: b.seq, Talker: talker, IsSelf: self, Time: at, Type: typ, Content: content,
	})
}

// burst 从 at 开始每隔一分钟交替收发 n 条文本
func (b *chatBuilder) burst(talker string, at time.Time, n int, firstSelf bool, content string) {
	for i := 0; i < n; i++ {
		self := (i%2 == 0) == firstSelf
		b.add(talker, at.Add(time.Duration(i)*time.Minute), self, model.MessageTypeText, fmt.Sprintf("%s%d", content, i))
	}
}

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

// newFixtureSource 一组覆盖各类排行的联系人
//   - wxid_alice：2024 年 120 条，收发对等，连续三天
//   - wxid_bob：2024 年 60 条，自己发得多，含深夜消息与笑声
//   - wxid_carol：2023 年 10 条
//   - 群聊、公众号、文件传输助手应被排除
func newFixtureSource() *memSource {
	b := &chatBuilder{}
	b.burst("wxid_alice", utc(2024, 1, 1, 9, 0), 40, true, "早")
	b.burst("wxid_alice", utc(2024, 1, 2, 20, 0), 40, false, "晚")
	b.burst("wxid_alice", utc(2024, 1, 3, 12, 0), 40, true, "午")

	for i := 0; i < 45; i++ {
		b.add("wxid_bob", utc(2024, 3, 9, 1, 0).Add(time.Duration(i)*time.Minute), true, model.MessageTypeText, "hhhh 哈哈哈[呲牙]")
	}
	for i := 0; i < 15; i++ {
		b.add("wxid_bob", utc(2024, 3, 9, 10, 0).Add(time.Duration(i)*time.Minute), false, model.MessageTypeImage, "")
	}

	b.burst("wxid_carol", utc(2023, 6, 1, 10, 0), 10, false, "旧")

	b.burst("123@chatroom", utc(2024, 1, 1, 9, 0), 200, true, "群")
	b.burst("gh_news", utc(2024, 1, 1, 9, 0), 200, false, "推送")
	b.burst("filehelper", utc(2024, 1, 1, 9, 0), 200, true, "文件")

	return &memSource{
		sessions: []*model.Session{
			{UserName: "wxid_alice"},
			{UserName: "wxid_bob"},
			{UserName: "wxid_carol"},
			{UserName: "123@chatroom"},
			{UserName: "gh_news"},
			{UserName: "filehelper"},
		},
		names: map[string]string{"wxid_alice": "老同学", "wxid_bob": "Bob"},
		msgs:  b.msgs,
	}
}
