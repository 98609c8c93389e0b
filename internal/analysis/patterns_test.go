package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoamihappyhacking/chatlens/internal/model"
)

func TestDetectLaughter(t *testing.T) {
	stats, err := DetectLaughter([]string{"hhhh 哈哈哈 hi"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.TotalCount)
	assert.Equal(t, int64(2), stats.MatchCount)
	assert.Equal(t, "hhhh", stats.LongestMatch)
	assert.Equal(t, int64(4), stats.LongestLength)

	stats, err = DetectLaughter([]string{"笑死哈哈", "LOL", "2333", "hello", "h"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4+3+4), stats.TotalCount)
	assert.Equal(t, "笑死哈哈", stats.LongestMatch)

	stats, err = DetectLaughter([]string{"哈哈hhh", "lol!", "(2333)"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5+3+4), stats.TotalCount)
	assert.Equal(t, int64(4), stats.MatchCount)

	for _, text := range []string{"I will withhold it", "a fishhook", "lollipop", "call 13823345678", "Ahh no", "lolz"} {
		stats, err := DetectLaughter([]string{text}, nil)
		require.NoError(t, err)
		assert.Equal(t, LaughterStats{}, stats, text)
	}

	empty, err := DetectLaughter(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, LaughterStats{}, empty)
}

func TestDetectLaughterCustomPatterns(t *testing.T) {
	patterns := &LaughterPatterns{Families: []LaughterFamily{{Name: "ha", Expr: `(?:ha){2,}`}}}
	stats, err := DetectLaughter([]string{"hahaha ha"}, patterns)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.TotalCount)

	_, err = DetectLaughter([]string{"x"}, &LaughterPatterns{Families: []LaughterFamily{{Expr: `(`}}})
	assert.Error(t, err)
}

func TestClassifyEmoji(t *testing.T) {
	p, err := ClassifyEmoji([]string{"[呲牙][呲牙] 好的[抱拳]", "😂😂", "[未知贴纸]"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "joyful", p.Tag)
	assert.Equal(t, "开心果", p.Label)
	assert.Equal(t, int64(6), p.TotalHits)
	assert.Equal(t, int64(4), p.CategoryHits["joyful"])
	assert.Equal(t, int64(1), p.CategoryHits["polite"])
	require.Len(t, p.Top, 4)
	assert.Equal(t, TokenCount{Token: "[呲牙]", Count: 2}, p.Top[0])
	assert.Equal(t, TokenCount{Token: "😂", Count: 2}, p.Top[1])
}

func TestClassifyEmojiDefaults(t *testing.T) {
	none, err := ClassifyEmoji([]string{"没有表情", "[带 空格]"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text_only", none.Tag)
	assert.Empty(t, none.Top)

	tie, err := ClassifyEmoji([]string{"[呲牙][流泪]"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "versatile", tie.Tag)

	many, err := ClassifyEmoji([]string{"👍👍👍🙏🙏👌😭😡🤝[OK]"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "polite", many.Tag)
	assert.Len(t, many.Top, 5)
	assert.Equal(t, "👍", many.Top[0].Token)
}

func TestAnalyzeLinguistic(t *testing.T) {
	msgs := []*model.Message{
		{IsSelf: true, Type: model.MessageTypeText, Content: "好的，明天见！"},
		{IsSelf: true, Type: model.MessageTypeText, Content: "ok~"},
		{IsSelf: false, Type: model.MessageTypeText, Content: "对方说的话很长很长很长很长很长"},
		{IsSelf: true, Type: model.MessageTypeImage},
		{IsSelf: false, Type: model.MessageTypeSystem, Content: "你撤回了一条消息"},
		{IsSelf: false, Type: model.MessageTypeSystem, Content: "\"Bob\" 撤回了一条消息"},
	}
	s := AnalyzeLinguistic(msgs)
	assert.Equal(t, int64(2), s.MessageCount)
	assert.Equal(t, int64(10), s.TotalChars)
	assert.InDelta(t, 5.0, s.AverageLength, 1e-9)
	assert.Equal(t, StyleTerse, s.Label)
	assert.Equal(t, int64(1), s.Punctuation["，"])
	assert.Equal(t, int64(1), s.Punctuation["！"])
	assert.Equal(t, int64(1), s.Punctuation["~"])
	assert.Equal(t, int64(0), s.Punctuation["?"])
	assert.Equal(t, int64(1), s.RevokedCount)

	empty := AnalyzeLinguistic(nil)
	assert.Equal(t, "", empty.Label)
	assert.Len(t, empty.Punctuation, len(Punctuation))

	assert.Equal(t, StyleModerate, StyleLabel(6))
	assert.Equal(t, StyleVerbose, StyleLabel(15))
}

func TestBuildHeatmap(t *testing.T) {
	var grid model.HourWeekdayGrid
	grid[22][time.Friday] = 8
	grid[9][time.Monday] = 4
	grid[23][time.Sunday] = 8

	h := BuildHeatmap(&grid)
	assert.Equal(t, int64(20), h.Total)
	assert.Equal(t, int64(8), h.Max)
	assert.Equal(t, 22, h.PeakHour)
	assert.Equal(t, int(time.Friday), h.PeakWeekday)
	assert.Equal(t, 0.5, h.Normalized[9][time.Monday])
	assert.Equal(t, 1.0, h.Normalized[23][time.Sunday])
	assert.Len(t, h.Counts, 24)
	assert.Len(t, h.Counts[0], 7)

	empty := BuildHeatmap(nil)
	assert.Equal(t, -1, empty.PeakHour)
	assert.Equal(t, 0.0, empty.Normalized[0][0])
}

func TestRankMidnight(t *testing.T) {
	hist := map[string]map[int]int64{
		"a": {1: 3, 2: 3},
		"b": {0: 1, 4: 9},
		"c": {},
		"d": {7: 100},
	}
	m := RankMidnight(hist, map[string]string{"b": "Bob"}, 0, 5)
	assert.Equal(t, []string{"b", "a"}, ids(m.Ranking))
	assert.Equal(t, "b", m.TopContactID)
	assert.Equal(t, "Bob", m.TopDisplayName)
	assert.Equal(t, int64(10), m.TopCount)
	assert.InDelta(t, 10.0/16.0, m.TopShare, 1e-9)
	assert.Equal(t, 4, m.BusiestHour)
	assert.Equal(t, float64(1), m.Ranking.Entries[1].Details[DetailBusiestHour])

	wrapped := RankMidnight(map[string]map[int]int64{"a": {23: 2, 1: 2, 5: 9}}, nil, 23, 2)
	assert.Equal(t, int64(4), wrapped.TopCount)
	assert.Equal(t, 23, wrapped.BusiestHour)

	none := RankMidnight(nil, nil, 0, 5)
	assert.Equal(t, -1, none.BusiestHour)
	assert.Empty(t, none.TopContactID)
	assert.Empty(t, none.Ranking.Entries)
}

func TestLongestStreak(t *testing.T) {
	s := LongestStreak([]string{"2024-01-05", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-02"})
	assert.Equal(t, 3, s.Length)
	assert.Equal(t, "2024-01-01", s.Start)
	assert.Equal(t, "2024-01-03", s.End)

	// 长度相同时保留先出现的
	tie := LongestStreak([]string{"2024-02-01", "2024-02-02", "2024-03-01", "2024-03-02"})
	assert.Equal(t, "2024-02-01", tie.Start)

	leap := LongestStreak([]string{"2024-02-28", "2024-02-29", "2024-03-01", "bad"})
	assert.Equal(t, 3, leap.Length)

	assert.Equal(t, Streak{}, LongestStreak(nil))
}

func TestGlobalLongestStreak(t *testing.T) {
	dates := map[string][]string{
		"b": {"2024-01-01", "2024-01-02"},
		"a": {"2024-05-01", "2024-05-02"},
		"c": {"2024-01-01"},
	}
	s := GlobalLongestStreak(dates, map[string]string{"a": "Alice"})
	assert.Equal(t, "a", s.ContactID)
	assert.Equal(t, "Alice", s.DisplayName)
	assert.Equal(t, 2, s.Length)

	assert.Equal(t, Streak{}, GlobalLongestStreak(nil, nil))
}

func TestDatesOf(t *testing.T) {
	dates := DatesOf([]*model.Message{
		msgAt("a", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC).Unix(), true),
		msgAt("a", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC).Unix(), true),
		msgAt("a", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC).Unix(), true),
	}, time.UTC)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, dates)
}

func TestFindPeakDay(t *testing.T) {
	daily := map[string]map[string]int64{
		"2024-01-01": {"a": 5, "b": 5},
		"2024-02-01": {"b": 4, "a": 4, "c": 2},
		"2024-03-01": {"a": 3},
	}
	p := FindPeakDay(daily, nil)
	assert.Equal(t, "2024-01-01", p.Date)
	assert.Equal(t, int64(10), p.Total)
	assert.Equal(t, "a", p.TopContactID)
	assert.Equal(t, "a", p.TopDisplayName)
	assert.InDelta(t, 0.5, p.TopShare, 1e-9)

	assert.Equal(t, PeakDay{}, FindPeakDay(nil, nil))
}

func TestBuildSocialBattery(t *testing.T) {
	b := BuildSocialBattery([]string{
		"2024-03-01", "2024-03-01", "2024-03-02", "2024-03-03",
		"2024-05-10",
		"2024-07-01", "2024-07-02",
		"2024-09-09",
	})
	assert.Equal(t, []int64{0, 0, 3, 0, 1, 0, 2, 0, 1, 0, 0, 0}, b.Months)
	assert.Equal(t, 3, b.PeakMonth)
	assert.Equal(t, 5, b.LowMonth)

	empty := BuildSocialBattery(nil)
	assert.Equal(t, 1, empty.PeakMonth)
	assert.Equal(t, 1, empty.LowMonth)
	assert.Len(t, empty.Months, 12)
}

func TestFindYearBoundaries(t *testing.T) {
	first := &model.Message{Talker: "b", Time: time.Unix(100, 0), Type: model.MessageTypeImage}
	sameTime := &model.Message{Talker: "c", Time: time.Unix(100, 0), Type: model.MessageTypeText, Content: "x"}
	last := &model.Message{Talker: "a", Time: time.Unix(900, 0), IsSelf: true, Type: model.MessageTypeText, Content: "再见"}

	yb := FindYearBoundaries([]*model.Message{sameTime, last, first}, map[string]string{"a": "Alice"})
	require.NotNil(t, yb.First)
	require.NotNil(t, yb.Last)
	assert.Equal(t, "b", yb.First.ContactID)
	assert.Equal(t, "[图片]", yb.First.Content)
	assert.Equal(t, int64(100), yb.First.Timestamp)
	assert.Equal(t, "Alice", yb.Last.DisplayName)
	assert.Equal(t, "再见", yb.Last.Content)
	assert.True(t, yb.Last.IsSelf)

	none := FindYearBoundaries(nil, nil)
	assert.Nil(t, none.First)
	assert.Nil(t, none.Last)
}

func TestSummarizeTypes(t *testing.T) {
	d := SummarizeTypes(map[int64]int64{
		model.MessageTypeText:   6,
		model.MessageTypeImage:  2,
		model.MessageTypeSystem: 1,
		model.MessageTypeRevoke: 1,
		9999:                    0,
	})
	assert.Equal(t, int64(10), d.Total)
	require.Len(t, d.Types, 3)
	assert.Equal(t, TypeShare{Name: "text", Count: 6, Percentage: 60}, d.Types[0])
	assert.Equal(t, "image", d.Types[1].Name)
	assert.Equal(t, "system", d.Types[2].Name)

	assert.Empty(t, SummarizeTypes(nil).Types)
}

func TestSummarizeLength(t *testing.T) {
	long := ""
	for i := 0; i < 120; i++ {
		long += "长"
	}
	s := SummarizeLength(&model.LengthStats{
		Count: 4, TotalRunes: 140, LongestRunes: 120, LongestText: long,
		LongestTalker: "a", LongestUnix: 42, LongestIsSelf: true,
	}, 100, nil)
	assert.InDelta(t, 35.0, s.AverageLength, 1e-9)
	assert.True(t, s.Truncated)
	assert.Equal(t, 101, len([]rune(s.LongestText)))
	assert.Equal(t, TruncateMarker, string([]rune(s.LongestText)[100:]))
	assert.Equal(t, "a", s.LongestDisplayName)

	short := SummarizeLength(&model.LengthStats{Count: 1, TotalRunes: 2, LongestRunes: 2, LongestText: "hi"}, 100, nil)
	assert.False(t, short.Truncated)
	assert.Equal(t, "hi", short.LongestText)

	assert.Equal(t, LengthSummary{}, SummarizeLength(nil, 100, nil))
}

func TestBuildOverview(t *testing.T) {
	o := BuildOverview(counts(
		&model.ContactCount{Talker: "a", Sent: 3, Received: 4},
		&model.ContactCount{Talker: "b", Sent: 1, Received: 0},
		&model.ContactCount{Talker: "c"},
	), []string{"2024-02-01", "2024-01-05", "2024-02-01"})
	assert.Equal(t, int64(8), o.TotalMessages)
	assert.Equal(t, int64(4), o.SentMessages)
	assert.Equal(t, 2, o.ActiveContacts)
	assert.Equal(t, 2, o.ActiveDays)
	assert.Equal(t, "2024-01-05", o.FirstDate)
	assert.Equal(t, "2024-02-01", o.LastDate)
}
