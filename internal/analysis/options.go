package analysis

import "time"

const (
	DefaultTopN       = 10
	DefaultYieldEvery = 20
)

// Options 引擎参数
type Options struct {
	TopN             int
	YieldEvery       int
	MidnightStart    int
	MidnightEnd      int
	MaxDisplayLength int
	SegmentGap       int64
	Location         *time.Location
	ExtraExcluded    []string
	Laughter         *LaughterPatterns
	Emoji            *EmojiTable
}

func DefaultOptions() Options {
	return Options{
		TopN:             DefaultTopN,
		YieldEvery:       DefaultYieldEvery,
		MidnightStart:    DefaultMidnightStart,
		MidnightEnd:      DefaultMidnightEnd,
		MaxDisplayLength: DefaultMaxDisplayLength,
		SegmentGap:       SegmentGap,
		Location:         time.Local,
	}
}

// withDefaults 补全零值字段
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.YieldEvery <= 0 {
		o.YieldEvery = d.YieldEvery
	}
	if o.MidnightStart == o.MidnightEnd {
		o.MidnightStart, o.MidnightEnd = d.MidnightStart, d.MidnightEnd
	}
	if o.MaxDisplayLength <= 0 {
		o.MaxDisplayLength = d.MaxDisplayLength
	}
	if o.SegmentGap <= 0 {
		o.SegmentGap = d.SegmentGap
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.Laughter == nil {
		o.Laughter = DefaultLaughterPatterns()
	}
	if o.Emoji == nil {
		o.Emoji = DefaultEmojiTable()
	}
	return o
}
