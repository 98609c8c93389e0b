package model

// ContactCount 单个联系人的收发计数
type ContactCount struct {
	Talker   string `json:"talker"`
	Sent     int64  `json:"sent"`
	Received int64  `json:"received"`
}

// Total 双方消息总数
func (c *ContactCount) Total() int64 {
	return c.Sent + c.Received
}

// DayBucket 某联系人某一天的消息汇总
// FirstIsSelf 表示当天第一条消息是否由自己发出
type DayBucket struct {
	Count       int64 `json:"count"`
	FirstIsSelf bool  `json:"firstIsSelf"`
}

// HourWeekdayGrid 小时 × 星期 计数；星期下标沿用 time.Weekday（周日=0）
type HourWeekdayGrid [24][7]int64

// LengthStats 文本消息长度统计（按字符计）
type LengthStats struct {
	Count         int64  `json:"count"`
	TotalRunes    int64  `json:"totalRunes"`
	LongestRunes  int64  `json:"longestRunes"`
	LongestText   string `json:"longestText"`
	LongestTalker string `json:"longestTalker"`
	LongestUnix   int64  `json:"longestUnix"`
	LongestIsSelf bool   `json:"longestIsSelf"`
}
