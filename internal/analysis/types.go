package analysis

// 所有结果结构的 json 与 mapstructure 标签保持一致，
// 以便结构体、键值形式与缓存中的 JSON 互相转换时字段名不变。

// RankingKind 排行榜类型
type RankingKind string

const (
	RankingAbsolute   RankingKind = "absolute"
	RankingConfidant  RankingKind = "confidant"
	RankingListener   RankingKind = "listener"
	RankingBalance    RankingKind = "balance"
	RankingInitiative RankingKind = "initiative"
	RankingMidnight   RankingKind = "midnight"
)

// RankingEntry 排行榜条目，构造后不再修改
type RankingEntry struct {
	ContactID    string             `json:"contact_id" mapstructure:"contact_id"`
	DisplayName  string             `json:"display_name" mapstructure:"display_name"`
	PrimaryCount int64              `json:"primary_count" mapstructure:"primary_count"`
	Score        float64            `json:"score" mapstructure:"score"`
	Details      map[string]float64 `json:"details" mapstructure:"details"`
}

// Ranking 按 Score（absolute 为 PrimaryCount）降序、contact_id 升序排列
// Total 为参与排行的所有联系人的主计数合计（截断前）
type Ranking struct {
	Kind    string         `json:"kind" mapstructure:"kind"`
	Total   int64          `json:"total" mapstructure:"total"`
	Entries []RankingEntry `json:"entries" mapstructure:"entries"`
}

// Heatmap 小时(0-23) × 星期(time.Weekday) 热力图
type Heatmap struct {
	Counts      [][]int64   `json:"counts" mapstructure:"counts"`
	Normalized  [][]float64 `json:"normalized" mapstructure:"normalized"`
	Total       int64       `json:"total" mapstructure:"total"`
	Max         int64       `json:"max" mapstructure:"max"`
	PeakHour    int         `json:"peak_hour" mapstructure:"peak_hour"`       // 无数据时为 -1
	PeakWeekday int         `json:"peak_weekday" mapstructure:"peak_weekday"` // 无数据时为 -1
}

const (
	StyleTerse    = "terse"
	StyleModerate = "moderate"
	StyleVerbose  = "verbose"
)

// LinguisticStyle 自己发出的文本消息的风格统计
type LinguisticStyle struct {
	MessageCount  int64            `json:"message_count" mapstructure:"message_count"`
	TotalChars    int64            `json:"total_chars" mapstructure:"total_chars"`
	AverageLength float64          `json:"average_length" mapstructure:"average_length"`
	Punctuation   map[string]int64 `json:"punctuation" mapstructure:"punctuation"`
	Label         string           `json:"label" mapstructure:"label"` // 无消息时为空
	RevokedCount  int64            `json:"revoked_count" mapstructure:"revoked_count"`
}

// LaughterStats 笑声检测结果；计数单位为字符
type LaughterStats struct {
	TotalCount    int64  `json:"total_count" mapstructure:"total_count"`
	MatchCount    int64  `json:"match_count" mapstructure:"match_count"`
	LongestMatch  string `json:"longest_match" mapstructure:"longest_match"`
	LongestLength int64  `json:"longest_length" mapstructure:"longest_length"`
}

// TokenCount 表情/贴纸出现次数
type TokenCount struct {
	Token string `json:"token" mapstructure:"token"`
	Count int64  `json:"count" mapstructure:"count"`
}

// EmojiPersonality 表情人格
type EmojiPersonality struct {
	Tag          string           `json:"tag" mapstructure:"tag"`
	Label        string           `json:"label" mapstructure:"label"`
	TotalHits    int64            `json:"total_hits" mapstructure:"total_hits"`
	CategoryHits map[string]int64 `json:"category_hits" mapstructure:"category_hits"`
	Top          []TokenCount     `json:"top" mapstructure:"top"`
}

// MidnightRanking 深夜活跃排行；Top* 字段在无数据时为空值，BusiestHour 为 -1
type MidnightRanking struct {
	Ranking        Ranking `json:"ranking" mapstructure:"ranking"`
	TopContactID   string  `json:"top_contact_id" mapstructure:"top_contact_id"`
	TopDisplayName string  `json:"top_display_name" mapstructure:"top_display_name"`
	TopCount       int64   `json:"top_count" mapstructure:"top_count"`
	TopShare       float64 `json:"top_share" mapstructure:"top_share"`
	BusiestHour    int     `json:"busiest_hour" mapstructure:"busiest_hour"`
}

// Streak 连续聊天天数
type Streak struct {
	ContactID   string `json:"contact_id" mapstructure:"contact_id"`
	DisplayName string `json:"display_name" mapstructure:"display_name"`
	Length      int    `json:"length" mapstructure:"length"`
	Start       string `json:"start" mapstructure:"start"`
	End         string `json:"end" mapstructure:"end"`
}

// PeakDay 消息最多的一天及当天贡献最多的联系人
type PeakDay struct {
	Date           string  `json:"date" mapstructure:"date"`
	Total          int64   `json:"total" mapstructure:"total"`
	TopContactID   string  `json:"top_contact_id" mapstructure:"top_contact_id"`
	TopDisplayName string  `json:"top_display_name" mapstructure:"top_display_name"`
	TopCount       int64   `json:"top_count" mapstructure:"top_count"`
	TopShare       float64 `json:"top_share" mapstructure:"top_share"`
}

// SocialBattery 每月活跃天数（下标 0 为一月）
type SocialBattery struct {
	Months    []int64 `json:"months" mapstructure:"months"`
	PeakMonth int     `json:"peak_month" mapstructure:"peak_month"`
	LowMonth  int     `json:"low_month" mapstructure:"low_month"`
}

// BoundaryMessage 年度第一条/最后一条消息
type BoundaryMessage struct {
	ContactID   string `json:"contact_id" mapstructure:"contact_id"`
	DisplayName string `json:"display_name" mapstructure:"display_name"`
	Content     string `json:"content" mapstructure:"content"`
	Timestamp   int64  `json:"timestamp" mapstructure:"timestamp"`
	IsSelf      bool   `json:"is_self" mapstructure:"is_self"`
}

type YearBoundaries struct {
	First *BoundaryMessage `json:"first" mapstructure:"first"`
	Last  *BoundaryMessage `json:"last" mapstructure:"last"`
}

// TypeShare 某类消息的数量及占比（百分比）
type TypeShare struct {
	Name       string  `json:"name" mapstructure:"name"`
	Count      int64   `json:"count" mapstructure:"count"`
	Percentage float64 `json:"percentage" mapstructure:"percentage"`
}

type TypeDistribution struct {
	Total int64       `json:"total" mapstructure:"total"`
	Types []TypeShare `json:"types" mapstructure:"types"`
}

// LengthSummary 文本长度统计；LongestText 超过展示上限时截断并追加标记
type LengthSummary struct {
	TextCount          int64   `json:"text_count" mapstructure:"text_count"`
	AverageLength      float64 `json:"average_length" mapstructure:"average_length"`
	LongestLength      int64   `json:"longest_length" mapstructure:"longest_length"`
	LongestText        string  `json:"longest_text" mapstructure:"longest_text"`
	LongestContactID   string  `json:"longest_contact_id" mapstructure:"longest_contact_id"`
	LongestDisplayName string  `json:"longest_display_name" mapstructure:"longest_display_name"`
	LongestTimestamp   int64   `json:"longest_timestamp" mapstructure:"longest_timestamp"`
	LongestIsSelf      bool    `json:"longest_is_self" mapstructure:"longest_is_self"`
	Truncated          bool    `json:"truncated" mapstructure:"truncated"`
}

// Overview 范围内的总体规模
type Overview struct {
	TotalMessages    int64  `json:"total_messages" mapstructure:"total_messages"`
	SentMessages     int64  `json:"sent_messages" mapstructure:"sent_messages"`
	ReceivedMessages int64  `json:"received_messages" mapstructure:"received_messages"`
	ActiveContacts   int    `json:"active_contacts" mapstructure:"active_contacts"`
	ActiveDays       int    `json:"active_days" mapstructure:"active_days"`
	FirstDate        string `json:"first_date" mapstructure:"first_date"`
	LastDate         string `json:"last_date" mapstructure:"last_date"`
}

// ConversationSegments 会话分段：间隔超过阈值即开启新段，段的发起人为首条消息的发送方
type ConversationSegments struct {
	ContactID string `json:"contact_id" mapstructure:"contact_id"`
	Total     int    `json:"total" mapstructure:"total"`
	ByMe      int    `json:"by_me" mapstructure:"by_me"`
	ByOther   int    `json:"by_other" mapstructure:"by_other"`
}

// ContactError 单个联系人计算失败的记录，不影响整体结果
type ContactError struct {
	ContactID string `json:"contact_id" mapstructure:"contact_id"`
	Stage     string `json:"stage" mapstructure:"stage"`
	Error     string `json:"error" mapstructure:"error"`
}
