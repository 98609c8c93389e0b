package analysis

import (
	"github.com/mitchellh/mapstructure"
)

// Bundle 一次完整计算的全部结果，写入缓存后只读
type Bundle struct {
	Scope       string `json:"scope" mapstructure:"scope"`
	Year        int    `json:"year" mapstructure:"year"`
	RunID       string `json:"run_id" mapstructure:"run_id"`
	GeneratedAt int64  `json:"generated_at" mapstructure:"generated_at"`

	Overview      Overview         `json:"overview" mapstructure:"overview"`
	Absolute      Ranking          `json:"absolute" mapstructure:"absolute"`
	Confidant     Ranking          `json:"confidant" mapstructure:"confidant"`
	Listener      Ranking          `json:"listener" mapstructure:"listener"`
	Balance       Ranking          `json:"balance" mapstructure:"balance"`
	Initiative    Ranking          `json:"initiative" mapstructure:"initiative"`
	Midnight      MidnightRanking  `json:"midnight" mapstructure:"midnight"`
	Heatmap       Heatmap          `json:"heatmap" mapstructure:"heatmap"`
	Linguistic    LinguisticStyle  `json:"linguistic" mapstructure:"linguistic"`
	Laughter      LaughterStats    `json:"laughter" mapstructure:"laughter"`
	Emoji         EmojiPersonality `json:"emoji" mapstructure:"emoji"`
	Streak        Streak           `json:"streak" mapstructure:"streak"`
	PeakDay       PeakDay          `json:"peak_day" mapstructure:"peak_day"`
	SocialBattery SocialBattery    `json:"social_battery" mapstructure:"social_battery"`
	Boundaries    YearBoundaries   `json:"boundaries" mapstructure:"boundaries"`
	Types         TypeDistribution `json:"types" mapstructure:"types"`
	Length        LengthSummary    `json:"length" mapstructure:"length"`

	Skipped []ContactError `json:"skipped" mapstructure:"skipped"`
}

// Ranking 按类型取排行；midnight 返回其内部排行
func (b *Bundle) Ranking(kind RankingKind) (Ranking, bool) {
	switch kind {
	case RankingAbsolute:
		return b.Absolute, true
	case RankingConfidant:
		return b.Confidant, true
	case RankingListener:
		return b.Listener, true
	case RankingBalance:
		return b.Balance, true
	case RankingInitiative:
		return b.Initiative, true
	case RankingMidnight:
		return b.Midnight.Ranking, true
	default:
		return Ranking{}, false
	}
}

// ToMap 转为键值形式，用于持久化
func (b *Bundle) ToMap() (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BundleFromMap ToMap 的逆操作；也接受经过 JSON 往返后的 map
func BundleFromMap(m map[string]any) (*Bundle, error) {
	b := &Bundle{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  b,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, err
	}
	return b, nil
}
