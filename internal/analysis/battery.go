package analysis

import (
	"time"

	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

// BuildSocialBattery 每月的活跃天数（同一天只计一次），月份从 1 开始
// 低谷月只在有活跃的月份中找，全年无活跃时峰值与低谷均为 1 月
func BuildSocialBattery(dates []string) SocialBattery {
	b := SocialBattery{Months: make([]int64, 12), PeakMonth: 1, LowMonth: 1}
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		t, err := time.Parse(util.DateLayout, d)
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		b.Months[t.Month()-1]++
	}

	var peak, low int64
	for i, n := range b.Months {
		if n > peak {
			peak, b.PeakMonth = n, i+1
		}
		if n > 0 && (low == 0 || n < low) {
			low, b.LowMonth = n, i+1
		}
	}
	return b
}
