package analysis

import "github.com/whoamihappyhacking/chatlens/internal/model"

// BuildHeatmap 归一化以全局最大格为 1；多个格并列最大时取小时、星期最小的
func BuildHeatmap(grid *model.HourWeekdayGrid) Heatmap {
	h := Heatmap{
		Counts:      make([][]int64, 24),
		Normalized:  make([][]float64, 24),
		PeakHour:    -1,
		PeakWeekday: -1,
	}
	for hour := 0; hour < 24; hour++ {
		h.Counts[hour] = make([]int64, 7)
		h.Normalized[hour] = make([]float64, 7)
		if grid == nil {
			continue
		}
		for wd := 0; wd < 7; wd++ {
			n := grid[hour][wd]
			h.Counts[hour][wd] = n
			h.Total += n
			if n > h.Max {
				h.Max = n
				h.PeakHour, h.PeakWeekday = hour, wd
			}
		}
	}
	if h.Max == 0 {
		return h
	}
	for hour := range h.Counts {
		for wd, n := range h.Counts[hour] {
			h.Normalized[hour][wd] = float64(n) / float64(h.Max)
		}
	}
	return h
}
