package util

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// YearRange 返回 loc 下某年的 [start, end) Unix 秒区间
func YearRange(year int, loc *time.Location) (int64, int64) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)
	return start.Unix(), end.Unix()
}

// ParseYear 解析 "2024" 形式的年份；空串或 "all" 返回 0
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return 0, true
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1970 || y > 9999 {
		return 0, false
	}
	return y, true
}

// LoadLocation 空串返回 time.Local
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
