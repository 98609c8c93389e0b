package analysis

import (
	"strconv"
	"time"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

const scopeAll = "all"

// Scope 统计范围；Year 为 0 表示全部时间
type Scope struct {
	Year int `json:"year"`
}

func AllTime() Scope { return Scope{} }

func YearScope(year int) Scope { return Scope{Year: year} }

func (s Scope) IsAll() bool { return s.Year == 0 }

// Key 缓存槽位名："all" 或 "2024"
func (s Scope) Key() string {
	if s.IsAll() {
		return scopeAll
	}
	return strconv.Itoa(s.Year)
}

// Kind 用于指标标签
func (s Scope) Kind() string {
	if s.IsAll() {
		return scopeAll
	}
	return "year"
}

// ParseScope 接受 ""、"all" 或四位年份
func ParseScope(s string) (Scope, error) {
	year, ok := util.ParseYear(s)
	if !ok {
		return Scope{}, errors.ErrInvalidScope
	}
	return Scope{Year: year}, nil
}

// Contains 按 loc 下的本地日历年判断
func (s Scope) Contains(t time.Time, loc *time.Location) bool {
	if s.IsAll() {
		return true
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Year() == s.Year
}

// FilterByScope 未指定年份时原样返回输入
func FilterByScope(s Scope, msgs []*model.Message, loc *time.Location) []*model.Message {
	if s.IsAll() {
		return msgs
	}
	out := make([]*model.Message, 0, len(msgs))
	for _, m := range msgs {
		if s.Contains(m.Time, loc) {
			out = append(out, m)
		}
	}
	return out
}
