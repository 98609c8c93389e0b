package analysis

import (
	"sort"
	"time"

	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

// parseDates 去重并升序；无法解析的日期忽略
func parseDates(dates []string) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		t, err := time.Parse(util.DateLayout, d)
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// LongestStreak 连续日期的最长区间；长度相同时保留先出现的
func LongestStreak(dates []string) Streak {
	var best Streak
	days := parseDates(dates)
	if len(days) == 0 {
		return best
	}

	runStart, runLen := 0, 1
	flush := func(end int) {
		if runLen > best.Length {
			best.Length = runLen
			best.Start = days[runStart].Format(util.DateLayout)
			best.End = days[end].Format(util.DateLayout)
		}
	}
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			runLen++
			continue
		}
		flush(i - 1)
		runStart, runLen = i, 1
	}
	flush(len(days) - 1)
	return best
}

// GlobalLongestStreak 所有联系人中最长的连续聊天；按 contact_id 升序遍历，只有更长才替换
func GlobalLongestStreak(contactDates map[string][]string, names map[string]string) Streak {
	ids := make([]string, 0, len(contactDates))
	for id := range contactDates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var best Streak
	for _, id := range ids {
		s := LongestStreak(contactDates[id])
		if s.Length > best.Length {
			s.ContactID = id
			s.DisplayName = displayName(names, id)
			best = s
		}
	}
	return best
}

// DatesOf 消息在 loc 下的日历日期，已去重升序
func DatesOf(msgs []*model.Message, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[string]struct{}, len(msgs))
	dates := make([]string, 0)
	for _, m := range msgs {
		d := m.Time.In(loc).Format(util.DateLayout)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
