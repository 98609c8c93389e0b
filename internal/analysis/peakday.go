package analysis

// FindPeakDay 合计消息最多的日期（并列取较早的），以及当天贡献最多的联系人
func FindPeakDay(daily map[string]map[string]int64, names map[string]string) PeakDay {
	var peak PeakDay
	for date, byContact := range daily {
		var total int64
		for _, n := range byContact {
			total += n
		}
		if total == 0 {
			continue
		}
		if total > peak.Total || (total == peak.Total && date < peak.Date) {
			peak = PeakDay{Date: date, Total: total}
		}
	}
	if peak.Total == 0 {
		return peak
	}

	for id, n := range daily[peak.Date] {
		if n > peak.TopCount || (n == peak.TopCount && id < peak.TopContactID) {
			peak.TopContactID, peak.TopCount = id, n
		}
	}
	peak.TopDisplayName = displayName(names, peak.TopContactID)
	peak.TopShare = float64(peak.TopCount) / float64(peak.Total)
	return peak
}
