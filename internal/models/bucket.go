package models

import "time"

// BucketStart returns the UTC start instant of the trend bucket containing t
// for the given period. The same rule is used by the server when it maps
// aggregation group keys back to instants and by the client when it applies
// live events, so both sides agree on bucket identity.
func BucketStart(period string, t time.Time) time.Time {
	t = t.UTC()
	switch period {
	case PeriodWeek:
		return WeekBucketStart(t.Year(), WeekOfYear(t))
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// WeekOfYear returns the Sunday-based week-of-year number of t in UTC,
// 0 to 53. Week 1 begins with the first Sunday of the year; days before it
// fall in week 0. This matches the store's $week operator.
func WeekOfYear(t time.Time) int {
	t = t.UTC()
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	firstSunday := jan1.AddDate(0, 0, (7-int(jan1.Weekday()))%7)
	if t.Before(firstSunday) {
		return 0
	}
	return 1 + int(t.Sub(firstSunday).Hours()/24)/7
}

// WeekBucketStart returns the start of a week bucket as Jan 1 of the year
// plus 7*(week-1) days. This deliberately preserves the upstream week
// boundary rule rather than ISO 8601 weeks.
func WeekBucketStart(year, week int) time.Time {
	return time.Date(year, time.January, 1+(week-1)*7, 0, 0, 0, 0, time.UTC)
}
