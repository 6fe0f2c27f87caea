package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		// 2025-01-01 is a Wednesday, so the first Sunday is Jan 5.
		{"before first sunday", time.Date(2025, 1, 4, 23, 59, 0, 0, time.UTC), 0},
		{"first sunday", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), 1},
		{"end of week 1", time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC), 1},
		{"start of week 2", time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), 2},
		// 2023-01-01 is itself a Sunday.
		{"jan 1 on a sunday", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"late december", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekOfYear(tt.t))
		})
	}
}

func TestWeekBucketStart(t *testing.T) {
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), WeekBucketStart(2025, 1))
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), WeekBucketStart(2025, 2))
	// week 0 normalizes into the previous year
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), WeekBucketStart(2025, 0))
}

func TestBucketStart(t *testing.T) {
	// 18:30 in +05:30 is 13:00 UTC on the same date
	ist := time.FixedZone("IST", 5*3600+30*60)
	local := time.Date(2025, 2, 3, 18, 30, 0, 0, ist)

	tests := []struct {
		name   string
		period string
		t      time.Time
		want   time.Time
	}{
		{"day", PeriodDay, time.Date(2025, 2, 3, 14, 45, 12, 0, time.UTC), time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"day converts to utc", PeriodDay, local, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"month", PeriodMonth, time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"week", PeriodWeek, time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"week 2", PeriodWeek, time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC), time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketStart(tt.period, tt.t))
		})
	}
}

func TestBucketStartIdempotent(t *testing.T) {
	// Week is exempt: the reconstructed start (Jan 1 plus whole weeks) is not
	// itself on a Sunday boundary unless Jan 1 is a Sunday.
	for _, period := range []string{PeriodDay, PeriodMonth} {
		at := time.Date(2025, 6, 18, 11, 22, 33, 0, time.UTC)
		start := BucketStart(period, at)
		assert.Equal(t, start, BucketStart(period, start), "period %s", period)
	}
}
