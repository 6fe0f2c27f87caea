package models

import "time"

// Trend periods
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ValidPeriod reports whether p is a supported trend period.
func ValidPeriod(p string) bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

// Metrics is the aggregate view of a tenant's payments, recomputed from the
// store on every query. SuccessRate is rounded to 1 decimal, AverageAmount
// to 2 decimals; the remaining numeric fields are raw.
type Metrics struct {
	TotalVolume      float64 `json:"totalVolume"`
	SuccessRate      float64 `json:"successRate"`
	AverageAmount    float64 `json:"averageAmount"`
	PeakHour         int     `json:"peakHour"`
	TopPaymentMethod string  `json:"topPaymentMethod"`
	TotalCount       int64   `json:"totalCount"`
	SuccessCount     int64   `json:"successCount"`
	FailedCount      int64   `json:"failedCount"`
	RefundedCount    int64   `json:"refundedCount"`
}

// TrendPoint is one chronological bucket of a tenant's payment history.
// Timestamp is the UTC start of the bucket.
type TrendPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Amount      float64   `json:"amount"`
	Count       int64     `json:"count"`
	SuccessRate float64   `json:"successRate"`
}

// DateRange restricts metrics to createdAt within [Start, End] inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}
