// Package readmodel holds the dashboard's client-side state: the last
// authoritative metrics and trend snapshots, the optimistic overlay applied
// from live events, and the bounded event log. Authoritative replaces
// always discard the overlay.
package readmodel

import (
	"math"
	"sort"
	"sync"
	"time"

	"paydash/internal/errors"
	"paydash/internal/models"
	"paydash/internal/utils"
)

// DefaultEventLogCap bounds the event ring when no cap is configured.
const DefaultEventLogCap = 100

// Point is a trend bucket as the client stores it. The raw SuccessCount is
// retained alongside the reported rate so repeated deltas never compound
// rounding error.
type Point struct {
	Timestamp    time.Time `json:"timestamp"`
	Amount       float64   `json:"amount"`
	Count        int64     `json:"count"`
	SuccessCount int64     `json:"successCount"`
	SuccessRate  float64   `json:"successRate"`
}

// MetricsDelta is one collapsed batch of event contributions.
type MetricsDelta struct {
	TotalVolume   float64
	TotalCount    int64
	SuccessCount  int64
	FailedCount   int64
	RefundedCount int64
}

// MetricsSnapshot is a read-only copy of the metrics state.
type MetricsSnapshot struct {
	Data         *models.Metrics
	LastUpdated  time.Time
	IsOptimistic bool
}

// TrendsSnapshot is a read-only copy of the trends state.
type TrendsSnapshot struct {
	Period       string
	Points       []Point
	LastUpdated  time.Time
	IsOptimistic bool
}

// ConnectionState mirrors the live stream health.
type ConnectionState struct {
	Status  string
	Message string
}

// Store is the single shared read model. All mutation happens through typed
// methods under one lock; an authoritative replace is a single atomic action.
type Store struct {
	mu sync.Mutex

	metrics           *models.Metrics
	metricsUpdated    time.Time
	metricsOptimistic bool

	period           string
	points           []Point
	trendsUpdated    time.Time
	trendsOptimistic bool

	events   []models.PaymentEvent // newest first
	eventCap int

	conn ConnectionState
}

func NewStore(eventCap int) *Store {
	if eventCap <= 0 {
		eventCap = DefaultEventLogCap
	}
	return &Store{
		period:   models.PeriodDay,
		eventCap: eventCap,
		conn:     ConnectionState{Status: models.ConnDisconnected},
	}
}

// SetMetrics replaces the metrics snapshot with a server-authoritative one,
// discarding any optimistic overlay.
func (s *Store) SetMetrics(m models.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = &m
	s.metricsUpdated = time.Now()
	s.metricsOptimistic = false
}

// ApplyMetricsDelta overlays one collapsed batch onto the last authoritative
// snapshot. TopPaymentMethod and PeakHour need global history and stay at
// their last authoritative values. With no baseline the delta is skipped.
func (s *Store) ApplyMetricsDelta(d MetricsDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.metrics == nil {
		return errors.ErrNoBaseline
	}

	s.metrics.TotalVolume += d.TotalVolume
	s.metrics.TotalCount += d.TotalCount
	s.metrics.SuccessCount += d.SuccessCount
	s.metrics.FailedCount += d.FailedCount
	s.metrics.RefundedCount += d.RefundedCount

	if s.metrics.TotalCount > 0 {
		s.metrics.SuccessRate = utils.Round1(float64(s.metrics.SuccessCount) / float64(s.metrics.TotalCount) * 100)
		s.metrics.AverageAmount = utils.Round2(s.metrics.TotalVolume / float64(s.metrics.TotalCount))
	} else {
		s.metrics.SuccessRate = 0
		s.metrics.AverageAmount = 0
	}

	s.metricsOptimistic = true
	s.metricsUpdated = time.Now()
	return nil
}

// Metrics returns a copy of the metrics state.
func (s *Store) Metrics() MetricsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := MetricsSnapshot{
		LastUpdated:  s.metricsUpdated,
		IsOptimistic: s.metricsOptimistic,
	}
	if s.metrics != nil {
		m := *s.metrics
		snap.Data = &m
	}
	return snap
}

// SetTrends replaces the trend series with a server-authoritative one. The
// server reports only a rounded rate, so the raw success count is recovered
// as round(rate/100*count); under the 1-decimal rounding rule the
// conversion is lossless.
//
// A replace for a period that is no longer selected is a stale response
// from before a period change and is dropped; the latest selection wins.
func (s *Store) SetTrends(period string, points []models.TrendPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if period != s.period {
		return
	}
	s.points = make([]Point, 0, len(points))
	for _, p := range points {
		s.points = append(s.points, Point{
			Timestamp:    p.Timestamp,
			Amount:       p.Amount,
			Count:        p.Count,
			SuccessCount: successCountFromRate(p.SuccessRate, p.Count),
			SuccessRate:  p.SuccessRate,
		})
	}
	s.trendsUpdated = time.Now()
	s.trendsOptimistic = false
}

// ApplyTrendEvent folds one live event into its period bucket, inserting the
// bucket if it does not exist yet. The updated bucket is returned for
// derived observers (alerting).
func (s *Store) ApplyTrendEvent(ev models.PaymentEvent) (Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := ev.Payment.CreatedAt
	if ts.IsZero() {
		ts = ev.Timestamp
	}
	bucket := models.BucketStart(s.period, ts)

	idx := -1
	for i := range s.points {
		if s.points[i].Timestamp.Equal(bucket) {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.points = append(s.points, Point{Timestamp: bucket})
		sort.Slice(s.points, func(i, j int) bool {
			return s.points[i].Timestamp.Before(s.points[j].Timestamp)
		})
		for i := range s.points {
			if s.points[i].Timestamp.Equal(bucket) {
				idx = i
				break
			}
		}
	}

	p := &s.points[idx]
	p.Amount += ev.Payment.Amount
	p.Count++
	if ev.Payment.Status == models.PaymentStatusSuccess {
		p.SuccessCount++
	}
	p.SuccessRate = utils.Round1(float64(p.SuccessCount) / float64(p.Count) * 100)

	s.trendsOptimistic = true
	s.trendsUpdated = time.Now()
	return *p, nil
}

// SetPeriod switches the selected trend period and drops the now-meaningless
// overlay; the caller is expected to issue an authoritative fetch.
func (s *Store) SetPeriod(period string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.period == period {
		return
	}
	s.period = period
	s.points = nil
	s.trendsOptimistic = false
}

// Period returns the currently selected trend period.
func (s *Store) Period() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// Trends returns a copy of the trends state.
func (s *Store) Trends() TrendsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]Point, len(s.points))
	copy(points, s.points)
	return TrendsSnapshot{
		Period:       s.period,
		Points:       points,
		LastUpdated:  s.trendsUpdated,
		IsOptimistic: s.trendsOptimistic,
	}
}

// PushEvent prepends an event to the bounded event log.
func (s *Store) PushEvent(ev models.PaymentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append([]models.PaymentEvent{ev}, s.events...)
	if len(s.events) > s.eventCap {
		s.events = s.events[:s.eventCap]
	}
}

// Events returns a copy of the event log, newest first.
func (s *Store) Events() []models.PaymentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PaymentEvent, len(s.events))
	copy(out, s.events)
	return out
}

// SetConnection records stream health.
func (s *Store) SetConnection(status, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = ConnectionState{Status: status, Message: message}
}

// Connection returns the current stream health.
func (s *Store) Connection() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func successCountFromRate(rate float64, count int64) int64 {
	return int64(math.Round(rate / 100 * float64(count)))
}
