// Package dispatcher coalesces the high-frequency event stream into
// periodic read-model updates so the dashboard is not re-rendered per event.
package dispatcher

import (
	"sync"
	"time"

	"paydash/internal/client/readmodel"
	"paydash/internal/models"
)

// DefaultFlushInterval is the batching window for incoming events.
const DefaultFlushInterval = time.Second

// Dispatcher buffers incoming payment events and applies them on a flush:
// one collapsed metrics delta for the whole batch, plus one trend
// application per event because events in a window may land in different
// buckets. While suspended it keeps buffering without applying, so events
// arriving during an authoritative fetch survive until after the replace.
type Dispatcher struct {
	store   *readmodel.Store
	alerter *readmodel.Alerter

	interval time.Duration

	mu        sync.Mutex
	buffer    []models.PaymentEvent
	timer     *time.Timer
	suspended bool
}

// New creates a dispatcher. alerter may be nil; interval <= 0 selects the
// default window.
func New(store *readmodel.Store, alerter *readmodel.Alerter, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Dispatcher{store: store, alerter: alerter, interval: interval}
}

// Enqueue buffers one event and arms the flush timer if none is pending.
func (d *Dispatcher) Enqueue(ev models.PaymentEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buffer = append(d.buffer, ev)
	if d.timer == nil && !d.suspended {
		d.timer = time.AfterFunc(d.interval, d.Flush)
	}
}

// Flush applies the buffered batch now. Within one flush, trend deltas are
// applied in arrival order.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.suspended {
		d.mu.Unlock()
		return
	}
	batch := d.buffer
	d.buffer = nil
	d.mu.Unlock()

	d.apply(batch)
}

// Suspend pauses applications while keeping the buffer; used across
// period changes and authoritative fetches.
func (d *Dispatcher) Suspend() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suspended = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Resume lifts a suspension and immediately applies whatever buffered while
// suspended.
func (d *Dispatcher) Resume() {
	d.mu.Lock()
	d.suspended = false
	batch := d.buffer
	d.buffer = nil
	d.mu.Unlock()

	d.apply(batch)
}

// Pending reports how many events are waiting for the next flush.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffer)
}

func (d *Dispatcher) apply(batch []models.PaymentEvent) {
	if len(batch) == 0 {
		return
	}

	var delta readmodel.MetricsDelta
	for _, ev := range batch {
		delta.TotalVolume += ev.Payment.Amount
		delta.TotalCount++
		switch ev.Payment.Status {
		case models.PaymentStatusSuccess:
			delta.SuccessCount++
		case models.PaymentStatusFailed:
			delta.FailedCount++
		case models.PaymentStatusRefunded:
			delta.RefundedCount++
		}
	}
	// A nil baseline is fine: the first authoritative fetch will carry
	// these payments anyway.
	_ = d.store.ApplyMetricsDelta(delta)

	for _, ev := range batch {
		point, err := d.store.ApplyTrendEvent(ev)
		if err == nil && d.alerter != nil {
			d.alerter.Observe(point)
		}
	}
}
