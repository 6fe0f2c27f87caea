package readmodel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Alert types
const (
	AlertFailureSpike    = "failureSpike"
	AlertVolumeThreshold = "volumeThreshold"
)

// failureWindowSize is how many prior bucket failure rates the spike rule
// averages over.
const failureWindowSize = 9

// Alert is an advisory notification derived from trend deltas. It is not
// part of the data model and is never persisted.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Alerter observes trend bucket updates and emits failure-spike and
// volume-threshold notifications, de-duplicated against the last emitted
// value for each kind.
type Alerter struct {
	volumeThreshold float64
	notify          func(Alert)

	window []float64

	lastSpikeRate  float64
	hasSpike       bool
	lastVolume     float64
	hasVolumeAlert bool
}

// NewAlerter creates an alerter; notify is invoked synchronously on each
// emitted alert and must not block.
func NewAlerter(volumeThreshold float64, notify func(Alert)) *Alerter {
	return &Alerter{volumeThreshold: volumeThreshold, notify: notify}
}

// Observe evaluates the just-updated bucket. The failure rate is compared
// against the trailing mean of the prior buckets; a spike fires when it
// exceeds twice that mean and 10%.
func (a *Alerter) Observe(p Point) {
	failureRate := 100 - p.SuccessRate

	trailingMean := 0.0
	if len(a.window) > 0 {
		sum := 0.0
		for _, v := range a.window {
			sum += v
		}
		trailingMean = sum / float64(len(a.window))
	}

	a.window = append(a.window, failureRate)
	if len(a.window) > failureWindowSize {
		a.window = a.window[1:]
	}

	if failureRate > trailingMean*2 && failureRate > 10 {
		if !a.hasSpike || a.lastSpikeRate != failureRate {
			a.hasSpike = true
			a.lastSpikeRate = failureRate
			a.emit(AlertFailureSpike, fmt.Sprintf("failure rate spiked to %.1f%%", failureRate))
		}
	}

	if a.volumeThreshold > 0 && p.Amount > a.volumeThreshold {
		if !a.hasVolumeAlert || a.lastVolume != p.Amount {
			a.hasVolumeAlert = true
			a.lastVolume = p.Amount
			a.emit(AlertVolumeThreshold, fmt.Sprintf("high transaction volume: %.0f", p.Amount))
		}
	}
}

func (a *Alerter) emit(kind, message string) {
	if a.notify == nil {
		return
	}
	a.notify(Alert{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Timestamp: time.Now(),
	})
}
