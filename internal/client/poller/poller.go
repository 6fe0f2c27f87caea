// Package poller reconciles the read model against the query surface. It
// polls only while the live stream is unhealthy; a healthy stream makes
// polling redundant.
package poller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"paydash/internal/client/api"
	"paydash/internal/client/dispatcher"
	"paydash/internal/client/readmodel"
	"paydash/internal/models"
)

// DefaultInterval is the reconciliation cadence while the stream is down.
const DefaultInterval = 30 * time.Second

type Poller struct {
	api        *api.Client
	store      *readmodel.Store
	dispatcher *dispatcher.Dispatcher
	interval   time.Duration
}

func New(apiClient *api.Client, store *readmodel.Store, disp *dispatcher.Dispatcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{api: apiClient, store: store, dispatcher: disp, interval: interval}
}

// Run polls on a fixed cadence until ctx is cancelled. Polling is suspended
// while the stream reports connected.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.store.Connection().Status == models.ConnConnected {
				continue
			}
			p.Refresh(ctx)
		}
	}
}

// Refresh performs one authoritative fetch of both datasets. A failed fetch
// keeps the last known snapshot; the next cycle tries again.
func (p *Poller) Refresh(ctx context.Context) {
	pending := p.dispatcher.Pending()
	if pending > 0 {
		// Apply stragglers before the replace so no delta is silently lost.
		p.dispatcher.Flush()
	}

	if metrics, err := p.api.GetMetrics(ctx); err != nil {
		logrus.WithError(err).Warn("metrics reconciliation failed")
	} else {
		p.store.SetMetrics(*metrics)
	}

	period := p.store.Period()
	if trends, err := p.api.GetTrends(ctx, period); err != nil {
		logrus.WithError(err).Warn("trends reconciliation failed")
	} else {
		p.store.SetTrends(period, trends)
	}
}
