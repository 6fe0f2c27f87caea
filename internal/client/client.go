// Package client assembles the dashboard read model: the store, the live
// stream, the batching dispatcher, the reconciliation poller and the alert
// observer, as named tasks with explicit cancellation.
package client

import (
	"context"
	"sync"
	"time"

	"paydash/internal/client/api"
	"paydash/internal/client/dispatcher"
	"paydash/internal/client/poller"
	"paydash/internal/client/readmodel"
	"paydash/internal/client/wsclient"
	"paydash/internal/errors"
	"paydash/internal/models"
)

type Config struct {
	APIBaseURL string
	WSURL      string
	TenantID   string

	FlushInterval        time.Duration
	PollInterval         time.Duration
	RequestTimeout       time.Duration
	EventLogCap          int
	VolumeAlertThreshold float64

	ReconnectBaseDelay   time.Duration
	ReconnectMaxAttempts int
}

// Dashboard is one open dashboard instance for a single tenant.
type Dashboard struct {
	Store *readmodel.Store

	cfg        Config
	api        *api.Client
	dispatcher *dispatcher.Dispatcher
	stream     *wsclient.Client
	poller     *poller.Poller

	alerts chan readmodel.Alert

	mu          sync.Mutex
	trendCancel context.CancelFunc
}

func New(cfg Config) *Dashboard {
	store := readmodel.NewStore(cfg.EventLogCap)

	alerts := make(chan readmodel.Alert, 16)
	alerter := readmodel.NewAlerter(cfg.VolumeAlertThreshold, func(a readmodel.Alert) {
		select {
		case alerts <- a:
		default: // advisory only, drop on a full channel
		}
	})

	disp := dispatcher.New(store, alerter, cfg.FlushInterval)
	apiClient := api.NewClient(cfg.APIBaseURL, cfg.TenantID, cfg.RequestTimeout)

	return &Dashboard{
		Store:      store,
		cfg:        cfg,
		api:        apiClient,
		dispatcher: disp,
		stream: wsclient.New(wsclient.Config{
			URL:         cfg.WSURL,
			TenantID:    cfg.TenantID,
			BaseDelay:   cfg.ReconnectBaseDelay,
			MaxAttempts: cfg.ReconnectMaxAttempts,
		}, store, disp),
		poller: poller.New(apiClient, store, disp, cfg.PollInterval),
		alerts: alerts,
	}
}

// Alerts exposes the advisory notification stream.
func (d *Dashboard) Alerts() <-chan readmodel.Alert {
	return d.alerts
}

// Run fetches the initial snapshots and then keeps the stream and the
// reconciliation poller running until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	d.poller.Refresh(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = d.stream.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		d.poller.Run(ctx)
	}()
	wg.Wait()
	return ctx.Err()
}

// ChangePeriod switches the trend period: the overlay is cleared, events
// keep buffering while the authoritative series is fetched, and the buffer
// is applied after the replace. A period change cancels any still-pending
// trend fetch; the latest request wins.
func (d *Dashboard) ChangePeriod(ctx context.Context, period string) error {
	if !models.ValidPeriod(period) {
		return errors.ErrInvalidPeriod
	}

	d.mu.Lock()
	if d.trendCancel != nil {
		d.trendCancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	d.trendCancel = cancel
	d.mu.Unlock()

	d.dispatcher.Suspend()
	defer d.dispatcher.Resume()

	d.Store.SetPeriod(period)

	trends, err := d.api.GetTrends(fetchCtx, period)
	if err != nil {
		return err
	}
	// A newer ChangePeriod may have cancelled us between fetch and replace.
	if fetchCtx.Err() != nil {
		return fetchCtx.Err()
	}
	d.Store.SetTrends(period, trends)
	return nil
}
