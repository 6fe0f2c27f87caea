// Package wsclient maintains the live event stream: it dials the gateway,
// pushes decoded payment events into the batching dispatcher and mirrors
// transport health in the read model.
package wsclient

import (
	"context"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/sirupsen/logrus"

	"paydash/internal/client/dispatcher"
	"paydash/internal/client/readmodel"
	"paydash/internal/models"
)

// Reconnect policy defaults: exponential backoff with a fixed base delay
// and a bounded attempt count.
const (
	DefaultBaseDelay   = 3 * time.Second
	DefaultMaxAttempts = 8
)

type Config struct {
	URL         string // ws://host:port/ws/payments
	TenantID    string
	BaseDelay   time.Duration
	MaxAttempts int
}

type Client struct {
	cfg        Config
	store      *readmodel.Store
	dispatcher *dispatcher.Dispatcher

	// connect reports whether the dial succeeded before the session ended.
	connect func(ctx context.Context) (bool, error)
}

func New(cfg Config, store *readmodel.Store, disp *dispatcher.Dispatcher) *Client {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	c := &Client{cfg: cfg, store: store, dispatcher: disp}
	c.connect = c.connectAndRead
	return c
}

// frame is the tagged union of everything the gateway can send.
type frame struct {
	Type      string          `json:"type"`
	Status    string          `json:"status,omitempty"`
	Message   string          `json:"message,omitempty"`
	Payment   *models.Payment `json:"payment,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// Run maintains the connection until ctx is cancelled or the reconnect
// budget is exhausted. Reconnection is the client's job; the server never
// retries a session. The attempt budget and the backoff cover one outage:
// a successful connection resets both, so a long-lived stream survives any
// number of separate blips.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		connected, err := c.connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			attempt = 0
		}

		c.store.SetConnection(models.ConnDisconnected, err.Error())
		attempt++
		if attempt >= c.cfg.MaxAttempts {
			c.store.SetConnection(models.ConnError, "reconnect attempts exhausted")
			return err
		}

		delay := c.cfg.BaseDelay << (attempt - 1)
		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Warn("stream disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) (bool, error) {
	url := c.cfg.URL
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url+sep+"tenantId="+c.cfg.TenantID, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// Close the transport as soon as the context is cancelled so the read
	// loop unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c.store.SetConnection(models.ConnConnected, "")

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return true, err
		}
		c.handle(f)
	}
}

func (c *Client) handle(f frame) {
	switch f.Type {
	case models.FrameConnectionStatus:
		c.store.SetConnection(f.Status, f.Message)
	case models.FrameError:
		c.store.SetConnection(models.ConnError, f.Message)
	case models.EventPaymentReceived, models.EventPaymentFailed, models.EventPaymentRefunded:
		if f.Payment == nil {
			return
		}
		ev := models.PaymentEvent{
			Type:      f.Type,
			Payment:   *f.Payment,
			Timestamp: f.Timestamp,
		}
		c.store.PushEvent(ev)
		c.dispatcher.Enqueue(ev)
	default:
		logrus.WithField("type", f.Type).Debug("ignoring unknown frame")
	}
}
