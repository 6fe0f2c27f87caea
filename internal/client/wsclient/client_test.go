package wsclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydash/internal/client/dispatcher"
	"paydash/internal/client/readmodel"
	"paydash/internal/models"
)

func newTestClient() (*Client, *readmodel.Store, *dispatcher.Dispatcher) {
	store := readmodel.NewStore(0)
	disp := dispatcher.New(store, nil, time.Hour)
	c := New(Config{
		URL:         "ws://127.0.0.1:1/ws/payments",
		TenantID:    "tenant-alpha",
		BaseDelay:   time.Millisecond,
		MaxAttempts: 3,
	}, store, disp)
	return c, store, disp
}

func TestHandlePaymentFrame(t *testing.T) {
	c, store, disp := newTestClient()

	at := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	c.handle(frame{
		Type:      models.EventPaymentReceived,
		Payment:   &models.Payment{TenantID: "tenant-alpha", Amount: 75, Status: models.PaymentStatusSuccess, CreatedAt: at},
		Timestamp: at,
	})

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventPaymentReceived, events[0].Type)
	assert.Equal(t, 75.0, events[0].Payment.Amount)

	// the event is buffered, not applied, until the batch window closes
	assert.Equal(t, 1, disp.Pending())
}

func TestHandlePaymentFrameWithoutPayment(t *testing.T) {
	c, store, disp := newTestClient()

	c.handle(frame{Type: models.EventPaymentFailed})

	assert.Empty(t, store.Events())
	assert.Zero(t, disp.Pending())
}

func TestHandleConnectionStatusFrame(t *testing.T) {
	c, store, _ := newTestClient()

	c.handle(frame{Type: models.FrameConnectionStatus, Status: models.ConnConnected})
	assert.Equal(t, models.ConnConnected, store.Connection().Status)
}

func TestHandleErrorFrame(t *testing.T) {
	c, store, _ := newTestClient()

	c.handle(frame{Type: models.FrameError, Message: "invalid tenantId"})
	conn := store.Connection()
	assert.Equal(t, models.ConnError, conn.Status)
	assert.Equal(t, "invalid tenantId", conn.Message)
}

func TestHandleUnknownFrame(t *testing.T) {
	c, store, disp := newTestClient()

	assert.NotPanics(t, func() { c.handle(frame{Type: "heartbeat"}) })
	assert.Empty(t, store.Events())
	assert.Zero(t, disp.Pending())
}

func TestRunResetsAttemptBudgetAfterReconnect(t *testing.T) {
	c, store, _ := newTestClient()

	// Blips separated by healthy sessions, then a sustained outage. Each
	// healthy session must reset the budget; without the reset the run
	// would already die on the third disconnect.
	script := []bool{
		false, false, true, // two failed dials, then reconnected
		false, true, // brief blip, reconnected again
		false, false, // sustained outage exhausts the fresh budget of 3
	}
	calls := 0
	c.connect = func(ctx context.Context) (bool, error) {
		connected := script[calls]
		calls++
		if connected {
			store.SetConnection(models.ConnConnected, "")
		}
		return connected, assert.AnError
	}

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, len(script), calls)
	assert.Equal(t, models.ConnError, store.Connection().Status)
}

func TestRunExhaustsReconnectBudget(t *testing.T) {
	c, store, _ := newTestClient()

	err := c.Run(context.Background())
	require.Error(t, err)

	conn := store.Connection()
	assert.Equal(t, models.ConnError, conn.Status)
	assert.Equal(t, "reconnect attempts exhausted", conn.Message)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	c, _, _ := newTestClient()
	c.cfg.BaseDelay = time.Hour
	c.cfg.MaxAttempts = 100

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not stop on cancel")
	}
}
