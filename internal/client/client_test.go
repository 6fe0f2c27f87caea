package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydash/internal/errors"
	"paydash/internal/models"
)

func trendServer(perPeriod map[string][]models.TrendPoint) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/metrics", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Metrics{})
	})
	mux.HandleFunc("/api/analytics/trends", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(perPeriod[r.URL.Query().Get("period")])
	})
	return httptest.NewServer(mux)
}

func newDashboard(baseURL string) *Dashboard {
	return New(Config{
		APIBaseURL:    baseURL,
		WSURL:         "ws://127.0.0.1:1/ws/payments",
		TenantID:      "tenant-alpha",
		FlushInterval: time.Hour,
	})
}

func TestChangePeriod(t *testing.T) {
	srv := trendServer(map[string][]models.TrendPoint{
		models.PeriodWeek: {
			{Timestamp: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), Amount: 900, Count: 9, SuccessRate: 100},
		},
	})
	defer srv.Close()

	d := newDashboard(srv.URL)
	d.Store.SetTrends(models.PeriodDay, []models.TrendPoint{
		{Timestamp: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Amount: 10, Count: 1, SuccessRate: 100},
	})

	require.NoError(t, d.ChangePeriod(context.Background(), models.PeriodWeek))

	trends := d.Store.Trends()
	assert.Equal(t, models.PeriodWeek, trends.Period)
	require.Len(t, trends.Points, 1)
	assert.Equal(t, 900.0, trends.Points[0].Amount)
	assert.False(t, trends.IsOptimistic)
}

func TestChangePeriodInvalid(t *testing.T) {
	d := newDashboard("http://127.0.0.1:1")
	assert.ErrorIs(t, d.ChangePeriod(context.Background(), "hour"), errors.ErrInvalidPeriod)
}

func TestChangePeriodAppliesBufferedEventsAfterReplace(t *testing.T) {
	srv := trendServer(map[string][]models.TrendPoint{models.PeriodWeek: {}})
	defer srv.Close()

	d := newDashboard(srv.URL)
	d.Store.SetMetrics(models.Metrics{})
	d.Store.SetTrends(models.PeriodDay, nil)

	// an event arrives while the dashboard is mid period-change; buffering
	// it through Suspend means it lands on the new series, not the old one
	d.dispatcher.Suspend()
	d.dispatcher.Enqueue(models.PaymentEvent{
		Payment: models.Payment{
			Amount:    40,
			Status:    models.PaymentStatusSuccess,
			CreatedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
		},
	})
	d.dispatcher.Resume()

	require.NoError(t, d.ChangePeriod(context.Background(), models.PeriodWeek))

	// replay one more buffered-style event after the switch
	d.dispatcher.Enqueue(models.PaymentEvent{
		Payment: models.Payment{
			Amount:    60,
			Status:    models.PaymentStatusSuccess,
			CreatedAt: time.Date(2025, 5, 2, 11, 0, 0, 0, time.UTC),
		},
	})
	d.dispatcher.Flush()

	trends := d.Store.Trends()
	assert.Equal(t, models.PeriodWeek, trends.Period)
	require.Len(t, trends.Points, 1)
	assert.Equal(t, 60.0, trends.Points[0].Amount)
	assert.True(t, trends.IsOptimistic)
}

func TestChangePeriodLatestWins(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/trends", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("period") == models.PeriodWeek {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		json.NewEncoder(w).Encode([]models.TrendPoint{
			{Timestamp: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Amount: 1, Count: 1, SuccessRate: 100},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := newDashboard(srv.URL)

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- d.ChangePeriod(context.Background(), models.PeriodWeek)
	}()

	// wait for the slow fetch to be in flight, then supersede it
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, d.ChangePeriod(context.Background(), models.PeriodMonth))
	close(release)

	err := <-slowDone
	assert.Error(t, err)
	assert.Equal(t, models.PeriodMonth, d.Store.Trends().Period)
}

func TestAlertsChannel(t *testing.T) {
	srv := trendServer(nil)
	defer srv.Close()

	d := New(Config{
		APIBaseURL:           srv.URL,
		WSURL:                "ws://127.0.0.1:1/ws/payments",
		TenantID:             "tenant-alpha",
		FlushInterval:        time.Hour,
		VolumeAlertThreshold: 100,
	})
	d.Store.SetMetrics(models.Metrics{})
	d.Store.SetTrends(models.PeriodDay, nil)

	d.dispatcher.Enqueue(models.PaymentEvent{
		Payment: models.Payment{
			Amount:    250,
			Status:    models.PaymentStatusSuccess,
			CreatedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
		},
	})
	d.dispatcher.Flush()

	select {
	case alert := <-d.Alerts():
		assert.Equal(t, "volumeThreshold", alert.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a volume alert")
	}
}
