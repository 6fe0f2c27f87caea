package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydash/internal/errors"
	"paydash/internal/middleware"
	"paydash/internal/models"
)

type stubAnalytics struct {
	metrics *models.Metrics
	trends  []models.TrendPoint
	err     error

	gotTenant string
	gotRange  *models.DateRange
	gotPeriod string
}

func (s *stubAnalytics) GetMetrics(ctx context.Context, tenantID string, rng *models.DateRange) (*models.Metrics, error) {
	s.gotTenant = tenantID
	s.gotRange = rng
	if s.err != nil {
		return nil, s.err
	}
	return s.metrics, nil
}

func (s *stubAnalytics) GetTrends(ctx context.Context, tenantID string, period string) ([]models.TrendPoint, error) {
	s.gotTenant = tenantID
	s.gotPeriod = period
	if s.err != nil {
		return nil, s.err
	}
	return s.trends, nil
}

func analyticsApp(stub *stubAnalytics) *fiber.App {
	app := fiber.New()
	h := NewAnalyticsHandler(stub)
	api := app.Group("/api", middleware.RequireTenant)
	api.Get("/analytics/metrics", h.GetMetrics)
	api.Get("/analytics/trends", h.GetTrends)
	return app
}

func TestGetMetricsHandler(t *testing.T) {
	stub := &stubAnalytics{metrics: &models.Metrics{
		TotalVolume:      600,
		TotalCount:       3,
		SuccessRate:      66.7,
		AverageAmount:    200,
		TopPaymentMethod: "upi",
		PeakHour:         10,
	}}
	app := analyticsApp(stub)

	req := httptest.NewRequest("GET", "/api/analytics/metrics", nil)
	req.Header.Set("X-Tenant-Id", "tenant-alpha")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.Metrics
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, *stub.metrics, got)
	assert.Equal(t, "tenant-alpha", stub.gotTenant)
	assert.Nil(t, stub.gotRange)
}

func TestGetMetricsHandler_DateRange(t *testing.T) {
	stub := &stubAnalytics{metrics: &models.Metrics{}}
	app := analyticsApp(stub)

	req := httptest.NewRequest("GET", "/api/analytics/metrics?startDate=2025-01-01&endDate=2025-02-01", nil)
	req.Header.Set("X-Tenant-Id", "tenant-alpha")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, stub.gotRange)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), stub.gotRange.Start)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), stub.gotRange.End)
}

func TestGetMetricsHandler_BadRange(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"start only", "?startDate=2025-01-01"},
		{"end only", "?endDate=2025-01-01"},
		{"unparseable", "?startDate=yesterday&endDate=today"},
		{"inverted", "?startDate=2025-02-01&endDate=2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := analyticsApp(&stubAnalytics{metrics: &models.Metrics{}})
			req := httptest.NewRequest("GET", "/api/analytics/metrics"+tt.query, nil)
			req.Header.Set("X-Tenant-Id", "tenant-alpha")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetMetricsHandler_StoreDown(t *testing.T) {
	stub := &stubAnalytics{err: errors.ErrStoreUnavailable}
	app := analyticsApp(stub)

	req := httptest.NewRequest("GET", "/api/analytics/metrics", nil)
	req.Header.Set("X-Tenant-Id", "tenant-alpha")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "STORE_UNAVAILABLE", body["code"])
}

func TestGetTrendsHandler(t *testing.T) {
	stub := &stubAnalytics{trends: []models.TrendPoint{
		{Timestamp: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), Amount: 500, Count: 2, SuccessRate: 50},
	}}
	app := analyticsApp(stub)

	req := httptest.NewRequest("GET", "/api/analytics/trends?period=day", nil)
	req.Header.Set("X-Tenant-Id", "tenant-alpha")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "day", stub.gotPeriod)

	var got []models.TrendPoint
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, 500.0, got[0].Amount)
}

func TestGetTrendsHandler_BadPeriod(t *testing.T) {
	for _, period := range []string{"", "hour", "DAY"} {
		app := analyticsApp(&stubAnalytics{})
		req := httptest.NewRequest("GET", "/api/analytics/trends?period="+period, nil)
		req.Header.Set("X-Tenant-Id", "tenant-alpha")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "period %q", period)
	}
}

func TestAnalyticsRequiresTenant(t *testing.T) {
	app := analyticsApp(&stubAnalytics{})
	req := httptest.NewRequest("GET", "/api/analytics/metrics", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
