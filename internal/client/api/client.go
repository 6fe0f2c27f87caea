// Package api is the dashboard's HTTP client for the analytics query
// surface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"paydash/internal/errors"
	"paydash/internal/models"
)

// DefaultTimeout bounds each reconciliation request.
const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL  string
	tenantID string
	http     *http.Client
}

func NewClient(baseURL, tenantID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  baseURL,
		tenantID: tenantID,
		http:     &http.Client{Timeout: timeout},
	}
}

// GetMetrics fetches the authoritative metrics snapshot.
func (c *Client) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	var metrics models.Metrics
	if err := c.get(ctx, "/api/analytics/metrics", &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// GetTrends fetches the authoritative trend series for a period.
func (c *Client) GetTrends(ctx context.Context, period string) ([]models.TrendPoint, error) {
	var trends []models.TrendPoint
	if err := c.get(ctx, "/api/analytics/trends?period="+period, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Tenant-Id", c.tenantID)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.ErrStoreUnavailable.WithCause(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
