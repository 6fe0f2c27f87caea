// Package handlers contains the HTTP layer. Handlers parse and validate
// request inputs, delegate to services and shape responses; they hold no
// business logic of their own.
package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"paydash/internal/middleware"
	"paydash/internal/models"
	"paydash/internal/services/analytics"
	"paydash/internal/utils/response"
)

// Accepted date formats for the metrics range parameters.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetMetrics serves GET /api/analytics/metrics?startDate&endDate.
// The range is optional but all-or-nothing: providing only one bound is a
// validation error.
func (h *AnalyticsHandler) GetMetrics(c *fiber.Ctx) error {
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return response.BadRequest(c, "startDate and endDate must both be valid dates with startDate <= endDate")
	}

	metrics, err := h.service.GetMetrics(c.Context(), middleware.Tenant(c), rng)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(metrics)
}

// GetTrends serves GET /api/analytics/trends?period=day|week|month.
func (h *AnalyticsHandler) GetTrends(c *fiber.Ctx) error {
	period := c.Query("period")
	if !models.ValidPeriod(period) {
		return response.BadRequest(c, "period must be one of day, week, month")
	}

	trends, err := h.service.GetTrends(c.Context(), middleware.Tenant(c), period)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(trends)
}

func parseDateRange(startRaw, endRaw string) (*models.DateRange, error) {
	if startRaw == "" && endRaw == "" {
		return nil, nil
	}
	start, err := parseDate(startRaw)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errInvalidRange
	}
	return &models.DateRange{Start: start, End: end}, nil
}

var errInvalidRange = errors.New("invalid date range")

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errInvalidRange
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errInvalidRange
}
