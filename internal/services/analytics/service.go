// Package analytics turns a tenant's stored payments into metrics snapshots
// and trend series, one aggregation round-trip per request.
package analytics

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"paydash/internal/errors"
	"paydash/internal/models"
	"paydash/internal/repositories"
	"paydash/internal/repositories/cache"
)

// Service computes derived analytics for one tenant at a time. It is
// stateless and safe for concurrent use.
type Service interface {
	GetMetrics(ctx context.Context, tenantID string, rng *models.DateRange) (*models.Metrics, error)
	GetTrends(ctx context.Context, tenantID string, period string) ([]models.TrendPoint, error)
}

type service struct {
	repo  repositories.PaymentRepository
	cache *cache.CacheService
}

// NewService creates an analytics service. cacheSvc may be nil; results are
// then always recomputed.
func NewService(repo repositories.PaymentRepository, cacheSvc *cache.CacheService) Service {
	return &service{repo: repo, cache: cacheSvc}
}

// GetMetrics runs the single-pass metrics pipeline and maps the facet rows
// onto the Metrics shape. Empty selections yield the documented defaults.
func (s *service) GetMetrics(ctx context.Context, tenantID string, rng *models.DateRange) (*models.Metrics, error) {
	if tenantID == "" {
		return nil, errors.ErrTenantRequired
	}
	if rng != nil && rng.End.Before(rng.Start) {
		return nil, errors.ErrInvalidDateRange
	}

	key := cache.MetricsKey(tenantID, rangeTag(rng))
	if s.cache != nil {
		var cached models.Metrics
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	var facets []metricsFacet
	if err := s.repo.Aggregate(ctx, tenantID, buildMetricsPipeline(rng), &facets); err != nil {
		return nil, err
	}
	var facet metricsFacet
	if len(facets) > 0 {
		facet = facets[0]
	}
	metrics := buildMetrics(facet)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, metrics); err != nil {
			logrus.WithError(err).WithField("tenantId", tenantID).Debug("metrics cache write failed")
		}
	}
	return metrics, nil
}

// GetTrends groups payments into period buckets and returns them in
// chronological order. Buckets with zero payments are absent.
func (s *service) GetTrends(ctx context.Context, tenantID string, period string) ([]models.TrendPoint, error) {
	if tenantID == "" {
		return nil, errors.ErrTenantRequired
	}
	if !models.ValidPeriod(period) {
		return nil, errors.ErrInvalidPeriod
	}

	key := cache.TrendsKey(tenantID, period)
	if s.cache != nil {
		var cached []models.TrendPoint
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var rows []trendRow
	if err := s.repo.Aggregate(ctx, tenantID, buildTrendsPipeline(period), &rows); err != nil {
		return nil, err
	}
	points := buildTrendPoints(period, rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, points); err != nil {
			logrus.WithError(err).WithField("tenantId", tenantID).Debug("trends cache write failed")
		}
	}
	return points, nil
}

func rangeTag(rng *models.DateRange) string {
	if rng == nil {
		return "all"
	}
	return fmt.Sprintf("%d-%d", rng.Start.Unix(), rng.End.Unix())
}
