// Package payment owns the write path: validate, persist, invalidate the
// analytics cache, publish the created event. The gateway learns about new
// payments only through the bus.
package payment

import (
	"context"

	"github.com/sirupsen/logrus"

	"paydash/internal/events"
	"paydash/internal/models"
	"paydash/internal/repositories"
	"paydash/internal/repositories/cache"
	"paydash/internal/validation"
)

// Service is the payment write and listing contract.
type Service interface {
	Create(ctx context.Context, tenantID string, req models.CreatePaymentRequest) (*models.Payment, error)
	List(ctx context.Context, tenantID string, filter models.PaymentFilter) ([]models.Payment, error)
	DeleteAll(ctx context.Context, tenantID string) (int64, error)
}

type service struct {
	repo  repositories.PaymentRepository
	bus   *events.Bus
	cache *cache.CacheService
}

// NewService creates a payment service. cacheSvc may be nil.
func NewService(repo repositories.PaymentRepository, bus *events.Bus, cacheSvc *cache.CacheService) Service {
	return &service{repo: repo, bus: bus, cache: cacheSvc}
}

// Create validates and persists one payment, then publishes payment.created.
// Publish follows the insert, so per-request event order matches insertion
// order.
func (s *service) Create(ctx context.Context, tenantID string, req models.CreatePaymentRequest) (*models.Payment, error) {
	if err := validation.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		TenantID:  tenantID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}

	stored, err := s.repo.Insert(ctx, payment)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
			logrus.WithError(err).WithField("tenantId", tenantID).Debug("cache invalidation failed")
		}
	}

	s.bus.Publish(events.PaymentCreated{
		TenantID:  tenantID,
		Payment:   *stored,
		EventType: models.EventTypeForStatus(stored.Status),
	})

	return stored, nil
}

func (s *service) List(ctx context.Context, tenantID string, filter models.PaymentFilter) ([]models.Payment, error) {
	if err := validation.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, tenantID, filter)
}

// DeleteAll exists for test fixtures only.
func (s *service) DeleteAll(ctx context.Context, tenantID string) (int64, error) {
	if err := validation.ValidateTenantID(tenantID); err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
			logrus.WithError(err).WithField("tenantId", tenantID).Debug("cache invalidation failed")
		}
	}
	return s.repo.DeleteAll(ctx, tenantID)
}
