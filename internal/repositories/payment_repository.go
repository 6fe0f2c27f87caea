package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"paydash/internal/models"
)

// PaymentRepository is the tenant-scoped payment store contract.
// No cross-tenant operation is exposed; every method validates the tenant
// before touching the store.
type PaymentRepository interface {
	// Insert appends a payment and returns it with its assigned id.
	Insert(ctx context.Context, payment *models.Payment) (*models.Payment, error)

	// Find lists a tenant's payments, newest first, honoring the filter.
	Find(ctx context.Context, tenantID string, filter models.PaymentFilter) ([]models.Payment, error)

	// Count counts a tenant's payments, optionally by status.
	Count(ctx context.Context, tenantID string, status string) (int64, error)

	// DeleteAll removes every payment of a tenant. Test fixtures only; the
	// live path never deletes.
	DeleteAll(ctx context.Context, tenantID string) (int64, error)

	// Aggregate runs a single-pass aggregation pipeline scoped to the tenant
	// and decodes all result rows into results (a pointer to a slice).
	Aggregate(ctx context.Context, tenantID string, pipeline mongo.Pipeline, results interface{}) error
}
