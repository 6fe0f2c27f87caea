package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paydash/internal/errors"
	"paydash/internal/models"
)

const paymentsCollection = "payments"

type mongoPaymentRepository struct {
	col *mongo.Collection
}

// NewPaymentRepository creates a payment repository backed by the given
// database.
func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepository{col: db.Collection(paymentsCollection)}
}

// EnsureIndexes creates the compound indexes the analytics queries rely on:
//
//	(tenantId, createdAt desc)          main range queries
//	(tenantId, status, createdAt desc)  status filtering
//	(tenantId, method)                  method analytics
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(paymentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "method", Value: 1}}},
	})
	return err
}

func (r *mongoPaymentRepository) Insert(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.TenantID == "" {
		return nil, errors.ErrTenantRequired
	}

	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	if payment.UpdatedAt.Before(payment.CreatedAt) {
		payment.UpdatedAt = payment.CreatedAt
	}

	res, err := r.col.InsertOne(ctx, payment)
	if err != nil {
		return nil, errors.ErrStoreUnavailable.WithCause(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}
	return payment, nil
}

func (r *mongoPaymentRepository) Find(ctx context.Context, tenantID string, filter models.PaymentFilter) ([]models.Payment, error) {
	if tenantID == "" {
		return nil, errors.ErrTenantRequired
	}

	query := bson.M{"tenantId": tenantID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Method != "" {
		query["method"] = filter.Method
	}
	if !filter.StartDate.IsZero() || !filter.EndDate.IsZero() {
		created := bson.M{}
		if !filter.StartDate.IsZero() {
			created["$gte"] = filter.StartDate
		}
		if !filter.EndDate.IsZero() {
			created["$lte"] = filter.EndDate
		}
		query["createdAt"] = created
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Skip)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.ErrStoreUnavailable.WithCause(err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, errors.ErrStoreUnavailable.WithCause(err)
	}
	return payments, nil
}

func (r *mongoPaymentRepository) Count(ctx context.Context, tenantID string, status string) (int64, error) {
	if tenantID == "" {
		return 0, errors.ErrTenantRequired
	}
	query := bson.M{"tenantId": tenantID}
	if status != "" {
		query["status"] = status
	}
	n, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return 0, errors.ErrStoreUnavailable.WithCause(err)
	}
	return n, nil
}

func (r *mongoPaymentRepository) DeleteAll(ctx context.Context, tenantID string) (int64, error) {
	if tenantID == "" {
		return 0, errors.ErrTenantRequired
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"tenantId": tenantID})
	if err != nil {
		return 0, errors.ErrStoreUnavailable.WithCause(err)
	}
	return res.DeletedCount, nil
}

// Aggregate prepends the tenant $match so a pipeline can never escape its
// tenant scope.
func (r *mongoPaymentRepository) Aggregate(ctx context.Context, tenantID string, pipeline mongo.Pipeline, results interface{}) error {
	if tenantID == "" {
		return errors.ErrTenantRequired
	}
	full := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tenantId": tenantID}}},
	}, pipeline...)

	cursor, err := r.col.Aggregate(ctx, full)
	if err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}
	return nil
}
