// Package models defines the domain entities and wire DTOs shared by the
// server and the dashboard client.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses
const (
	PaymentStatusSuccess  = "success"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment methods
const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetBanking = "net_banking"
	PaymentMethodWallet     = "wallet"
)

// Payment is the authoritative payment record. Everything except the
// timestamps is immutable once inserted; the live path never updates or
// deletes a payment.
type Payment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	TenantID  string             `json:"tenantId" bson:"tenantId"`
	Amount    float64            `json:"amount" bson:"amount"`
	Method    string             `json:"method" bson:"method"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreatePaymentRequest is the body of the create-payment operation.
type CreatePaymentRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Method string  `json:"method" validate:"required,oneof=credit_card debit_card upi net_banking wallet"`
	Status string  `json:"status" validate:"required,oneof=success failed refunded"`

	// CreatedAt lets seed scripts and tests backdate records; zero means now.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// PaymentFilter narrows a tenant-scoped payment listing.
type PaymentFilter struct {
	Status    string
	Method    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int64
	Skip      int64
}
