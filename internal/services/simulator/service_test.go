package simulator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydash/internal/errors"
	"paydash/internal/models"
)

type countingPayments struct {
	created atomic.Int64
}

func (c *countingPayments) Create(ctx context.Context, tenantID string, req models.CreatePaymentRequest) (*models.Payment, error) {
	c.created.Add(1)
	return &models.Payment{
		TenantID: tenantID,
		Amount:   req.Amount,
		Method:   req.Method,
		Status:   req.Status,
	}, nil
}

func (c *countingPayments) List(ctx context.Context, tenantID string, filter models.PaymentFilter) ([]models.Payment, error) {
	return nil, nil
}

func (c *countingPayments) DeleteAll(ctx context.Context, tenantID string) (int64, error) {
	return 0, nil
}

func TestStartValidation(t *testing.T) {
	svc := NewService(&countingPayments{})

	_, err := svc.Start("bad-tenant", 10)
	assert.ErrorIs(t, err, errors.ErrInvalidTenant)

	for _, rate := range []int{0, -1, 61} {
		_, err := svc.Start("tenant-alpha", rate)
		assert.ErrorIs(t, err, errors.ErrInvalidRate, "rate %d", rate)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	payments := &countingPayments{}
	svc := NewService(payments)

	status, err := svc.Start("tenant-alpha", 60)
	require.NoError(t, err)
	assert.Equal(t, "tenant-alpha", status.TenantID)
	assert.Equal(t, 60, status.PaymentsPerMinute)
	assert.True(t, status.IsRunning)

	// the limiter grants the first token immediately
	assert.Eventually(t, func() bool {
		return payments.created.Load() >= 1
	}, time.Second, 10*time.Millisecond)

	report := svc.Status()
	assert.Equal(t, 1, report.ActiveSimulations)

	assert.True(t, svc.Stop("tenant-alpha"))
	assert.False(t, svc.Stop("tenant-alpha"))
	assert.Zero(t, svc.Status().ActiveSimulations)
}

func TestRestartReplacesRun(t *testing.T) {
	svc := NewService(&countingPayments{})

	_, err := svc.Start("tenant-alpha", 5)
	require.NoError(t, err)
	status, err := svc.Start("tenant-alpha", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, status.PaymentsPerMinute)

	report := svc.Status()
	require.Equal(t, 1, report.ActiveSimulations)
	assert.Equal(t, 20, report.Simulations[0].PaymentsPerMinute)

	svc.StopAll()
}

func TestStopAll(t *testing.T) {
	svc := NewService(&countingPayments{})

	_, err := svc.Start("tenant-a", 5)
	require.NoError(t, err)
	_, err = svc.Start("tenant-b", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, svc.StopAll())
	assert.Zero(t, svc.Status().ActiveSimulations)
	assert.Zero(t, svc.StopAll())
}

func TestRandomAmountBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		amount := randomAmount()
		assert.GreaterOrEqual(t, amount, 10.0)
		assert.LessOrEqual(t, amount, 10000.0)
		assert.Equal(t, amount, float64(int64(amount)), "whole units only")
	}
}

func TestRandomMethodAndStatusDomains(t *testing.T) {
	methods := map[string]bool{
		models.PaymentMethodUPI:        true,
		models.PaymentMethodCreditCard: true,
		models.PaymentMethodDebitCard:  true,
		models.PaymentMethodNetBanking: true,
		models.PaymentMethodWallet:     true,
	}
	statuses := map[string]bool{
		models.PaymentStatusSuccess:  true,
		models.PaymentStatusFailed:   true,
		models.PaymentStatusRefunded: true,
	}

	for i := 0; i < 1000; i++ {
		assert.True(t, methods[randomMethod()])
		assert.True(t, statuses[randomStatus()])
	}
}
