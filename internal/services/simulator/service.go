// Package simulator generates fake payments at a configured per-tenant rate.
// It only ever calls the create-payment operation; everything downstream
// treats simulated payments like real ones.
package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"paydash/internal/errors"
	"paydash/internal/models"
	"paydash/internal/services/payment"
	"paydash/internal/validation"
)

// Status describes one running simulation.
type Status struct {
	TenantID          string    `json:"tenantId"`
	PaymentsPerMinute int       `json:"paymentsPerMinute"`
	PaymentsSent      int64     `json:"paymentsSent"`
	StartedAt         time.Time `json:"startedAt"`
	RuntimeMinutes    int       `json:"runtimeMinutes"`
	IsRunning         bool      `json:"isRunning"`
}

// Report is the status of all running simulations.
type Report struct {
	ActiveSimulations int      `json:"activeSimulations"`
	Simulations       []Status `json:"simulations"`
}

type run struct {
	tenantID          string
	paymentsPerMinute int
	startedAt         time.Time
	cancel            context.CancelFunc

	mu   sync.Mutex
	sent int64
}

// Service manages one generator goroutine per tenant.
type Service struct {
	payments payment.Service

	mu   sync.Mutex
	runs map[string]*run
}

func NewService(payments payment.Service) *Service {
	return &Service{
		payments: payments,
		runs:     make(map[string]*run),
	}
}

// Start begins (or restarts) generation for a tenant at the given rate,
// 1 to 60 payments per minute.
func (s *Service) Start(tenantID string, paymentsPerMinute int) (*Status, error) {
	if err := validation.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if paymentsPerMinute < 1 || paymentsPerMinute > 60 {
		return nil, errors.ErrInvalidRate
	}

	s.Stop(tenantID)

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		tenantID:          tenantID,
		paymentsPerMinute: paymentsPerMinute,
		startedAt:         time.Now(),
		cancel:            cancel,
	}

	s.mu.Lock()
	s.runs[tenantID] = r
	s.mu.Unlock()

	go s.generate(ctx, r)

	logrus.WithFields(logrus.Fields{
		"tenantId":          tenantID,
		"paymentsPerMinute": paymentsPerMinute,
	}).Info("simulation started")

	return r.status(), nil
}

// Stop halts generation for a tenant, reporting whether one was running.
func (s *Service) Stop(tenantID string) bool {
	s.mu.Lock()
	r, ok := s.runs[tenantID]
	if ok {
		delete(s.runs, tenantID)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	r.cancel()
	logrus.WithFields(logrus.Fields{
		"tenantId":     tenantID,
		"paymentsSent": r.status().PaymentsSent,
	}).Info("simulation stopped")
	return true
}

// StopAll halts every running simulation and returns how many were stopped.
func (s *Service) StopAll() int {
	s.mu.Lock()
	runs := make([]*run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	s.runs = make(map[string]*run)
	s.mu.Unlock()

	for _, r := range runs {
		r.cancel()
	}
	return len(runs)
}

// Status reports all running simulations.
func (s *Service) Status() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{Simulations: make([]Status, 0, len(s.runs))}
	for _, r := range s.runs {
		report.Simulations = append(report.Simulations, *r.status())
	}
	report.ActiveSimulations = len(report.Simulations)
	return report
}

func (s *Service) generate(ctx context.Context, r *run) {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.paymentsPerMinute)), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		req := randomPayment()
		if _, err := s.payments.Create(ctx, r.tenantID, req); err != nil {
			logrus.WithError(err).WithField("tenantId", r.tenantID).Error("failed to generate payment")
			continue
		}

		r.mu.Lock()
		r.sent++
		r.mu.Unlock()
	}
}

func (r *run) status() *Status {
	r.mu.Lock()
	sent := r.sent
	r.mu.Unlock()

	return &Status{
		TenantID:          r.tenantID,
		PaymentsPerMinute: r.paymentsPerMinute,
		PaymentsSent:      sent,
		StartedAt:         r.startedAt,
		RuntimeMinutes:    int(time.Since(r.startedAt) / time.Minute),
		IsRunning:         true,
	}
}

// randomPayment draws realistic values: amounts between 10 and 10000 skewed
// low, UPI-heavy methods, mostly successful statuses.
func randomPayment() models.CreatePaymentRequest {
	return models.CreatePaymentRequest{
		Amount: randomAmount(),
		Method: randomMethod(),
		Status: randomStatus(),
	}
}

func randomAmount() float64 {
	skewed := rand.Float64()
	skewed *= skewed
	return float64(int(10 + skewed*9990))
}

// UPI 35%, credit card 25%, debit card 20%, net banking 10%, wallet 10%
func randomMethod() string {
	r := rand.Float64()
	switch {
	case r < 0.35:
		return models.PaymentMethodUPI
	case r < 0.60:
		return models.PaymentMethodCreditCard
	case r < 0.80:
		return models.PaymentMethodDebitCard
	case r < 0.90:
		return models.PaymentMethodNetBanking
	default:
		return models.PaymentMethodWallet
	}
}

// success 85%, failed 12%, refunded 3%
func randomStatus() string {
	r := rand.Float64()
	switch {
	case r < 0.85:
		return models.PaymentStatusSuccess
	case r < 0.97:
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusRefunded
	}
}
