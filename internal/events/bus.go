// Package events is the process-local publish/subscribe channel between the
// payment writer and the broadcast gateway. The gateway never calls back
// into the writer; the bus is the only edge between them.
package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"paydash/internal/models"
)

// PaymentCreated is published once per stored payment, in insertion order
// within a request.
type PaymentCreated struct {
	TenantID  string
	Payment   models.Payment
	EventType string
}

// Handler receives published events. Handlers must not block the publisher
// for long; slow delivery belongs behind a buffered channel on the
// subscriber side.
type Handler func(PaymentCreated)

// Bus fans PaymentCreated events out to all subscribers. Subscription
// happens at startup; publishing is synchronous best-effort.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent publishes.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers ev to every subscriber. A panicking subscriber is
// recovered and logged so it cannot starve the others.
func (b *Bus) Publish(ev PaymentCreated) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, ev)
	}
}

func (b *Bus) deliver(h Handler, ev PaymentCreated) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"tenantId": ev.TenantID,
				"panic":    r,
			}).Error("event subscriber panicked")
		}
	}()
	h(ev)
}
