// Package ws is the broadcast gateway: it accepts long-lived client
// sessions, groups them into per-tenant rooms and fans payment events out to
// exactly the matching room.
package ws

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"paydash/internal/events"
	"paydash/internal/models"
)

// Hub tracks rooms keyed by tenant. Membership mutates on session open and
// close only; fan-out takes a read-locked snapshot so delivery never holds
// the lock across a network write.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Session
}

// TenantStats is the per-room slice of Stats.
type TenantStats struct {
	TenantID    string `json:"tenantId"`
	Connections int    `json:"connections"`
}

// Stats is a point-in-time view of gateway occupancy.
type Stats struct {
	TotalConnections int           `json:"totalConnections"`
	Tenants          []TenantStats `json:"tenants"`
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*Session)}
}

// Register joins a session to its tenant room.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[s.TenantID]
	if !ok {
		room = make(map[string]*Session)
		h.rooms[s.TenantID] = room
	}
	room[s.ID] = s

	logrus.WithFields(logrus.Fields{
		"sessionId": s.ID,
		"tenantId":  s.TenantID,
		"roomSize":  len(room),
	}).Info("session joined")
}

// Unregister removes a session and collapses its room when empty.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[s.TenantID]
	if !ok {
		return
	}
	if _, ok := room[s.ID]; !ok {
		return
	}
	delete(room, s.ID)
	if len(room) == 0 {
		delete(h.rooms, s.TenantID)
	}

	logrus.WithFields(logrus.Fields{
		"sessionId": s.ID,
		"tenantId":  s.TenantID,
	}).Info("session left")
}

// Broadcast delivers a frame to every session in the tenant's room.
// Delivery is fire-and-forget: a session that cannot accept the frame is
// removed without affecting the rest of the room.
func (h *Hub) Broadcast(tenantID string, v interface{}) {
	h.mu.RLock()
	room := h.rooms[tenantID]
	sessions := make([]*Session, 0, len(room))
	for _, s := range room {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Enqueue(v); err != nil {
			logrus.WithFields(logrus.Fields{
				"sessionId": s.ID,
				"tenantId":  tenantID,
			}).WithError(err).Warn("dropping unresponsive session")
			h.Unregister(s)
			s.Close()
		}
	}
}

// HandlePaymentCreated is the bus subscriber: it frames the event and fans
// it out to the payment's tenant room only.
func (h *Hub) HandlePaymentCreated(ev events.PaymentCreated) {
	h.Broadcast(ev.TenantID, models.PaymentEvent{
		Type:      ev.EventType,
		Payment:   ev.Payment,
		Timestamp: time.Now().UTC(),
	})
}

// Stats reports occupancy for monitoring.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := Stats{Tenants: make([]TenantStats, 0, len(h.rooms))}
	for tenantID, room := range h.rooms {
		stats.TotalConnections += len(room)
		stats.Tenants = append(stats.Tenants, TenantStats{
			TenantID:    tenantID,
			Connections: len(room),
		})
	}
	return stats
}
