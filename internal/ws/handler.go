package ws

import (
	"fmt"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"paydash/internal/models"
	"paydash/internal/validation"
)

// Upgrade gates the websocket endpoint: non-upgrade requests are rejected
// before the handler runs.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler serves the /ws/payments endpoint. Session lifecycle:
// opening -> authenticated -> open -> closing -> closed, with
// opening -> closed on failed tenant validation.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve returns the upgraded connection handler. The handler goroutine owns
// the read loop; a separate pump goroutine owns all writes.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		tenantID := conn.Query("tenantId")
		if err := validation.ValidateTenantID(tenantID); err != nil {
			logrus.WithField("tenantId", tenantID).Warn("websocket connection rejected")
			_ = conn.WriteJSON(models.ErrorEvent{
				Type:    models.FrameError,
				Message: "invalid tenantId. Expected format: tenant-{name}",
			})
			conn.Close()
			return
		}

		session := NewSession(tenantID, conn)
		h.hub.Register(session)
		defer func() {
			h.hub.Unregister(session)
			session.Close()
		}()

		// Confirmation frame queues ahead of any payment events.
		_ = session.Enqueue(models.ConnectionStatusEvent{
			Type:      models.FrameConnectionStatus,
			Status:    models.ConnConnected,
			Message:   fmt.Sprintf("Connected to payment stream for tenant: %s", tenantID),
			Timestamp: time.Now().UTC(),
		})

		go session.WritePump()

		// Inbound frames are ignored; the read loop exists to observe the
		// transport closing.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
