package handlers

import (
	"github.com/gofiber/fiber/v2"

	"paydash/internal/ws"
)

type WSStatsHandler struct {
	hub *ws.Hub
}

func NewWSStatsHandler(hub *ws.Hub) *WSStatsHandler {
	return &WSStatsHandler{hub: hub}
}

// GetStats serves GET /api/ws/stats for monitoring gateway occupancy.
func (h *WSStatsHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.hub.Stats())
}
