package handlers

import (
	"github.com/gofiber/fiber/v2"

	"paydash/internal/middleware"
	"paydash/internal/services/simulator"
	"paydash/internal/utils/response"
)

type SimulatorHandler struct {
	service *simulator.Service
}

func NewSimulatorHandler(service *simulator.Service) *SimulatorHandler {
	return &SimulatorHandler{service: service}
}

type startSimulationRequest struct {
	PaymentsPerMinute int `json:"paymentsPerMinute"`
}

// Start serves POST /api/simulator/start.
func (h *SimulatorHandler) Start(c *fiber.Ctx) error {
	req := startSimulationRequest{PaymentsPerMinute: 10}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "invalid request body")
		}
	}

	status, err := h.service.Start(middleware.Tenant(c), req.PaymentsPerMinute)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(status)
}

// Stop serves POST /api/simulator/stop.
func (h *SimulatorHandler) Stop(c *fiber.Ctx) error {
	stopped := h.service.Stop(middleware.Tenant(c))
	return c.JSON(fiber.Map{"stopped": stopped})
}

// StopAll serves POST /api/simulator/stop-all.
func (h *SimulatorHandler) StopAll(c *fiber.Ctx) error {
	count := h.service.StopAll()
	return c.JSON(fiber.Map{"stopped": count})
}

// Status serves GET /api/simulator/status.
func (h *SimulatorHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
