package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"paydash/internal/middleware"
	"paydash/internal/models"
	"paydash/internal/services/payment"
	"paydash/internal/utils/response"
)

type PaymentHandler struct {
	service payment.Service
}

func NewPaymentHandler(service payment.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreatePayment serves POST /api/payments.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req models.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	created, err := h.service.Create(c.Context(), middleware.Tenant(c), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListPayments serves GET /api/payments with optional status, method and
// date filters.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	filter := models.PaymentFilter{
		Status: c.Query("status"),
		Method: c.Query("method"),
		Limit:  int64(c.QueryInt("limit", 100)),
		Skip:   int64(c.QueryInt("skip", 0)),
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return response.BadRequest(c, "invalid startDate")
		}
		filter.StartDate = t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return response.BadRequest(c, "invalid endDate")
		}
		filter.EndDate = t
	}

	payments, err := h.service.List(c.Context(), middleware.Tenant(c), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return c.JSON(payments)
}

// DeletePayments serves DELETE /api/payments. Test fixture cleanup only.
func (h *PaymentHandler) DeletePayments(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteAll(c.Context(), middleware.Tenant(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{
		"deletedCount": deleted,
		"timestamp":    time.Now().UTC(),
	})
}
