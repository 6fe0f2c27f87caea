// Package routes defines the API routing configuration.
// It wires repositories, services and handlers, and applies the tenant
// guard to every API group.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"paydash/internal/events"
	"paydash/internal/handlers"
	"paydash/internal/middleware"
	"paydash/internal/repositories"
	"paydash/internal/services/analytics"
	"paydash/internal/services/payment"
	"paydash/internal/services/simulator"
	"paydash/internal/ws"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *mongo.Database, bus *events.Bus, hub *ws.Hub) {
	paymentRepo := repositories.NewPaymentRepository(db)

	analyticsService := analytics.NewService(paymentRepo, repositories.CacheService)
	paymentService := payment.NewService(paymentRepo, bus, repositories.CacheService)
	simulatorService := simulator.NewService(paymentService)

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	simulatorHandler := handlers.NewSimulatorHandler(simulatorService)
	statsHandler := handlers.NewWSStatsHandler(hub)
	wsHandler := ws.NewHandler(hub)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Payment analytics API",
			"version": "1.0.0",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Live stream; the tenant check happens inside the handshake.
	app.Use("/ws/payments", ws.Upgrade)
	app.Get("/ws/payments", wsHandler.Serve())

	api := app.Group("/api", middleware.RequireTenant)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Get("/metrics", analyticsHandler.GetMetrics)
	analyticsGroup.Get("/trends", analyticsHandler.GetTrends)

	paymentsGroup := api.Group("/payments")
	paymentsGroup.Post("/", paymentHandler.CreatePayment)
	paymentsGroup.Get("/", paymentHandler.ListPayments)
	paymentsGroup.Delete("/", paymentHandler.DeletePayments)

	simulatorGroup := api.Group("/simulator")
	simulatorGroup.Post("/start", simulatorHandler.Start)
	simulatorGroup.Post("/stop", simulatorHandler.Stop)
	simulatorGroup.Post("/stop-all", simulatorHandler.StopAll)
	simulatorGroup.Get("/status", simulatorHandler.Status)

	api.Get("/ws/stats", statsHandler.GetStats)
}
