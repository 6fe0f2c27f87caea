// Package main is the entry point for the analytics API server.
// It initializes the document store, the event bus and the broadcast
// gateway, wires the routes and starts the HTTP server.
package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"paydash/internal/config"
	"paydash/internal/events"
	"paydash/internal/repositories"
	"paydash/internal/routes"
	"paydash/internal/ws"
)

func main() {
	config.LoadEnv()
	initLogger()

	if err := repositories.InitDB(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize store")
	}
	defer repositories.CloseDB()

	db := repositories.Database()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		cancel()
		logrus.WithError(err).Fatal("failed to create indexes")
	}
	cancel()

	// One bus edge from the payment writer to the gateway; the gateway
	// never calls back into the writer.
	bus := events.NewBus()
	hub := ws.NewHub()
	bus.Subscribe(hub.HandlePaymentCreated)

	app := fiber.New(fiber.Config{
		AppName: "paydash",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Tenant-Id",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, db, bus, hub)

	port := config.GetEnv("PORT", "3001")
	logrus.WithField("port", port).Info("starting API server")
	if err := app.Listen(":" + port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func initLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if level, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}
}
