// Package main runs a headless dashboard client: it connects to the live
// stream, reconciles over HTTP and logs the read-model state periodically.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"paydash/internal/client"
	"paydash/internal/config"
)

func main() {
	config.LoadEnv()

	cfg := client.Config{
		APIBaseURL:           config.GetEnv("API_BASE_URL", "http://localhost:3001"),
		WSURL:                config.GetEnv("WS_URL", "ws://localhost:3001/ws/payments"),
		TenantID:             config.GetEnv("TENANT_ID", "tenant-alpha"),
		FlushInterval:        config.GetDurationEnv("FLUSH_INTERVAL", time.Second),
		PollInterval:         config.GetDurationEnv("POLL_INTERVAL", 30*time.Second),
		RequestTimeout:       config.GetDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		EventLogCap:          config.GetIntEnv("EVENT_LOG_CAP", 100),
		VolumeAlertThreshold: config.GetFloatEnv("VOLUME_ALERT_THRESHOLD", 100000),
	}

	dash := client.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reportLoop(ctx, dash)
	go alertLoop(ctx, dash)

	logrus.WithField("tenantId", cfg.TenantID).Info("dashboard client starting")
	if err := dash.Run(ctx); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Fatal("dashboard client exited")
	}
}

func reportLoop(ctx context.Context, dash *client.Dashboard) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := dash.Store.Metrics()
			trends := dash.Store.Trends()
			fields := logrus.Fields{
				"connection":  dash.Store.Connection().Status,
				"optimistic":  metrics.IsOptimistic,
				"trendPoints": len(trends.Points),
				"period":      trends.Period,
			}
			if metrics.Data != nil {
				fields["totalVolume"] = metrics.Data.TotalVolume
				fields["totalCount"] = metrics.Data.TotalCount
				fields["successRate"] = metrics.Data.SuccessRate
			}
			logrus.WithFields(fields).Info("dashboard state")
		}
	}
}

func alertLoop(ctx context.Context, dash *client.Dashboard) {
	for {
		select {
		case <-ctx.Done():
			return
		case alert := <-dash.Alerts():
			logrus.WithFields(logrus.Fields{
				"type":    alert.Type,
				"message": alert.Message,
			}).Warn("alert")
		}
	}
}
