// Package repositories provides the data access layer.
// It owns the document-store connection and the tenant-scoped payment
// repository used by all services.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paydash/internal/config"
	"paydash/internal/repositories/cache"
)

// Client is the global document-store client used across the application.
var Client *mongo.Client

// CacheService is the shared analytics read cache. It may be nil when Redis
// is not configured; callers must treat it as optional.
var CacheService *cache.CacheService

// DBConfig holds connection pool configuration.
type DBConfig struct {
	MinPoolSize    uint64
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

var dbConfig = DBConfig{
	MinPoolSize:    10,
	MaxPoolSize:    50,
	ConnectTimeout: 5 * time.Second,
	SocketTimeout:  10 * time.Second,
}

// InitDB connects to MongoDB and Redis. The Mongo connection is verified
// with a ping before the server starts accepting traffic.
func InitDB() error {
	uri := config.GetEnv("MONGO_URI", "mongodb://localhost:27017")

	clientOptions := options.Client().ApplyURI(uri).
		SetMinPoolSize(dbConfig.MinPoolSize).
		SetMaxPoolSize(dbConfig.MaxPoolSize).
		SetConnectTimeout(dbConfig.ConnectTimeout).
		SetSocketTimeout(dbConfig.SocketTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	Client = client
	logrus.WithField("uri", uri).Info("connected to MongoDB")

	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	redisClient := cache.NewRedisClient(redisCfg)
	CacheService = cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 10*time.Second))

	return nil
}

// Database returns the configured analytics database.
func Database() *mongo.Database {
	return Client.Database(config.GetEnv("MONGO_DB", "paydash"))
}

// CloseDB tears down the store connections on shutdown.
func CloseDB() {
	if Client != nil {
		if err := Client.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Warn("failed to disconnect MongoDB client")
		}
	}
	if CacheService != nil {
		if err := CacheService.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close Redis connection")
		}
	}
}
