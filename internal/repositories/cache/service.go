// Package cache is a thin JSON read cache for analytics responses.
// Aggregations are recomputed on every query; a short TTL keeps repeated
// dashboard refreshes from hammering the store without ever serving stale
// data for long.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Set stores value under key with the default TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Get loads key into dest, reporting whether it was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// InvalidateTenant drops every cached analytics response for a tenant.
// Called after each insert so authoritative reads never lag a write by more
// than one in-flight aggregation.
func (s *CacheService) InvalidateTenant(ctx context.Context, tenantID string) error {
	keys, err := s.client.Keys(ctx, "analytics:"+tenantID+":*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}

// MetricsKey builds the cache key for a metrics query.
func MetricsKey(tenantID, rangeTag string) string {
	return fmt.Sprintf("analytics:%s:metrics:%s", tenantID, rangeTag)
}

// TrendsKey builds the cache key for a trends query.
func TrendsKey(tenantID, period string) string {
	return fmt.Sprintf("analytics:%s:trends:%s", tenantID, period)
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *CacheService) Close() error {
	return s.client.Close()
}
