// Package cache provides a Redis read-through cache in front of BOM lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
	"github.com/vsinha/mrpatp/pkg/infrastructure/metrics"
)

const (
	defaultKeyPrefix = "mrp:bom:"
	defaultTTL       = 10 * time.Minute
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// redisClient is the subset of *redis.Client the cache needs
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// NewRedisClient connects to Redis and verifies the connection with a ping
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// BOMCache decorates a BOMRepository with a Redis read-through cache.
// Cache failures are logged and fall through to the wrapped repository.
type BOMCache struct {
	next      repositories.BOMRepository
	client    redisClient
	ttl       time.Duration
	keyPrefix string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBOMCache wraps next with a cache backed by client. A zero ttl uses ten minutes.
func NewBOMCache(
	next repositories.BOMRepository,
	client redisClient,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BOMCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BOMCache{
		next:      next,
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
		metrics:   m,
		logger:    logger,
	}
}

var _ repositories.BOMRepository = (*BOMCache)(nil)

// GetBomLines returns the cached lines for parentCode, loading and caching them on a miss
func (c *BOMCache) GetBomLines(ctx context.Context, parentCode entities.MaterialCode) ([]*entities.BOMLine, error) {
	key := c.key(parentCode)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var lines []*entities.BOMLine
		jsonErr := json.Unmarshal([]byte(raw), &lines)
		if jsonErr == nil {
			c.record("hit")
			return lines, nil
		}
		c.logger.Warn("discarding undecodable BOM cache entry", zap.String("key", key), zap.Error(jsonErr))
		c.record("error")
	case errors.Is(err, redis.Nil):
		c.record("miss")
	default:
		c.logger.Warn("BOM cache lookup failed", zap.String("key", key), zap.Error(err))
		c.record("error")
	}

	lines, err := c.next.GetBomLines(ctx, parentCode)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		c.logger.Warn("failed to encode BOM lines for cache",
			zap.String("material", string(parentCode)), zap.Error(err))
		return lines, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("BOM cache store failed", zap.String("key", key), zap.Error(err))
	}
	return lines, nil
}

func (c *BOMCache) key(parent entities.MaterialCode) string {
	return c.keyPrefix + string(parent)
}

func (c *BOMCache) record(result string) {
	if c.metrics != nil {
		c.metrics.BOMCacheRequests.WithLabelValues(result).Inc()
	}
}
