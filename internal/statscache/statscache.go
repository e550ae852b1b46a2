package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/observability"
)

const statsKey = "ticketdesk:stats:summary"

// Cache keeps the aggregated stats summary in Redis for a short TTL.
// Every method tolerates a nil client and Redis outages: the caller
// simply falls through to the database.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New builds the cache. A nil client disables caching entirely.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl, logger: logger, metrics: metrics}
}

// Get returns the cached summary, or ok=false on miss or any error.
func (c *Cache) Get(ctx context.Context) (*domain.StatsSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("stats cache read failed", zap.Error(err))
		}
		c.metrics.RecordStatsCacheMiss()
		return nil, false
	}

	var summary domain.StatsSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Debug("stats cache entry unreadable", zap.Error(err))
		c.metrics.RecordStatsCacheMiss()
		return nil, false
	}

	c.metrics.RecordStatsCacheHit()
	return &summary, true
}

// Set stores the summary. Failures are logged and swallowed.
func (c *Cache) Set(ctx context.Context, summary *domain.StatsSummary) {
	if c == nil || c.client == nil || summary == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		c.logger.Debug("stats cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, statsKey, data, c.ttl).Err(); err != nil {
		c.logger.Debug("stats cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached summary after a write to the store.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		c.logger.Debug("stats cache invalidate failed", zap.Error(err))
	}
}
