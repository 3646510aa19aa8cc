package cache

import (
	"context"
	"encoding/json"
	"time"

	"storefront-service/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOverviewCache кеширует готовый ответ админской сводки.
// Промах или ошибка Redis — просто пересчёт, не ошибка запроса.
type RedisOverviewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisOverviewCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisOverviewCache {
	return &RedisOverviewCache{client: client, ttl: ttl, log: log}
}

func key(rangeKey string) string { return "stats:overview:" + rangeKey }

func (c *RedisOverviewCache) Get(ctx context.Context, rangeKey string) (*service.StatsOverview, bool) {
	raw, err := c.client.Get(ctx, key(rangeKey)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis get failed", zap.Error(err))
		}
		return nil, false
	}
	var ov service.StatsOverview
	if err := json.Unmarshal(raw, &ov); err != nil {
		c.log.Warn("corrupt cached overview", zap.Error(err))
		return nil, false
	}
	return &ov, true
}

func (c *RedisOverviewCache) Set(ctx context.Context, rangeKey string, ov *service.StatsOverview) {
	raw, err := json.Marshal(ov)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(rangeKey), raw, c.ttl).Err(); err != nil {
		c.log.Warn("redis set failed", zap.Error(err))
	}
}
