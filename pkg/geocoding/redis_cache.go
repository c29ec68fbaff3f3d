package geocoding

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
)

// RedisCache shares resolved names between service instances.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "safekids:revgeo:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	s, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			common.GetLoggerWith(common.LoggerNameGeocoding).Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return s, s != ""
}

func (c *RedisCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		common.GetLoggerWith(common.LoggerNameGeocoding).Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}
