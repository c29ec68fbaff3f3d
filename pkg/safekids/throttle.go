package safekids

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
)

// MemoryThrottle is a process-local throttle. Every key owns a limiter that
// holds one token and refills once per window; it is lost on restart.
type MemoryThrottle struct {
	store  *RateLimiterStore
	window time.Duration
	nowFn  func() time.Time
}

func NewMemoryThrottle(window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		store:  NewRateLimiterStore(rate.Every(window), 1),
		window: window,
		nowFn:  time.Now,
	}
}

func (t *MemoryThrottle) WithClock(now func() time.Time) *MemoryThrottle {
	t.nowFn = now
	return t
}

func (t *MemoryThrottle) Allow(_ context.Context, key string) bool {
	return t.store.AllowAt(key, t.nowFn())
}

func (t *MemoryThrottle) ShouldThrottle(_ context.Context, key string) bool {
	limiter, ok := t.store.peek(key)
	if !ok {
		return false
	}
	return limiter.TokensAt(t.nowFn()) < 1
}

func (t *MemoryThrottle) MarkFired(_ context.Context, key string) {
	limiter := rate.NewLimiter(rate.Every(t.window), 1)
	limiter.AllowN(t.nowFn(), 1)
	t.store.replace(key, limiter)
}

// Sweep forgets keys whose window has passed.
func (t *MemoryThrottle) Sweep() int {
	return t.store.Sweep(t.nowFn())
}

func (t *MemoryThrottle) Len() int {
	return t.store.Len()
}

const redisThrottlePrefix = "safekids:throttle:"

// RedisThrottle shares throttle state between instances through SET NX with
// the window as TTL. Redis failures let the alert through.
type RedisThrottle struct {
	client *redis.Client
	window time.Duration
}

func NewRedisThrottle(client *redis.Client, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, window: window}
}

func (t *RedisThrottle) logger() *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryThrottle)
}

func (t *RedisThrottle) Allow(ctx context.Context, key string) bool {
	ok, err := t.client.SetNX(ctx, redisThrottlePrefix+key, time.Now().UnixMilli(), t.window).Result()
	if err != nil {
		t.logger().Warn("Redis throttle unavailable, allowing alert", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}

func (t *RedisThrottle) ShouldThrottle(ctx context.Context, key string) bool {
	n, err := t.client.Exists(ctx, redisThrottlePrefix+key).Result()
	if err != nil {
		t.logger().Warn("Redis throttle unavailable", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

func (t *RedisThrottle) MarkFired(ctx context.Context, key string) {
	if err := t.client.Set(ctx, redisThrottlePrefix+key, time.Now().UnixMilli(), t.window).Err(); err != nil {
		t.logger().Warn("Failed to mark alert in redis throttle", zap.String("key", key), zap.Error(err))
	}
}
