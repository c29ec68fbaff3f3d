package safekids

import (
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterShards = 32

type limiterShard struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// RateLimiterStore manages per-key rate limiters: key -> rate limiter. Keys
// are spread over shards so unrelated callers never share a lock.
type RateLimiterStore struct {
	shards       [limiterShards]*limiterShard
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	s := &RateLimiterStore{
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
	for i := range s.shards {
		s.shards[i] = &limiterShard{limiters: make(map[string]*rate.Limiter)}
	}
	return s
}

func (s *RateLimiterStore) shard(key string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%limiterShards]
}

func (s *RateLimiterStore) GetLimiter(key string) *rate.Limiter {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	limiter, exists := sh.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		sh.limiters[key] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(key string, keyRate rate.Limit, keyBurst int) {
	s.replace(key, rate.NewLimiter(keyRate, keyBurst))
}

func (s *RateLimiterStore) replace(key string, limiter *rate.Limiter) {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.limiters[key] = limiter
}

func (s *RateLimiterStore) peek(key string) (*rate.Limiter, bool) {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	limiter, ok := sh.limiters[key]
	return limiter, ok
}

// AllowAt takes one token for key at now.
func (s *RateLimiterStore) AllowAt(key string, now time.Time) bool {
	return s.GetLimiter(key).AllowN(now, 1)
}

// Sweep drops limiters that have refilled completely; recreating them later
// is indistinguishable from keeping them.
func (s *RateLimiterStore) Sweep(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, limiter := range sh.limiters {
			if limiter.TokensAt(now) >= float64(limiter.Burst()) {
				delete(sh.limiters, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

func (s *RateLimiterStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.limiters)
		sh.mu.Unlock()
	}
	return n
}
