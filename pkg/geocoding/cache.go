package geocoding

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache stores resolved strings by coordinate key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// LRU is a bounded in-process cache with per-entry expiry.
type LRU struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	lst   *list.List
	dict  map[string]*list.Element
	nowFn func() time.Time
}

type lruEntry struct {
	key string
	val string
	exp time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 1024
	}
	return &LRU{
		cap:   capacity,
		ttl:   ttl,
		lst:   list.New(),
		dict:  make(map[string]*list.Element),
		nowFn: time.Now,
	}
}

func (c *LRU) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.dict[key]
	if !ok {
		return "", false
	}
	it := e.Value.(lruEntry)
	if c.nowFn().Before(it.exp) {
		c.lst.MoveToFront(e)
		return it.val, true
	}
	c.lst.Remove(e)
	delete(c.dict, key)
	return "", false
}

func (c *LRU) Set(_ context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := lruEntry{key: key, val: value, exp: c.nowFn().Add(c.ttl)}
	if e, ok := c.dict[key]; ok {
		e.Value = entry
		c.lst.MoveToFront(e)
		return
	}
	c.dict[key] = c.lst.PushFront(entry)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(lruEntry).key)
		c.lst.Remove(back)
	}
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lst.Init()
	c.dict = make(map[string]*list.Element)
}
