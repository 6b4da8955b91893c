package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/ports"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LocalCache is the single-instance stand-in for Redis. The server falls back
// to it when Redis is unreachable at startup, so cached stations and revoked
// tokens survive only as long as the process.
type LocalCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	log     *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLocalCache starts a sweeper that drops expired entries every interval.
func NewLocalCache(interval time.Duration, log *zap.Logger) ports.Cache {
	if interval <= 0 {
		interval = time.Minute
	}
	c := &LocalCache{
		entries: make(map[string]entry),
		now:     time.Now,
		log:     log,
		stop:    make(chan struct{}),
	}
	go c.sweepEvery(interval)

	log.Info("Using in-memory cache", zap.Duration("sweep_interval", interval))
	return c
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value under key. A non-positive expiration keeps the entry until deleted.
func (c *LocalCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	s, err := encode(value)
	if err != nil {
		return err
	}
	e := entry{value: s}
	if expiration > 0 {
		e.expiresAt = c.now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error { return nil }

func (c *LocalCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// Len reports the number of stored entries, expired ones included until swept.
func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *LocalCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := c.sweep(); n > 0 {
				c.log.Debug("Dropped expired cache entries", zap.Int("count", n))
			}
		case <-c.stop:
			return
		}
	}
}

func (c *LocalCache) sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
