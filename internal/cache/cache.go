package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CounterCache stores integer counters for the dashboard. Entries expire by
// TTL only; writes to the underlying tables do not invalidate them.
type CounterCache interface {
	Get(key string) (int64, bool)
	Set(key string, value int64, ttl time.Duration)
}

// Memory is an in-process CounterCache backed by patrickmn/go-cache
type Memory struct {
	c *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (m *Memory) Get(key string) (int64, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

func (m *Memory) Set(key string, value int64, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}
