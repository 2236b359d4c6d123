package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store with real TTL semantics, used by tests and
// local development. Not shared across processes.
type Memory struct {
	c *gocache.Cache
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-memory store whose entries default to DefaultTTL.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(DefaultTTL, time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, nil
	}
	return s, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
