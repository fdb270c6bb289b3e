// Package cache provides the byte cache used for rendered homepage sections.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key
type Cache interface {
	// Get returns the value stored under key; the bool is false on a miss
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NoopCache never stores anything
type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}
