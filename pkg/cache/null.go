package cache

import (
	"context"
	"time"
)

// NullCache discards everything. It backs --no-cache: every chart is
// rendered from scratch on every run.
type NullCache struct{}

// NewNullCache creates a cache that never hits.
func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (NullCache) Delete(ctx context.Context, key string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
