package cache

import (
	"context"
	"time"
)

// NullCache stores nothing and always misses. It backs --no-cache
// runs so callers never need a nil check.
type NullCache struct{}

// NewNullCache creates a disabled cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (NullCache) Close() error { return nil }
