package cachestore

import (
	"context"
)

// A Get miss returns the empty string without error.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, val string) error
	Purge(ctx context.Context, key string) error
}
