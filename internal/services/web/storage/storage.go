package storage

import (
	"context"
	"time"
)

// CacheEntry stores one query cache payload and freshness metadata.
type CacheEntry struct {
	CacheKey     string
	Scope        string
	PayloadBytes []byte
	Stale        bool
	CheckedAt    time.Time
	RefreshedAt  time.Time
	// ExpiresAt is zero for entries that stay fresh until invalidated.
	ExpiresAt time.Time
}

// Store is the persistence contract used by the query cache.
type Store interface {
	Close() error
	GetCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, cacheKey string) error
	MarkCacheEntryStale(ctx context.Context, cacheKey string, checkedAt time.Time) error
}
