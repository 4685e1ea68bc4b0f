package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/geodev/geodev/internal/services/web/storage"
)

// persist writes a successful result to the backing store. Failures are
// logged; the in-memory result is already cached.
func persist(ctx context.Context, c *Client, key Key, value any, now time.Time) {
	if c.store == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Printf("query cache encode key=%s: %v", key, err)
		return
	}
	record := storage.CacheEntry{
		CacheKey:     string(key),
		Scope:        scope(key),
		PayloadBytes: payload,
		CheckedAt:    now.UTC(),
		RefreshedAt:  now.UTC(),
	}
	if c.staleTime > 0 {
		record.ExpiresAt = now.Add(c.staleTime).UTC()
	}
	if err := c.store.PutCacheEntry(ctx, record); err != nil {
		c.logger.Printf("query cache persist key=%s: %v", key, err)
	}
}

// forget drops the persisted row of a failed key so a restart cannot serve
// data the error state has already discarded.
func forget(ctx context.Context, c *Client, key Key) {
	if c.store == nil {
		return
	}
	if err := c.store.DeleteCacheEntry(ctx, string(key)); err != nil {
		c.logger.Printf("query cache forget key=%s: %v", key, err)
	}
}

// loadPersisted serves a fresh persisted row when memory has never held key.
func loadPersisted[T any](ctx context.Context, c *Client, key Key) (T, bool) {
	var zero T
	if c.store == nil {
		return zero, false
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	idle := !ok || (e.state.Status == StatusIdle && !e.state.Stale)
	c.mu.Unlock()
	if !idle {
		return zero, false
	}

	record, found, err := c.store.GetCacheEntry(ctx, string(key))
	if err != nil {
		c.logger.Printf("query cache load key=%s: %v", key, err)
		return zero, false
	}
	now := c.now()
	if !found || record.Stale || (!record.ExpiresAt.IsZero() && !now.Before(record.ExpiresAt)) {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(record.PayloadBytes, &value); err != nil {
		c.logger.Printf("query cache decode key=%s: %v", key, err)
		return zero, false
	}

	c.mu.Lock()
	e = c.entryLocked(key)
	if e.state.Status != StatusIdle || e.state.Stale {
		// Another fetch or an invalidation won the race.
		c.mu.Unlock()
		return zero, false
	}
	e.state = State{Status: StatusSuccess, Data: value, UpdatedAt: record.RefreshedAt}
	c.enqueueLocked(key, e)
	c.mu.Unlock()
	c.dispatch()
	return value, true
}
