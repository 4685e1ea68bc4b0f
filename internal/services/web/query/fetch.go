package query

import (
	"context"
	"fmt"
)

// Producer loads the value for one key.
type Producer[T any] func(context.Context) (T, error)

type fetchResult struct {
	data any
	err  error
}

// Fetch returns the cached value for key when it is fresh. Otherwise it runs
// producer, sharing one call among concurrent fetches of the same key, and
// caches the outcome. A failed call replaces any cached data with the error.
//
// The producer runs on a context detached from ctx: a caller that gives up
// waiting returns ctx.Err() while the call completes and is cached.
func Fetch[T any](ctx context.Context, c *Client, key Key, producer Producer[T]) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("query client is required")
	}
	if producer == nil {
		return zero, fmt.Errorf("producer is required for key %q", key)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if value, ok := cachedValue[T](c, key); ok {
		return value, nil
	}
	if value, ok := loadPersisted[T](ctx, c, key); ok {
		return value, nil
	}

	detached := context.WithoutCancel(ctx)
	results := c.group.DoChan(string(key), func() (any, error) {
		res := runProducer(detached, c, key, producer)
		return res.data, res.err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		value, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("query key %q holds %T, not the requested type", key, res.Val)
		}
		return value, nil
	}
}

func cachedValue[T any](c *Client, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	state := c.snapshotLocked(e)
	if !state.Fresh() {
		return zero, false
	}
	value, ok := state.Data.(T)
	return value, ok
}

func runProducer[T any](ctx context.Context, c *Client, key Key, producer Producer[T]) fetchResult {
	c.mu.Lock()
	e := c.entryLocked(key)
	generation := e.generation
	e.state.Status = StatusLoading
	e.state.Err = nil
	c.enqueueLocked(key, e)
	c.mu.Unlock()
	c.dispatch()

	value, err := producer(ctx)

	c.mu.Lock()
	now := c.now()
	applied := generation >= e.settled
	if applied {
		e.settled = generation
		if err != nil {
			e.state = State{Status: StatusError, Err: err, UpdatedAt: now}
		} else {
			e.state = State{Status: StatusSuccess, Data: value, UpdatedAt: now, Stale: e.generation != generation}
		}
		c.enqueueLocked(key, e)
	}
	current := applied && e.generation == generation
	c.mu.Unlock()
	c.dispatch()

	if err != nil {
		if applied {
			forget(ctx, c, key)
		}
		return fetchResult{err: err}
	}
	if current {
		persist(ctx, c, key, value, now)
	}
	return fetchResult{data: value}
}
