package query

import (
	"context"
	"fmt"
)

// Mutation performs one write against the backend.
type Mutation[T any] func(context.Context) (T, error)

// Mutate runs fn once under mutationKey. On success the listed keys are
// invalidated before Mutate returns; on failure the cache is left untouched
// and the error is returned to the caller. Like Fetch, fn runs on a context
// detached from cancellation.
func Mutate[T any](ctx context.Context, c *Client, mutationKey string, fn Mutation[T], invalidates ...Key) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("query client is required")
	}
	if fn == nil {
		return zero, fmt.Errorf("mutation is required for %q", mutationKey)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value, err := func() (T, error) {
		c.beginMutation(mutationKey)
		defer c.endMutation(mutationKey)
		return fn(context.WithoutCancel(ctx))
	}()
	if err != nil {
		return zero, err
	}
	c.Invalidate(invalidates...)
	return value, nil
}

func (c *Client) beginMutation(mutationKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutating[mutationKey]++
}

// endMutation runs deferred so a panicking mutation still releases its
// IsMutating count.
func (c *Client) endMutation(mutationKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating[mutationKey]--; c.mutating[mutationKey] <= 0 {
		delete(c.mutating, mutationKey)
	}
}
