// Package query is a keyed request cache and mutation dispatcher.
//
// A Client owns its entries. Fetch serves fresh data from memory, or runs one
// producer per key at a time and caches the result. Mutate runs a mutation and
// invalidates the listed keys before returning, so the next Fetch of an
// invalidated key calls its producer again. Entries are never evicted.
package query

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/geodev/geodev/internal/services/web/storage"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a successful result is served without
// refetching when no invalidation happens first.
const DefaultStaleTime = 30 * time.Second

type entry struct {
	state State
	// generation increments on every invalidation; a fetch that started
	// under an older generation stores its result as stale.
	generation uint64
	// settled is the generation of the fetch that last wrote state. A fetch
	// older than settled never overwrites a newer result.
	settled uint64
}

type notification struct {
	key   Key
	state State
	subs  []Subscriber
}

// Client is the keyed cache. The zero value is not usable; call New.
type Client struct {
	mu          sync.Mutex
	entries     map[Key]*entry
	mutating    map[string]int
	subscribers map[Key]map[uint64]Subscriber
	nextSubID   uint64
	pending     []notification
	dispatching bool

	group     singleflight.Group
	staleTime time.Duration
	store     storage.Store
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithStaleTime sets how long successful results stay fresh. Zero or a
// negative duration keeps results fresh until invalidated.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) {
		c.staleTime = d
	}
}

// WithStore persists successful results so a restarted process can serve
// them while they are fresh.
func WithStore(store storage.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger overrides the logger used for persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds an empty cache.
func New(opts ...Option) *Client {
	c := &Client{
		entries:     make(map[Key]*entry),
		mutating:    make(map[string]int),
		subscribers: make(map[Key]map[uint64]Subscriber),
		staleTime:   DefaultStaleTime,
		now:         time.Now,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Peek returns the current state of key without triggering a fetch.
func (c *Client) Peek(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return State{Status: StatusIdle}
	}
	return c.snapshotLocked(e)
}

// Invalidate marks keys stale so the next Fetch calls the producer again.
// Fetches already in flight for those keys are detached from the key: later
// fetches start a new producer call instead of joining them, and their
// result is stored as stale.
func (c *Client) Invalidate(keys ...Key) {
	if len(keys) == 0 {
		return
	}
	c.mu.Lock()
	for _, key := range keys {
		e := c.entryLocked(key)
		e.generation++
		e.state.Stale = true
		c.group.Forget(string(key))
		c.enqueueLocked(key, e)
	}
	c.mu.Unlock()
	c.dispatch()

	if c.store == nil {
		return
	}
	checkedAt := c.now().UTC()
	for _, key := range keys {
		if err := c.store.MarkCacheEntryStale(context.Background(), string(key), checkedAt); err != nil {
			c.logger.Printf("query cache mark stale key=%s: %v", key, err)
		}
	}
}

// IsMutating reports whether a mutation under mutationKey is in flight.
func (c *Client) IsMutating(mutationKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutating[mutationKey] > 0
}

// Subscribe registers fn for changes of key, or of every key with AnyKey.
// The returned function removes the subscription.
func (c *Client) Subscribe(key Key, fn Subscriber) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	subs, ok := c.subscribers[key]
	if !ok {
		subs = make(map[uint64]Subscriber)
		c.subscribers[key] = subs
	}
	subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers[key], id)
			if len(c.subscribers[key]) == 0 {
				delete(c.subscribers, key)
			}
		})
	}
}

func (c *Client) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{state: State{Status: StatusIdle}}
		c.entries[key] = e
	}
	return e
}

// snapshotLocked copies the entry state, folding time-based expiry into Stale.
func (c *Client) snapshotLocked(e *entry) State {
	state := e.state
	if state.Status == StatusSuccess && !state.Stale && c.expired(state.UpdatedAt) {
		state.Stale = true
	}
	return state
}

func (c *Client) expired(updatedAt time.Time) bool {
	if c.staleTime <= 0 || updatedAt.IsZero() {
		return false
	}
	return !c.now().Before(updatedAt.Add(c.staleTime))
}

func (c *Client) enqueueLocked(key Key, e *entry) {
	subs := make([]Subscriber, 0, len(c.subscribers[key])+len(c.subscribers[AnyKey]))
	for _, fn := range c.subscribers[key] {
		subs = append(subs, fn)
	}
	if key != AnyKey {
		for _, fn := range c.subscribers[AnyKey] {
			subs = append(subs, fn)
		}
	}
	if len(subs) == 0 {
		return
	}
	c.pending = append(c.pending, notification{key: key, state: c.snapshotLocked(e), subs: subs})
}

// dispatch delivers queued notifications in order. Only one goroutine
// drains at a time; changes made by subscribers are queued behind the
// current notification.
func (c *Client) dispatch() {
	c.mu.Lock()
	if c.dispatching {
		c.mu.Unlock()
		return
	}
	c.dispatching = true
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
		for _, fn := range next.subs {
			fn(next.key, next.state)
		}
		c.mu.Lock()
	}
	c.pending = nil
	c.dispatching = false
	c.mu.Unlock()
}

// scope returns the key family used to group persisted rows, e.g.
// "project" for "project:7".
func scope(key Key) string {
	value := string(key)
	if idx := strings.IndexByte(value, ':'); idx > 0 {
		return value[:idx]
	}
	return value
}
