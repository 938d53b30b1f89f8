// Package cache keeps the client-side copy of server lists and applies
// optimistic edits to it while the matching request is in flight.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrFetchCanceled = errors.New("fetch canceled")

// Fetcher loads the server value of one key
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	value     any
	present   bool
	stale     bool
	updatedAt time.Time

	// bumped on every write; a fetch only stores its result when the
	// generation it started with is still current
	generation uint64
	inflight   map[uint64]context.CancelFunc
}

// QueryCache maps keys to the last known server value of a query
type QueryCache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group
	fetchId uint64
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[Key]*entry)}
}

func (c *QueryCache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{inflight: make(map[uint64]context.CancelFunc)}
		c.entries[key] = e
	}
	return e
}

// Get returns the cached value, stale or not
func (c *QueryCache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.present {
		return nil, false
	}
	return e.value, true
}

// IsStale reports whether the key is absent or was invalidated since it was last set
func (c *QueryCache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return !ok || !e.present || e.stale
}

// Set replaces the value of a key and marks it fresh
func (c *QueryCache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	e.value = value
	e.present = true
	e.stale = false
	e.updatedAt = time.Now()
	e.generation++
}

func (c *QueryCache) remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.value = nil
	e.present = false
	e.generation++
}

// Invalidate marks every key under prefix stale so the next Fetch reloads it.
// Fetches already running for those keys will not store their result.
func (c *QueryCache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, e := range c.entries {
		if !key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		e.generation++
		count++
	}

	zap.L().Debug("Invalidated cache keys",
		zap.String("prefix", prefix.String()),
		zap.Int("count", count))
	return count
}

// CancelFetches aborts every running fetch of key
func (c *QueryCache) CancelFetches(key Key) int {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return 0
	}
	cancels := make([]context.CancelFunc, 0, len(e.inflight))
	for id, cancel := range e.inflight {
		cancels = append(cancels, cancel)
		delete(e.inflight, id)
	}
	e.generation++
	c.mu.Unlock()

	// a later Fetch must start a new load instead of joining the canceled one
	c.group.Forget(key.String())
	for _, cancel := range cancels {
		cancel()
	}

	if len(cancels) > 0 {
		zap.L().Debug("Canceled in-flight fetches",
			zap.String("key", key.String()),
			zap.Int("count", len(cancels)))
	}
	return len(cancels)
}

// Fetch returns the cached value when fresh and otherwise loads it with
// fetcher. Concurrent fetches of the same key share one load.
func (c *QueryCache) Fetch(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.present && !e.stale {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	result, err, _ := c.group.Do(key.String(), func() (any, error) {
		return c.load(ctx, key, fetcher)
	})
	return result, err
}

func (c *QueryCache) load(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	e := c.entryLocked(key)
	c.fetchId++
	id := c.fetchId
	generation := e.generation
	e.inflight[id] = cancel
	c.mu.Unlock()

	value, err := fetcher(fetchCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(e.inflight, id)

	if fetchCtx.Err() != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchCanceled, key, context.Canceled)
	}
	if err != nil {
		return nil, err
	}

	if e.generation != generation {
		// written while loading; the cached value wins
		zap.L().Debug("Discarding superseded fetch result", zap.String("key", key.String()))
		if e.present {
			return e.value, nil
		}
		return value, nil
	}

	e.value = value
	e.present = true
	e.stale = false
	e.updatedAt = time.Now()
	e.generation++
	return value, nil
}

// GetAs is Get with a typed result
func GetAs[T any](c *QueryCache, key Key) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// FetchAs is Fetch with a typed fetcher and result
func FetchAs[T any](ctx context.Context, c *QueryCache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached value of %s has type %T", key, v)
	}
	return typed, nil
}
