// Package cache holds the terminal's read models for orders and tables. It
// answers reads from memory, refetches stale entries from the server, and
// supports optimistic patches with exact rollback.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

// Key identifies one cached collection: a resource kind plus the scope it
// was fetched for. Scope is a location ID, or models.ScopeAll for the
// unfiltered collection.
type Key struct {
	Resource string
	Scope    string
}

// Resource kinds tracked by the cache.
const (
	ResourceOrders = "orders"
	ResourceTables = "tables"
)

// String renders the key in "resource:scope" form, used as the singleflight
// group key and in log fields.
func (k Key) String() string {
	return k.Resource + ":" + k.Scope
}

// Snapshot is a deep copy of an entry's collection taken before an
// optimistic patch. Passing it back to Rollback restores the entry exactly.
type Snapshot struct {
	key  Key
	data models.Collection
	ok   bool
}

// FetchFunc loads the authoritative collection for a key from the server.
type FetchFunc func(ctx context.Context, key Key) (models.Collection, error)

const (
	defaultFreshFor     = 30 * time.Second
	refetchRetryBackoff = 250 * time.Millisecond
)

type entry struct {
	data      models.Collection
	fetchedAt time.Time
	stale     bool
}

// ReactiveCache is a scope-keyed read cache. Entries stay fresh for a
// configured window; a stale or missing entry is refetched through a
// singleflight group so concurrent readers share one request. A failed
// refetch is retried once, then the last known value is returned together
// with the error so the caller can keep rendering.
type ReactiveCache struct {
	mu      sync.RWMutex
	entries map[Key]*entry

	fetch    FetchFunc
	freshFor time.Duration
	flight   singleflight.Group
	now      func() time.Time

	logger *logger.Logger
}

// NewReactiveCache builds a cache around fetch. A non-positive freshFor
// falls back to the default window.
func NewReactiveCache(fetch FetchFunc, freshFor time.Duration, logger *logger.Logger) *ReactiveCache {
	if freshFor <= 0 {
		freshFor = defaultFreshFor
	}
	return &ReactiveCache{
		entries:  make(map[Key]*entry),
		fetch:    fetch,
		freshFor: freshFor,
		now:      time.Now,
		logger:   logger,
	}
}

// Get returns the collection for key. A fresh entry is returned as a copy
// without touching the network. Otherwise the entry is refetched; on
// failure the last known value is returned along with the error (nil
// collection if the key was never loaded).
func (c *ReactiveCache) Get(ctx context.Context, key Key) (models.Collection, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	if ok && !e.stale && c.now().Sub(e.fetchedAt) < c.freshFor {
		data := e.data.Clone()
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.flight.Do(key.String(), func() (any, error) {
		return c.refetch(ctx, key)
	})
	if err != nil {
		c.logger.Warn().
			Str("func", "ReactiveCache.Get").
			Str("key", key.String()).
			Err(err).
			Msg("refetch failed, serving last known value")
		return c.Peek(key), err
	}
	return v.(models.Collection).Clone(), nil
}

func (c *ReactiveCache) refetch(ctx context.Context, key Key) (models.Collection, error) {
	var data models.Collection
	err := retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(refetchRetryBackoff)), func(ctx context.Context) error {
		var fetchErr error
		data, fetchErr = c.fetch(ctx, key)
		if fetchErr != nil {
			return retry.RetryableError(fetchErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.store(key, data)
	return data, nil
}

// Peek returns the last known collection for key without fetching, or nil
// if the key was never loaded. The result is a copy.
func (c *ReactiveCache) Peek(key Key) models.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	return e.data.Clone()
}

// Set replaces the collection for key with authoritative data and marks the
// entry fresh.
func (c *ReactiveCache) Set(key Key, data models.Collection) {
	c.store(key, data)
}

func (c *ReactiveCache) store(key Key, data models.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{data: data.Clone(), fetchedAt: c.now()}
}

// SetOptimistic applies updater to the entry synchronously and returns a
// snapshot of the prior state for Rollback. The entry's freshness window is
// left untouched; the patch rides on top of whatever was cached, including
// nothing.
func (c *ReactiveCache) SetOptimistic(key Key, updater func(models.Collection) models.Collection) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	snap := Snapshot{key: key, ok: ok}
	if ok {
		snap.data = e.data.Clone()
		e.data = updater(e.data.Clone())
		return snap
	}

	c.entries[key] = &entry{data: updater(nil), fetchedAt: c.now(), stale: true}
	return snap
}

// Rollback restores the entry captured by snap. A snapshot taken when the
// key did not exist removes the entry again.
func (c *ReactiveCache) Rollback(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !snap.ok {
		delete(c.entries, snap.key)
		return
	}
	if e, ok := c.entries[snap.key]; ok {
		e.data = snap.data.Clone()
		return
	}
	c.entries[snap.key] = &entry{data: snap.data.Clone(), stale: true}
}

// Invalidate marks the entry stale; the next Get refetches. The stale value
// remains readable through Peek.
func (c *ReactiveCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
}

// Keys lists every key the cache has ever loaded or patched. The reconciler
// uses this after a reconnect to refresh all tracked scopes.
func (c *ReactiveCache) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Patch upserts a single record into the entry for key by record ID,
// preserving freshness. Used by the realtime reconciler for tables rows
// where the push payload carries the full record.
func (c *ReactiveCache) Patch(key Key, record models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}

	id := record.ID()
	for i := range e.data {
		if e.data[i].ID() == id {
			e.data[i] = record.Clone()
			return
		}
	}
	e.data = append(e.data, record.Clone())
}

// Remove deletes the record with the given ID from the entry for key, if
// both exist.
func (c *ReactiveCache) Remove(key Key, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	if next, removed := e.data.RemoveByID(id); removed {
		e.data = next
	}
}
