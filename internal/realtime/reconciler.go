// Package realtime keeps the terminal's read cache consistent with other
// concurrently connected terminals through the server's push channel.
package realtime

import (
	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

// Reconciler folds remote change events into the read cache. Orders and
// order items are refreshed by invalidation because the push payload lacks
// joined fields; table rows are patched in place because they arrive
// complete and occupancy changes are latency-sensitive on the floor.
type Reconciler struct {
	cache *cache.ReactiveCache
	scope string

	logger *logger.Logger
}

// NewReconciler builds a reconciler bound to one location scope.
func NewReconciler(readCache *cache.ReactiveCache, scope string, logger *logger.Logger) *Reconciler {
	return &Reconciler{cache: readCache, scope: scope, logger: logger}
}

// Apply routes a single change event into the cache.
func (r *Reconciler) Apply(event models.RemoteChangeEvent) {
	switch event.Table {
	case models.TableOrders, models.TableOrderItems:
		r.applyOrders(event)
	case models.TableTables:
		r.applyTables(event)
	default:
		r.logger.Debug().
			Str("func", "Reconciler.Apply").
			Str("table", event.Table).
			Msg("ignoring change event for untracked table")
	}
}

func (r *Reconciler) applyOrders(event models.RemoteChangeEvent) {
	ordersKey := cache.Key{Resource: cache.ResourceOrders, Scope: r.scope}
	allKey := cache.Key{Resource: cache.ResourceOrders, Scope: models.ScopeAll}

	switch event.EventType {
	case models.EventInsert, models.EventUpdate:
		r.cache.Invalidate(ordersKey)
		r.cache.Invalidate(allKey)
	case models.EventDelete:
		// A deleted line item changes its order's aggregates, so only a
		// deleted order row maps to a direct removal.
		if event.Table == models.TableOrders {
			if id := recordID(event); id != "" {
				r.cache.Remove(ordersKey, id)
				r.cache.Remove(allKey, id)
			}
			return
		}
		r.cache.Invalidate(ordersKey)
		r.cache.Invalidate(allKey)
	}
}

func (r *Reconciler) applyTables(event models.RemoteChangeEvent) {
	tablesKey := cache.Key{Resource: cache.ResourceTables, Scope: r.scope}

	switch event.EventType {
	case models.EventInsert, models.EventUpdate:
		if record := event.NewRecord(); record != nil && record.ID() != "" {
			r.cache.Patch(tablesKey, record)
		}
	case models.EventDelete:
		if id := recordID(event); id != "" {
			r.cache.Remove(tablesKey, id)
		}
	}
}

// recordID extracts the affected row id, preferring the pre-change row for
// deletes where the post-change row is absent.
func recordID(event models.RemoteChangeEvent) string {
	if old := event.OldRecord(); old != nil && old.ID() != "" {
		return old.ID()
	}
	if updated := event.NewRecord(); updated != nil {
		return updated.ID()
	}
	return ""
}
