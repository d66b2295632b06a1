package realtime

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

const testScope = "loc-centro"

func rawRecord(t *testing.T, r models.Record) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	return raw
}

// newTrackedCache returns a cache preloaded with orders and tables for the
// test scope, plus a counter of refetches.
func newTrackedCache(fetched *atomic.Int64) *cache.ReactiveCache {
	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		fetched.Add(1)
		return models.Collection{{"id": "refetched"}}, nil
	}, time.Minute, logger.Nop())

	c.Set(cache.Key{Resource: cache.ResourceOrders, Scope: testScope}, models.Collection{{"id": "o-1", "status": "open"}})
	c.Set(cache.Key{Resource: cache.ResourceOrders, Scope: models.ScopeAll}, models.Collection{{"id": "o-1", "status": "open"}})
	c.Set(cache.Key{Resource: cache.ResourceTables, Scope: testScope}, models.Collection{{"id": "T1", "state": "free"}})
	return c
}

func TestApply_OrderUpdateInvalidatesOrdersScopes(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableOrders,
		EventType: models.EventUpdate,
		New:       rawRecord(t, models.Record{"id": "o-1", "status": "served"}),
	})

	// The push payload is never applied directly.
	assert.Equal(t, "open", c.Peek(cache.Key{Resource: cache.ResourceOrders, Scope: testScope})[0]["status"])

	// Both the location scope and the aggregated view refetch on next read.
	_, err := c.Get(context.Background(), cache.Key{Resource: cache.ResourceOrders, Scope: testScope})
	require.NoError(t, err)
	_, err = c.Get(context.Background(), cache.Key{Resource: cache.ResourceOrders, Scope: models.ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.Load())
}

func TestApply_OrderItemInsertInvalidatesOrders(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableOrderItems,
		EventType: models.EventInsert,
		New:       rawRecord(t, models.Record{"id": "i-5", "orderId": "o-1"}),
	})

	_, err := c.Get(context.Background(), cache.Key{Resource: cache.ResourceOrders, Scope: testScope})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Load())
}

func TestApply_TableUpdatePatchesInPlace(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableTables,
		EventType: models.EventUpdate,
		New:       rawRecord(t, models.Record{"id": "T1", "state": "occupied"}),
	})

	got := c.Peek(cache.Key{Resource: cache.ResourceTables, Scope: testScope})
	require.Len(t, got, 1)
	assert.Equal(t, "occupied", got[0]["state"])

	// No round trip happened.
	_, err := c.Get(context.Background(), cache.Key{Resource: cache.ResourceTables, Scope: testScope})
	require.NoError(t, err)
	assert.Equal(t, int64(0), fetched.Load())
}

func TestApply_TableInsertAppends(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableTables,
		EventType: models.EventInsert,
		New:       rawRecord(t, models.Record{"id": "T2", "state": "free"}),
	})

	assert.Len(t, c.Peek(cache.Key{Resource: cache.ResourceTables, Scope: testScope}), 2)
}

func TestApply_OrderDeleteRemovesDirectly(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableOrders,
		EventType: models.EventDelete,
		Old:       rawRecord(t, models.Record{"id": "o-1"}),
	})

	assert.Empty(t, c.Peek(cache.Key{Resource: cache.ResourceOrders, Scope: testScope}))
	assert.Empty(t, c.Peek(cache.Key{Resource: cache.ResourceOrders, Scope: models.ScopeAll}))
	assert.Equal(t, int64(0), fetched.Load())
}

func TestApply_TableDeleteRemoves(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableTables,
		EventType: models.EventDelete,
		Old:       rawRecord(t, models.Record{"id": "T1"}),
	})

	assert.Empty(t, c.Peek(cache.Key{Resource: cache.ResourceTables, Scope: testScope}))
}

func TestApply_OrderItemDeleteInvalidates(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     models.TableOrderItems,
		EventType: models.EventDelete,
		Old:       rawRecord(t, models.Record{"id": "i-5"}),
	})

	// Aggregates changed; the order rows themselves stay until refetch.
	assert.Len(t, c.Peek(cache.Key{Resource: cache.ResourceOrders, Scope: testScope}), 1)

	_, err := c.Get(context.Background(), cache.Key{Resource: cache.ResourceOrders, Scope: testScope})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Load())
}

func TestApply_UntrackedTableIsIgnored(t *testing.T) {
	var fetched atomic.Int64
	c := newTrackedCache(&fetched)
	r := NewReconciler(c, testScope, logger.Nop())

	r.Apply(models.RemoteChangeEvent{
		Table:     "shifts",
		EventType: models.EventUpdate,
		New:       rawRecord(t, models.Record{"id": "s-1"}),
	})

	_, err := c.Get(context.Background(), cache.Key{Resource: cache.ResourceOrders, Scope: testScope})
	require.NoError(t, err)
	assert.Equal(t, int64(0), fetched.Load())
}
