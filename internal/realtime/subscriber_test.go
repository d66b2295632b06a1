package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

var upgrader = websocket.Upgrader{}

// wsAddress converts an httptest server URL into a websocket base URL.
func wsAddress(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func subscribedFrame() models.RealtimeFrame {
	return models.RealtimeFrame{Type: models.FrameSubscribed}
}

func changeFrame(event models.RemoteChangeEvent) models.RealtimeFrame {
	return models.RealtimeFrame{Type: models.FrameChange, Event: &event}
}

func TestSubscriber_HandshakeThenChangeEvents(t *testing.T) {
	tablePatch := models.RemoteChangeEvent{
		Table:     models.TableTables,
		EventType: models.EventUpdate,
		New:       []byte(`{"id":"T1","state":"occupied"}`),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/realtime", r.URL.Path)
		assert.Equal(t, testScope, r.URL.Query().Get("location"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(subscribedFrame()))
		require.NoError(t, conn.WriteJSON(changeFrame(tablePatch)))

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		return nil, nil
	}, time.Minute, logger.Nop())
	c.Set(cache.Key{Resource: cache.ResourceTables, Scope: testScope}, models.Collection{{"id": "T1", "state": "free"}})

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	require.Eventually(t, sub.Connected, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		got := c.Peek(cache.Key{Resource: cache.ResourceTables, Scope: testScope})
		return len(got) == 1 && got[0]["state"] == "occupied"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscriber_RefreshesTrackedScopesAfterHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(subscribedFrame()))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	var fetched atomic.Int64
	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		fetched.Add(1)
		return models.Collection{{"id": "o-1"}}, nil
	}, time.Minute, logger.Nop())
	// A fresh, already-loaded scope still refetches on reconnect.
	c.Set(cache.Key{Resource: cache.ResourceOrders, Scope: testScope}, models.Collection{{"id": "o-stale"}})

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	require.Eventually(t, func() bool { return fetched.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	got := c.Peek(cache.Key{Resource: cache.ResourceOrders, Scope: testScope})
	require.Len(t, got, 1)
	assert.Equal(t, "o-1", got[0].ID())
}

func TestSubscriber_ReconnectsAfterConnectionDrop(t *testing.T) {
	var connections atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		n := connections.Add(1)
		require.NoError(t, conn.WriteJSON(subscribedFrame()))

		if n == 1 {
			// Drop the first connection right after the handshake.
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		return nil, nil
	}, time.Minute, logger.Nop())

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	require.Eventually(t, func() bool {
		return connections.Load() >= 2 && sub.Connected()
	}, 3*time.Second, 10*time.Millisecond)
}

func TestSubscriber_HandshakeFailureBacksOff(t *testing.T) {
	var connections atomic.Int64

	// Accepts the upgrade but never sends the subscribed ack.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		connections.Add(1)
		require.NoError(t, conn.WriteJSON(models.RealtimeFrame{Type: "nope"}))
		conn.Close()
	}))
	defer srv.Close()

	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		return nil, nil
	}, time.Minute, logger.Nop())

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	require.Eventually(t, func() bool { return connections.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// The next dial waits out the initial reconnect delay; without it the
	// loop would re-dial thousands of times here.
	time.Sleep(300 * time.Millisecond)
	assert.EqualValues(t, 1, connections.Load())
	assert.False(t, sub.Connected())
}

func TestSubscriber_ConnectedOnlyAfterScopeRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(subscribedFrame()))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	fetchStarted := make(chan struct{})
	release := make(chan struct{})
	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		close(fetchStarted)
		<-release
		return models.Collection{{"id": "o-1"}}, nil
	}, time.Minute, logger.Nop())
	c.Set(cache.Key{Resource: cache.ResourceOrders, Scope: testScope}, models.Collection{{"id": "o-stale"}})

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	select {
	case <-fetchStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the post-connect refresh to start")
	}

	// Handshake is done but the catch-up refresh is still in flight.
	assert.False(t, sub.Connected())

	close(release)
	require.Eventually(t, sub.Connected, 2*time.Second, 10*time.Millisecond)
}

func TestSubscriber_SetScopeResubscribes(t *testing.T) {
	scopeCh := make(chan string, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		scopeCh <- r.URL.Query().Get("location")
		require.NoError(t, conn.WriteJSON(subscribedFrame()))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		return nil, nil
	}, time.Minute, logger.Nop())

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	require.Eventually(t, sub.Connected, 2*time.Second, 10*time.Millisecond)

	sub.SetScope("loc-terraza")

	var seen []string
	deadline := time.After(3 * time.Second)
	for len(seen) < 2 {
		select {
		case scope := <-scopeCh:
			seen = append(seen, scope)
		case <-deadline:
			t.Fatalf("expected a resubscription, saw scopes %v", seen)
		}
	}

	assert.Equal(t, testScope, seen[0])
	assert.Equal(t, "loc-terraza", seen[1])
}

func TestSubscriber_StopDisconnects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(subscribedFrame()))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := cache.NewReactiveCache(func(ctx context.Context, key cache.Key) (models.Collection, error) {
		return nil, nil
	}, time.Minute, logger.Nop())

	sub := NewSubscriber(wsAddress(srv), testScope, c, logger.Nop())
	require.NoError(t, sub.Start(context.Background()))
	require.Eventually(t, sub.Connected, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sub.Stop())
	assert.False(t, sub.Connected())

	// Stop is idempotent.
	require.NoError(t, sub.Stop())
}
