package realtime

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

const (
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 30 * time.Second

	handshakeTimeout = 10 * time.Second
)

// Subscriber maintains one persistent websocket subscription per location
// scope and feeds incoming change events to a Reconciler. The connection is
// re-dialed with capped exponential backoff; changing the scope tears the
// subscription down and creates a new one.
type Subscriber struct {
	address string

	mu    sync.Mutex
	scope string
	conn  *websocket.Conn

	connected atomic.Bool

	readCache *cache.ReactiveCache
	dial      func(ctx context.Context, rawURL string) (*websocket.Conn, error)

	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSubscriber builds a subscriber for the push endpoint at address
// (ws:// or wss:// base URL) scoped to the given location.
func NewSubscriber(address, scope string, readCache *cache.ReactiveCache, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		address:   address,
		scope:     scope,
		readCache: readCache,
		dial:      dialWebsocket,
		logger:    logger,
	}
}

func dialWebsocket(ctx context.Context, rawURL string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, rawURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// Start launches the subscription loop. Calling Start on a running
// Subscriber is a no-op.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

// Stop tears the subscription down and waits for the loop to exit.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	conn := s.conn
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	s.wg.Wait()
	return nil
}

// Connected reports whether the current connection has completed its
// handshake and the post-connect refresh of tracked scopes.
func (s *Subscriber) Connected() bool {
	return s.connected.Load()
}

// SetScope switches the subscription to a new location scope. The current
// connection is closed; the loop re-dials with the new scope.
func (s *Subscriber) SetScope(scope string) {
	s.mu.Lock()
	if s.scope == scope {
		s.mu.Unlock()
		return
	}
	s.scope = scope
	conn := s.conn
	s.mu.Unlock()

	s.logger.Info().
		Str("func", "Subscriber.SetScope").
		Str("scope", scope).
		Msg("realtime scope changed, resubscribing")

	if conn != nil {
		_ = conn.Close()
	}
}

func (s *Subscriber) run(ctx context.Context) {
	defer s.wg.Done()

	delay := initialReconnectDelay
	for {
		if ctx.Err() != nil {
			return
		}

		scope := s.currentScope()
		conn, err := s.dial(ctx, s.subscriptionURL(scope))
		if err != nil {
			s.logger.Warn().
				Str("func", "Subscriber.run").
				Str("scope", scope).
				Dur("retry_in", delay).
				Err(err).
				Msg("realtime dial failed")

			if !sleepCtx(ctx, delay) {
				return
			}
			delay = nextDelay(delay)
			continue
		}

		s.setConn(conn)
		handshook := s.serve(ctx, conn, scope)
		s.setConn(nil)
		s.connected.Store(false)
		_ = conn.Close()

		if handshook {
			// Handshake completed on this connection; start the backoff
			// ladder over for the next one.
			delay = initialReconnectDelay
			continue
		}

		// A dial that succeeds but never completes the handshake walks the
		// same backoff ladder as a failed dial.
		if !sleepCtx(ctx, delay) {
			return
		}
		delay = nextDelay(delay)
	}
}

// serve runs the handshake and read loop on one connection. It returns true
// once the handshake completed, regardless of how the connection ended.
func (s *Subscriber) serve(ctx context.Context, conn *websocket.Conn, scope string) bool {
	var frame models.RealtimeFrame
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != models.FrameSubscribed {
		s.logger.Warn().
			Str("func", "Subscriber.serve").
			Str("scope", scope).
			Err(err).
			Msg("realtime handshake failed")
		return false
	}

	s.logger.Info().
		Str("func", "Subscriber.serve").
		Str("scope", scope).
		Msg("realtime subscription established")

	// Catch up on anything missed while disconnected. Connected flips true
	// only after the catch-up so callers observing it see a reconciled cache,
	// not just an open socket.
	s.refreshTrackedScopes(ctx)
	s.connected.Store(true)

	reconciler := NewReconciler(s.readCache, scope, s.logger)
	for {
		var frame models.RealtimeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().
					Str("func", "Subscriber.serve").
					Str("scope", scope).
					Err(err).
					Msg("realtime connection lost")
			}
			return true
		}
		if frame.Type == models.FrameChange && frame.Event != nil {
			reconciler.Apply(*frame.Event)
		}
	}
}

// refreshTrackedScopes forces a refetch of every collection the cache has
// served so far.
func (s *Subscriber) refreshTrackedScopes(ctx context.Context) {
	for _, key := range s.readCache.Keys() {
		s.readCache.Invalidate(key)
		if _, err := s.readCache.Get(ctx, key); err != nil {
			s.logger.Warn().
				Str("func", "Subscriber.refreshTrackedScopes").
				Str("key", key.String()).
				Err(err).
				Msg("post-connect refresh failed")
		}
	}
}

func (s *Subscriber) subscriptionURL(scope string) string {
	return s.address + "/api/realtime?location=" + url.QueryEscape(scope)
}

func (s *Subscriber) currentScope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

func (s *Subscriber) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func nextDelay(delay time.Duration) time.Duration {
	delay *= 2
	if delay > maxReconnectDelay {
		delay = maxReconnectDelay
	}
	return delay
}

// sleepCtx waits for the delay, returning false if ctx ended first.
func sleepCtx(ctx context.Context, delay time.Duration) bool {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
