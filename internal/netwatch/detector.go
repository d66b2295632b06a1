// Package netwatch reports whether the terminal currently has a usable
// network path and notifies subscribers when that changes.
package netwatch

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/avelarde/comandero/internal/logger"
)

//go:generate mockgen -source=detector.go -destination=../mock/netwatch_mock.go -package=mock

// Detector exposes the terminal's connectivity state.
//
// Online reports the last observed state. Subscribe returns a channel that
// receives the new state on every transition; callers must drain it and call
// Unsubscribe when done. Notifications are best effort: a subscriber that is
// not ready to receive misses the event rather than blocking the detector.
type Detector interface {
	Online() bool
	Subscribe() <-chan bool
	Unsubscribe(ch <-chan bool)
}

const defaultPollInterval = 3 * time.Second

// Monitor is the production Detector. It polls the local interface table on
// a short ticker and considers the terminal online when at least one
// non-loopback interface holds an address. No server probing happens here;
// a reachable server is the dispatcher's problem, not the detector's.
type Monitor struct {
	mu          sync.Mutex
	online      bool
	forced      *bool
	subscribers map[<-chan bool]chan bool

	interval time.Duration
	probe    func() bool

	cancel context.CancelFunc
	wg     *sync.WaitGroup

	logger *logger.Logger
}

// NewMonitor builds a Monitor with the default poll interval. The initial
// state is taken from an immediate probe so callers never observe a false
// offline before the first tick.
func NewMonitor(logger *logger.Logger) *Monitor {
	m := &Monitor{
		subscribers: make(map[<-chan bool]chan bool),
		interval:    defaultPollInterval,
		probe:       probeInterfaces,
		wg:          &sync.WaitGroup{},
		logger:      logger,
	}
	m.online = m.probe()
	return m
}

// Start launches the polling loop. Calling Start on a running Monitor is a
// no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go m.loop(ctx)

	m.logger.Info().
		Str("func", "Monitor.Start").
		Dur("interval", m.interval).
		Bool("online", m.online).
		Msg("network monitor started")

	return nil
}

// Stop halts polling and waits for the loop to exit. Subscribers keep their
// channels; no further events are delivered.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	m.wg.Wait()

	m.logger.Info().Str("func", "Monitor.Stop").Msg("network monitor stopped")
	return nil
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.observe(m.probe())
		}
	}
}

// Online implements Detector.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return *m.forced
	}
	return m.online
}

// Subscribe implements Detector.
func (m *Monitor) Subscribe() <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan bool, 1)
	m.subscribers[ch] = ch
	return ch
}

// Unsubscribe implements Detector. The channel is closed; pending events are
// discarded.
func (m *Monitor) Unsubscribe(ch <-chan bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if inner, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(inner)
	}
}

// SetOnline forces the reported state, overriding the interface probe until
// ClearOverride. Used by the airplane-mode toggle and by tests.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	prev := m.effectiveLocked()
	m.forced = &online
	subs := m.snapshotSubscribersLocked()
	m.mu.Unlock()

	if prev != online {
		m.logger.Info().
			Str("func", "Monitor.SetOnline").
			Bool("online", online).
			Msg("connectivity state forced")
		notify(subs, online)
	}
}

// ClearOverride removes a SetOnline override and reasserts the probed state
// immediately. The background polls keep m.online current while forced, so a
// later tick would see no change; the transition has to be delivered here.
func (m *Monitor) ClearOverride() {
	probed := m.probe()

	m.mu.Lock()
	prev := m.effectiveLocked()
	m.forced = nil
	m.online = probed
	subs := m.snapshotSubscribersLocked()
	m.mu.Unlock()

	if prev != probed {
		m.logger.Info().
			Str("func", "Monitor.ClearOverride").
			Bool("online", probed).
			Msg("connectivity override cleared")
		notify(subs, probed)
	}
}

// effectiveLocked returns the reported state; callers must hold mu.
func (m *Monitor) effectiveLocked() bool {
	if m.forced != nil {
		return *m.forced
	}
	return m.online
}

func (m *Monitor) observe(online bool) {
	m.mu.Lock()
	if m.forced != nil || m.online == online {
		m.online = online
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := m.snapshotSubscribersLocked()
	m.mu.Unlock()

	m.logger.Info().
		Str("func", "Monitor.observe").
		Bool("online", online).
		Msg("connectivity transition")
	notify(subs, online)
}

func (m *Monitor) snapshotSubscribersLocked() []chan bool {
	subs := make([]chan bool, 0, len(m.subscribers))
	for _, ch := range m.subscribers {
		subs = append(subs, ch)
	}
	return subs
}

func notify(subs []chan bool, online bool) {
	for _, ch := range subs {
		select {
		case ch <- online:
		default:
		}
	}
}

// probeInterfaces reports whether any non-loopback interface holds an
// address. Good enough to distinguish "cable unplugged / wifi down" from
// "link present"; server reachability is judged per request.
func probeInterfaces() bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ipNet.IP.To4() != nil || ipNet.IP.To16() != nil {
			return true
		}
	}
	return false
}
