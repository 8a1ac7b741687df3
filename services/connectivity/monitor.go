// Package connectivity observes network reachability. The dispatcher only
// needs the synchronous CurrentlyConnected query; change notification is
// offered for callers that want to react to flips.
package connectivity

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Monitor reports whether network reachability is currently available.
type Monitor interface {
	// CurrentlyConnected returns the current (or last known) reachability
	// state. When the state has never been observed it returns false.
	CurrentlyConnected() bool

	// OnChange registers a listener invoked after reachability flips.
	// Delivery is asynchronous and rapid flips coalesce to the latest
	// state. The returned function cancels the registration.
	OnChange(fn func(connected bool)) (cancel func())
}

// Probe checks reachability once. It returns the observed state, or an error
// when the check could not be performed at all — in which case the monitor
// keeps reporting the last known state.
type Probe func(ctx context.Context) (bool, error)

// TCPProbe returns a Probe that dials addr (host:port) with the given
// timeout. A refused or timed-out dial counts as a definitive "not
// reachable", not a probe error.
func TCPProbe(addr string, timeout time.Duration) Probe {
	dialer := &net.Dialer{Timeout: timeout}
	return func(ctx context.Context) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false, nil
		}
		_ = conn.Close()
		return true, nil
	}
}

// ProbeMonitor implements Monitor by probing reachability on a fixed
// interval.
type ProbeMonitor struct {
	probe    Probe
	interval time.Duration
	clk      clock.Clock
	logger   *zap.Logger

	mu        sync.RWMutex
	connected bool
	listeners map[int]func(bool)
	nextID    int

	// signal wakes the notifier; a full buffer means a notification is
	// already pending and the flip coalesces into it.
	signal chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a ProbeMonitor.
type Option func(*ProbeMonitor)

// WithClock overrides the wall clock, for tests.
func WithClock(clk clock.Clock) Option {
	return func(m *ProbeMonitor) { m.clk = clk }
}

// NewProbeMonitor creates a monitor that runs probe every interval. Call
// Start to begin probing.
func NewProbeMonitor(probe Probe, interval time.Duration, logger *zap.Logger, opts ...Option) *ProbeMonitor {
	m := &ProbeMonitor{
		probe:     probe,
		interval:  interval,
		clk:       clock.New(),
		logger:    logger,
		listeners: make(map[int]func(bool)),
		signal:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins the probe loop. The first probe runs immediately so the
// monitor has a state before the first caller asks.
func (m *ProbeMonitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	m.observe(ctx)

	go m.notifier(ctx)
	ticker := m.clk.Ticker(m.interval)
	go func() {
		defer close(m.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.observe(ctx)
			}
		}
	}()
}

// Close stops the probe loop and the notifier.
func (m *ProbeMonitor) Close() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

// CurrentlyConnected implements Monitor.
func (m *ProbeMonitor) CurrentlyConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// OnChange implements Monitor.
func (m *ProbeMonitor) OnChange(fn func(connected bool)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *ProbeMonitor) observe(ctx context.Context) {
	connected, err := m.probe(ctx)
	if err != nil {
		// Probe could not run; keep reporting the last known state.
		m.logger.Debug("connectivity probe unavailable", zap.Error(err))
		return
	}

	m.mu.Lock()
	flipped := m.connected != connected
	m.connected = connected
	m.mu.Unlock()

	if flipped {
		m.logger.Info("connectivity changed", zap.Bool("connected", connected))
		select {
		case m.signal <- struct{}{}:
		default:
		}
	}
}

// notifier delivers flips to listeners off the probe goroutine. It reads the
// state at delivery time, so back-to-back flips collapse into one
// notification carrying the latest value.
func (m *ProbeMonitor) notifier(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.signal:
			m.mu.RLock()
			state := m.connected
			fns := make([]func(bool), 0, len(m.listeners))
			for _, fn := range m.listeners {
				fns = append(fns, fn)
			}
			m.mu.RUnlock()
			for _, fn := range fns {
				fn(state)
			}
		}
	}
}
