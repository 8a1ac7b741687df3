package connectivity

import "sync"

// Static is a Monitor with a manually controlled state. It backs tests and
// forced-offline deployments where probing is undesirable.
type Static struct {
	mu        sync.RWMutex
	connected bool
	listeners map[int]func(bool)
	nextID    int
}

// NewStatic creates a Static monitor with the given initial state.
func NewStatic(connected bool) *Static {
	return &Static{
		connected: connected,
		listeners: make(map[int]func(bool)),
	}
}

// CurrentlyConnected implements Monitor.
func (s *Static) CurrentlyConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// SetConnected updates the state and notifies listeners on a flip.
func (s *Static) SetConnected(connected bool) {
	s.mu.Lock()
	flipped := s.connected != connected
	s.connected = connected
	fns := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if !flipped {
		return
	}
	for _, fn := range fns {
		fn(connected)
	}
}

// OnChange implements Monitor.
func (s *Static) OnChange(fn func(connected bool)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
