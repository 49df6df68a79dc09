// Package netmon reports whether the remote is reachable and notifies
// listeners when that changes.
package netmon

import (
	"sync"
	"sync/atomic"
)

// Monitor is the connectivity signal consumed by the sync engine.
type Monitor interface {
	IsOnline() bool
	// OnTransition registers fn for every online/offline flip and returns
	// a function that removes it.
	OnTransition(fn func(online bool)) (unsubscribe func())
}

// state is the shared online flag plus listener list.
type state struct {
	online atomic.Bool

	// serializes set so listeners see transitions in the order they happen
	setMu sync.Mutex

	mu        sync.Mutex
	listeners map[uint64]func(bool)
	order     []uint64
	nextID    uint64
}

func (s *state) IsOnline() bool {
	return s.online.Load()
}

func (s *state) OnTransition(fn func(online bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[uint64]func(bool))
	}
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// set stores online and, if it changed, calls listeners outside the
// listener lock. Concurrent calls are serialized, so a listener must not
// call set itself. It reports whether a transition happened.
func (s *state) set(online bool) bool {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	if s.online.Swap(online) == online {
		return false
	}

	s.mu.Lock()
	fns := make([]func(bool), 0, len(s.listeners))
	live := s.order[:0]
	for _, id := range s.order {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
			live = append(live, id)
		}
	}
	s.order = live
	s.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
	return true
}

// Manual is a Monitor driven by SetOnline, for tests and hosts that learn
// about connectivity from elsewhere.
type Manual struct {
	state
}

func NewManual(online bool) *Manual {
	m := &Manual{}
	m.online.Store(online)
	return m
}

// SetOnline updates the state and notifies listeners on a change.
func (m *Manual) SetOnline(online bool) {
	m.set(online)
}
