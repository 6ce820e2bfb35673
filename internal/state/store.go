// Package state holds the client's single application state value. Reducers
// are pure functions of (state, action); Store serializes dispatches and
// notifies subscribers after each one.
package state

import (
	"sync"
)

// State is the whole client state. Slices are replaced, never mutated in
// place, so a State returned by Store.State is safe to read concurrently.
type State struct {
	Spots   SpotsState
	Reviews ReviewsState
	Session SessionState
}

// Action is a state transition request.
type Action interface {
	Type() string
}

// Reduce returns the state that results from applying action to s.
func Reduce(s State, action Action) State {
	return State{
		Spots:   reduceSpots(s.Spots, action),
		Reviews: reduceReviews(s.Reviews, action),
		Session: reduceSession(s.Session, action),
	}
}

// Listener observes an applied action together with the state it produced.
type Listener func(Action, State)

type Store struct {
	// notify serializes dispatches end to end so listeners see states in the
	// order they were produced.
	notify      sync.Mutex
	mu          sync.RWMutex
	state       State
	subscribers map[int]Listener
	nextID      int
}

func NewStore() *Store {
	return &Store{subscribers: make(map[int]Listener)}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies action and then notifies subscribers with the new state.
// Listeners may read State but must not Dispatch.
func (s *Store) Dispatch(action Action) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	subs := make([]Listener, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(action, next)
	}
}

// Subscribe registers fn to run after every dispatch and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
