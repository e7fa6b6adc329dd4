package cart

import "sync"

// Listener observes cart state after each applied action.
type Listener func(State)

// Store holds the authoritative cart for one client session. Mutations
// go through the reducer under a mutex, so no caller ever observes a
// half-applied action; listeners fire after the lock is released.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Dispatch applies the action and notifies subscribers with the new state.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state.clone()
	subscribers := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		subscribers = append(subscribers, l)
	}
	s.mu.Unlock()

	for _, l := range subscribers {
		l(next)
	}
	return next
}

// Add validates the descriptor and dispatches an AddItem action.
func (s *Store) Add(item Item) (State, error) {
	if err := ValidateDescriptor(item); err != nil {
		return s.Snapshot(), err
	}
	return s.Dispatch(AddItem{Item: item}), nil
}

// Remove dispatches a RemoveItem action for the product ID.
func (s *Store) Remove(id string) State {
	return s.Dispatch(RemoveItem{ID: id})
}

// Clear empties the cart.
func (s *Store) Clear() State {
	return s.Dispatch(Clear{})
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
