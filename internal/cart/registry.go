package cart

import "sync"

// Registry maps client sessions to their cart stores. A cart springs
// into existence empty on first use and is dropped wholesale on logout.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Store
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Store)}
}

// Get returns the session's cart store, creating an empty one if needed.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.carts[sessionID]
	if !ok {
		store = NewStore()
		r.carts[sessionID] = store
	}
	return store
}

// Peek returns the session's cart store without creating one.
func (r *Registry) Peek(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.carts[sessionID]
	return store, ok
}

// Drop discards the session's cart entirely.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}
