package cartstore

import (
	"context"
	"sync"

	"github.com/fieldsales/backend/internal/domain/order"
)

// InMemoryCartStore keeps cart state in process memory. It is the default
// store for single-node deployments and the fallback when Redis is
// unavailable.
type InMemoryCartStore struct {
	mu     sync.RWMutex
	states map[string]*order.OrderCartState
}

var _ order.CartStore = (*InMemoryCartStore)(nil)

// NewInMemoryCartStore creates an empty in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		states: make(map[string]*order.OrderCartState),
	}
}

// Get returns a copy of the session's cart state
func (s *InMemoryCartStore) Get(ctx context.Context, sessionID string) (*order.OrderCartState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, order.ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Save stores a copy of the cart state for the session
func (s *InMemoryCartStore) Save(ctx context.Context, sessionID string, state *order.OrderCartState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = state.Clone()
	return nil
}

// Delete removes the session's cart state. Deleting an absent session is
// not an error.
func (s *InMemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sessionID)
	return nil
}
