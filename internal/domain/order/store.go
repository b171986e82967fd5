package order

import (
	"context"

	"github.com/fieldsales/backend/internal/domain/shared"
)

// ErrSessionNotFound indicates no cart state exists for the session
var ErrSessionNotFound = shared.NewDomainError("SESSION_NOT_FOUND", "No cart state for this session")

// CartStore persists per-session cart state. Each session's cart is an
// independent value: implementations must hand out copies and never share
// state across sessions.
type CartStore interface {
	// Get returns the cart state for the session, or ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (*OrderCartState, error)
	// Save stores the cart state for the session
	Save(ctx context.Context, sessionID string, state *OrderCartState) error
	// Delete removes the session's cart state
	Delete(ctx context.Context, sessionID string) error
}
