package ports

import (
	"context"

	"github.com/amparo-health/screening/pkg/domain"
)

// StateStore defines the interface for persisting assessment state.
// Sessions are created per assessment attempt and discarded (or expired)
// once the assessment completes or is abandoned.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID. Deleting a
	// session erases every recorded answer.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of active sessions.
	List(ctx context.Context) ([]string, error)
}
