package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// TokenStore persists the set of active session tokens per user. A token
// in the set is a live session; removing it is the only way a token stops
// working, since issued tokens carry no expiry.
type TokenStore interface {
	// Add appends a token to the user's active set.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether the exact token is still in the user's
	// active set. A token removed by logout must report false even
	// though its signature still verifies.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// Delete removes exactly the matching token from the user's set.
	// It is idempotent: deleting an absent token is not an error.
	Delete(ctx context.Context, userID uuid.UUID, token string) error

	// DeleteAll clears the user's entire token set (logout everywhere).
	DeleteAll(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new TokenStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
