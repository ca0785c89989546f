package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/store"
)

// TokenStore implements store.TokenStore using the user_tokens table.
// Each row is one live session; delete-by-exact-token is the revocation
// mechanism, since issued tokens never expire on their own.
type TokenStore struct {
	db store.DBTX
}

// NewTokenStore creates a new PostgreSQL implementation of the
// TokenStore interface.
func NewTokenStore(db store.DBTX) *TokenStore {
	return &TokenStore{db: db}
}

// Ensure TokenStore implements store.TokenStore interface
var _ store.TokenStore = (*TokenStore)(nil)

// WithTx returns a new TokenStore bound to the given transaction.
func (s *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &TokenStore{db: tx}
}

// Add implements store.TokenStore.Add.
func (s *TokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO user_tokens (user_id, token, created_at)
		VALUES ($1, $2, NOW())
	`
	if _, err := s.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to add session token: %w", MapError(err))
	}
	return nil
}

// Exists implements store.TokenStore.Exists.
func (s *TokenStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_tokens WHERE user_id = $1 AND token = $2
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session token: %w", MapError(err))
	}
	return exists, nil
}

// Delete implements store.TokenStore.Delete. Deleting a token that is
// already absent is not an error.
func (s *TokenStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	if _, err := s.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to delete session token: %w", MapError(err))
	}
	return nil
}

// DeleteAll implements store.TokenStore.DeleteAll.
func (s *TokenStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete session tokens: %w", MapError(err))
	}
	return nil
}
