package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password
	// and the avatar blob (see GetAvatar).
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. The lookup is
	// case-insensitive; the email is normalized before matching.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's details. If a new plaintext
	// Password is set on the user, it is validated and hashed and the
	// stored hash is replaced; otherwise the hash is left untouched.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// Dependent records are the cascade coordinator's responsibility;
	// Delete itself only removes the user row.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetAvatar returns the raw stored avatar bytes for the user.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrAvatarNotFound if the user has no avatar.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// UpdateAvatar replaces the stored avatar bytes. A nil value clears
	// the avatar. Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction, so multiple operations can share a single transaction
	// created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
