package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend. It owns password hashing: any create
// or update carrying a plaintext password stores a bcrypt hash instead,
// and updates that don't touch the password never rehash.
type UserStore struct {
	db         store.DBTX
	bcryptCost int
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection (or transaction) and the
// bcrypt cost to use when hashing passwords; a cost below bcrypt.MinCost
// falls back to bcrypt.DefaultCost.
func NewUserStore(db store.DBTX, bcryptCost int) *UserStore {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{
		db:         db,
		bcryptCost: bcryptCost,
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx returns a new UserStore bound to the given transaction.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, bcryptCost: s.bcryptCost}
}

// Create implements store.UserStore.Create. It validates the user,
// hashes the plaintext password, and inserts the row. A unique-index
// collision on email surfaces as store.ErrEmailExists.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return err
	}

	if err := s.hashPassword(user); err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, name, email, hashed_password, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Age,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			"user_id", user.ID,
			"error", err)
		return fmt.Errorf("failed to create user: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.UserStore.GetByID. The avatar blob is not
// loaded here; use GetAvatar for that.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, age, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail. The email is
// normalized before the lookup so matching is case-insensitive.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, age, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)))
}

// Update implements store.UserStore.Update. A set plaintext Password is
// validated, hashed, and replaces the stored hash; otherwise the hash
// column keeps its current value.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return err
	}

	if err := s.hashPassword(user); err != nil {
		return err
	}

	query := `
		UPDATE users
		SET name = $1, email = $2, hashed_password = $3, age = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Age,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			"user_id", user.ID,
			"error", err)
		return fmt.Errorf("failed to update user: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// GetAvatar implements store.UserStore.GetAvatar.
func (s *UserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var avatar []byte
	err := s.db.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = $1`, id).Scan(&avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get avatar: %w", MapError(err))
	}
	if len(avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return avatar, nil
}

// UpdateAvatar implements store.UserStore.UpdateAvatar. A nil avatar
// clears the stored blob.
func (s *UserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	query := `UPDATE users SET avatar = $1, updated_at = NOW() WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, avatar, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// hashPassword replaces a pending plaintext password with its bcrypt
// hash. It is a no-op when no plaintext password is set, which is what
// keeps unrelated updates from rehashing.
func (s *UserStore) hashPassword(user *domain.User) error {
	if user.Password == "" {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.HashedPassword = string(hashed)
	user.Password = ""
	return nil
}

// scanUser reads a user row into a domain.User, mapping a missing row
// to store.ErrUserNotFound.
func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.Age,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", MapError(err))
	}
	return &user, nil
}
