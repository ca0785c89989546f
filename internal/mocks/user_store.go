package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, user *domain.User) error
	GetByEmailFn   func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateFn       func(ctx context.Context, user *domain.User) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	GetAvatarFn    func(ctx context.Context, id uuid.UUID) ([]byte, error)
	UpdateAvatarFn func(ctx context.Context, id uuid.UUID, avatar []byte) error

	// Data for the default implementation, keyed by normalized email
	mu    sync.Mutex
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// WithTx implements the UserStore interface; the mock has no
// transactions, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// Create implements the UserStore interface. The default emulates the
// real store's password handling: the plaintext is consumed and a fake
// hash is stored in its place.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}

	m.Users[user.Email] = user
	return nil
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var oldEmail string
	for email, existing := range m.Users {
		if existing.ID == user.ID {
			oldEmail = email
			break
		}
	}
	if oldEmail == "" {
		return store.ErrUserNotFound
	}

	if other, exists := m.Users[user.Email]; exists && other.ID != user.ID {
		return store.ErrEmailExists
	}

	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}

	delete(m.Users, oldEmail)
	m.Users[user.Email] = user
	return nil
}

// Delete implements the UserStore interface.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for email, user := range m.Users {
		if user.ID == id {
			delete(m.Users, email)
			return nil
		}
	}
	return store.ErrUserNotFound
}

// GetAvatar implements the UserStore interface.
func (m *MockUserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			if len(user.Avatar) == 0 {
				return nil, store.ErrAvatarNotFound
			}
			return user.Avatar, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// UpdateAvatar implements the UserStore interface.
func (m *MockUserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	if m.UpdateAvatarFn != nil {
		return m.UpdateAvatarFn(ctx, id, avatar)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			user.Avatar = avatar
			return nil
		}
	}
	return store.ErrUserNotFound
}
