package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/store"
)

// MockTokenStore implements store.TokenStore for testing.
type MockTokenStore struct {
	// Function fields for customizable behavior
	AddFn       func(ctx context.Context, userID uuid.UUID, token string) error
	ExistsFn    func(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	DeleteFn    func(ctx context.Context, userID uuid.UUID, token string) error
	DeleteAllFn func(ctx context.Context, userID uuid.UUID) error

	mu     sync.Mutex
	Tokens map[uuid.UUID][]string
}

// NewMockTokenStore creates a new mock store with initialized defaults.
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Tokens: make(map[uuid.UUID][]string),
	}
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// WithTx implements the TokenStore interface.
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore { return m }

// Add implements the TokenStore interface.
func (m *MockTokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[userID] = append(m.Tokens[userID], token)
	return nil
}

// Exists implements the TokenStore interface.
func (m *MockTokenStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

// Delete implements the TokenStore interface.
func (m *MockTokenStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Tokens[userID][:0]
	for _, t := range m.Tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	m.Tokens[userID] = kept
	return nil
}

// DeleteAll implements the TokenStore interface.
func (m *MockTokenStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tokens, userID)
	return nil
}

// Count returns the number of active tokens held for the user.
func (m *MockTokenStore) Count(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tokens[userID])
}
