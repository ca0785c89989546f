package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/service/auth"
)

// MockSessionService implements auth.SessionService for testing.
// The default implementation issues "token-<n>" strings and validates
// against an in-memory map; ValidateErr forces every validation to fail.
type MockSessionService struct {
	IssueFn     func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateFn  func(ctx context.Context, token string) (uuid.UUID, error)
	RevokeFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAllFn func(ctx context.Context, userID uuid.UUID) error

	IssueErr    error
	ValidateErr error

	issued  int
	Active  map[string]uuid.UUID
	Revoked []string
}

// NewMockSessionService creates a new mock session service.
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{Active: make(map[string]uuid.UUID)}
}

var _ auth.SessionService = (*MockSessionService)(nil)

// Issue implements the SessionService interface.
func (m *MockSessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}
	if m.IssueErr != nil {
		return "", m.IssueErr
	}
	m.issued++
	token := "token-" + uuid.New().String()
	m.Active[token] = userID
	return token, nil
}

// Validate implements the SessionService interface.
func (m *MockSessionService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, token)
	}
	if m.ValidateErr != nil {
		return uuid.Nil, m.ValidateErr
	}
	userID, ok := m.Active[token]
	if !ok {
		return uuid.Nil, auth.ErrInvalidToken
	}
	return userID, nil
}

// Revoke implements the SessionService interface.
func (m *MockSessionService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, userID, token)
	}
	delete(m.Active, token)
	m.Revoked = append(m.Revoked, token)
	return nil
}

// RevokeAll implements the SessionService interface.
func (m *MockSessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if m.RevokeAllFn != nil {
		return m.RevokeAllFn(ctx, userID)
	}
	for token, id := range m.Active {
		if id == userID {
			delete(m.Active, token)
			m.Revoked = append(m.Revoked, token)
		}
	}
	return nil
}
