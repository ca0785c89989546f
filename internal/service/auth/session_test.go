package auth_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/config"
	"github.com/phrazzld/taskward/internal/mocks"
	"github.com/phrazzld/taskward/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "session-test-secret-0123456789abcdef"

func newTestService(t *testing.T) (auth.SessionService, *mocks.MockTokenStore) {
	t.Helper()
	tokens := mocks.NewMockTokenStore()
	svc, err := auth.NewSessionService(config.AuthConfig{JWTSecret: testSecret}, tokens)
	require.NoError(t, err)
	return svc, tokens
}

func TestNewSessionServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := auth.NewSessionService(config.AuthConfig{}, mocks.NewMockTokenStore())
	assert.ErrorIs(t, err, auth.ErrMissingSecret)
}

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()

	svc, tokens := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, tokens.Count(userID))

	gotID, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
}

func TestIssuedTokenHasNoExpiry(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	token, err := svc.Issue(context.Background(), uuid.New())
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	// Revocation is the only termination path; there must be no exp claim.
	assert.NotContains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
	assert.Contains(t, claims, "sub")
}

func TestValidateNeverCrossesUsers(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	tokenA, err := svc.Issue(ctx, userA)
	require.NoError(t, err)
	_, err = svc.Issue(ctx, userB)
	require.NoError(t, err)

	gotID, err := svc.Validate(ctx, tokenA)
	require.NoError(t, err)
	assert.Equal(t, userA, gotID)
	assert.NotEqual(t, userB, gotID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	tokens := mocks.NewMockTokenStore()
	svc, err := auth.NewSessionService(config.AuthConfig{JWTSecret: testSecret}, tokens)
	require.NoError(t, err)

	other, err := auth.NewSessionService(
		config.AuthConfig{JWTSecret: "a-completely-different-secret-value!"},
		tokens,
	)
	require.NoError(t, err)

	token, err := other.Issue(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Validate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Validate(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

func TestRevokedTokenFailsDespiteValidSignature(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// Sanity: valid before revocation.
	_, err = svc.Validate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, userID, token))

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)

	// Revoking an already-absent token is idempotent.
	assert.NoError(t, svc.Revoke(ctx, userID, token))
}

func TestRevokeAll(t *testing.T) {
	t.Parallel()

	svc, tokens := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	t1, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	t2, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 2, tokens.Count(userID))

	require.NoError(t, svc.RevokeAll(ctx, userID))
	assert.Equal(t, 0, tokens.Count(userID))

	_, err = svc.Validate(ctx, t1)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)
	_, err = svc.Validate(ctx, t2)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)
}

func TestRevokeOneLeavesOthers(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	t1, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	t2, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, userID, t1))

	_, err = svc.Validate(ctx, t1)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)

	gotID, err := svc.Validate(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
}
