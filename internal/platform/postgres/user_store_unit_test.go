package postgres

import (
	"testing"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	s := NewUserStore(nil, bcrypt.MinCost)

	user, err := domain.NewUser("Alice", "alice@example.com", "secret1", 30)
	require.NoError(t, err)

	require.NoError(t, s.hashPassword(user))

	// The plaintext is consumed and never equals the stored hash.
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "secret1", user.HashedPassword)

	// The hash verifies against the original plaintext and nothing else.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret2")))
}

func TestHashPasswordSkipsWithoutPlaintext(t *testing.T) {
	t.Parallel()

	s := NewUserStore(nil, bcrypt.MinCost)

	user := &domain.User{HashedPassword: "$2a$10$existinghashvalue"}
	require.NoError(t, s.hashPassword(user))

	// An update with no password change must not rehash.
	assert.Equal(t, "$2a$10$existinghashvalue", user.HashedPassword)
}

func TestNewUserStoreCostFallback(t *testing.T) {
	t.Parallel()

	s := NewUserStore(nil, 0)
	assert.Equal(t, bcrypt.DefaultCost, s.bcryptCost)

	s = NewUserStore(nil, bcrypt.MinCost)
	assert.Equal(t, bcrypt.MinCost, s.bcryptCost)
}
