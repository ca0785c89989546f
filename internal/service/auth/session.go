package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/config"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
)

// SessionService is the token ledger: it issues signed bearer tokens,
// records them in the holder's active-session set, and validates
// presented tokens against both the signature and that set. A token
// carries no expiry; removal from the set is the only way it dies.
type SessionService interface {
	// Issue generates a signed token binding the user's identity,
	// appends it to the user's active set, and returns it.
	// Fails with ErrMissingSecret if no signing secret is configured.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)

	// Validate verifies the token's signature, decodes the embedded
	// user ID, and confirms the token is still in that user's active
	// set. A token removed by logout fails with ErrRevokedToken even
	// though its signature still verifies.
	Validate(ctx context.Context, token string) (uuid.UUID, error)

	// Revoke removes exactly the matching token from the user's set.
	// Idempotent if the token is already absent.
	Revoke(ctx context.Context, userID uuid.UUID, token string) error

	// RevokeAll clears the user's entire token set (logout of all sessions).
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// sessionClaims defines the structure of the JWT claims in use. There is
// deliberately no expiry claim: revocation is the only termination path.
type sessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// hmacSessionService is an implementation of SessionService using
// HMAC-SHA256 signing over a persisted per-user token set.
type hmacSessionService struct {
	signingKey []byte
	tokens     store.TokenStore
	timeFunc   func() time.Time // Injectable for testing
}

// Ensure hmacSessionService implements SessionService interface
var _ SessionService = (*hmacSessionService)(nil)

// NewSessionService creates a new session service using HMAC-SHA signing.
// Returns ErrMissingSecret if the configured secret is empty, so a
// misconfigured server fails at startup instead of at first login.
func NewSessionService(cfg config.AuthConfig, tokens store.TokenStore) (SessionService, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	return &hmacSessionService{
		signingKey: []byte(cfg.JWTSecret),
		tokens:     tokens,
		timeFunc:   time.Now,
	}, nil
}

// Issue creates a signed token, persists it in the user's set, and
// returns it.
func (s *hmacSessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContext(ctx)

	if len(s.signingKey) == 0 {
		return "", ErrMissingSecret
	}

	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(s.timeFunc()),
			ID:       uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"user_id", userID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := s.tokens.Add(ctx, userID, signedToken); err != nil {
		log.Error("failed to persist session token",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to persist session token: %w", err)
	}

	return signedToken, nil
}

// Validate verifies the signature and then the ledger. The order
// matters: the cheap cryptographic check rejects garbage before any
// database round trip.
func (s *hmacSessionService) Validate(ctx context.Context, tokenString string) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return uuid.Nil, ErrMissingToken
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil || !token.Valid {
		log.Debug("session token validation failed",
			"error", err)
		return uuid.Nil, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil {
		log.Debug("session token validation failed: missing user ID claim")
		return uuid.Nil, ErrInvalidToken
	}

	// Signature success is not enough: the token must still be in the
	// user's active set, otherwise it was revoked by a logout.
	active, err := s.tokens.Exists(ctx, claims.UserID, tokenString)
	if err != nil {
		log.Error("failed to check session token ledger",
			"error", err,
			"user_id", claims.UserID)
		return uuid.Nil, fmt.Errorf("failed to check session token: %w", err)
	}
	if !active {
		log.Debug("session token validation failed: token revoked",
			"user_id", claims.UserID)
		return uuid.Nil, ErrRevokedToken
	}

	return claims.UserID, nil
}

// Revoke removes the exact token from the user's set.
func (s *hmacSessionService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	return s.tokens.Delete(ctx, userID, token)
}

// RevokeAll clears every session the user holds.
func (s *hmacSessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteAll(ctx, userID)
}
