package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or the
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrRevokedToken indicates the token's signature verifies but the
	// token is no longer in the user's active session set (logged out).
	ErrRevokedToken = errors.New("authentication token has been revoked")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMissingSecret indicates the signing secret is not configured.
	// Token issuance must fail safely rather than sign with an empty key.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	// ErrInvalidCredentials indicates an email/password pair that does
	// not match a stored user. Lookup misses and hash mismatches are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
