package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUserName is assigned when a user signs up without a name.
const DefaultUserName = "Anonymous"

// Common validation errors
var (
	ErrEmptyUserID          = errors.New("user ID cannot be empty")
	ErrEmptyEmail           = errors.New("email cannot be empty")
	ErrPasswordTooShort     = errors.New("password must be at least 6 characters long")
	ErrPasswordContainsWord = errors.New("password cannot contain the word \"password\"")
	ErrEmptyPassword        = errors.New("password cannot be empty")
	ErrInvalidAge           = errors.New("age must be greater than zero")
)

// User represents a registered user of the application.
// Password holds a plaintext value only transiently, while a create or
// update that changes it is in flight; persistence replaces it with
// HashedPassword. Tokens and the avatar are never part of the public
// JSON shape.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"` // Plaintext, only during registration/updates
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	Avatar         []byte    `json:"-"` // Raw PNG bytes, served by a dedicated endpoint
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User from sign-up input. The name falls back to
// DefaultUserName when blank and the email is normalized to lower case.
// Returns an error if validation fails.
//
// NOTE: The plaintext password is carried as-is; the user store hashes it
// before anything touches disk.
func NewUser(name, email, password string, age int) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultUserName
	}

	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Age <= 0 {
		return ErrInvalidAge
	}

	// During creation or a password change the plaintext is present and
	// must satisfy the password rules; otherwise the stored hash must exist.
	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword enforces the password rules: at least 6 characters and
// not containing the literal substring "password".
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordContainsWord
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. Uniqueness is
// case-insensitive, so every email is normalized before validation,
// storage, and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// The domain needs a dot that is neither leading nor trailing.
	domainPart := email[atIndex+1:]
	if strings.ContainsAny(domainPart, "@ ") {
		return false
	}
	dotIndex := strings.IndexByte(domainPart, '.')
	if dotIndex <= 0 || dotIndex == len(domainPart)-1 {
		return false
	}

	return true
}
