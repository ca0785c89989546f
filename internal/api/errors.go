package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/service/auth"
	"github.com/phrazzld/taskward/internal/service/avatar"
	"github.com/phrazzld/taskward/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors. A task owned by someone else is reported the
	// same way as a task that does not exist.
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordContainsWord),
		errors.Is(err, domain.ErrInvalidAge),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, avatar.ErrTooLarge),
		errors.Is(err, avatar.ErrUnsupportedFile),
		errors.Is(err, avatar.ErrInvalidImage):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors. Login failures share one message so the
	// response does not reveal whether the email is registered.
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Unable to login"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Please authenticate."

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	// Bad request errors. Validation messages are authored by us and
	// safe to show.
	case errors.Is(err, store.ErrEmailExists):
		return "Email already in use"

	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyEmail):
		return "Email is invalid"

	case errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordContainsWord),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrInvalidPassword):
		return capitalizeFirst(trimValidationPrefix(err))

	case errors.Is(err, domain.ErrInvalidAge):
		return "Age must be a positive number"

	case errors.Is(err, domain.ErrEmptyDescription):
		return "Description is required"

	case errors.Is(err, avatar.ErrTooLarge),
		errors.Is(err, avatar.ErrUnsupportedFile),
		errors.Is(err, avatar.ErrInvalidImage):
		return capitalizeFirst(trimValidationPrefix(err))

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return capitalizeFirst(trimValidationPrefix(err))

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// trimValidationPrefix strips the generic "validation failed: " wrapper
// so the client sees only the specific reason.
func trimValidationPrefix(err error) string {
	msg := err.Error()
	prefix := fmt.Sprintf("%s: ", domain.ErrValidation.Error())
	return strings.TrimPrefix(msg, prefix)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
