package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/email"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/service/auth"
	"github.com/phrazzld/taskward/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	sessions         auth.SessionService
	passwordVerifier auth.PasswordVerifier
	emails           email.Sender
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	sessions auth.SessionService,
	passwordVerifier auth.PasswordVerifier,
	emails email.Sender,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		sessions:         sessions,
		passwordVerifier: passwordVerifier,
		emails:           emails,
		validator:        validator.New(),
	}
}

// SignUp handles the /v1/auth/sign-up endpoint. A successful sign-up
// creates the user, issues their first session token, and kicks off a
// best-effort welcome email.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req SignUpRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			RespondWithError(w, r, http.StatusBadRequest, "Email already in use")
			return
		}
		if MapErrorToStatusCode(err) == http.StatusInternalServerError {
			log.Error("failed to create user", "error", err)
			RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to issue session token", "error", err, "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	if err := h.emails.SendWelcome(r.Context(), user.Email, user.Name); err != nil {
		log.Warn("failed to send welcome email",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:    user,
		Token:   token,
		Message: "Signed-up successfully",
	})
}

// Login handles the /v1/auth/login endpoint. Unknown email and wrong
// password produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		log.Error("failed to get user by email", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to issue session token", "error", err, "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:    user,
		Token:   token,
		Message: "Logged in successfully",
	})
}

// Logout handles the /v1/auth/logout endpoint. Only the session token
// presented on this request is revoked; other sessions stay live.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}
	token, ok := getSessionTokenFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	if err := h.sessions.Revoke(r.Context(), userID, token); err != nil {
		log.Error("failed to revoke session token", "error", err, "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// LogoutAll handles the /v1/auth/logout-from-all-sessions endpoint,
// clearing the user's entire token set.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	if err := h.sessions.RevokeAll(r.Context(), userID); err != nil {
		log.Error("failed to revoke all session tokens", "error", err, "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Logged out from all sessions successfully"})
}
