package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/taskward/internal/api/shared"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/service/account"
	"github.com/phrazzld/taskward/internal/service/avatar"
	"github.com/phrazzld/taskward/internal/store"
)

// UserHandler handles profile and avatar API requests.
type UserHandler struct {
	userStore store.UserStore
	avatars   *avatar.Service
	accounts  *account.Service
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	userStore store.UserStore,
	avatars *avatar.Service,
	accounts *account.Service,
) *UserHandler {
	return &UserHandler{
		userStore: userStore,
		avatars:   avatars,
		accounts:  accounts,
		validator: validator.New(),
	}
}

// Me handles GET /v1/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateMe handles PATCH /v1/users/me. The update is all-or-nothing: a
// single field outside the allow-list rejects the whole request before
// anything is assigned.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSONAllowed(r, &req, updateUserFields...); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		user.Password = *req.Password
	}
	if req.Age != nil {
		user.Age = *req.Age
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UserResponse{
		User:    user,
		Message: "Updated successfully",
	})
}

// DeleteMe handles DELETE /v1/users/me by delegating to the account
// service, which removes the user together with their tasks and tokens.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	user, err := h.accounts.DeleteAccount(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UserResponse{
		User:    user,
		Message: "Deleted successfully",
	})
}

// UploadAvatar handles POST /v1/users/me/avatar. The image arrives as
// the multipart form field "avatar" and is stored in its normalized
// 250x250 PNG form.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	// Reject oversized bodies before buffering the file. The limit is
	// padded to leave room for multipart framing; the exact file-size
	// check happens in the avatar service.
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxUploadBytes+64*1024)

	file, header, err := r.FormFile("avatar")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Please upload an image in the \"avatar\" field")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn("failed to close uploaded file", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(file)
	if err != nil {
		HandleAPIError(w, r, avatar.ErrTooLarge, "")
		return
	}

	if err := h.avatars.Set(r.Context(), userID, raw, header.Filename); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Image uploaded successfully"})
}

// DeleteAvatar handles DELETE /v1/users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	if err := h.avatars.Clear(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Avatar deleted successfully"})
}

// ServeAvatar handles GET /v1/users/{id}/avatar. The route is public;
// any miss, whether an unknown user, a malformed id, or a user without
// an avatar, is reported as a 400.
func (h *UserHandler) ServeAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Avatar not found")
		return
	}

	img, err := h.avatars.Serve(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, store.ErrAvatarNotFound) {
			RespondWithError(w, r, http.StatusBadRequest, "Avatar not found")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write avatar response", "error", err)
	}
}
