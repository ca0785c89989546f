package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/taskward/internal/api/middleware"
	"github.com/phrazzld/taskward/internal/api/shared"
)

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return shared.DecodeJSON(r, v)
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	shared.RespondWithJSON(w, r, status, data)
}

// RespondWithError writes a JSON error response with the given status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	shared.RespondWithError(w, r, status, message)
}

// HandleAPIError maps the error to a status code and a sanitized message
// and writes the response, logging the underlying error. A non-empty
// overrideMsg replaces the mapped message; the status mapping is kept.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if overrideMsg != "" {
		message = overrideMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the authentication middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getSessionTokenFromContext extracts the bearer token the client
// presented, needed by logout to revoke only the calling session.
func getSessionTokenFromContext(r *http.Request) (string, bool) {
	return middleware.GetSessionToken(r)
}
