package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/taskward/internal/api/shared"
)

// authed attaches the authenticated identity to the request context the
// way the auth middleware would.
func authed(r *http.Request, userID uuid.UUID, token string) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, shared.SessionTokenContextKey, token)
	return r.WithContext(ctx)
}

// withURLParam injects a chi route parameter so handlers can be called
// without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
