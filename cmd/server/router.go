package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskward/internal/api"
	apiMiddleware "github.com/phrazzld/taskward/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.sessions,
		app.passwordVerifier,
		app.emails,
	)
	userHandler := api.NewUserHandler(app.userStore, app.avatars, app.accounts)
	taskHandler := api.NewTaskHandler(app.taskStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.sessions)

	r.Route("/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/sign-up", authHandler.SignUp)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/users/{id}/avatar", userHandler.ServeAvatar)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)
			r.Post("/auth/logout-from-all-sessions", authHandler.LogoutAll)

			r.Get("/users/me", userHandler.Me)
			r.Patch("/users/me", userHandler.UpdateMe)
			r.Delete("/users/me", userHandler.DeleteMe)
			r.Post("/users/me/avatar", userHandler.UploadAvatar)
			r.Delete("/users/me/avatar", userHandler.DeleteAvatar)

			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
