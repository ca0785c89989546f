package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskward/internal/config"
	"github.com/phrazzld/taskward/internal/platform/email"
	"github.com/phrazzld/taskward/internal/platform/postgres"
	"github.com/phrazzld/taskward/internal/service/account"
	"github.com/phrazzld/taskward/internal/service/auth"
	"github.com/phrazzld/taskward/internal/service/avatar"
	"github.com/phrazzld/taskward/internal/store"
)

// application bundles the configured dependencies the server runs on.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore  store.UserStore
	taskStore  store.TaskStore
	tokenStore store.TokenStore

	sessions         auth.SessionService
	passwordVerifier auth.PasswordVerifier
	avatars          *avatar.Service
	accounts         *account.Service
	emails           email.Sender
}

// newApplication wires every service to its dependencies. The database
// handle must already be open and migrated.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewUserStore(db, 0)
	taskStore := postgres.NewTaskStore(db)
	tokenStore := postgres.NewTokenStore(db)

	sessions, err := auth.NewSessionService(cfg.Auth, tokenStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	emails := email.NewSender(cfg.Email)

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        userStore,
		taskStore:        taskStore,
		tokenStore:       tokenStore,
		sessions:         sessions,
		passwordVerifier: auth.NewBcryptVerifier(),
		avatars:          avatar.NewService(userStore),
		accounts:         account.NewService(db, userStore, taskStore, tokenStore, emails),
		emails:           emails,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
