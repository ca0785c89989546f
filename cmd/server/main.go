// Package main implements the entry point for the taskward API server,
// a multi-user task tracker with token-based sessions and user avatars.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/taskward/internal/config"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/platform/postgres"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs migrations, and wires the application dependencies.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"email_enabled", cfg.Email.SendGridAPIKey != "")

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return newApplication(cfg, appLogger, db)
}
