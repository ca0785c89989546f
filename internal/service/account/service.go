// Package account coordinates multi-store account lifecycle operations.
// Its centerpiece is account deletion, which must remove the user's
// tasks, their session tokens, and the user row together: either the
// whole account disappears or none of it does.
package account

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/email"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
)

// Service removes accounts and everything dependent on them.
type Service struct {
	users  store.UserStore
	tasks  store.TaskStore
	tokens store.TokenStore
	emails email.Sender

	// runTx wraps the deletion in a transaction; tests substitute a
	// pass-through so mock stores can be exercised without a database.
	runTx TxRunner
}

// TxRunner executes a function inside a transaction boundary.
type TxRunner func(ctx context.Context, fn store.TxFn) error

// NewService creates the account service. The db handle owns the
// transaction in which the cascade runs.
func NewService(
	db *sql.DB,
	users store.UserStore,
	tasks store.TaskStore,
	tokens store.TokenStore,
	emails email.Sender,
) *Service {
	return NewServiceWithRunner(
		func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		users, tasks, tokens, emails,
	)
}

// NewServiceWithRunner is like NewService but with a caller-supplied
// transaction runner. Tests substitute a pass-through so the cascade
// can run against in-memory stores.
func NewServiceWithRunner(
	runTx TxRunner,
	users store.UserStore,
	tasks store.TaskStore,
	tokens store.TokenStore,
	emails email.Sender,
) *Service {
	return &Service{
		users:  users,
		tasks:  tasks,
		tokens: tokens,
		emails: emails,
		runTx:  runTx,
	}
}

// DeleteAccount removes the user's tasks, session tokens, and finally
// the user row inside a single transaction. Other users' data is never
// touched. After the transaction commits, a cancellation email is sent
// on a best-effort basis; email failure does not fail the deletion.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).DeleteAllForOwner(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := s.tokens.WithTx(tx).DeleteAll(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete session tokens: %w", err)
		}
		if err := s.users.WithTx(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("account deleted",
		slog.String("user_id", userID.String()))

	if err := s.emails.SendCancellation(ctx, user.Email, user.Name); err != nil {
		log.Warn("failed to send cancellation email",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}

	return user, nil
}
