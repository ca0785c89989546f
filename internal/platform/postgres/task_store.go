package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
)

// TaskStore implements the store.TaskStore interface using PostgreSQL.
// Every query is keyed on (id, owner_id), so a task that exists under a
// different owner is indistinguishable from one that doesn't exist.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx returns a new TaskStore bound to the given transaction.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, description, completed, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Description,
		task.Completed,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			"task_id", task.ID,
			"owner_id", task.OwnerID,
			"error", err)
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}

	return nil
}

// GetForOwner implements store.TaskStore.GetForOwner.
func (s *TaskStore) GetForOwner(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, description, completed, owner_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(
		&task.ID,
		&task.Description,
		&task.Completed,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}

	return &task, nil
}

// List implements store.TaskStore.List. The sort field is validated
// against the allow-list before any SQL is assembled; filter and
// pagination clauses are appended only when set.
func (s *TaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	orderClause, err := buildTaskOrderClause(opts)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, description, completed, owner_id, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
	`)
	args := []any{ownerID}

	if opts.Completed != nil {
		args = append(args, *opts.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	sb.WriteString(orderClause)

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list tasks",
			"owner_id", ownerID,
			"error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Description,
			&task.Completed,
			&task.OwnerID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", MapError(err))
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", MapError(err))
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update. Only the mutable fields
// (description, completed) are written; the owner scoping in the WHERE
// clause keeps the operation invisible for foreign tasks.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Description,
		task.Completed,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteForOwner implements store.TaskStore.DeleteForOwner.
func (s *TaskStore) DeleteForOwner(ctx context.Context, taskID, ownerID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	result, err := s.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteAllForOwner implements store.TaskStore.DeleteAllForOwner.
// Deleting zero tasks is fine; the cascade coordinator calls this for
// every account deletion regardless of whether any tasks exist.
func (s *TaskStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE owner_id = $1`
	if _, err := s.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("failed to delete tasks for owner: %w", MapError(err))
	}
	return nil
}

// buildTaskOrderClause turns the validated sort options into an ORDER BY
// clause. The field name is interpolated, never parameterized, which is
// why it must come from the allow-list.
func buildTaskOrderClause(opts store.TaskListOptions) (string, error) {
	field := opts.SortField
	if field == "" {
		field = store.TaskSortCreatedAt
	}
	if !store.ValidTaskSortField(field) {
		return "", fmt.Errorf("%w: unsupported sort field %q", store.ErrInvalidEntity, field)
	}

	direction := "ASC"
	if opts.SortDescending {
		direction = "DESC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", field, direction), nil
}
