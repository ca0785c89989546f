package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
)

// Task list sort fields accepted by TaskListOptions. Values outside this
// set are rejected before any SQL is built.
const (
	TaskSortCreatedAt   = "created_at"
	TaskSortUpdatedAt   = "updated_at"
	TaskSortDescription = "description"
	TaskSortCompleted   = "completed"
)

// TaskListOptions narrows and orders a task listing. Zero values mean
// "no filter", "default order", "no limit", and "no skip" respectively.
type TaskListOptions struct {
	// Completed filters on completion state when non-nil.
	Completed *bool

	// SortField is one of the TaskSort* constants; empty means created_at.
	SortField string

	// SortDescending orders the sort field high-to-low when true.
	SortDescending bool

	// Limit caps the number of returned tasks; 0 means unlimited.
	Limit int

	// Skip drops that many tasks from the front of the result; 0 means none.
	Skip int
}

// ValidTaskSortField reports whether field names a sortable task column.
func ValidTaskSortField(field string) bool {
	switch field {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortDescription, TaskSortCompleted:
		return true
	}
	return false
}

// TaskStore defines the interface for task data persistence. Every read
// and write is scoped to an owner: a lookup that misses because the task
// does not exist and one that misses because it belongs to someone else
// both return ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task to the store. The task's OwnerID must
	// already be set from the authenticated identity.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by (taskID, ownerID) compound match.
	// Returns ErrTaskNotFound on any miss.
	GetForOwner(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks, narrowed and ordered by opts.
	List(ctx context.Context, ownerID uuid.UUID, opts TaskListOptions) ([]*domain.Task, error)

	// Update persists changes to a task's mutable fields, matched by
	// (task.ID, task.OwnerID). Returns ErrTaskNotFound on any miss.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes a task by (taskID, ownerID) compound match.
	// Returns ErrTaskNotFound on any miss.
	DeleteForOwner(ctx context.Context, taskID, ownerID uuid.UUID) error

	// DeleteAllForOwner removes every task the owner has. Used by the
	// cascade coordinator when a user account is deleted.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a new TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
