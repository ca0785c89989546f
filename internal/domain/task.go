package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyDescription = errors.New("task description cannot be empty")
	ErrEmptyOwnerID     = errors.New("task owner ID cannot be empty")
)

// Task represents a single to-do item owned by exactly one user.
// OwnerID is immutable after creation; a task is visible and mutable
// only through its owner's authenticated identity.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task for the given owner. The owner ID always
// comes from the authenticated identity, never from client input.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Description: description,
		Completed:   completed,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Description == "" {
		return ErrEmptyDescription
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	return nil
}
