package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, task *domain.Task) error
	GetForOwnerFn       func(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)
	ListFn              func(ctx context.Context, ownerID uuid.UUID, opts store.TaskListOptions) ([]*domain.Task, error)
	UpdateFn            func(ctx context.Context, task *domain.Task) error
	DeleteForOwnerFn    func(ctx context.Context, taskID, ownerID uuid.UUID) error
	DeleteAllForOwnerFn func(ctx context.Context, ownerID uuid.UUID) error

	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// WithTx implements the TaskStore interface.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

// GetForOwner implements the TaskStore interface.
func (m *MockTaskStore) GetForOwner(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, taskID, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, exists := m.Tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List implements the TaskStore interface. The default honors the
// completed filter, created_at ordering, and limit/skip; it is enough
// for handler tests, not a full query engine.
func (m *MockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, opts)
	}

	if opts.SortField != "" && !store.ValidTaskSortField(opts.SortField) {
		return nil, store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var tasks []*domain.Task
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && task.Completed != *opts.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if opts.SortDescending {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(tasks) {
		tasks = tasks[:opts.Limit]
	}

	return tasks, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, exists := m.Tasks[task.ID]
	if !exists || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// DeleteForOwner implements the TaskStore interface.
func (m *MockTaskStore) DeleteForOwner(ctx context.Context, taskID, ownerID uuid.UUID) error {
	if m.DeleteForOwnerFn != nil {
		return m.DeleteForOwnerFn(ctx, taskID, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, exists := m.Tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, taskID)
	return nil
}

// DeleteAllForOwner implements the TaskStore interface.
func (m *MockTaskStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	if m.DeleteAllForOwnerFn != nil {
		return m.DeleteAllForOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
		}
	}
	return nil
}
