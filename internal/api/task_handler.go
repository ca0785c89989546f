package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/taskward/internal/api/shared"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/store"
)

// TaskHandler handles task API requests. Every operation is scoped to
// the authenticated owner; there is no way to reach another user's task.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
	}
}

// Create handles POST /v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := domain.NewTask(userID, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, TaskResponse{
		Task:    task,
		Message: "Created successfully",
	})
}

// sortFieldAliases maps the query-level sort field names to their
// storage-level counterparts.
var sortFieldAliases = map[string]string{
	"createdAt":   store.TaskSortCreatedAt,
	"updatedAt":   store.TaskSortUpdatedAt,
	"description": store.TaskSortDescription,
	"completed":   store.TaskSortCompleted,
}

// parseListOptions translates the query string (completed, sortBy,
// limit, skip) into storage-level list options. sortBy has the form
// "field:dir", e.g. "createdAt:desc".
func parseListOptions(r *http.Request) (store.TaskListOptions, error) {
	var opts store.TaskListOptions
	q := r.URL.Query()

	if raw := q.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("%w: completed must be true or false", domain.ErrValidation)
		}
		opts.Completed = &completed
	}

	if raw := q.Get("sortBy"); raw != "" {
		field, dir, _ := strings.Cut(raw, ":")
		mapped, ok := sortFieldAliases[field]
		if !ok {
			return opts, fmt.Errorf("%w: unknown sort field %q", domain.ErrValidation, field)
		}
		opts.SortField = mapped
		switch dir {
		case "", "asc":
		case "desc":
			opts.SortDescending = true
		default:
			return opts, fmt.Errorf("%w: sort direction must be asc or desc", domain.ErrValidation)
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return opts, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrValidation)
		}
		opts.Limit = limit
	}

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return opts, fmt.Errorf("%w: skip must be a non-negative integer", domain.ErrValidation)
		}
		opts.Skip = skip
	}

	return opts, nil
}

// List handles GET /v1/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskStore.List(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Get handles GET /v1/tasks/{id}. A task owned by someone else is
// indistinguishable from a task that does not exist.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.identify(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PATCH /v1/tasks/{id}. Like profile updates, the change
// set is all-or-nothing against the allow-list.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSONAllowed(r, &req, updateTaskFields...); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Task:    task,
		Message: "Updated successfully",
	})
}

// Delete handles DELETE /v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.identify(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.DeleteForOwner(r.Context(), taskID, userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Task:    task,
		Message: "Deleted successfully",
	})
}

// identify extracts the authenticated user ID and the task ID from the
// request, writing the error response itself when either is missing. A
// malformed task id is treated as a miss, not a validation failure, so
// probing with garbage ids looks identical to probing with real ones.
func (h *TaskHandler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, taskID, true
}
