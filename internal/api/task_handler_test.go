package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/mocks"
)

type taskFixture struct {
	tasks   *mocks.MockTaskStore
	handler *TaskHandler
}

func newTaskFixture() *taskFixture {
	tasks := mocks.NewMockTaskStore()
	return &taskFixture{
		tasks:   tasks,
		handler: NewTaskHandler(tasks),
	}
}

func (f *taskFixture) seedTask(t *testing.T, ownerID uuid.UUID, description string, completed bool) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, description, completed)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates a task for the authenticated owner", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		userID := uuid.New()

		r := authed(httptest.NewRequest("POST", "/v1/tasks", strings.NewReader(`{"description":"buy milk"}`)), userID, "t")
		w := httptest.NewRecorder()
		f.handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Created successfully", resp.Message)
		require.NotNil(t, resp.Task)
		assert.Equal(t, "buy milk", resp.Task.Description)
		assert.False(t, resp.Task.Completed)
		assert.Equal(t, userID, resp.Task.OwnerID, "owner comes from the token, never the body")
	})

	t.Run("rejects empty description", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()

		r := authed(httptest.NewRequest("POST", "/v1/tasks", strings.NewReader(`{"completed":true}`)), uuid.New(), "t")
		w := httptest.NewRecorder()
		f.handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	t.Parallel()

	list := func(t *testing.T, f *taskFixture, userID uuid.UUID, query string) *httptest.ResponseRecorder {
		t.Helper()
		r := authed(httptest.NewRequest("GET", "/v1/tasks"+query, nil), userID, "t")
		w := httptest.NewRecorder()
		f.handler.List(w, r)
		return w
	}

	decode := func(t *testing.T, w *httptest.ResponseRecorder) []domain.Task {
		t.Helper()
		var tasks []domain.Task
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
		return tasks
	}

	t.Run("returns only the owner's tasks", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		mine, other := uuid.New(), uuid.New()
		f.seedTask(t, mine, "mine", false)
		f.seedTask(t, other, "not mine", false)

		w := list(t, f, mine, "")
		require.Equal(t, http.StatusOK, w.Code)
		tasks := decode(t, w)
		require.Len(t, tasks, 1)
		assert.Equal(t, "mine", tasks[0].Description)
	})

	t.Run("filters by completed", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		userID := uuid.New()
		f.seedTask(t, userID, "done", true)
		f.seedTask(t, userID, "pending", false)

		tasks := decode(t, list(t, f, userID, "?completed=true"))
		require.Len(t, tasks, 1)
		assert.Equal(t, "done", tasks[0].Description)
	})

	t.Run("sorts and paginates", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		userID := uuid.New()
		for i, desc := range []string{"first", "second", "third"} {
			task, err := domain.NewTask(userID, desc, false)
			require.NoError(t, err)
			task.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
			require.NoError(t, f.tasks.Create(context.Background(), task))
		}

		tasks := decode(t, list(t, f, userID, "?sortBy=createdAt:desc&limit=2"))
		require.Len(t, tasks, 2)
		assert.Equal(t, "third", tasks[0].Description)
		assert.Equal(t, "second", tasks[1].Description)

		tasks = decode(t, list(t, f, userID, "?sortBy=createdAt:asc&skip=2"))
		require.Len(t, tasks, 1)
		assert.Equal(t, "third", tasks[0].Description)
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()

		w := list(t, f, uuid.New(), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("rejects bad query parameters", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		userID := uuid.New()

		for _, query := range []string{
			"?completed=maybe",
			"?sortBy=owner:asc",
			"?sortBy=createdAt:sideways",
			"?limit=-1",
			"?skip=x",
		} {
			assert.Equal(t, http.StatusBadRequest, list(t, f, userID, query).Code, query)
		}
	})
}

func TestTaskHandler_Get(t *testing.T) {
	t.Parallel()

	get := func(t *testing.T, f *taskFixture, userID uuid.UUID, taskID string) *httptest.ResponseRecorder {
		t.Helper()
		r := authed(httptest.NewRequest("GET", "/v1/tasks/"+taskID, nil), userID, "t")
		r = withURLParam(r, "id", taskID)
		w := httptest.NewRecorder()
		f.handler.Get(w, r)
		return w
	}

	f := newTaskFixture()
	owner, stranger := uuid.New(), uuid.New()
	task := f.seedTask(t, owner, "buy milk", false)

	t.Run("owner can fetch", func(t *testing.T) {
		w := get(t, f, owner, task.ID.String())
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("someone else's task is indistinguishable from a missing one", func(t *testing.T) {
		wStranger := get(t, f, stranger, task.ID.String())
		wMissing := get(t, f, owner, uuid.NewString())
		wGarbage := get(t, f, owner, "not-a-uuid")

		assert.Equal(t, http.StatusNotFound, wStranger.Code)
		assert.Equal(t, http.StatusNotFound, wMissing.Code)
		assert.Equal(t, http.StatusNotFound, wGarbage.Code)
		assert.Equal(t, wMissing.Body.String(), wStranger.Body.String())
	})
}

func TestTaskHandler_Update(t *testing.T) {
	t.Parallel()

	patch := func(t *testing.T, f *taskFixture, userID uuid.UUID, taskID, body string) *httptest.ResponseRecorder {
		t.Helper()
		r := authed(httptest.NewRequest("PATCH", "/v1/tasks/"+taskID, strings.NewReader(body)), userID, "t")
		r = withURLParam(r, "id", taskID)
		w := httptest.NewRecorder()
		f.handler.Update(w, r)
		return w
	}

	t.Run("updates allowed fields", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		owner := uuid.New()
		task := f.seedTask(t, owner, "buy milk", false)

		w := patch(t, f, owner, task.ID.String(), `{"completed":true}`)
		require.Equal(t, http.StatusOK, w.Code)

		updated, err := f.tasks.GetForOwner(context.Background(), task.ID, owner)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "buy milk", updated.Description)
	})

	t.Run("rejects disallowed fields without mutation", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		owner := uuid.New()
		task := f.seedTask(t, owner, "buy milk", false)

		w := patch(t, f, owner, task.ID.String(), `{"completed":true,"owner_id":"`+uuid.NewString()+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		unchanged, err := f.tasks.GetForOwner(context.Background(), task.ID, owner)
		require.NoError(t, err)
		assert.False(t, unchanged.Completed)
	})

	t.Run("cannot update someone else's task", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		owner, stranger := uuid.New(), uuid.New()
		task := f.seedTask(t, owner, "buy milk", false)

		w := patch(t, f, stranger, task.ID.String(), `{"completed":true}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		unchanged, err := f.tasks.GetForOwner(context.Background(), task.ID, owner)
		require.NoError(t, err)
		assert.False(t, unchanged.Completed)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Parallel()

	del := func(t *testing.T, f *taskFixture, userID uuid.UUID, taskID string) *httptest.ResponseRecorder {
		t.Helper()
		r := authed(httptest.NewRequest("DELETE", "/v1/tasks/"+taskID, nil), userID, "t")
		r = withURLParam(r, "id", taskID)
		w := httptest.NewRecorder()
		f.handler.Delete(w, r)
		return w
	}

	t.Run("owner can delete and gets the task back", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		owner := uuid.New()
		task := f.seedTask(t, owner, "buy milk", false)

		w := del(t, f, owner, task.ID.String())
		require.Equal(t, http.StatusOK, w.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Deleted successfully", resp.Message)
		require.NotNil(t, resp.Task)
		assert.Equal(t, task.ID, resp.Task.ID)

		_, err := f.tasks.GetForOwner(context.Background(), task.ID, owner)
		require.Error(t, err)
	})

	t.Run("cannot delete someone else's task", func(t *testing.T) {
		t.Parallel()
		f := newTaskFixture()
		owner, stranger := uuid.New(), uuid.New()
		task := f.seedTask(t, owner, "buy milk", false)

		w := del(t, f, stranger, task.ID.String())
		assert.Equal(t, http.StatusNotFound, w.Code)

		_, err := f.tasks.GetForOwner(context.Background(), task.ID, owner)
		require.NoError(t, err, "the task must survive")
	})
}
