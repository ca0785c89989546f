package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/mocks"
	"github.com/phrazzld/taskward/internal/service/account"
	"github.com/phrazzld/taskward/internal/service/avatar"
	"github.com/phrazzld/taskward/internal/store"
)

type userFixture struct {
	users   *mocks.MockUserStore
	tasks   *mocks.MockTaskStore
	tokens  *mocks.MockTokenStore
	emails  *mocks.MockEmailSender
	handler *UserHandler
}

func newUserFixture() *userFixture {
	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	tokens := mocks.NewMockTokenStore()
	emails := mocks.NewMockEmailSender()
	accounts := account.NewServiceWithRunner(
		func(ctx context.Context, fn store.TxFn) error {
			return fn(ctx, (*sql.Tx)(nil))
		},
		users, tasks, tokens, emails,
	)
	return &userFixture{
		users:   users,
		tasks:   tasks,
		tokens:  tokens,
		emails:  emails,
		handler: NewUserHandler(users, avatar.NewService(users), accounts),
	}
}

func (f *userFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Test User", email, "horse battery staple", 30)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestUserHandler_Me(t *testing.T) {
	t.Parallel()
	f := newUserFixture()
	user := f.seedUser(t, "me@x.com")

	r := authed(httptest.NewRequest("GET", "/v1/users/me", nil), user.ID, "t")
	w := httptest.NewRecorder()
	f.handler.Me(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "me@x.com", body["email"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "tokens")
	assert.NotContains(t, body, "avatar")
}

func TestUserHandler_UpdateMe(t *testing.T) {
	t.Parallel()

	patch := func(t *testing.T, f *userFixture, userID uuid.UUID, body string) *httptest.ResponseRecorder {
		t.Helper()
		r := authed(httptest.NewRequest("PATCH", "/v1/users/me", strings.NewReader(body)), userID, "t")
		w := httptest.NewRecorder()
		f.handler.UpdateMe(w, r)
		return w
	}

	t.Run("updates allowed fields", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "ann@x.com")

		w := patch(t, f, user.ID, `{"name":"Ann","age":31}`)
		require.Equal(t, http.StatusOK, w.Code)

		updated, err := f.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", updated.Name)
		assert.Equal(t, 31, updated.Age)
		assert.Equal(t, "ann@x.com", updated.Email)
	})

	t.Run("changes the password through the store", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "ann@x.com")

		w := patch(t, f, user.ID, `{"password":"brand new pass"}`)
		require.Equal(t, http.StatusOK, w.Code)

		updated, err := f.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Empty(t, updated.Password, "plaintext must not survive the update")
		assert.Equal(t, "hashed:brand new pass", updated.HashedPassword)
	})

	t.Run("rejects disallowed fields without mutation", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "ann@x.com")

		w := patch(t, f, user.ID, `{"name":"Hacker","role":"admin"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		unchanged, err := f.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test User", unchanged.Name, "no field may be applied when any is invalid")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		f.seedUser(t, "taken@x.com")
		user := f.seedUser(t, "ann@x.com")

		w := patch(t, f, user.ID, `{"email":"taken@x.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_DeleteMe(t *testing.T) {
	t.Parallel()
	f := newUserFixture()
	user := f.seedUser(t, "bye@x.com")

	task, err := domain.NewTask(user.ID, "orphan-to-be", false)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), task))

	r := authed(httptest.NewRequest("DELETE", "/v1/users/me", nil), user.ID, "t")
	w := httptest.NewRecorder()
	f.handler.DeleteMe(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Deleted successfully", resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, "bye@x.com", resp.User.Email)

	_, err = f.users.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	remaining, err := f.tasks.List(context.Background(), user.ID, store.TaskListOptions{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, []string{"cancellation"}, f.emails.SentTo("bye@x.com"))
}

// pngUpload builds a multipart body carrying a small valid PNG in the
// "avatar" field.
func pngUpload(t *testing.T, fieldName, fileName string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: 128, A: 255})
		}
	}
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestUserHandler_Avatar(t *testing.T) {
	t.Parallel()

	upload := func(t *testing.T, f *userFixture, userID uuid.UUID, fieldName, fileName string) *httptest.ResponseRecorder {
		t.Helper()
		body, contentType := pngUpload(t, fieldName, fileName)
		r := authed(httptest.NewRequest("POST", "/v1/users/me/avatar", body), userID, "t")
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		f.handler.UploadAvatar(w, r)
		return w
	}

	serve := func(t *testing.T, f *userFixture, id string) *httptest.ResponseRecorder {
		t.Helper()
		r := withURLParam(httptest.NewRequest("GET", "/v1/users/"+id+"/avatar", nil), "id", id)
		w := httptest.NewRecorder()
		f.handler.ServeAvatar(w, r)
		return w
	}

	t.Run("upload then serve returns normalized PNG", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "pic@x.com")

		require.Equal(t, http.StatusOK, upload(t, f, user.ID, "avatar", "me.png").Code)

		w := serve(t, f, user.ID.String())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

		img, format, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, avatar.Dimension, img.Bounds().Dx())
		assert.Equal(t, avatar.Dimension, img.Bounds().Dy())
	})

	t.Run("rejects uploads with wrong field name", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "pic@x.com")

		w := upload(t, f, user.ID, "file", "me.png")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unsupported filename", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "pic@x.com")

		w := upload(t, f, user.ID, "avatar", "me.gif")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("serve misses are 400", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "noavatar@x.com")

		assert.Equal(t, http.StatusBadRequest, serve(t, f, user.ID.String()).Code, "user without avatar")
		assert.Equal(t, http.StatusBadRequest, serve(t, f, uuid.NewString()).Code, "unknown user")
		assert.Equal(t, http.StatusBadRequest, serve(t, f, "not-a-uuid").Code, "malformed id")
	})

	t.Run("clear removes the avatar", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()
		user := f.seedUser(t, "pic@x.com")
		require.Equal(t, http.StatusOK, upload(t, f, user.ID, "avatar", "me.jpg.png").Code)

		r := authed(httptest.NewRequest("DELETE", "/v1/users/me/avatar", nil), user.ID, "t")
		w := httptest.NewRecorder()
		f.handler.DeleteAvatar(w, r)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, http.StatusBadRequest, serve(t, f, user.ID.String()).Code)
	})
}
