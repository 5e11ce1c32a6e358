package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/artswap-api/internal/config"
	"github.com/rajivgeraev/artswap-api/internal/models"
	"github.com/rajivgeraev/artswap-api/internal/repository"
)

type mockUsers struct {
	items map[uuid.UUID]*models.User
}

func (m *mockUsers) Create(_ context.Context, user *models.User) error {
	for _, existing := range m.items {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = uuid.New()
	m.items[user.ID] = user
	return nil
}

func (m *mockUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range m.items {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUsers) UpsertTelegram(_ context.Context, _ int64, _, _, _ string) (*models.User, error) {
	return nil, nil
}

func newTestApp(t *testing.T, users *mockUsers) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret"}
	svc := NewAuthService(cfg, users, nil)

	app := fiber.New()
	app.Post("/api/auth/signup", svc.SignupHandler)
	app.Post("/api/auth/login", svc.LoginHandler)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedUser(t *testing.T, users *mockUsers, username, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestSignup_Success(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	app := newTestApp(t, users)

	resp := postJSON(t, app, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	require.NotEmpty(t, body["token"])
	require.Len(t, users.items, 1)

	// Хеш пароля не должен попадать в ответ
	user := body["user"].(map[string]interface{})
	require.Equal(t, "alice", user["username"])
	_, leaked := user["password_hash"]
	require.False(t, leaked)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	existing := seedUser(t, users, "alice", "alice@example.com", "secret123")
	app := newTestApp(t, users)

	resp := postJSON(t, app, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Существующая запись не тронута
	require.Len(t, users.items, 1)
	require.Equal(t, "alice@example.com", users.items[existing.ID].Email)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	seedUser(t, users, "alice", "alice@example.com", "secret123")
	app := newTestApp(t, users)

	resp := postJSON(t, app, "/api/auth/signup", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Len(t, users.items, 1)
}

func TestSignup_ShortPassword(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	app := newTestApp(t, users)

	resp := postJSON(t, app, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Empty(t, users.items)
}

func TestSignup_InvalidEmail(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	app := newTestApp(t, users)

	for _, email := range []string{"not-an-email", "missing-domain@", "@missing-local.com", "two@@example.com"} {
		resp := postJSON(t, app, "/api/auth/signup", map[string]string{
			"username": "alice",
			"email":    email,
			"password": "secret123",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "email %q", email)
	}
	require.Empty(t, users.items)
}

func TestSignup_EmailTooLong(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	app := newTestApp(t, users)

	email := strings.Repeat("a", 95) + "@example.com"
	resp := postJSON(t, app, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Empty(t, users.items)
}

func TestLogin_Success(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	seedUser(t, users, "alice", "alice@example.com", "secret123")
	app := newTestApp(t, users)

	resp := postJSON(t, app, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, decodeBody(t, resp)["token"])
}

func TestLogin_FailureIsGeneric(t *testing.T) {
	users := &mockUsers{items: map[uuid.UUID]*models.User{}}
	seedUser(t, users, "alice", "alice@example.com", "secret123")
	app := newTestApp(t, users)

	// Неверный пароль и несуществующий пользователь неотличимы в ответе
	wrongPassword := postJSON(t, app, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	unknownUser := postJSON(t, app, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "secret123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)
	require.Equal(t, decodeBody(t, wrongPassword)["error"], decodeBody(t, unknownUser)["error"])
}
