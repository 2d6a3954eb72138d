package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quizhub/app/models"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/identity"
	"github.com/quizhub/quizhub/internal/pkg/token"
)

type memoryUserRepo struct {
	users  map[uint]*models.User
	links  map[string]bool
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:  make(map[uint]*models.User),
		links:  make(map[string]bool),
		nextID: 1,
	}
}

func linkKeyFor(userID uint, provider string) string {
	return fmt.Sprintf("%d:%s", userID, provider)
}

func (m *memoryUserRepo) Create(user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepo) CreateWithLink(user *models.User, provider string, emailVerified bool) error {
	if err := m.Create(user); err != nil {
		return err
	}
	if emailVerified {
		now := time.Now()
		user.EmailVerifiedAt = &now
	}
	m.links[linkKeyFor(user.ID, provider)] = true
	return nil
}

func (m *memoryUserRepo) GetByID(id uint) (*models.User, error) {
	return m.users[id], nil
}

func (m *memoryUserRepo) GetByEmail(email string) (*models.User, error) {
	normalized := models.NormalizeEmail(email)
	for _, user := range m.users {
		if user.Email == normalized {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) IsEmailTaken(email string) (bool, error) {
	user, _ := m.GetByEmail(email)
	return user != nil, nil
}

func (m *memoryUserRepo) IsUsernameTaken(username string) (bool, error) {
	normalized := models.NormalizeUsername(username)
	for _, user := range m.users {
		if user.Username == normalized {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepo) SetEmailVerified(user *models.User) error {
	now := time.Now()
	user.EmailVerifiedAt = &now
	return nil
}

type memoryRefreshRepo struct {
	byToken map[string]*models.RefreshToken
	byUser  map[uint]string
}

func newMemoryRefreshRepo() *memoryRefreshRepo {
	return &memoryRefreshRepo{
		byToken: make(map[string]*models.RefreshToken),
		byUser:  make(map[uint]string),
	}
}

func (m *memoryRefreshRepo) FindByToken(value string) (*models.RefreshToken, error) {
	return m.byToken[value], nil
}

func (m *memoryRefreshRepo) Upsert(userID uint, value string) error {
	if previous, ok := m.byUser[userID]; ok {
		delete(m.byToken, previous)
	}
	m.byUser[userID] = value
	m.byToken[value] = &models.RefreshToken{Token: value, UserID: userID, CreatedAt: time.Now()}
	return nil
}

// memoryLinkRepo reads the links recorded by memoryUserRepo so the two
// stay consistent the way the real tables do.
type memoryLinkRepo struct {
	users *memoryUserRepo
}

func (m memoryLinkRepo) Create(userID uint, provider string) error {
	m.users.links[linkKeyFor(userID, provider)] = true
	return nil
}

func (m memoryLinkRepo) Find(userID uint, provider string) (*models.UserLink, error) {
	if !m.users.links[linkKeyFor(userID, provider)] {
		return nil, nil
	}
	return &models.UserLink{UserID: userID, Provider: provider}, nil
}

func newAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv(token.SigningKeyEnv, "test-signing-key")

	users := newMemoryUserRepo()
	tokens, err := token.NewService(users, newMemoryRefreshRepo())
	require.NoError(t, err)

	identitySvc := identity.NewService(nil, users, memoryLinkRepo{users: users}, tokens)
	ctrl := NewAuthController(identitySvc, tokens)

	app := fiber.New(fiber.Config{ErrorHandler: httperr.ErrorHandler})
	app.Post("/auth/basic/register", ctrl.HandleRegister)
	app.Post("/auth/basic/login", ctrl.HandleLogin)
	app.Post("/auth/token/refresh", ctrl.HandleRefresh)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	app := newAuthTestApp(t)

	resp, body := postJSON(t, app, "/auth/basic/register", fiber.Map{
		"username": "someuser",
		"email":    "Test@Example.com",
		"password": "secret",
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	assert.Len(t, body["refresh_token"], token.RefreshTokenLength)
	assert.NotZero(t, body["expiry"])
}

func TestRegisterValidationErrors(t *testing.T) {
	app := newAuthTestApp(t)

	resp, body := postJSON(t, app, "/auth/basic/register", fiber.Map{
		"username": "ab",
		"email":    "not-an-email",
		"password": "secret",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", body["name"])

	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	app := newAuthTestApp(t)

	resp, _ := postJSON(t, app, "/auth/basic/register", fiber.Map{
		"username": "firstuser",
		"email":    "test@example.com",
		"password": "secret",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Same address with different casing still collides.
	resp, body := postJSON(t, app, "/auth/basic/register", fiber.Map{
		"username": "seconduser",
		"email":    "Test@EXAMPLE.com",
		"password": "secret",
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "auth:email_exists", body["name"])
}

func TestLogin(t *testing.T) {
	app := newAuthTestApp(t)

	resp, _ := postJSON(t, app, "/auth/basic/register", fiber.Map{
		"username": "someuser",
		"email":    "test@example.com",
		"password": "secret",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/basic/login", fiber.Map{
		"email":    "test@example.com",
		"password": "secret",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, body = postJSON(t, app, "/auth/basic/login", fiber.Map{
		"email":    "test@example.com",
		"password": "wrong1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "auth:incorrect_password", body["name"])

	resp, body = postJSON(t, app, "/auth/basic/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "secret",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "auth:email_not_found", body["name"])
}

func TestRefreshRotatesToken(t *testing.T) {
	app := newAuthTestApp(t)

	resp, registered := postJSON(t, app, "/auth/basic/register", fiber.Map{
		"username": "someuser",
		"email":    "test@example.com",
		"password": "secret",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	refreshToken, ok := registered["refresh_token"].(string)
	require.True(t, ok)

	resp, rotated := postJSON(t, app, "/auth/token/refresh", fiber.Map{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEqual(t, refreshToken, rotated["refresh_token"])

	// The original token was consumed by the rotation.
	resp, body := postJSON(t, app, "/auth/token/refresh", fiber.Map{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "auth:invalid_refresh_token", body["name"])
}

func TestRefreshUnknownToken(t *testing.T) {
	app := newAuthTestApp(t)

	resp, body := postJSON(t, app, "/auth/token/refresh", fiber.Map{
		"refresh_token": "never-issued",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "auth:invalid_refresh_token", body["name"])
}

func TestMalformedBody(t *testing.T) {
	app := newAuthTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/basic/login", bytes.NewReader([]byte("{not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "json_parse", body["name"])
}
