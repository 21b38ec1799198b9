package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"accountd/config"
	"accountd/internal/delivery/http/middleware"
	"accountd/internal/delivery/http/router"
	"accountd/internal/delivery/http/router/handler"
	"accountd/internal/delivery/http/validator"
	"accountd/internal/domain/entity"
	"accountd/internal/domain/repository"
	"accountd/internal/infra/auth"
	"accountd/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryAccountRepository is an in-memory AccountRepository used to exercise
// the full register/login/profile flow without a database.
type memoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
}

func newMemoryAccountRepository() *memoryAccountRepository {
	return &memoryAccountRepository{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (r *memoryAccountRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	clone := *account

	return &clone, nil
}

func (r *memoryAccountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account

			return &clone, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *memoryAccountRepository) Create(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account.ID = uuid.New()
	clone := *account
	r.accounts[account.ID] = &clone

	return nil
}

func (r *memoryAccountRepository) Update(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	clone := *account
	r.accounts[account.ID] = &clone

	return nil
}

// memoryTransactionManager runs the transactional function directly against
// the in-memory repository.
type memoryTransactionManager struct {
	repo *memoryAccountRepository
}

func (m *memoryTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(memoryRepositoryFactory{repo: m.repo})
}

type memoryRepositoryFactory struct {
	repo *memoryAccountRepository
}

func (f memoryRepositoryFactory) AccountRepo() repository.AccountRepository {
	return f.repo
}

func newTestServer(t *testing.T) (*echo.Echo, *memoryAccountRepository) {
	t.Helper()

	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	cfg.SecretKey.Token = "e2e_test_secret_key_very_long_for_testing"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := newMemoryAccountRepository()
	txManager := &memoryTransactionManager{repo: repo}
	hasher := auth.NewBcryptHasher(cfg)
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	accountUC := impl.NewAccountService(repo, txManager, hasher, tokenSvc, logger)
	profileUC := impl.NewProfileService(repo, hasher, logger)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		AccountHandler: handler.NewAccountHandler(accountUC, profileUC, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenSvc),
	})
	r.RegisterRoutes(e)

	return e, repo
}

func doJSON(e *echo.Echo, method, path, token, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	e, _ := newTestServer(t)

	// Register
	rec := doJSON(e, http.MethodPost, "/auth/register", "", `{
		"firstName": "Test",
		"lastName":  "Account",
		"email":     "test@example.com",
		"mobileNo":  "09171234567",
		"password":  "password123"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Registered successfully", body["message"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "", user["password"])

	// Login
	rec = doJSON(e, http.MethodPost, "/auth/login", "", `{
		"email":    "test@example.com",
		"password": "password123"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body = decodeBody(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	token, ok := body["access"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// Profile with the issued token
	rec = doJSON(e, http.MethodGet, "/account/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body = decodeBody(t, rec)
	user, ok = body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "Test", user["firstName"])
	assert.Equal(t, "", user["password"])
}

func TestLoginFailures(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", "", `{
		"email":    "test@example.com",
		"password": "password123"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password and unknown email produce identical responses.
	wrongPassword := doJSON(e, http.MethodPost, "/auth/login", "", `{
		"email":    "test@example.com",
		"password": "wrongpassword"
	}`)
	unknownEmail := doJSON(e, http.MethodPost, "/auth/login", "", `{
		"email":    "missing@example.com",
		"password": "password123"
	}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid credentials", decodeBody(t, wrongPassword)["error"])
}

func TestRegisterValidationRejectedBeforeWrite(t *testing.T) {
	e, repo := newTestServer(t)

	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{
			name:    "invalid email",
			payload: `{"email": "nope", "password": "password123"}`,
			wantMsg: "Email is invalid",
		},
		{
			name:    "invalid mobile",
			payload: `{"email": "a@b.com", "mobileNo": "123", "password": "password123"}`,
			wantMsg: "Mobile number must be 11 digits",
		},
		{
			name:    "short password",
			payload: `{"email": "a@b.com", "password": "short"}`,
			wantMsg: "Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/auth/register", "", tt.payload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["error"])
		})
	}

	// Nothing was written for any rejected registration.
	assert.Empty(t, repo.accounts)
}

func TestDuplicateRegistrationConflict(t *testing.T) {
	e, _ := newTestServer(t)

	payload := `{"email": "test@example.com", "password": "password123"}`
	first := doJSON(e, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(e, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, second)["error"])
}

func TestCheckEmailEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/check-email", "", `{"email": "test@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["exists"])

	reg := doJSON(e, http.MethodPost, "/auth/register", "", `{"email": "test@example.com", "password": "password123"}`)
	require.Equal(t, http.StatusCreated, reg.Code)

	rec = doJSON(e, http.MethodPost, "/auth/check-email", "", `{"email": "test@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["exists"])
}

func TestElevationFlow(t *testing.T) {
	e, repo := newTestServer(t)

	// A regular account and a bootstrapped admin.
	reg := doJSON(e, http.MethodPost, "/auth/register", "", `{"email": "member@example.com", "password": "password123"}`)
	require.Equal(t, http.StatusCreated, reg.Code)

	reg = doJSON(e, http.MethodPost, "/auth/register", "", `{"email": "admin@example.com", "password": "password123"}`)
	require.Equal(t, http.StatusCreated, reg.Code)

	var memberID uuid.UUID
	for id, account := range repo.accounts {
		switch account.Email {
		case "member@example.com":
			memberID = id
		case "admin@example.com":
			account.IsAdmin = true
		}
	}
	require.NotEqual(t, uuid.Nil, memberID)

	login := func(email string) string {
		rec := doJSON(e, http.MethodPost, "/auth/login", "", `{"email": "`+email+`", "password": "password123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		return decodeBody(t, rec)["access"].(string)
	}

	memberToken := login("member@example.com")
	adminToken := login("admin@example.com")

	// A non-admin cannot elevate anyone.
	rec := doJSON(e, http.MethodPatch, "/admin/accounts/"+memberID.String()+"/elevate", memberToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Action Forbidden", decodeBody(t, rec)["message"])

	// An admin can.
	rec = doJSON(e, http.MethodPatch, "/admin/accounts/"+memberID.String()+"/elevate", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, true, user["isAdmin"])

	// Elevating an unknown account reports not found.
	rec = doJSON(e, http.MethodPatch, "/admin/accounts/"+uuid.NewString()+"/elevate", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileUpdateFlow(t *testing.T) {
	e, _ := newTestServer(t)

	reg := doJSON(e, http.MethodPost, "/auth/register", "", `{
		"firstName": "Test",
		"lastName":  "Account",
		"email":     "test@example.com",
		"password":  "password123"
	}`)
	require.Equal(t, http.StatusCreated, reg.Code)

	login := doJSON(e, http.MethodPost, "/auth/login", "", `{"email": "test@example.com", "password": "password123"}`)
	require.Equal(t, http.StatusOK, login.Code)
	token := decodeBody(t, login)["access"].(string)

	// Partial update: only lastName changes.
	rec := doJSON(e, http.MethodPatch, "/account/profile", token, `{"lastName": "Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Renamed", user["lastName"])
	assert.Equal(t, "Test", user["firstName"])

	// Password reset invalidates the old password for future logins.
	rec = doJSON(e, http.MethodPost, "/account/reset-password", token, `{"newPassword": "rotated456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	old := doJSON(e, http.MethodPost, "/auth/login", "", `{"email": "test@example.com", "password": "password123"}`)
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := doJSON(e, http.MethodPost, "/auth/login", "", `{"email": "test@example.com", "password": "rotated456"}`)
	assert.Equal(t, http.StatusOK, fresh.Code)
}
