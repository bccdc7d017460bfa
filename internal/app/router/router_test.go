package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user_backend/internal/feature/user/adapters"
	userhandler "user_backend/internal/feature/user/transport/handler"
	"user_backend/internal/feature/user/usecase"
	"user_backend/internal/platform/http/handler"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupRouter wires the real stack on an in-memory SQLite database.
func setupRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&adapters.UserModel{}))

	uc := usecase.NewUserUsecase(adapters.NewUserGorm(db), usecase.NewUserValidator())
	status := handler.NewStatusHandler(handler.ServiceInfo{Name: "user-service", Version: "test"},
		map[string]handler.CheckFunc{"database": sqlDB.PingContext})

	return NewRouter(userhandler.NewUserHandler(uc), status, Options{AllowedOrigins: origins})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_UserLifecycle(t *testing.T) {
	r := setupRouter(t, []string{"http://localhost:3000"})

	w := do(r, http.MethodPost, "/api/v1/users", `{"name":"John Doe","email":"john@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := int64(created["id"].(float64))
	assert.Positive(t, id)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, http.MethodPost, "/api/v1/users", `{"name":"Johnny","email":"john@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	path := "/api/v1/users/" + jsonNumber(id)
	w = do(r, http.MethodPut, path, `{"name":"John Smith","email":"john@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code, "keeping own email is not a duplicate")

	w = do(r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John Smith")

	w = do(r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"user not found with ID: `+jsonNumber(id)+`"}`, w.Body.String())
}

func TestRouter_ValidationAndArguments(t *testing.T) {
	r := setupRouter(t, nil)

	w := do(r, http.MethodPost, "/api/v1/users", `{"name":"J","email":"test@10minutemail.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []any{
		"Name must be at least 2 characters long",
		"Disposable email addresses are not allowed",
	}, body["details"])

	w = do(r, http.MethodPost, "/api/v1/users", `null`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request cannot be null")

	w = do(r, http.MethodGet, "/api/v1/users/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user ID must be a positive number"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/v1/users/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/users", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRouter_PlatformEndpoints(t *testing.T) {
	r := setupRouter(t, nil)

	tests := []struct {
		path           string
		expectedStatus int
		contains       string
	}{
		{"/", http.StatusOK, `"users":"/api/v1/users"`},
		{"/status", http.StatusOK, `"status":"UP"`},
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/readyz", http.StatusOK, `"database":"ok"`},
		{"/api/v1/health", http.StatusOK, "User service is running!"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Run("listed origin with credentials", func(t *testing.T) {
		r := setupRouter(t, []string{"http://localhost:3000"})

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin is rejected", func(t *testing.T) {
		r := setupRouter(t, []string{"http://localhost:3000"})

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		r := setupRouter(t, []string{"*"})

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set("Origin", "http://anything.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRouter_ReadinessFailure(t *testing.T) {
	status := handler.NewStatusHandler(handler.ServiceInfo{Name: "user-service"},
		map[string]handler.CheckFunc{"database": func(ctx context.Context) error { return context.DeadlineExceeded }})
	r := NewRouter(userhandler.NewUserHandler(nil), status, Options{AllowedOrigins: []string{"*"}})

	w := do(r, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
