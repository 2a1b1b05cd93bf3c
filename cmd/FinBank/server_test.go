package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebuszqo/FinBank/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	stats map[string]string
}

func (s stubHealth) Health(context.Context) map[string]string {
	return s.stats
}

// denyAllAuth only provides the middleware; every protected request is rejected.
type denyAllAuth struct {
	auth.Service
}

func (denyAllAuth) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
		})
	}
}

func newTestServer(stats map[string]string) *Server {
	s := &Server{
		health:      stubHealth{stats: stats},
		authService: denyAllAuth{},
	}
	s.RegisterRoutes()
	return s
}

func TestReadyEndpoint(t *testing.T) {
	s := newTestServer(map[string]string{"status": "up"})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestReadyEndpoint_DatabaseDown(t *testing.T) {
	s := newTestServer(map[string]string{"status": "down", "error": "database unreachable"})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unreachable")
}

func TestUnknownPath(t *testing.T) {
	s := newTestServer(map[string]string{"status": "up"})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Path not found"}`, rec.Body.String())
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := newTestServer(map[string]string{"status": "up"})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/protected/account"},
		{http.MethodPost, "/api/protected/transfer/2"},
		{http.MethodGet, "/api/protected/transfer"},
		{http.MethodGet, "/api/protected/finances"},
		{http.MethodDelete, "/api/protected/users/abc"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(map[string]string{"status": "up"})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRespondError_WithMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusBadRequest, "Validation errors occurred", []string{"value must be positive"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Validation errors occurred","code":400,"errors":["value must be positive"]}`, rec.Body.String())
}
