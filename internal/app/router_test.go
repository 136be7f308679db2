package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"kennelbook.io/kennelbook/internal/api/handlers"
	"kennelbook.io/kennelbook/internal/config"
	"kennelbook.io/kennelbook/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "console")
	m.Run()
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
}

func TestNewRouter_HealthAndRequestID(t *testing.T) {
	router := newRouter(testServerConfig(), handlers.NewServer(handlers.ServerDeps{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewRouter_RequestIDPassthrough(t *testing.T) {
	router := newRouter(testServerConfig(), handlers.NewServer(handlers.ServerDeps{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	router.ServeHTTP(w, req)

	require.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := newRouter(testServerConfig(), handlers.NewServer(handlers.ServerDeps{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/dogs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
