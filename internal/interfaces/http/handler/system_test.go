package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"testing"

	"github.com/cecagem/backoffice/internal/interfaces/http/dto"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func systemEngine(h *SystemHandler) *gin.Engine {
	engine := gin.New()
	router.NewRouter(engine).Register(SystemRoutes(h)...).Setup()
	return engine
}

func TestSystemHandler_HealthOverDatabase(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var health HealthResponse
	env := decode(t, w, &health)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Database)
	assert.Equal(t, "2026-03-15T10:00:00Z", health.Time)
}

func TestSystemHandler_HealthUnreachableDatabase(t *testing.T) {
	h := NewSystemHandler(stubPinger{err: errors.New("dial tcp: connection refused")}, "svc", "1.0.0")
	engine := systemEngine(h)

	w := performRequest(engine, http.MethodGet, "/api/v1/health")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var health HealthResponse
	env := decode(t, w, &health)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeServiceUnhealthy, env.Error.Code)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "error", health.Database)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler(stubPinger{}, "cecagem-backoffice", "1.2.3")
	engine := systemEngine(h)

	w := performRequest(engine, http.MethodGet, "/api/v1/system/info")

	require.Equal(t, http.StatusOK, w.Code)
	var info SystemInfoResponse
	decode(t, w, &info)
	assert.Equal(t, "cecagem-backoffice", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Uptime)
}

func TestSystemHandler_InfoRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/system/info", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/system/info", collaboratorToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
