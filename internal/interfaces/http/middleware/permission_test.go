package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cecagem/backoffice/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequireRole(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(newTestVerifier()))
	router.PATCH("/payments/:id", RequireRole(log, auth.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(role string) *httptest.ResponseRecorder {
		token := signToken(t, uuid.NewString(), role, testNow.Add(time.Hour))
		req := httptest.NewRequest(http.MethodPatch, "/payments/1", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call(auth.RoleAdmin).Code)

	w := call(auth.RoleCollaborator)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)
	assert.Equal(t, 1, logs.FilterMessage("Permission denied").Len())
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireRole(nil, auth.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
