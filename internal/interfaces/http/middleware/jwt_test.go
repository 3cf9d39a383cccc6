package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cecagem/backoffice/internal/infrastructure/auth"
	"github.com/cecagem/backoffice/internal/infrastructure/config"
	"github.com/cecagem/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret-key-at-least-32-chars"

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestVerifier() *auth.Verifier {
	return auth.NewVerifier(
		config.JWTConfig{Secret: testSecret, Issuer: "cecagem-identity"},
		auth.WithTimeFunc(func() time.Time { return testNow }),
	)
}

func signToken(t *testing.T, subject, role string, expiresAt time.Time) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "cecagem-identity",
			IssuedAt:  jwt.NewNumericDate(testNow.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: "Ana Torres",
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newJWTRouter(log *zap.Logger) *gin.Engine {
	cfg := DefaultJWTConfig(newTestVerifier())
	cfg.Logger = log

	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/health", func(c *gin.Context) {
		c.String(http.StatusOK, "up")
	})
	router.GET("/api/v1/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		c.JSON(http.StatusOK, gin.H{
			"found":    ok,
			"id":       actor.ID.String(),
			"name":     actor.Name,
			"ctx_user": logger.GetActorID(c.Request.Context()),
		})
	})
	return router
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, userID.String(), auth.RoleAdmin, testNow.Add(15*time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	newJWTRouter(nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, `"found":true`)
	assert.Contains(t, body, `"id":"`+userID.String()+`"`)
	assert.Contains(t, body, `"name":"Ana Torres"`)
	assert.Contains(t, body, `"ctx_user":"`+userID.String()+`"`)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	valid := uuid.NewString()

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", header: "", message: "Missing authorization header"},
		{name: "not bearer", header: "Basic abc", message: "Invalid authorization header format"},
		{name: "empty bearer", header: BearerPrefix, message: "Invalid authorization header format"},
		{name: "garbage token", header: BearerPrefix + "not-a-jwt", message: "Invalid token"},
		{
			name:    "expired token",
			header:  BearerPrefix + signToken(t, valid, auth.RoleAdmin, testNow.Add(-time.Minute)),
			message: "Token has expired",
		},
		{
			name:    "subject is not a uuid",
			header:  BearerPrefix + signToken(t, "ana", auth.RoleAdmin, testNow.Add(time.Hour)),
			message: "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			newJWTRouter(zap.New(core)).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Contains(t, w.Body.String(), `"request_id":"`+w.Header().Get(RequestIDHeader)+`"`)
			assert.Equal(t, 1, logs.FilterMessage("JWT authentication failed").Len())
		})
	}
}

func TestJWTAuthMiddleware_SkipsHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	newJWTRouter(nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "up", w.Body.String())
}

func TestGetActor_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetActor(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))
}
