package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/changcookbook/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func protectedRouter(validator TokenValidator, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(validator)}
	if admin {
		handlers = append(handlers, AdminMiddleware())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := protectedRouter(&stubValidator{}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	router := protectedRouter(&stubValidator{}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := protectedRouter(&stubValidator{err: errors.New("expired")}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	claims := &types.TokenClaims{UserID: uuid.New(), Email: "chef@example.com", Role: "user"}
	router := protectedRouter(&stubValidator{claims: claims}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	user := &types.TokenClaims{UserID: uuid.New(), Role: "user"}
	router := protectedRouter(&stubValidator{claims: user}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := &types.TokenClaims{UserID: uuid.New(), Role: "admin"}
	router = protectedRouter(&stubValidator{claims: admin}, true)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
