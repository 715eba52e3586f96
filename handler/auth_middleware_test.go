// handler/auth_middleware_test.go
package handler

import (
	"finance-tracker-api/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	authService := service.NewAuthService(nil, nil, nil, testConfig())
	userID := uuid.New()

	var gotUserID uuid.UUID
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = userIDFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(authService)(next)

	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		token, err := authService.GenerateAccessToken(userID)
		assert.NoError(t, err)

		req, _ := http.NewRequest("GET", "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotOK)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/users/me", nil)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/users/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := authService.GenerateAccessToken(userID)
		assert.NoError(t, err)

		req, _ := http.NewRequest("GET", "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
