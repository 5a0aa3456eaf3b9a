package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/pkg/jwtauth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	tokens := jwtauth.NewTokenManager("test-secret", time.Hour, "cowlendar")
	m := NewAuthMiddleware(tokens)

	var gotUserID string
	handler := m.Auth(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token passes user ID through", func(t *testing.T) {
		userID := uuid.New()
		token, _, err := tokens.GenerateAccessToken(userID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), gotUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		rec := httptest.NewRecorder()

		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
