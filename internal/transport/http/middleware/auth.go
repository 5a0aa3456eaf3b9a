package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cheyennechau/Cowlendar-backend/pkg/jwtauth"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware validates bearer tokens locally
type AuthMiddleware struct {
	tokens *jwtauth.TokenManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *jwtauth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Auth validates JWT token from Authorization header
func (m *AuthMiddleware) Auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserID extracts user ID from request context
func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
