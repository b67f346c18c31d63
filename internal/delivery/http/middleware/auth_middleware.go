package middleware

import (
	"context"
	"net/http"
	"strings"

	"catalogview-backend/internal/domain"
	"catalogview-backend/pkg/utils"
)

// AuthMiddleware guards the catalog edit surface. Read-only view traffic
// stays unauthenticated; anything that writes through to the remote
// catalog requires a valid editor token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Get Token from Header or Cookie
		tokenString := ""
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			cookie, err := r.Cookie("accessToken")
			if err == nil {
				tokenString = cookie.Value
			}
		}

		if tokenString == "" {
			http.Error(w, "Unauthorized: No token provided", http.StatusUnauthorized)
			return
		}

		// 2. Validate Token
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		// 3. Set Context
		// The editor identity is reconstructed from token claims; there is
		// no user store to consult.
		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)

		editor := &domain.Editor{
			Subject: sub,
			Role:    role,
		}

		ctx := context.WithValue(r.Context(), domain.EditorContextKey, editor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
