package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/stockpilot/stock-pilot-backend/internal/api/response"
)

type contextKey string

// UserIDKey is the request context key under which the authenticated user's
// ID is stored by JWTAuthMiddleware.
const UserIDKey contextKey = "userID"

// TokenVerifier validates a bearer token and resolves it to a user ID.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// JWTAuthMiddleware authenticates requests with a Bearer token in the
// Authorization header. On success it stores the user ID in the request
// context under UserIDKey; otherwise it responds with 401 Unauthorized.
func JWTAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", "Missing Authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", "Authorization header must be a Bearer token")
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", "Token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user ID placed in the context
// by JWTAuthMiddleware. The second return is false when the request did not
// pass through the middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
