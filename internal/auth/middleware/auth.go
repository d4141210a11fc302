// Package middleware implements the request-time access checks: bearer token
// authentication and the admin gate layered on top of it.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/proshop/user-service/internal/auth"
	"github.com/proshop/user-service/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// UserLoader resolves a token subject to a user record.
type UserLoader interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// Authenticate validates the bearer token and resolves its subject to a live
// user. The full user record is stored in the request context so the admin
// check and the handlers never re-read the token. Requests without a valid
// token, or whose subject no longer exists, are rejected with 401 before any
// handler body runs.
func Authenticate(tokenGenerator *auth.TokenGenerator, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondUnauthorized(w, "authentication required")
				return
			}

			userID, err := tokenGenerator.Validate(token)
			if err != nil {
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects non-admin callers with 403. It must be mounted after
// Authenticate; a request reaching it without a context user is a wiring bug
// and fails closed.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			respondUnauthorized(w, "authentication required")
			return
		}

		if !user.IsAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"admin access required"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContextWithUser returns a copy of ctx carrying the authenticated user
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from context
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// bearerToken extracts the token from the Authorization header.
// Expected format: "Bearer <token>"
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
