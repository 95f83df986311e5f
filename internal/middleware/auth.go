package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/andriyko/contactbook-backend/internal/models"
)

// UserResolver resolves a bearer access token to its user.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, bearerToken string) (*models.User, error)
}

type contextKey string

const userContextKey contextKey = "currentUser"

// RequireUser guards protected routes: it resolves the Authorization bearer
// token and stores the current user in the request context. Any failure is a
// uniform 401 with no detail about which check failed.
func RequireUser(auth UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := extractBearerToken(r.Header.Get("Authorization"))
			if bearer == "" {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			user, err := auth.ResolveCurrentUser(r.Context(), bearer)
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by RequireUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
