package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/todohub/todohub/internal/api/response"
	"github.com/todohub/todohub/internal/domain"
)

type contextKey string

const (
	// AuthContextKey is the context key for the authenticated caller.
	AuthContextKey contextKey = "authContext"
	// UserIDHeader carries the caller identity set by the gateway.
	UserIDHeader = "X-Auth-User-Id"
	// UserRoleHeader carries the caller role set by the gateway.
	UserRoleHeader = "X-Auth-User-Role"
)

// Auth middleware extracts the gateway identity headers and adds the caller
// to the request context. Requests without both headers are rejected.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			response.Error(w, domain.NewUnauthorizedError("Missing authentication header: "+UserIDHeader))
			return
		}

		role := strings.TrimSpace(r.Header.Get(UserRoleHeader))
		if role == "" {
			response.Error(w, domain.NewUnauthorizedError("Missing authentication header: "+UserRoleHeader))
			return
		}

		auth := domain.AuthContext{UserID: userID, Role: role}
		ctx := context.WithValue(r.Context(), AuthContextKey, auth)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAuthContext retrieves the authenticated caller from context. The Auth
// middleware guarantees a value on every protected route.
func GetAuthContext(ctx context.Context) domain.AuthContext {
	if auth, ok := ctx.Value(AuthContextKey).(domain.AuthContext); ok {
		return auth
	}
	return domain.AuthContext{}
}
