// Package middleware provides HTTP middleware for snftrack.
package middleware

import (
	"context"
	"net/http"

	"github.com/gridwell/snftrack/internal/api/render"
	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/model"
)

type contextKey string

const userKey contextKey = "session_user"

// RequireSession validates the session cookie via s. On success it injects
// the auth.SessionUser into the request context; on failure it writes a
// 401 error response.
func RequireSession(s *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := s.Validate(w, r)
			if err != nil {
				render.Error(w, http.StatusUnauthorized,
					"not_authenticated", "a valid session is required")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the session user holds the admin role. Must be
// chained after RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			render.Error(w, http.StatusUnauthorized,
				"not_authenticated", "a valid session is required")
			return
		}
		if user.Role != model.RoleAdmin {
			render.Error(w, http.StatusForbidden,
				"forbidden", "the admin role is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext extracts the session user from the request context.
func UserFromContext(ctx context.Context) (auth.SessionUser, bool) {
	u, ok := ctx.Value(userKey).(auth.SessionUser)
	return u, ok
}
