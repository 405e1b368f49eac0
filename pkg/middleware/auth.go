package middleware

import (
	"context"
	"net/http"

	"github.com/eburutu/mart/pkg/auth"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/response"
	"github.com/eburutu/mart/pkg/session"
)

// UserLookup returns the stored role and active flag for a user id. It lets
// Authenticate pick up role changes (such as a seller being verified) made
// after the token was issued.
type UserLookup func(ctx context.Context, userID string) (role string, active bool, err error)

// Authenticate attaches the session caller to the request context when the
// token is valid and the user still exists and is active. It never rejects a
// request; routes that need a caller add RequireAuth or rbac.HasRole.
func Authenticate(lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := session.Current(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if lookup != nil {
				role, active, err := lookup(r.Context(), claims.UserID)
				if err != nil || !active {
					if err != nil {
						logger.WithCtx(r.Context()).Debug("session user lookup failed", "user_id", claims.UserID, "error", err)
					}
					next.ServeHTTP(w, r)
					return
				}
				current := *claims
				current.Role = role
				claims = &current
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAuth answers 401 when no caller is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromCtx(r.Context()); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
