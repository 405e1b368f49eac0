// Package session carries the signed session token between the browser and
// the API.
//
// The token lives in an HttpOnly cookie (SESSION_COOKIE, default
// "mart_session"); API clients may send it as "Authorization: Bearer <token>"
// instead. Logging out revokes the token's ID in Redis until it would have
// expired anyway.
//
//	token, err := session.Issue(w, user.ID, user.Role)
//	claims, ok := session.Current(r)
//	session.Destroy(w, r)
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/eburutu/mart/config"
	"github.com/eburutu/mart/pkg/auth"
	"github.com/eburutu/mart/pkg/cache"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads cookie name and lifetime from config.
func DefaultOptions() Options {
	return Options{
		CookieName: config.SessionCookie(),
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.IsProduction(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

func revokedKey(id string) string { return cache.Key("session", "revoked", id) }

// Issue signs a token for the user and sets the session cookie.
func Issue(w http.ResponseWriter, userID, role string) (string, error) {
	opts := DefaultOptions()

	token, _, err := auth.GenerateToken(userID, role, opts.TTL)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName,
		Value:    token,
		Path:     opts.Path,
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
	return token, nil
}

// Token extracts the raw token from the cookie or the Authorization header.
func Token(r *http.Request) string {
	if cookie, err := r.Cookie(DefaultOptions().CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Current validates the request's token and rejects revoked ones.
func Current(r *http.Request) (*auth.Claims, bool) {
	raw := Token(r)
	if raw == "" {
		return nil, false
	}

	claims, err := auth.ValidateToken(raw)
	if err != nil {
		return nil, false
	}
	if cache.Exists(r.Context(), revokedKey(claims.ID)) {
		return nil, false
	}
	return claims, true
}

// Destroy revokes the current token (when Redis is available) and expires the cookie.
func Destroy(w http.ResponseWriter, r *http.Request) {
	opts := DefaultOptions()

	if claims, ok := Current(r); ok {
		revoke(r.Context(), claims)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName,
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

func revoke(ctx context.Context, claims *auth.Claims) {
	if claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	_ = cache.Set(ctx, revokedKey(claims.ID), true, ttl)
}
