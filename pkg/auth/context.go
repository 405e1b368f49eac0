package auth

import "context"

type ctxKey struct{}

// WithClaims stores the authenticated caller in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromCtx returns the authenticated caller, if any.
func FromCtx(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}

func UserIDFromCtx(ctx context.Context) (string, bool) {
	c, ok := FromCtx(ctx)
	if !ok {
		return "", false
	}
	return c.UserID, true
}

func RoleFromCtx(ctx context.Context) (string, bool) {
	c, ok := FromCtx(ctx)
	if !ok {
		return "", false
	}
	return c.Role, true
}
