package auth

import "context"

type ctxKey struct{}

func WithUser(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// UserFromContext returns the session claims, or nil outside an
// authenticated request.
func UserFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}
