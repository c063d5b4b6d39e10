// Package identity carries the authenticated user through a request context.
package identity

import (
	"context"

	"contactbook/internal/auth"
	"contactbook/internal/model"
)

type contextKey string

const (
	contextKeyUser   = contextKey("user")
	contextKeyClaims = contextKey("claims")
)

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, contextKeyUser, user)
}

// UserFromContext extracts the authenticated user.
// Returns the user and true if present, or nil and false if not present.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(contextKeyUser).(*model.User)
	return user, ok && user != nil
}

// WithClaims returns a context carrying the verified token claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, contextKeyClaims, claims)
}

// ClaimsFromContext extracts the verified token claims.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(contextKeyClaims).(*auth.Claims)
	return claims, ok && claims != nil
}
