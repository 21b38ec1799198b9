package context

import (
	"context"

	"accountd/internal/domain/service"
)

// KeyClaims is the key for storing verified token claims in context.
const KeyClaims ContextKey = "claims"

// WithClaims returns a context carrying the verified token claims.
func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, KeyClaims, claims)
}

// ClaimsFrom extracts the verified token claims, if present.
func ClaimsFrom(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(KeyClaims).(*service.Claims)

	return claims, ok
}
