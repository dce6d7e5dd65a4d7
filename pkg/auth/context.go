package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const sessionContextKey contextKey = "session"

var ErrNoSession = errors.New("no session in context")

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, sessionContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(sessionContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoSession
	}
	return claims, nil
}

// ProviderID returns the session provider, or uuid.Nil when unauthenticated.
func ProviderID(ctx context.Context) uuid.UUID {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil
	}
	return claims.ProviderID
}
