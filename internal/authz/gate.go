// Package authz resolves the caller identity attached to a request context
// and enforces the "must be authenticated" policy.
package authz

import (
	"context"

	"github.com/msomdec/usergraph/internal/domain"
)

type contextKey string

const callerContextKey contextKey = "caller"

// WithCaller returns a copy of ctx carrying userID as the caller identity.
func WithCaller(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerContextKey, userID)
}

// CallerFromContext returns the caller identity, if any. An empty id is
// treated as absent.
func CallerFromContext(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(callerContextKey).(string)
	return id, id != ""
}

// RequireCaller returns the caller identity or domain.ErrUnauthorized for an
// anonymous request. Every operation that needs an identity goes through
// here before touching storage.
func RequireCaller(ctx context.Context) (string, error) {
	id, ok := CallerFromContext(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

// TokenVerifier resolves a raw access token to its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate re-verifies raw tokens for transports that forward them unverified.
type Gate struct {
	tokens TokenVerifier
}

// NewGate creates a Gate backed by tokens.
func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate verifies rawToken and returns ctx with the token subject as
// the caller. Token errors are returned as is so callers can tell
// domain.ErrTokenExpired from domain.ErrTokenInvalid; ctx is returned
// unchanged on failure.
func (g *Gate) Authenticate(ctx context.Context, rawToken string) (context.Context, error) {
	if rawToken == "" {
		return ctx, domain.ErrTokenInvalid
	}
	subject, err := g.tokens.Verify(rawToken)
	if err != nil {
		return ctx, err
	}
	return WithCaller(ctx, subject), nil
}
