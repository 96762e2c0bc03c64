package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/msomdec/usergraph/internal/authz"
	"github.com/msomdec/usergraph/internal/credential"
	"github.com/msomdec/usergraph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireCaller_Anonymous(t *testing.T) {
	_, err := authz.RequireCaller(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRequireCaller_EmptyIdentity(t *testing.T) {
	ctx := authz.WithCaller(context.Background(), "")

	_, ok := authz.CallerFromContext(ctx)
	assert.False(t, ok)

	_, err := authz.RequireCaller(ctx)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRequireCaller_WithIdentity(t *testing.T) {
	ctx := authz.WithCaller(context.Background(), "user-1")

	id, err := authz.RequireCaller(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func newGate(t *testing.T) (*authz.Gate, *credential.Tokens) {
	t.Helper()
	tokens, err := credential.NewTokens("gate-test-secret-with-enough-length", time.Hour)
	require.NoError(t, err)
	return authz.NewGate(tokens), tokens
}

func TestGate_Authenticate(t *testing.T) {
	gate, tokens := newGate(t)

	tok, err := tokens.Issue("user-9", 0)
	require.NoError(t, err)

	ctx, err := gate.Authenticate(context.Background(), tok)
	require.NoError(t, err)

	id, err := authz.RequireCaller(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)
}

func TestGate_AuthenticateFailures(t *testing.T) {
	gate, _ := newGate(t)
	other, err := credential.NewTokens("another-secret-that-signs-differently", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("user-9", 0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "abc.def"},
		{"foreign signature", foreign},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, err := gate.Authenticate(context.Background(), tc.token)
			require.ErrorIs(t, err, domain.ErrTokenInvalid)

			_, ok := authz.CallerFromContext(ctx)
			assert.False(t, ok, "failed authentication must leave the context anonymous")
		})
	}
}

type stubVerifier struct {
	subject string
	err     error
}

func (s stubVerifier) Verify(string) (string, error) { return s.subject, s.err }

func TestGate_AuthenticateExpiredIsDistinguishable(t *testing.T) {
	gate := authz.NewGate(stubVerifier{err: domain.ErrTokenExpired})

	_, err := gate.Authenticate(context.Background(), "whatever")
	require.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.NotErrorIs(t, err, domain.ErrTokenInvalid)
}
