package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/msomdec/usergraph/internal/authz"
	"github.com/msomdec/usergraph/internal/domain"
)

// UserIDHeader carries the caller id when a trusted gateway has already
// authenticated the request.
const UserIDHeader = "user-id"

// Authenticator resolves the caller of an HTTP request.
type Authenticator struct {
	gate        *authz.Gate
	trustHeader bool
}

// NewAuthenticator creates an Authenticator. With trustHeader set, a
// non-empty user-id header wins over any bearer token.
func NewAuthenticator(gate *authz.Gate, trustHeader bool) *Authenticator {
	return &Authenticator{gate: gate, trustHeader: trustHeader}
}

// authenticate returns a context carrying the caller. It fails with
// domain.ErrUnauthorized when the request carries no credentials at all,
// and with the gate's token error when a bearer token does not verify.
func (a *Authenticator) authenticate(r *http.Request) (context.Context, error) {
	ctx := r.Context()

	if a.trustHeader {
		if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
			return authz.WithCaller(ctx, id), nil
		}
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return ctx, domain.ErrUnauthorized
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return ctx, domain.ErrTokenInvalid
	}
	return a.gate.Authenticate(ctx, strings.TrimSpace(token))
}

// RequireAuth is middleware that protects routes requiring a caller.
// Unauthenticated requests get a 401 whose code tells a missing credential
// apart from an expired or invalid token.
func RequireAuth(a *Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := a.authenticate(r)
		if err != nil {
			if !errors.Is(err, domain.ErrTokenExpired) && !errors.Is(err, domain.ErrTokenInvalid) {
				err = domain.ErrUnauthorized
			}
			writeDomainError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth is middleware that attaches the caller when the request
// authenticates and otherwise lets it through anonymously.
func OptionalAuth(a *Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctx, err := a.authenticate(r); err == nil {
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
