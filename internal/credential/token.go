package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/usergraph/internal/domain"
)

// Claims carries the subject id in the "id" claim alongside the registered
// claims. Subject mirrors the same id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokens creates a token issuer. The secret must be non-empty.
func NewTokens(secret string, defaultTTL time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", defaultTTL)
	}
	return &Tokens{secret: []byte(secret), defaultTTL: defaultTTL, now: time.Now}, nil
}

// DefaultTTL returns the lifetime used when Issue is called with ttl <= 0.
func (t *Tokens) DefaultTTL() time.Duration {
	return t.defaultTTL
}

// Issue signs a token for subjectID that expires after ttl.
func (t *Tokens) Issue(subjectID string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("token subject is required")
	}
	if ttl <= 0 {
		ttl = t.defaultTTL
	}

	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: subjectID,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// subject. It fails with domain.ErrTokenExpired when the signature is valid
// but the token is past its expiry, and domain.ErrTokenInvalid otherwise.
func (t *Tokens) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return subject, nil
}
