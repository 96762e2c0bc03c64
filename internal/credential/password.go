// Package credential implements password hashing and signed access tokens.
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes and verifies passwords with bcrypt at a fixed cost.
type Passwords struct {
	cost int
}

// NewPasswords returns a bcrypt password hasher. The cost must lie within
// [bcrypt.MinCost, bcrypt.MaxCost].
func NewPasswords(cost int) (*Passwords, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Passwords{cost: cost}, nil
}

// Hash returns a self-describing bcrypt hash of plaintext.
func (p *Passwords) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is
// reported as a mismatch, never as an error.
func (p *Passwords) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
