package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/msomdec/usergraph/internal/credential"
	"github.com/msomdec/usergraph/internal/domain"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	maxPasswordBytes   = 72
)

var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9._-]{2,31}$`)

// SocialService owns accounts and the follow graph between them. Operations
// that act on behalf of a caller read the caller's identity from the context
// (see authz.WithCaller) and fail with domain.ErrUnauthorized before touching
// storage when there is none.
//
// Errors returned to callers are either members of the domain taxonomy or
// domain.ErrInternal; storage faults are logged here and never passed on.
type SocialService struct {
	users     domain.UserRepository
	follows   domain.FollowRepository
	passwords *credential.Passwords
	tokens    *credential.Tokens
	avatars   domain.AvatarStore
}

// NewSocialService creates a new SocialService. avatars may be nil, in which
// case avatar uploads report domain.ErrAvatarStorageDisabled.
func NewSocialService(
	users domain.UserRepository,
	follows domain.FollowRepository,
	passwords *credential.Passwords,
	tokens *credential.Tokens,
	avatars domain.AvatarStore,
) *SocialService {
	return &SocialService{
		users:     users,
		follows:   follows,
		passwords: passwords,
		tokens:    tokens,
		avatars:   avatars,
	}
}

// CreateAccountInput holds the fields needed to register a user.
type CreateAccountInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	ImageURL  *string
}

// CanonicalUsername trims and lowercases a username so lookups and
// uniqueness do not depend on the caller's casing.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateNewAccount(in CreateAccountInput) error {
	if in.Username == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: username, password, first name, and last name are required", domain.ErrInvalidInput)
	}
	if !usernamePattern.MatchString(in.Username) {
		return fmt.Errorf("%w: username must be 3-32 characters of a-z, 0-9, '.', '_' or '-', starting with a letter", domain.ErrInvalidInput)
	}
	if len(in.Password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

// internal hides anything outside the domain taxonomy behind
// domain.ErrInternal, logging the detail.
func internal(ctx context.Context, op string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	slog.ErrorContext(ctx, "social service failure", "op", op, "error", err)
	return domain.ErrInternal
}

// lookup returns the user or domain.ErrUserNotFound.
func lookup(ctx context.Context, find func(context.Context, string) (*domain.User, error), key string) (*domain.User, error) {
	user, err := find(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return user, err
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultSearchLimit
	case limit > maxSearchLimit:
		return maxSearchLimit
	default:
		return limit
	}
}
