package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/usergraph/internal/authz"
	"github.com/msomdec/usergraph/internal/domain"
)

// CreateAccount validates the input, hashes the password and stores a new user.
func (s *SocialService) CreateAccount(ctx context.Context, in CreateAccountInput) (*domain.User, error) {
	in.Username = CanonicalUsername(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateNewAccount(in); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, internal(ctx, "create account", err)
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		ImageURL:     normalizeImageURL(in.ImageURL),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, internal(ctx, "create account", err)
	}

	slog.InfoContext(ctx, "account created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *SocialService) Login(ctx context.Context, username, password string) (string, error) {
	username = CanonicalUsername(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := lookup(ctx, s.users.GetByUsername, username)
	if err != nil {
		return "", internal(ctx, "login", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return "", domain.ErrInvalidPassword
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		return "", internal(ctx, "login", err)
	}
	return token, nil
}

// UpdateProfile applies a partial update to the caller's profile. An empty
// ImageURL removes the stored image.
func (s *SocialService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	callerID, err := authz.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		v := strings.TrimSpace(*update.FirstName)
		if v == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", domain.ErrInvalidInput)
		}
		update.FirstName = &v
	}
	if update.LastName != nil {
		v := strings.TrimSpace(*update.LastName)
		if v == "" {
			return nil, fmt.Errorf("%w: last name cannot be empty", domain.ErrInvalidInput)
		}
		update.LastName = &v
	}
	if update.ImageURL != nil {
		v := strings.TrimSpace(*update.ImageURL)
		update.ImageURL = &v
	}

	if update.Empty() {
		return s.currentUser(ctx, callerID)
	}

	user, err := s.users.Update(ctx, callerID, update)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, internal(ctx, "update profile", err)
	}
	return user, nil
}

// GetCurrentProfile returns the caller's own user record.
func (s *SocialService) GetCurrentProfile(ctx context.Context) (*domain.User, error) {
	callerID, err := authz.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	return s.currentUser(ctx, callerID)
}

func (s *SocialService) currentUser(ctx context.Context, callerID string) (*domain.User, error) {
	user, err := lookup(ctx, s.users.GetByID, callerID)
	if err != nil {
		return nil, internal(ctx, "current profile", err)
	}
	return user, nil
}

// GetUserByUsername returns the user or nil when no such user exists.
func (s *SocialService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, CanonicalUsername(username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(ctx, "get user by username", err)
	}
	return user, nil
}

// GetUserByID returns the user or nil when no such user exists.
func (s *SocialService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(ctx, "get user by id", err)
	}
	return user, nil
}

// ListUsers returns every user in creation order.
func (s *SocialService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internal(ctx, "list users", err)
	}
	return users, nil
}

// SearchUsers returns users whose username starts with prefix, ordered by
// username. limit defaults to 20 and is capped at 50.
func (s *SocialService) SearchUsers(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	users, err := s.users.SearchByUsernamePrefix(ctx, CanonicalUsername(prefix), clampLimit(limit))
	if err != nil {
		return nil, internal(ctx, "search users", err)
	}
	return users, nil
}

// PresignAvatarUpload prepares a direct upload of a profile image for the
// caller. The returned ImageURL becomes visible once passed to UpdateProfile.
func (s *SocialService) PresignAvatarUpload(ctx context.Context, contentType string) (*domain.AvatarUpload, error) {
	callerID, err := authz.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if s.avatars == nil {
		return nil, domain.ErrAvatarStorageDisabled
	}

	upload, err := s.avatars.PresignUpload(ctx, callerID, strings.TrimSpace(contentType))
	if err != nil {
		return nil, internal(ctx, "presign avatar upload", err)
	}
	return upload, nil
}

func normalizeImageURL(u *string) *string {
	if u == nil {
		return nil
	}
	v := strings.TrimSpace(*u)
	if v == "" {
		return nil
	}
	return &v
}
