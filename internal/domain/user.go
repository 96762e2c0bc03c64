package domain

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	ImageURL     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate carries a partial update of the mutable user fields.
// A nil field is left unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.ImageURL == nil
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	List(ctx context.Context) ([]User, error)
	SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]User, error)
}
