package domain

import (
	"context"
	"time"
)

// Follow is a directed edge: FollowerID follows FollowingID.
// ID is assigned by storage and increases with insertion order.
type Follow struct {
	ID          int64
	FollowerID  string
	FollowingID string
	CreatedAt   time.Time
}

// FollowResult is returned by follow and unfollow: the edge that was
// created or removed, and the followee.
type FollowResult struct {
	Follow Follow
	User   *User
}

// FollowRepository defines persistence operations for follow edges.
//
// Create returns ErrAlreadyFollowing when the pair already exists,
// ErrSelfFollowForbidden when both ends are the same user and
// ErrUserNotFound when either end does not reference a user.
// Delete returns ErrNotFollowing when there is no such edge.
// List methods return rows in insertion order.
type FollowRepository interface {
	Create(ctx context.Context, follow *Follow) error
	Delete(ctx context.Context, followerID, followingID string) (*Follow, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]User, error)
	ListFollowers(ctx context.Context, userID string) ([]User, error)
	ListFollowingIDs(ctx context.Context, userID string) ([]string, error)
}
