package service

import (
	"context"

	"github.com/msomdec/usergraph/internal/authz"
	"github.com/msomdec/usergraph/internal/domain"
)

// Follow makes the caller follow the user named targetUsername.
// Following someone already followed fails with domain.ErrAlreadyFollowing.
func (s *SocialService) Follow(ctx context.Context, targetUsername string) (*domain.FollowResult, error) {
	callerID, target, err := s.resolveEdge(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	edge := &domain.Follow{FollowerID: callerID, FollowingID: target.ID}
	if err := s.follows.Create(ctx, edge); err != nil {
		return nil, internal(ctx, "follow", err)
	}
	return &domain.FollowResult{Follow: *edge, User: target}, nil
}

// Unfollow removes the caller's edge to targetUsername and returns it.
// Fails with domain.ErrNotFollowing when there is no such edge.
func (s *SocialService) Unfollow(ctx context.Context, targetUsername string) (*domain.FollowResult, error) {
	callerID, target, err := s.resolveEdge(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	edge, err := s.follows.Delete(ctx, callerID, target.ID)
	if err != nil {
		return nil, internal(ctx, "unfollow", err)
	}
	return &domain.FollowResult{Follow: *edge, User: target}, nil
}

// resolveEdge returns the caller id and the target user for a follow
// mutation, rejecting anonymous callers and self edges.
func (s *SocialService) resolveEdge(ctx context.Context, targetUsername string) (string, *domain.User, error) {
	callerID, err := authz.RequireCaller(ctx)
	if err != nil {
		return "", nil, err
	}

	target, err := lookup(ctx, s.users.GetByUsername, CanonicalUsername(targetUsername))
	if err != nil {
		return "", nil, internal(ctx, "resolve follow target", err)
	}
	if target.ID == callerID {
		return "", nil, domain.ErrSelfFollowForbidden
	}
	return callerID, target, nil
}

// ListFollowing returns the users userID follows, oldest edge first.
func (s *SocialService) ListFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	users, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, internal(ctx, "list following", err)
	}
	return users, nil
}

// ListFollowers returns the users following userID, oldest edge first.
func (s *SocialService) ListFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	users, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, internal(ctx, "list followers", err)
	}
	return users, nil
}

// ListFollowingIDs returns the ids of the users userID follows, oldest edge
// first. It is empty, never nil, when userID follows nobody.
func (s *SocialService) ListFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.follows.ListFollowingIDs(ctx, userID)
	if err != nil {
		return nil, internal(ctx, "list following ids", err)
	}
	return ids, nil
}

// IsFollowing reports whether the caller follows targetID. Anonymous
// callers follow nobody.
func (s *SocialService) IsFollowing(ctx context.Context, targetID string) (bool, error) {
	callerID, ok := authz.CallerFromContext(ctx)
	if !ok {
		return false, nil
	}
	exists, err := s.follows.Exists(ctx, callerID, targetID)
	if err != nil {
		return false, internal(ctx, "is following", err)
	}
	return exists, nil
}
