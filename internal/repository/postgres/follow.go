package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/usergraph/internal/domain"
)

const joinedUserColumns = `u.id, u.username, u.password_hash, u.first_name, u.last_name, u.image_url, u.created_at, u.updated_at`

type FollowRepository struct {
	db DBTX
}

func NewFollowRepository(db DBTX) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	query :=
		`INSERT INTO follows (follower_id, following_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, follow.FollowerID, follow.FollowingID).
		Scan(&follow.ID, &follow.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return domain.ErrAlreadyFollowing
		case codeCheckViolation:
			return domain.ErrSelfFollowForbidden
		case codeForeignKeyViolation:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	query :=
		`DELETE FROM follows
		 WHERE follower_id = $1 AND following_id = $2
		 RETURNING id, follower_id, following_id, created_at`

	f := &domain.Follow{}
	err := r.db.QueryRowContext(ctx, query, followerID, followingID).
		Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFollowing
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	query :=
		`SELECT ` + joinedUserColumns + `
		 FROM follows f JOIN users u ON u.id = f.following_id
		 WHERE f.follower_id = $1
		 ORDER BY f.id`
	return r.listUsers(ctx, query, userID)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	query :=
		`SELECT ` + joinedUserColumns + `
		 FROM follows f JOIN users u ON u.id = f.follower_id
		 WHERE f.following_id = $1
		 ORDER BY f.id`
	return r.listUsers(ctx, query, userID)
}

func (r *FollowRepository) listUsers(ctx context.Context, query, userID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *FollowRepository) ListFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT following_id FROM follows WHERE follower_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan following id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}
