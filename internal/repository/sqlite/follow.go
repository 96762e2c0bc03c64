package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/usergraph/internal/domain"
)

const joinedUserColumns = `u.id, u.username, u.password_hash, u.first_name, u.last_name, u.image_url, u.created_at, u.updated_at`

// FollowRepository implements domain.FollowRepository using SQLite.
type FollowRepository struct {
	db *sql.DB
}

// NewFollowRepository creates a new SQLite-backed FollowRepository.
func NewFollowRepository(db *DB) *FollowRepository {
	return &FollowRepository{db: db.SqlDB}
}

func (r *FollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)`,
		follow.FollowerID, follow.FollowingID, now,
	)
	if err != nil {
		switch classifyConstraint(err) {
		case constraintUnique:
			return domain.ErrAlreadyFollowing
		case constraintCheck:
			return domain.ErrSelfFollowForbidden
		case constraintForeignKey:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert follow: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	follow.ID = id
	follow.CreatedAt = now
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	f := &domain.Follow{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, follower_id, following_id, created_at FROM follows
		 WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	).Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFollowing
		}
		return nil, fmt.Errorf("query follow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM follows WHERE id = ?`, f.ID); err != nil {
		return nil, fmt.Errorf("delete follow: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return f, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND following_id = ?)`,
		followerID, followingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+joinedUserColumns+`
		 FROM follows f JOIN users u ON u.id = f.following_id
		 WHERE f.follower_id = ?
		 ORDER BY f.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+joinedUserColumns+`
		 FROM follows f JOIN users u ON u.id = f.follower_id
		 WHERE f.following_id = ?
		 ORDER BY f.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *FollowRepository) ListFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT following_id FROM follows WHERE follower_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list following ids: %w", err)
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
		return nil, fmt.Errorf("iterate following ids: %w", err)
	}
	return ids, nil
}
