package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/usergraph/internal/domain"
)

const userColumns = `id, username, password_hash, first_name, last_name, image_url, created_at, updated_at`

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, first_name, last_name, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, user.Username, user.PasswordHash, user.FirstName, user.LastName, nullString(user.ImageURL), now, now,
	)
	if err != nil {
		if classifyConstraint(err) == constraintUnique {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of update to the user's row. An empty
// ImageURL clears the stored image.
func (r *UserRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET
		   first_name = COALESCE(?, first_name),
		   last_name  = COALESCE(?, last_name),
		   image_url  = CASE WHEN ? THEN NULLIF(?, '') ELSE image_url END,
		   updated_at = ?
		 WHERE id = ?`,
		nullString(update.FirstName), nullString(update.LastName),
		update.ImageURL != nil, nullString(update.ImageURL),
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *UserRepository) SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username LIKE ? ESCAPE '\'
		 ORDER BY username
		 LIMIT ?`, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var imageURL sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName,
		&imageURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		user.ImageURL = &imageURL.String
	}
	return user, nil
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
