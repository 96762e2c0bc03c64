package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/usergraph/internal/domain"
)

const userColumns = `id, username, password_hash, first_name, last_name, image_url, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// newID generates user ids; tests replace it for deterministic queries.
var newID = uuid.NewString

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query :=
		`INSERT INTO users (id, username, password_hash, first_name, last_name, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		newID(), user.Username, user.PasswordHash, user.FirstName, user.LastName, nullString(user.ImageURL),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	query :=
		`UPDATE users SET
		   first_name = COALESCE($1, first_name),
		   last_name  = COALESCE($2, last_name),
		   image_url  = CASE WHEN $3 THEN NULLIF($4, '') ELSE image_url END,
		   updated_at = now()
		 WHERE id = $5
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		nullString(update.FirstName), nullString(update.LastName),
		update.ImageURL != nil, nullString(update.ImageURL), id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepository) SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE username LIKE $1 ESCAPE '\'
		 ORDER BY username
		 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
		return nil, fmt.Errorf("db error: %w", err)
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
