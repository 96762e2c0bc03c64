package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection and vends the repositories built on it.
type DB struct {
	SqlDB *sql.DB
}

var _ domain.Database = (*DB)(nil)

// New opens a SQLite database at the given path and configures it for use.
// WAL mode and foreign keys are set through the DSN so every connection the
// pool opens gets them.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Serialize writers; SQLite allows only one at a time anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + dbPath + "?" + q.Encode()
}

// Migrate applies the embedded schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the user repository.
func (d *DB) Users() domain.UserRepository {
	return NewUserRepository(d)
}

// Follows returns the follow edge repository.
func (d *DB) Follows() domain.FollowRepository {
	return NewFollowRepository(d)
}
