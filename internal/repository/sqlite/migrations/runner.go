package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
)

// Run applies every pending migration embedded in FS.
func Run(ctx context.Context, db *sql.DB) error {
	return Apply(ctx, db, FS)
}

// Apply runs the .sql files found at the root of migrations that have not
// been recorded in schema_migrations yet. Each file runs in its own
// transaction together with its bookkeeping row.
func Apply(ctx context.Context, db *sql.DB, migrations fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	done, err := Applied(ctx, db)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}
	seen := make(map[string]bool, len(done))
	for _, name := range done {
		seen[name] = true
	}

	files, err := pending(migrations)
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	for _, name := range files {
		if seen[name] {
			slog.Debug("migration already applied", "file", name)
			continue
		}
		if err := applyFile(ctx, db, migrations, name); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		slog.Info("migration applied", "file", name)
	}
	return nil
}

// Applied returns the recorded migration filenames in order.
func Applied(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations ORDER BY filename")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func pending(migrations fs.FS) ([]string, error) {
	names, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func applyFile(ctx context.Context, db *sql.DB, migrations fs.FS, name string) error {
	content, err := fs.ReadFile(migrations, name)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (filename) VALUES (?)", path.Base(name),
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}
