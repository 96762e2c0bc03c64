// Package repository selects the storage backend named by the configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/msomdec/usergraph/internal/config"
	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/repository/postgres"
	"github.com/msomdec/usergraph/internal/repository/sqlite"
)

// Open connects to the configured database. Migrations are not applied.
func Open(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}
