package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files and
// strategy and vends the repositories the services need.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Users() UserRepository
	Follows() FollowRepository
}
