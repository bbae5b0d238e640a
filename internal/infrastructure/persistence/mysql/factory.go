package mysql

import (
	"context"
	"fmt"

	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/config"
)

// Repositories holds all MySQL repository implementations.
type Repositories struct {
	StatusChange *StatusChangeRepository
}

// NewRepositories creates all MySQL repository implementations.
// It establishes a database connection, runs migrations, and returns all repositories.
func NewRepositories(ctx context.Context, cfg *config.MySQLConfig) (*Repositories, *DB, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("mysql config is required")
	}

	// Create database connection
	db, err := NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating database connection: %w", err)
	}

	// Run migrations
	migrator := NewMigrator(db.Conn())
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	repos := &Repositories{
		StatusChange: NewStatusChangeRepository(db.Conn()),
	}

	return repos, db, nil
}
