package app

import (
	"context"
	"fmt"

	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/persistence/memory"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/persistence/mysql"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/persistence/sqlite"
)

func (app *Application) initializeStorage(ctx context.Context) error {
	switch app.config.Storage.Type {
	case config.StorageMySQL:
		repos, db, err := mysql.NewRepositories(ctx, &app.config.Storage.MySQL)
		if err != nil {
			return fmt.Errorf("mysql init: %w", err)
		}
		app.journal = repos.StatusChange
		app.dbCloser = db

		app.logger.Debug("MySQL journal initialized",
			"host", app.config.Storage.MySQL.Host,
			"database", app.config.Storage.MySQL.Database,
		)

	case config.StorageSQLite:
		db, err := sqlite.NewDB(app.config.Storage.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite init: %w", err)
		}

		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return fmt.Errorf("sqlite migration: %w", err)
		}

		app.journal = sqlite.NewRepositories(db.DB).StatusChange
		app.dbCloser = db

		app.logger.Debug("SQLite journal initialized",
			"path", app.config.Storage.SQLite.Path,
		)

	case config.StorageMemory:
		app.journal = memory.NewStatusChangeRepository()

		app.logger.Debug("in-memory journal initialized")

	case config.StorageNone, "":
		// Journal disabled

	default:
		return fmt.Errorf("unknown storage type: %s", app.config.Storage.Type)
	}

	return nil
}
