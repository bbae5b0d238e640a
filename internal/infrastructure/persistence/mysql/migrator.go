package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"
)

// schemaVersion is the journal schema created by initialSchema.
const schemaVersion = 1

//go:embed migrations/001_initial.sql
var initialSchema string

// Migrator creates the journal tables and records the applied version in
// schema_migrations.
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new migrator for the given database connection.
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Up creates the journal schema unless schema_migrations already records it.
// The DSN enables multi statements so the schema runs in one Exec.
func (m *Migrator) Up(ctx context.Context) error {
	applied, err := m.appliedVersion(ctx)
	if err != nil {
		return fmt.Errorf("getting applied version: %w", err)
	}
	if applied >= schemaVersion {
		return nil
	}

	// MySQL commits DDL implicitly, so there is no transaction to wrap this in.
	if _, err := m.db.ExecContext(ctx, initialSchema); err != nil {
		return fmt.Errorf("creating journal schema: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO schema_migrations (version, applied_at)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE applied_at = VALUES(applied_at)
	`, schemaVersion, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}

// appliedVersion returns 0 on a fresh database.
func (m *Migrator) appliedVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if isNoSuchTable(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}
