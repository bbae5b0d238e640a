package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialSchema(t *testing.T) {
	assert.Contains(t, initialSchema, "CREATE TABLE IF NOT EXISTS schema_migrations")
	assert.Contains(t, initialSchema, "CREATE TABLE IF NOT EXISTS status_changes")
	assert.Contains(t, initialSchema, "UNIQUE KEY uk_status_changes_id (id)")
}

func TestServerErrorClassification(t *testing.T) {
	noTable := &mysqldriver.MySQLError{Number: erNoSuchTable, Message: "Table 'test_db.schema_migrations' doesn't exist"}
	dup := &mysqldriver.MySQLError{Number: erDupEntry, Message: "Duplicate entry 'x' for key 'uk_status_changes_id'"}

	assert.True(t, isNoSuchTable(noTable))
	assert.True(t, isNoSuchTable(fmt.Errorf("query: %w", noTable)))
	assert.False(t, isNoSuchTable(dup))
	assert.False(t, isNoSuchTable(errors.New("Table doesn't exist")))
	assert.False(t, isNoSuchTable(nil))

	assert.True(t, isDuplicateID(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isDuplicateID(noTable))
	assert.False(t, isDuplicateID(errors.New("Duplicate entry")))
}

func TestMigrator_Up(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	migrator := NewMigrator(db.Conn())
	require.NoError(t, migrator.Up(ctx))

	// Idempotent
	require.NoError(t, migrator.Up(ctx))

	version, err := migrator.appliedVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	var rows int
	require.NoError(t, db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
