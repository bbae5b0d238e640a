package sqlite

import "database/sql"

// Repositories holds all SQLite repository implementations.
type Repositories struct {
	StatusChange *StatusChangeRepository
}

// NewRepositories creates all SQLite repositories with a shared database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		StatusChange: NewStatusChangeRepository(db),
	}
}
