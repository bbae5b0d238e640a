package mysql

import (
	"database/sql"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the journal reacts to.
const (
	erDupEntry    = 1062
	erNoSuchTable = 1146
)

// optional stores an unset status field or a run without an event as NULL.
func optional(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func serverErrorNumber(err error) uint16 {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number
	}
	return 0
}

// isDuplicateID reports whether an insert hit the unique id key.
func isDuplicateID(err error) bool {
	return serverErrorNumber(err) == erDupEntry
}

func isNoSuchTable(err error) bool {
	return serverErrorNumber(err) == erNoSuchTable
}
