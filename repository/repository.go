package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error code for a unique key violation.
// Engagement get-or-create relies on it as the final backstop against
// concurrent identical inserts.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a unique constraint violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
