// Package repository contains data access logic separated from HTTP handlers.
// Handlers distinguish "nothing matched" from datastore failures through the
// sentinel values defined here; every other error is a wrapped driver error.
package repository

import (
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// ErrMarksNotFound is returned when no mark_table row matches (get) or is
// affected (delete). Handlers translate it into an HTTP 404 response.
var ErrMarksNotFound = errors.New("marks not found")

// DriverErrorNumber extracts the MySQL server error number from err, such as
// 1062 for a duplicate key or 1146 for a missing table.
func DriverErrorNumber(err error) (uint16, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number, true
	}
	return 0, false
}
