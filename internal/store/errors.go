package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by mutators when the target row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique name is already taken.
	ErrDuplicate = errors.New("already exists")
)

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
