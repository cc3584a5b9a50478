package store

import (
	"errors"
	"strings"
)

// Domain errors surfaced to handlers. Anything else coming out of this
// package is an unexpected storage failure.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidAction = errors.New("invalid action")
)

// isUniqueViolation reports whether err was caused by a UNIQUE index.
// Uniqueness is enforced by the database, not by pre-checks, so
// concurrent duplicate creates still fail cleanly.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
