package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// NotFoundError reports that no record exists for the requested identifier.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with uuid=%q was not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness violation: a record with the same value
// for a unique field already exists.
type ConflictError struct {
	Entity string
	Field  string
	Value  any
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with %s=%q already exists", e.Entity, e.Field, fmt.Sprint(e.Value))
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// InvalidArgumentError reports a malformed request, e.g. an empty filter set.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// UnavailableError reports that the backing store could not be reached after
// retries. Unlike cache outages this is a hard failure surfaced to callers.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("repository: %s: storage unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// isUniqueViolation reports whether err is a unique-constraint violation
// from one of the supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
