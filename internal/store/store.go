package store

import (
	"errors"

	"github.com/gramarogya/nondvahi/internal/database"
)

var (
	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by scoped updates and deletes that match no row.
	ErrNotFound = errors.New("record not found")
)

type scanner interface {
	Scan(...any) error
}

func mapWriteErr(err error) error {
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func affectedOrNotFound(n int64) error {
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
