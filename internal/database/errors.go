package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when the database file is
	// missing and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrRunNotFound is returned when no import run has the given id.
	ErrRunNotFound = errors.New("import run not found")

	// ErrEntityNotFound is returned when no entity has the given handle.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEmptyDSN is returned by OpenPostgres without a connection string.
	ErrEmptyDSN = errors.New("postgres DSN is empty")
)
