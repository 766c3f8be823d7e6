package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrNoInput is returned when no GEDCOM file is given to import.
	ErrNoInput = errors.New("no input specified: provide at least one GEDCOM file")

	// ErrInvalidConcurrency is returned when the number of parallel imports
	// is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxFileSize is returned when the document size limit is not
	// positive.
	ErrInvalidMaxFileSize = errors.New("invalid max file size: must be positive")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrInvalidCacheSize is returned when the entity cache size is negative.
	// Use 0 for the default size.
	ErrInvalidCacheSize = errors.New("invalid cache size: must be non-negative")

	// ErrUnknownExtension is returned when an enabled extension schema URI
	// is not supported.
	ErrUnknownExtension = errors.New("unknown extension schema")

	// ErrInvalidFilePattern is returned for a malformed per-file pattern.
	ErrInvalidFilePattern = errors.New("invalid file pattern")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigExists is returned by WriteTemplate when the target file
	// exists and overwriting was not requested.
	ErrConfigExists = errors.New("configuration file already exists")
)
