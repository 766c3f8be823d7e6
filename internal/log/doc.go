// Package log builds slog loggers that mask credentials and personal contact
// data before anything is written.
//
// GEDCOM headers and repository records carry the EMAIL, PHON, FAX and ADDR
// of living researchers, and the store may be reached through a DSN with a
// password in it. SecureHandler masks:
//   - attributes whose key names a credential or a contact structure
//   - values that are an email address or an international phone number
//   - the password part of connection strings, in plain strings and in
//     driver errors, leaving host and database readable
//
// Masking also applies in verbose mode, so an import log can be attached to
// a bug report as is.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("store opened", "dsn", "postgres://app:s3cret@db/genealogy")
//	// dsn=postgres://app:***REDACTED***@db/genealogy
package log
