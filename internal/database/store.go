package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// FileName is the SQLite database file created in the data directory.
const FileName = "gedcom7import.db"

// DefaultCacheSize is the number of entities kept by the read cache.
const DefaultCacheSize = 1024

// Dialect selects SQL differences between backends.
type Dialect int

const (
	// DialectSQLite uses ? placeholders.
	DialectSQLite Dialect = iota
	// DialectPostgres uses $n placeholders.
	DialectPostgres
)

// String returns the driver name of the dialect.
func (d Dialect) String() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Store persists import runs.
type Store struct {
	db      *sql.DB
	dialect Dialect

	// location is the SQLite file path or the redacted PostgreSQL DSN.
	location string

	cache *lru.Cache[string, *StoredEntity]
}

// Options configures a Store.
type Options struct {
	// CreateIfNotExists creates the SQLite file and its directory.
	CreateIfNotExists bool

	// EnableWAL turns on write-ahead logging for SQLite.
	EnableWAL bool

	// CacheSize is the number of entities cached by GetEntity.
	CacheSize int
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		CacheSize:         DefaultCacheSize,
	}
}

// Open opens or creates the SQLite store in dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s (use CreateIfNotExists option to create)", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	return newStore(db, DialectSQLite, dbPath, opts)
}

// OpenPostgres connects to PostgreSQL through the pgx driver.
func OpenPostgres(ctx context.Context, dsn string, opts Options) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return newStore(db, DialectPostgres, "postgres", opts)
}

func newStore(db *sql.DB, dialect Dialect, location string, opts Options) (*Store, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *StoredEntity](size)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create entity cache: %w", err)
	}
	s := &Store{db: db, dialect: dialect, location: location, cache: cache}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the backend dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Location returns the SQLite file path, or "postgres".
func (s *Store) Location() string {
	return s.location
}

// createTables creates the schema if it does not exist.
func (s *Store) createTables(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS import_runs (
			id ` + serial + `,
			source TEXT NOT NULL,
			digest TEXT NOT NULL,
			gedcom_version TEXT NOT NULL DEFAULT '',
			source_system TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			records INTEGER NOT NULL DEFAULT 0,
			places_reused INTEGER NOT NULL DEFAULT 0,
			counts TEXT NOT NULL,
			researcher TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_digest ON import_runs(digest)`,
		`CREATE TABLE IF NOT EXISTS entities (
			handle TEXT PRIMARY KEY,
			run_id BIGINT NOT NULL,
			kind TEXT NOT NULL,
			gramps_id TEXT NOT NULL,
			private INTEGER NOT NULL DEFAULT 0,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_run_kind ON entities(run_id, kind)`,
		`CREATE TABLE IF NOT EXISTS xrefs (
			run_id BIGINT NOT NULL,
			xref TEXT NOT NULL,
			handle TEXT NOT NULL,
			PRIMARY KEY (run_id, xref)
		)`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			id ` + serial + `,
			run_id BIGINT NOT NULL,
			severity INTEGER NOT NULL,
			code TEXT NOT NULL,
			tag TEXT NOT NULL DEFAULT '',
			xref TEXT NOT NULL DEFAULT '',
			line INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders for the store dialect.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// timestampFormats contains the timestamp formats the store may read back.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// formatTimestamp is the inverse of parseTimestamp. The zero time is stored
// as an empty string.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
