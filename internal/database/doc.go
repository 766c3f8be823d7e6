// Package database stores import runs and their entities.
//
// A Store keeps four tables: import_runs (one row per run with its counts
// and researcher as JSON), entities (one row per entity, the full entity
// as a JSON body), xrefs (the xref to handle map of a run) and diagnostics.
// SaveImport writes a run and everything it produced in one transaction.
//
// The embedded backend is SQLite through modernc.org/sqlite, one file in
// the data directory. OpenPostgres connects to PostgreSQL through the pgx
// database/sql driver instead. Entity reads go through an LRU cache.
package database
