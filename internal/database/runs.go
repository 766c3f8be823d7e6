package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/nao1215/gedcom7import/internal/model"
)

// SaveImport writes report, every entity of bundle, the xref map and the
// diagnostics in one transaction and returns the new run id. Nothing is
// written when any insert fails.
func (s *Store) SaveImport(ctx context.Context, report *model.ImportReport, bundle *model.Bundle, xrefs map[string]string) (id int64, err error) {
	countsJSON, err := json.Marshal(report.Counts)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize counts: %w", err)
	}
	researcherJSON := ""
	if report.Researcher != nil {
		b, err := json.Marshal(report.Researcher)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize researcher: %w", err)
		}
		researcherJSON = string(b)
	}
	status := report.Status
	if status == "" {
		status = model.StatusSucceeded
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, s.rebind(`
	INSERT INTO import_runs (source, digest, gedcom_version, source_system, started_at, finished_at,
		status, error, records, places_reused, counts, researcher)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`),
		report.Source,
		report.Digest,
		report.GedcomVersion,
		report.SourceSystem,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		string(status),
		report.Error,
		report.Records,
		report.PlacesReused,
		string(countsJSON),
		researcherJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert import run: %w", err)
	}

	if bundle != nil {
		if err = s.insertEntities(ctx, tx, id, bundle); err != nil {
			return 0, err
		}
	}
	if err = s.insertXrefs(ctx, tx, id, xrefs); err != nil {
		return 0, err
	}
	if err = s.insertDiagnostics(ctx, tx, id, report.Diagnostics); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import run: %w", err)
	}
	report.RunID = id
	return id, nil
}

func (s *Store) insertEntities(ctx context.Context, tx *sql.Tx, runID int64, bundle *model.Bundle) error {
	stmt, err := tx.PrepareContext(ctx, s.rebind(`
	INSERT INTO entities (handle, run_id, kind, gramps_id, private, body)
	VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare entity insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range bundle.All() {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to serialize %s %s: %w", e.Kind(), e.Core().Handle, err)
		}
		core := e.Core()
		if _, err := stmt.ExecContext(ctx, core.Handle, runID, e.Kind().String(), core.ID, boolToInt(core.Private), string(body)); err != nil {
			return fmt.Errorf("failed to insert %s %s: %w", e.Kind(), core.ID, err)
		}
	}
	return nil
}

func (s *Store) insertXrefs(ctx context.Context, tx *sql.Tx, runID int64, xrefs map[string]string) error {
	if len(xrefs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO xrefs (run_id, xref, handle) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare xref insert: %w", err)
	}
	defer stmt.Close()

	for _, xref := range slices.Sorted(maps.Keys(xrefs)) {
		if _, err := stmt.ExecContext(ctx, runID, xref, xrefs[xref]); err != nil {
			return fmt.Errorf("failed to insert xref %s: %w", xref, err)
		}
	}
	return nil
}

func (s *Store) insertDiagnostics(ctx context.Context, tx *sql.Tx, runID int64, diags []model.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(`
	INSERT INTO diagnostics (run_id, severity, code, tag, xref, line, message)
	VALUES (?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare diagnostic insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range diags {
		if _, err := stmt.ExecContext(ctx, runID, int(d.Severity), d.Code, d.Tag, d.Xref, d.Line, d.Message); err != nil {
			return fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}
	return nil
}

const runColumns = `id, source, digest, gedcom_version, source_system, started_at, finished_at,
	status, error, records, places_reused, counts, researcher`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.ImportReport, error) {
	var (
		r                  model.ImportReport
		started, finished  string
		status             string
		counts, researcher string
	)
	err := row.Scan(&r.RunID, &r.Source, &r.Digest, &r.GedcomVersion, &r.SourceSystem,
		&started, &finished, &status, &r.Error, &r.Records, &r.PlacesReused, &counts, &researcher)
	if err != nil {
		return nil, err
	}
	r.StartedAt = parseTimestamp(started)
	r.FinishedAt = parseTimestamp(finished)
	r.Status = model.ImportStatus(status)
	r.Counts = make(map[string]int)
	if counts != "" {
		if err := json.Unmarshal([]byte(counts), &r.Counts); err != nil {
			return nil, fmt.Errorf("failed to parse counts of run %d: %w", r.RunID, err)
		}
	}
	if researcher != "" {
		r.Researcher = &model.Researcher{}
		if err := json.Unmarshal([]byte(researcher), r.Researcher); err != nil {
			return nil, fmt.Errorf("failed to parse researcher of run %d: %w", r.RunID, err)
		}
	}
	return &r, nil
}

// ListRuns returns all runs, newest first, without their diagnostics.
func (s *Store) ListRuns(ctx context.Context) ([]*model.ImportReport, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM import_runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.ImportReport
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its diagnostics.
func (s *Store) GetRun(ctx context.Context, id int64) (*model.ImportReport, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+runColumns+` FROM import_runs WHERE id = ?`), id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}
	if r.Diagnostics, err = s.diagnostics(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

// FindRunByDigest returns the newest succeeded run of a document with the
// given digest, or nil when there is none.
func (s *Store) FindRunByDigest(ctx context.Context, digest string) (*model.ImportReport, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
	SELECT `+runColumns+` FROM import_runs
	WHERE digest = ? AND status = ?
	ORDER BY id DESC
	LIMIT 1`), digest, string(model.StatusSucceeded))
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find import run: %w", err)
	}
	return r, nil
}

func (s *Store) diagnostics(ctx context.Context, runID int64) ([]model.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
	SELECT severity, code, tag, xref, line, message
	FROM diagnostics
	WHERE run_id = ?
	ORDER BY id`), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []model.Diagnostic
	for rows.Next() {
		var (
			d        model.Diagnostic
			severity int
		)
		if err := rows.Scan(&severity, &d.Code, &d.Tag, &d.Xref, &d.Line, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.Severity = model.Severity(severity)
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

// Xrefs returns the xref to handle map of a run.
func (s *Store) Xrefs(ctx context.Context, runID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT xref, handle FROM xrefs WHERE run_id = ?`), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query xrefs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var xref, handle string
		if err := rows.Scan(&xref, &handle); err != nil {
			return nil, fmt.Errorf("failed to scan xref: %w", err)
		}
		out[xref] = handle
	}
	return out, rows.Err()
}

// DeleteRun removes a run and everything it produced.
func (s *Store) DeleteRun(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"entities", "xrefs", "diagnostics"} {
		if _, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM `+table+` WHERE run_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete %s of run %d: %w", table, id, err)
		}
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM import_runs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}
	if n == 0 {
		err = fmt.Errorf("%w: %d", ErrRunNotFound, id)
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	s.cache.Purge()
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
