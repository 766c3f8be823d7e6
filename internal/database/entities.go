package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nao1215/gedcom7import/internal/model"
)

// StoredEntity is one persisted entity.
type StoredEntity struct {
	Handle  string
	RunID   int64
	Kind    model.Kind
	ID      string
	Private bool
	Body    json.RawMessage
}

// Entity decodes the stored body into its concrete type.
func (e *StoredEntity) Entity() (model.Entity, error) {
	ent, err := e.Kind.Zero()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(e.Body, ent); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", e.Kind, e.Handle, err)
	}
	return ent, nil
}

const entityColumns = `handle, run_id, kind, gramps_id, private, body`

func scanEntity(row rowScanner) (*StoredEntity, error) {
	var (
		e       StoredEntity
		kind    string
		private int
		body    string
	)
	if err := row.Scan(&e.Handle, &e.RunID, &kind, &e.ID, &private, &body); err != nil {
		return nil, err
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	e.Kind = k
	e.Private = private != 0
	e.Body = json.RawMessage(body)
	return &e, nil
}

// GetEntity returns the entity with handle. Results are cached.
func (s *Store) GetEntity(ctx context.Context, handle string) (*StoredEntity, error) {
	if e, ok := s.cache.Get(handle); ok {
		return e, nil
	}
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+entityColumns+` FROM entities WHERE handle = ?`), handle)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, handle)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	s.cache.Add(handle, e)
	return e, nil
}

// ListEntities returns the entities of one kind in a run, ordered by id.
func (s *Store) ListEntities(ctx context.Context, runID int64, kind model.Kind) ([]*StoredEntity, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
	SELECT `+entityColumns+` FROM entities
	WHERE run_id = ? AND kind = ?
	ORDER BY gramps_id`), runID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var out []*StoredEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEntities returns the number of stored entities per kind. A runID of
// zero counts across all runs.
func (s *Store) CountEntities(ctx context.Context, runID int64) (map[model.Kind]int, error) {
	query := `SELECT kind, COUNT(*) FROM entities`
	var args []any
	if runID != 0 {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` GROUP BY kind`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Kind]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		k, err := model.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		counts[k] = n
	}
	return counts, rows.Err()
}
