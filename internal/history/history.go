// Package history persists parse traces to a SQLite-backed store so a
// previous run's derivation can be reloaded without re-parsing, grounded on
// the teacher's server/dao/sqlite repository shape.
package history

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/trace"
)

// ErrNotFound is returned when a record ID has no matching row.
var ErrNotFound = errors.New("parse record not found")

// Record is one stored parse attempt: the input that was parsed, whether it
// was accepted, and the derivation trace if so.
type Record struct {
	ID      uuid.UUID
	Input   string
	Grammar string
	Success bool
	Trace   trace.Trace
	Created time.Time
}

// Store persists Records to a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at file and
// ensures its schema exists.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS parse_records (
		id TEXT NOT NULL PRIMARY KEY,
		grammar TEXT NOT NULL,
		input TEXT NOT NULL,
		success INTEGER NOT NULL,
		trace_data TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := s.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new record for a completed parse attempt and returns it
// with a freshly generated ID and creation time.
func (s *Store) Insert(ctx context.Context, grammar, input string, success bool, tr trace.Trace) (Record, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Record{}, fmt.Errorf("could not generate ID: %w", err)
	}
	now := time.Now()

	encoded := encodeTrace(tr)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO parse_records (id, grammar, input, success, trace_data, created) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), grammar, input, boolToInt(success), encoded, now.Unix(),
	)
	if err != nil {
		return Record{}, wrapDBError(err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a single record, or ErrNotFound if no row matches id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT grammar, input, success, trace_data, created FROM parse_records WHERE id = ?;`,
		id.String(),
	)
	return s.scanRecord(id, row)
}

// ListByGrammar returns every record for a given grammar label, newest
// first.
func (s *Store) ListByGrammar(ctx context.Context, grammar string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, grammar, input, success, trace_data, created FROM parse_records WHERE grammar = ? ORDER BY created DESC;`,
		grammar,
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []Record
	for rows.Next() {
		var idStr string
		var rec Record
		var successInt int64
		var created int64
		var encoded string

		if err := rows.Scan(&idStr, &rec.Grammar, &rec.Input, &successInt, &encoded, &created); err != nil {
			return nil, wrapDBError(err)
		}

		rec.ID, err = uuid.Parse(idStr)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid: %w", idStr, err)
		}
		rec.Success = successInt != 0
		rec.Created = time.Unix(created, 0)
		rec.Trace, err = decodeTrace(encoded)
		if err != nil {
			return all, err
		}

		all = append(all, rec)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM parse_records WHERE id = ?;`, id.String())
	if err != nil {
		return wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if rowsAff < 1 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) scanRecord(id uuid.UUID, row *sql.Row) (Record, error) {
	rec := Record{ID: id}
	var successInt int64
	var created int64
	var encoded string

	err := row.Scan(&rec.Grammar, &rec.Input, &successInt, &encoded, &created)
	if err != nil {
		return rec, wrapDBError(err)
	}
	rec.Success = successInt != 0
	rec.Created = time.Unix(created, 0)
	rec.Trace, err = decodeTrace(encoded)
	if err != nil {
		return rec, err
	}
	return rec, nil
}

// encodeTrace rezi-encodes the trace's entries and base64-wraps the result
// for storage in a TEXT column, matching the teacher's convertToDB_Bytes
// convention for tree-shaped values.
func encodeTrace(tr trace.Trace) string {
	if len(tr) == 0 {
		return ""
	}
	data := rezi.EncBinary(tr)
	return base64.StdEncoding.EncodeToString(data)
}

func decodeTrace(s string) (trace.Trace, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("stored trace is not valid base64: %w", err)
	}

	var tr trace.Trace
	n, err := rezi.DecBinary(raw, &tr)
	if err != nil {
		return nil, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(raw) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(raw))
	}
	return tr, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func wrapDBError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
