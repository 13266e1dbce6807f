package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-pitchtrack/tracker"
	_ "modernc.org/sqlite"
)

// schema.sql creates the export run and trajectory sample tables
//
//go:embed schema.sql
var schemaSQL string

// Run describes one exported tracking session
type Run struct {
	ID          uuid.UUID
	Source      string
	CreatedAt   time.Time
	SampleCount int
}

// SQLiteStore persists trajectory exports in a SQLite database, each
// export is kept as a separate run
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database file and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("error setting %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun writes all rows as a new run and returns its id
func (s *SQLiteStore) SaveRun(ctx context.Context, source string,
	rows []tracker.Row) (uuid.UUID, error) {

	id := uuid.New()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})

	if err != nil {
		return uuid.Nil, fmt.Errorf("error starting transaction: %w", err)
	}

	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO export_runs (run_id, source, created_at, sample_count)
		VALUES (?, ?, ?, ?)`,
		id.String(), source, time.Now().UnixNano(), len(rows))

	if err != nil {
		return uuid.Nil, fmt.Errorf("error inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trajectory_samples (run_id, identity, sample_index, x, y)
		VALUES (?, ?, ?, ?, ?)`)

	if err != nil {
		return uuid.Nil, fmt.Errorf("error preparing insert: %w", err)
	}

	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx, id.String(), int64(r.Identity),
			r.SampleIndex, r.X, r.Y)

		if err != nil {
			return uuid.Nil, fmt.Errorf("error inserting sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("error committing run: %w", err)
	}

	return id, nil
}

// LoadRun returns the rows of a run ordered by identity and sample index
func (s *SQLiteStore) LoadRun(ctx context.Context, id uuid.UUID) ([]tracker.Row, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, sample_index, x, y
		FROM trajectory_samples
		WHERE run_id = ?
		ORDER BY identity, sample_index`, id.String())

	if err != nil {
		return nil, fmt.Errorf("error querying samples: %w", err)
	}

	defer rows.Close()

	var out []tracker.Row

	for rows.Next() {
		var r tracker.Row
		var ident int64

		if err := rows.Scan(&ident, &r.SampleIndex, &r.X, &r.Y); err != nil {
			return nil, fmt.Errorf("error scanning sample: %w", err)
		}

		r.Identity = tracker.Identity(ident)
		out = append(out, r)
	}

	return out, rows.Err()
}

// Runs lists the stored runs newest first
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, created_at, sample_count
		FROM export_runs
		ORDER BY created_at DESC`)

	if err != nil {
		return nil, fmt.Errorf("error querying runs: %w", err)
	}

	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var run Run
		var id string
		var created int64

		if err := rows.Scan(&id, &run.Source, &created, &run.SampleCount); err != nil {
			return nil, fmt.Errorf("error scanning run: %w", err)
		}

		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}

		run.CreatedAt = time.Unix(0, created)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRun removes a run and its samples
func (s *SQLiteStore) DeleteRun(ctx context.Context, id uuid.UUID) error {

	if _, err := s.db.ExecContext(ctx, `DELETE FROM export_runs WHERE run_id = ?`,
		id.String()); err != nil {
		return fmt.Errorf("error deleting run: %w", err)
	}

	return nil
}

// Close the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
