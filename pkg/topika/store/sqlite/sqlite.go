// Package sqlite implements the run store on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/topika/pkg/topika/internalerr"
	"github.com/cognicore/topika/pkg/topika/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite run store with WAL mode enabled, creating the
// schema when absent.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	method TEXT NOT NULL,
	k INTEGER NOT NULL,
	alpha REAL NOT NULL,
	delta REAL NOT NULL DEFAULT 0,
	loglik REAL NOT NULL,
	iter INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	model_path TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_trace (
	run_id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	loglik REAL NOT NULL,
	PRIMARY KEY(run_id, pos),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_terms (
	run_id TEXT NOT NULL,
	topic INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	term TEXT NOT NULL,
	weight REAL NOT NULL,
	PRIMARY KEY(run_id, topic, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_method_k ON runs(method, k);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or updates a run record.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	const stmt = `
INSERT INTO runs (id, method, k, alpha, delta, loglik, iter, seed, model_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	method=excluded.method,
	k=excluded.k,
	alpha=excluded.alpha,
	delta=excluded.delta,
	loglik=excluded.loglik,
	iter=excluded.iter,
	seed=excluded.seed,
	model_path=excluded.model_path,
	created_at=excluded.created_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID, r.Method, r.K, r.Alpha, r.Delta, r.LogLik, r.Iter, r.Seed,
		r.ModelPath, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, method, k, alpha, delta, loglik, iter, seed, model_path, created_at
FROM runs WHERE id=?`, id)
	return scanRun(row)
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, method, k, alpha, delta, loglik, iter, seed, model_path, created_at
FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BestRun returns the run with the highest log-likelihood for a method
// and topic count.
func (s *sqliteStore) BestRun(ctx context.Context, method string, k int) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, method, k, alpha, delta, loglik, iter, seed, model_path, created_at
FROM runs WHERE method=? AND k=? ORDER BY loglik DESC LIMIT 1`, method, k)
	return scanRun(row)
}

func (s *sqliteStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

// SaveTrace replaces the log-likelihood trace of a run.
func (s *sqliteStore) SaveTrace(ctx context.Context, runID string, values []float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_trace WHERE run_id=?`, runID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_trace (run_id, pos, loglik) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for pos, v := range values {
		if _, err := stmt.ExecContext(ctx, runID, pos, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) GetTrace(ctx context.Context, runID string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT loglik FROM run_trace WHERE run_id=? ORDER BY pos`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SaveTopicTerms replaces the stored term table of a run.
func (s *sqliteStore) SaveTopicTerms(ctx context.Context, runID string, terms []store.TopicTerm) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_terms WHERE run_id=?`, runID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_terms (run_id, topic, rank, term, weight) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range terms {
		if _, err := stmt.ExecContext(ctx, runID, t.Topic, t.Rank, t.Term, t.Weight); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) GetTopicTerms(ctx context.Context, runID string, topic int) ([]store.TopicTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT topic, rank, term, weight FROM run_terms
WHERE run_id=? AND topic=? ORDER BY rank`, runID, topic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.TopicTerm
	for rows.Next() {
		var t store.TopicTerm
		if err := rows.Scan(&t.Topic, &t.Rank, &t.Term, &t.Weight); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var r store.Run
	var created string
	var modelPath sql.NullString
	err := row.Scan(&r.ID, &r.Method, &r.K, &r.Alpha, &r.Delta, &r.LogLik,
		&r.Iter, &r.Seed, &modelPath, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Run{}, err
	}
	r.ModelPath = modelPath.String
	if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
		r.CreatedAt = t
	}
	return r, nil
}
