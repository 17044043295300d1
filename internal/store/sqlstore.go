package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"helix/internal/audit"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	status      TEXT NOT NULL,
	targets     INTEGER NOT NULL,
	with_sar    INTEGER NOT NULL,
	errored     INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	result_json TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sars (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	run_fk   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	pdb_id   TEXT NOT NULL,
	gate     TEXT NOT NULL,
	class    TEXT NOT NULL,
	sar_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
CREATE INDEX IF NOT EXISTS idx_sars_run_fk ON sars(run_fk);
`

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite archive at path and runs migrations.
// Creates the parent directory (e.g. .helix) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unsupported schema version %d", v)
	}
	return nil
}

// SaveRun archives a run and its per-target SARs in one transaction.
func (s *SqlStore) SaveRun(r *audit.RunResult) (int64, error) {
	doc, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("marshal run result: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`INSERT INTO runs(run_id, status, targets, with_sar, errored, started_at, finished_at, result_json)
		 VALUES(?,?,?,?,?,?,?,?)`,
		r.RunID, r.Status, r.Summary.Total, r.Summary.WithSAR, r.Summary.Errored,
		r.Provenance.StartedAt, r.Provenance.FinishedAt, string(doc),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, o := range r.Outcomes {
		if o.SAR == nil {
			continue
		}
		sarDoc, err := json.Marshal(o.SAR)
		if err != nil {
			return 0, fmt.Errorf("marshal SAR %s: %w", o.PDBID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO sars(run_fk, pdb_id, gate, class, sar_json) VALUES(?,?,?,?,?)`,
			id, o.PDBID, string(o.SAR.DecisionGate), string(o.SAR.Failure.Class), string(sarDoc),
		); err != nil {
			return 0, fmt.Errorf("insert SAR %s: %w", o.PDBID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// ListRuns returns archived runs, newest first.
func (s *SqlStore) ListRuns() ([]*RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, status, targets, with_sar, errored, started_at, finished_at
		 FROM runs ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		r := &RunSummary{}
		if err := rows.Scan(&r.ID, &r.RunID, &r.Status, &r.Targets, &r.WithSAR, &r.Errored, &r.Started, &r.Finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns the most recent archived run with the given label.
func (s *SqlStore) GetRun(runID string) (*audit.RunResult, error) {
	var doc string
	err := s.db.QueryRow(
		"SELECT result_json FROM runs WHERE run_id = ? ORDER BY id DESC LIMIT 1", runID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var r audit.RunResult
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run result: %w", err)
	}
	return &r, nil
}

// GetSAR returns one archived SAR from the most recent run with the label.
func (s *SqlStore) GetSAR(runID, pdbID string) (*audit.SAR, error) {
	var doc string
	err := s.db.QueryRow(
		`SELECT s.sar_json FROM sars s
		 JOIN runs r ON r.id = s.run_fk
		 WHERE r.run_id = ? AND s.pdb_id = ?
		 ORDER BY s.id DESC LIMIT 1`, runID, pdbID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("SAR %s/%s not found", runID, pdbID)
	}
	if err != nil {
		return nil, fmt.Errorf("get SAR: %w", err)
	}
	var sar audit.SAR
	if err := json.Unmarshal([]byte(doc), &sar); err != nil {
		return nil, fmt.Errorf("unmarshal SAR: %w", err)
	}
	return &sar, nil
}

func (s *SqlStore) Close() error { return s.db.Close() }
