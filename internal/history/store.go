// Package history persists one row per reconciled scene so runs can be
// audited and summarized after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the run history database.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS scene_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	scene_id TEXT NOT NULL,
	query TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scene_results_run ON scene_results(run_id);
CREATE INDEX IF NOT EXISTS idx_scene_results_scene ON scene_results(scene_id);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one scene result for the run.
func (s *Store) Record(ctx context.Context, runID, sceneID, query, outcome, errText string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scene_results (run_id, scene_id, query, outcome, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, sceneID, query, outcome, errText, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record scene result: %w", err)
	}
	return nil
}

// Summary returns per-outcome counts for the run.
func (s *Store) Summary(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM scene_results WHERE run_id = ? GROUP BY outcome`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		counts[outcome] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run summary: %w", err)
	}
	return counts, nil
}

// SceneOutcomes returns the most recent recorded outcome per scene id across
// all runs, newest first, capped at limit.
func (s *Store) SceneOutcomes(ctx context.Context, limit int) ([]SceneOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, scene_id, query, outcome, error, created_at
		 FROM scene_results ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scene outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []SceneOutcome
	for rows.Next() {
		var outcome SceneOutcome
		if err := rows.Scan(&outcome.RunID, &outcome.SceneID, &outcome.Query, &outcome.Outcome, &outcome.Error, &outcome.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scene outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scene outcomes: %w", err)
	}
	return outcomes, nil
}

// SceneOutcome is one recorded reconciliation attempt.
type SceneOutcome struct {
	RunID     string
	SceneID   string
	Query     string
	Outcome   string
	Error     string
	CreatedAt string
}
