// Package history keeps a record of completed workflow runs and
// human-approved overrides in a local SQLite database.
//
// The record answers "how often do we skip steps" and "which overrides
// keep recurring", which is where guardrails drift first. The store is
// optional: when it cannot be opened the server runs without it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Flow is one completed (documented) workflow run.
type Flow struct {
	ID          int64  `json:"id"`
	Project     string `json:"project"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	ChangeType  string `json:"change_type"`
	SkipCount   int    `json:"skip_count"`
	CreatedAt   string `json:"created_at"`
}

// Override is one consumed skip or coherence override.
type Override struct {
	ID            int64  `json:"id"`
	Project       string `json:"project"`
	Kind          string `json:"kind"`
	Justification string `json:"justification"`
	CreatedAt     string `json:"created_at"`
}

// Stats aggregates the recorded history.
type Stats struct {
	TotalFlows     int      `json:"total_flows"`
	TotalOverrides int      `json:"total_overrides"`
	Projects       []string `json:"projects"`
}

// Config holds history store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig stores the database under the user's home directory so
// one history spans every project.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".philosophy")}
}

// Store is the history engine backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS flows (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			project     TEXT NOT NULL,
			description TEXT NOT NULL,
			filename    TEXT NOT NULL,
			language    TEXT NOT NULL,
			level       TEXT NOT NULL,
			change_type TEXT NOT NULL,
			skip_count  INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_flows_project ON flows(project);
		CREATE INDEX IF NOT EXISTS idx_flows_created ON flows(created_at DESC);

		CREATE TABLE IF NOT EXISTS overrides (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			project       TEXT NOT NULL,
			kind          TEXT NOT NULL,
			justification TEXT NOT NULL,
			created_at    TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_overrides_project ON overrides(project);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordFlow saves a completed workflow run.
func (s *Store) RecordFlow(flow Flow) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO flows (project, description, filename, language, level, change_type, skip_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		flow.Project, flow.Description, flow.Filename, flow.Language, flow.Level, flow.ChangeType, flow.SkipCount,
	)
	if err != nil {
		return 0, fmt.Errorf("history: record flow: %w", err)
	}
	return res.LastInsertId()
}

// RecordOverride saves one consumed skip or coherence override.
func (s *Store) RecordOverride(project, kind, justification string) error {
	_, err := s.db.Exec(
		`INSERT INTO overrides (project, kind, justification) VALUES (?, ?, ?)`,
		project, kind, justification,
	)
	if err != nil {
		return fmt.Errorf("history: record override: %w", err)
	}
	return nil
}

// RecentFlows returns the newest runs for a project, most recent first.
func (s *Store) RecentFlows(project string, limit int) ([]Flow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, project, description, filename, language, level, change_type, skip_count, created_at
		 FROM flows WHERE project = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		project, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: recent flows: %w", err)
	}
	defer rows.Close()

	var flows []Flow
	for rows.Next() {
		var f Flow
		if err := rows.Scan(&f.ID, &f.Project, &f.Description, &f.Filename, &f.Language,
			&f.Level, &f.ChangeType, &f.SkipCount, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan flow: %w", err)
		}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

// GetStats aggregates flow and override counts across all projects.
func (s *Store) GetStats() (Stats, error) {
	var stats Stats

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM flows`).Scan(&stats.TotalFlows); err != nil {
		return stats, fmt.Errorf("history: count flows: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM overrides`).Scan(&stats.TotalOverrides); err != nil {
		return stats, fmt.Errorf("history: count overrides: %w", err)
	}

	rows, err := s.db.Query(`SELECT DISTINCT project FROM flows ORDER BY project`)
	if err != nil {
		return stats, fmt.Errorf("history: list projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return stats, fmt.Errorf("history: scan project: %w", err)
		}
		stats.Projects = append(stats.Projects, p)
	}
	return stats, rows.Err()
}
