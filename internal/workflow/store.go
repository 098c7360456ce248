package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const stateFileName = "workflow_state.json"

// Store persists a session as JSON inside the project's .philosophy
// directory, so the workflow survives server restarts.
type Store struct {
	dir string
}

// NewStore returns a store rooted at the given .philosophy directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Load reads the persisted session. A missing file is not an error; it
// yields a fresh session.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSession(), nil
		}
		return nil, fmt.Errorf("reading workflow state: %w", err)
	}

	session := NewSession()
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("parsing workflow state: %w", err)
	}
	if session.Completed == nil {
		session.Completed = map[Step]bool{}
	}
	if session.Skipped == nil {
		session.Skipped = map[Step]bool{}
	}
	return session, nil
}

// Save writes the session back to disk, creating the directory on
// first use.
func (s *Store) Save(session *Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workflow state: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing workflow state: %w", err)
	}
	return nil
}
