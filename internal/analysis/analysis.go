// Package analysis drives the guided architecture audit: a fixed
// sequence of checkpoints recorded into a markdown document under the
// project's .philosophy directory.
//
// The document itself is the source of truth. State lives in an HTML
// comment at the top, so a restarted server reconstructs an in-flight
// audit from disk instead of losing it.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/templates"
)

const docName = "architecture_analysis.md"

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// Checkpoints is the fixed audit sequence. Each must be recorded before
// the next opens.
var Checkpoints = []string{
	"Component inventory",
	"Responsibility map",
	"Duplication hotspots",
	"Dependency structure and refactor priorities",
}

var markerRe = regexp.MustCompile(`(?m)^<!-- analysis-state (\{.*\}) -->$`)

// State is the persisted audit position. Checkpoint is 1-based and
// names the next checkpoint to record; past the last one the audit is
// finished and Active is false.
type State struct {
	Active     bool          `json:"active"`
	Language   lang.Language `json:"language"`
	Checkpoint int           `json:"checkpoint"`
	Started    string        `json:"started"`
}

// DocPath returns where the analysis document lives for a project.
func DocPath(root string) string {
	return filepath.Join(root, ".philosophy", docName)
}

// Load reconstructs the audit state from the document on disk. A
// missing document means no audit has been started.
func Load(root string) (*State, error) {
	data, err := os.ReadFile(DocPath(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading analysis document: %w", err)
	}

	m := markerRe.FindSubmatch(data)
	if m == nil {
		return nil, fmt.Errorf("analysis document %s has no state marker", DocPath(root))
	}
	var state State
	if err := json.Unmarshal(m[1], &state); err != nil {
		return nil, fmt.Errorf("parsing analysis state: %w", err)
	}
	return &state, nil
}

// Start creates the analysis document scaffold and opens the first
// checkpoint. An audit already in progress is an error; finish or
// delete it first.
func Start(renderer templates.Renderer, root string, language lang.Language) (*State, error) {
	existing, err := Load(root)
	if err != nil {
		return nil, err
	}
	if existing.Active {
		return nil, fmt.Errorf("an architecture analysis is already in progress (checkpoint %d of %d)",
			existing.Checkpoint, len(Checkpoints))
	}

	state := &State{
		Active:     true,
		Language:   language,
		Checkpoint: 1,
		Started:    timeNow().Format("2006-01-02"),
	}

	var checkpoints []templates.AnalysisCheckpoint
	for i, title := range Checkpoints {
		checkpoints = append(checkpoints, templates.AnalysisCheckpoint{Number: i + 1, Title: title})
	}

	content, err := renderer.Render(templates.Analysis, templates.AnalysisData{
		ProjectName: filepath.Base(root),
		Language:    string(language),
		Date:        state.Started,
		StateMarker: marker(state),
		Checkpoints: checkpoints,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(DocPath(root)), 0o755); err != nil {
		return nil, fmt.Errorf("creating .philosophy: %w", err)
	}
	if err := os.WriteFile(DocPath(root), []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing analysis document: %w", err)
	}
	return state, nil
}

// Record fills the current checkpoint's section with findings and
// advances. Recording the last checkpoint closes the audit.
func Record(root, findings string) (*State, error) {
	state, err := Load(root)
	if err != nil {
		return nil, err
	}
	if !state.Active {
		return nil, errors.New("no architecture analysis in progress; start one first")
	}
	if strings.TrimSpace(findings) == "" {
		return nil, errors.New("checkpoint findings must not be empty")
	}

	data, err := os.ReadFile(DocPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading analysis document: %w", err)
	}
	content := string(data)

	// The earliest pending section is always the current checkpoint;
	// earlier ones were filled when they were recorded.
	entry := fmt.Sprintf("_Recorded %s._\n\n%s", timeNow().Format("2006-01-02"), strings.TrimSpace(findings))
	replaced := strings.Replace(content, "_Pending._", entry, 1)
	if replaced == content {
		return nil, fmt.Errorf("analysis document has no pending checkpoint section")
	}

	state.Checkpoint++
	if state.Checkpoint > len(Checkpoints) {
		state.Active = false
	}
	replaced = markerRe.ReplaceAllString(replaced, marker(state))

	if err := os.WriteFile(DocPath(root), []byte(replaced), 0o644); err != nil {
		return nil, fmt.Errorf("writing analysis document: %w", err)
	}
	return state, nil
}

// CurrentTitle names the checkpoint the audit is waiting on.
func (s *State) CurrentTitle() string {
	if !s.Active || s.Checkpoint < 1 || s.Checkpoint > len(Checkpoints) {
		return ""
	}
	return Checkpoints[s.Checkpoint-1]
}

func marker(state *State) string {
	data, _ := json.Marshal(state)
	return fmt.Sprintf("<!-- analysis-state %s -->", data)
}
