// Package tools implements the MCP tool handlers for the philosophy
// workflow.
//
// Each file holds one tool. Tools receive their dependencies through a
// shared Deps struct and keep no state of their own: the workflow
// session is loaded from and saved to the project's .philosophy
// directory on every call, so a restarted server picks up mid-flow.
package tools

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/history"
	"github.com/UniversInsideG/claude-tools/internal/templates"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// Deps holds the shared dependencies injected into every tool.
// History is nil when the subsystem failed to initialize; tools must
// treat it as optional.
type Deps struct {
	History  *history.Store
	Renderer templates.Renderer
	// OverrideMarkers replaces the default human-approval phrases when
	// set (server-level configuration). Per-project markers stored in
	// the session still win over these.
	OverrideMarkers []string
}

// markers returns the override markers in effect for a session:
// project-level configuration wins, then server-level, then the
// defaults (handled inside workflow.HasOverrideMarker).
func (d *Deps) markers(session *workflow.Session) []string {
	if len(session.OverrideMarkers) > 0 {
		return session.OverrideMarkers
	}
	return d.OverrideMarkers
}

// findProjectRoot resolves the project root: an explicit project_path
// argument wins, otherwise walk up from the working directory looking
// for a .philosophy directory, falling back to the working directory
// itself.
func findProjectRoot(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("project_path %s: %w", explicit, err)
		}
		return explicit, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, ".philosophy")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}

// philosophyDir returns the state directory for a project.
func philosophyDir(root string) string {
	return filepath.Join(root, ".philosophy")
}

// loadSession reads the persisted workflow session for a project.
func loadSession(root string) (*workflow.Session, *workflow.Store, error) {
	store := workflow.NewStore(philosophyDir(root))
	session, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	return session, store, nil
}

// parseSkip extracts the uniform skip parameters every gated tool
// accepts.
func parseSkip(req mcp.CallToolRequest) workflow.SkipRequest {
	return workflow.SkipRequest{
		Skip:          req.GetBool("skip_previous", false),
		Justification: req.GetString("justification", ""),
		HumanVerified: req.GetBool("human_verified", false),
	}
}

// withSkipParams appends the uniform skip parameters to a tool
// definition.
func withSkipParams(opts []mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithBoolean("skip_previous",
			mcp.Description("Request to skip the blocking previous step. Requires a justification; the skip is only spent once a human verifies it."),
		),
		mcp.WithString("justification",
			mcp.Description("Why the previous step does not apply here. Required with skip_previous."),
		),
		mcp.WithBoolean("human_verified",
			mcp.Description("Set only after a human has read and approved the registered justification."),
		),
	)
}

// runGate loads nothing and saves nothing; it evaluates the gate and
// renders a refusal when the step may not run. The caller must persist
// the session afterwards (gate calls can register or consume skips).
func runGate(session *workflow.Session, step workflow.Step, req mcp.CallToolRequest) (workflow.GateResult, *mcp.CallToolResult) {
	result := session.Gate(step, parseSkip(req))
	if result.Allowed {
		return result, nil
	}
	return result, mcp.NewToolResultError(renderGateRefusal(result))
}

// renderGateRefusal turns a structured gate result into the message the
// assistant sees. Presentation lives here, not in the gate.
func renderGateRefusal(result workflow.GateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %q is blocked: step %q is not complete.\n", result.Requested, result.Missing)

	switch {
	case result.Unskippable:
		fmt.Fprintf(&b, "Step %q cannot be skipped. Complete it before continuing.", result.Missing)
	case result.MissingJustification:
		b.WriteString("human_verified was set but no justification is registered for this jump. " +
			"Call again with skip_previous and a justification first.")
	case result.JustificationRecorded:
		b.WriteString("Justification registered. Have a human review it, then call again with human_verified to spend the skip.")
	case result.SkipConsumed:
		fmt.Fprintf(&b, "The verified skip was spent, but step %q is still missing. One skip covers one step.", result.Missing)
	default:
		fmt.Fprintf(&b, "Complete step %q first, or register a skip with skip_previous and a justification.", result.Missing)
	}
	return b.String()
}

// appendToFile appends content to a file, creating parents as needed.
func appendToFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}

// writeProjectFile writes content under the project, creating parent
// directories as needed.
func writeProjectFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// recordOverride saves a consumed skip or coherence override to history
// when the subsystem is available.
func (d *Deps) recordOverride(root, kind, justification string) {
	if d.History == nil {
		return
	}
	if err := d.History.RecordOverride(filepath.Base(root), kind, justification); err != nil {
		// History is best-effort; a write failure must not block the tool.
		log.Printf("WARNING: recording override: %v", err)
	}
}
