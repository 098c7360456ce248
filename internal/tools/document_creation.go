package tools

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/UniversInsideG/claude-tools/internal/history"
	"github.com/UniversInsideG/claude-tools/internal/templates"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// DocumentCreationTool handles philosophy_document_creation, the final
// step: append a changelog entry, record the run to history, and reset
// the session so the next change starts from criteria.
type DocumentCreationTool struct {
	deps *Deps
}

// NewDocumentCreationTool creates the tool with its dependencies.
func NewDocumentCreationTool(deps *Deps) *DocumentCreationTool {
	return &DocumentCreationTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *DocumentCreationTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Document the completed change: append an entry to the project changelog " +
				"and close the workflow. The session resets afterwards; the next change " +
				"starts from the criteria step again.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("One-line summary of what was built or changed."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_document_creation", withSkipParams(opts)...)
}

// Handle processes the philosophy_document_creation tool call.
func (t *DocumentCreationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("'summary' is required"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepDocument, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	entry, err := t.deps.Renderer.Render(templates.ChangelogEntry, templates.ChangelogEntryData{
		Date:        time.Now().Format("2006-01-02"),
		Description: summary,
		Filename:    session.Filename,
		Level:       string(session.Level),
		ChangeType:  string(session.ChangeType),
		Criteria:    session.CriteriaText,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering changelog entry: %w", err)
	}

	changelogPath := filepath.Join(philosophyDir(root), "changelog.md")
	if err := appendToFile(changelogPath, entry+"\n"); err != nil {
		return nil, err
	}

	if t.deps.History != nil {
		_, err := t.deps.History.RecordFlow(history.Flow{
			Project:     filepath.Base(root),
			Description: summary,
			Filename:    session.Filename,
			Language:    string(session.Language),
			Level:       string(session.Level),
			ChangeType:  string(session.ChangeType),
			SkipCount:   session.SkipsUsed,
		})
		if err != nil {
			// History is best-effort; the changelog already has the entry.
			log.Printf("WARNING: recording flow: %v", err)
		}
	}

	session.Reset()
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Change documented in %s. The workflow has been reset; the next change starts "+
			"with philosophy_define_criteria.",
		changelogPath,
	)), nil
}
