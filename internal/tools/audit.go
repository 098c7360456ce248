package tools

import (
	"context"
	"fmt"

	"github.com/UniversInsideG/claude-tools/internal/analysis"
	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/mark3labs/mcp-go/mcp"
)

// AuditTool handles philosophy_audit: the guided architecture analysis.
// It runs outside the change workflow; the checkpoint sequencing is
// enforced by the analysis document itself.
type AuditTool struct {
	deps *Deps
}

// NewAuditTool creates the tool with its dependencies.
func NewAuditTool(deps *Deps) *AuditTool {
	return &AuditTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AuditTool) Definition() mcp.Tool {
	return mcp.NewTool("philosophy_audit",
		mcp.WithDescription(
			"Run a guided architecture analysis of the whole project. "+
				"'start' creates the analysis document, 'checkpoint' records findings for "+
				"the current checkpoint and advances, 'status' shows where the audit stands. "+
				"Checkpoints must be recorded in order; the audit closes after the last one.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("What to do."),
			mcp.Enum("start", "checkpoint", "status"),
		),
		mcp.WithString("language",
			mcp.Description("Project language; required for 'start'."),
			mcp.Enum(lang.Values()...),
		),
		mcp.WithString("findings",
			mcp.Description("The findings to record; required for 'checkpoint'."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	)
}

// Handle processes the philosophy_audit tool call.
func (t *AuditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch action := req.GetString("action", ""); action {
	case "start":
		language := lang.Language(req.GetString("language", string(lang.Other)))
		if err := lang.Validate(language); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		state, err := analysis.Start(t.deps.Renderer, root, language)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Architecture analysis started at %s.\n\nFirst checkpoint: %s. "+
				"Inspect the project, then record findings with action=checkpoint.",
			analysis.DocPath(root), state.CurrentTitle(),
		)), nil

	case "checkpoint":
		findings := req.GetString("findings", "")
		state, err := analysis.Record(root, findings)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !state.Active {
			return mcp.NewToolResultText(fmt.Sprintf(
				"Final checkpoint recorded. The analysis at %s is complete.",
				analysis.DocPath(root),
			)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Checkpoint recorded. Next checkpoint (%d of %d): %s.",
			state.Checkpoint, len(analysis.Checkpoints), state.CurrentTitle(),
		)), nil

	case "status":
		state, err := analysis.Load(root)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !state.Active {
			if state.Checkpoint > len(analysis.Checkpoints) {
				return mcp.NewToolResultText("The architecture analysis is complete. See " + analysis.DocPath(root) + "."), nil
			}
			return mcp.NewToolResultText("No architecture analysis in progress. Use action=start."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Analysis in progress since %s (language %s). Waiting on checkpoint %d of %d: %s.",
			state.Started, state.Language, state.Checkpoint, len(analysis.Checkpoints), state.CurrentTitle(),
		)), nil

	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid action %q (valid: start, checkpoint, status)", action)), nil
	}
}
