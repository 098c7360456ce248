package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// CheckReuseTool handles philosophy_check_reuse: before writing new
// code, name what existing code will be reused, or say "none" and why.
type CheckReuseTool struct {
	deps *Deps
}

// NewCheckReuseTool creates the tool with its dependencies.
func NewCheckReuseTool(deps *Deps) *CheckReuseTool {
	return &CheckReuseTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckReuseTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Record the reuse decision: which existing files, classes, or components " +
				"this change will build on. Answer 'none' only with a reason; the later " +
				"inheritance step checks this decision against duplication evidence.",
		),
		mcp.WithString("decision",
			mcp.Required(),
			mcp.Description("What will be reused (file or component names), or 'none'."),
		),
		mcp.WithString("reason",
			mcp.Description("Required when the decision is 'none': why nothing existing fits."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_check_reuse", withSkipParams(opts)...)
}

// Handle processes the philosophy_check_reuse tool call.
func (t *CheckReuseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decision := strings.TrimSpace(req.GetString("decision", ""))
	if decision == "" {
		return mcp.NewToolResultError("'decision' is required (name what will be reused, or 'none')"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepReuse, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	if strings.EqualFold(decision, "none") && strings.TrimSpace(req.GetString("reason", "")) == "" {
		return mcp.NewToolResultError(
			"a 'none' decision needs a reason: state why no existing code fits"), nil
	}

	session.ReuseChoice = decision
	session.Complete(workflow.StepReuse)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Reuse decision recorded: %s\n\nNext step: philosophy_search_similar to look for prior art.",
		decision,
	)), nil
}
