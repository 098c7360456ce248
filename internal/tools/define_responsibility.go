package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefineResponsibilityTool handles philosophy_define_responsibility.
// A file gets exactly one responsibility, stated in one sentence; if it
// needs "and" the change is probably two files.
type DefineResponsibilityTool struct {
	deps *Deps
}

// NewDefineResponsibilityTool creates the tool with its dependencies.
func NewDefineResponsibilityTool(deps *Deps) *DefineResponsibilityTool {
	return &DefineResponsibilityTool{deps: deps}
}

// Definition returns the MCP tool definition for registration. The
// criteria step cannot be skipped, so this tool takes no skip
// parameters; the skip protocol starts at the reuse step.
func (t *DefineResponsibilityTool) Definition() mcp.Tool {
	return mcp.NewTool("philosophy_define_responsibility",
		mcp.WithDescription(
			"State the single responsibility of the file being created or changed. "+
				"One sentence, one responsibility. Requires completed success criteria.",
		),
		mcp.WithString("responsibility",
			mcp.Required(),
			mcp.Description("One sentence: what this file is responsible for."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	)
}

// Handle processes the philosophy_define_responsibility tool call.
func (t *DefineResponsibilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	responsibility := strings.TrimSpace(req.GetString("responsibility", ""))
	if responsibility == "" {
		return mcp.NewToolResultError("'responsibility' is required"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepResponsibility, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	if problem := singleSentenceProblem(responsibility); problem != "" {
		return mcp.NewToolResultError(problem), nil
	}

	session.Responsibility = responsibility
	session.Complete(workflow.StepResponsibility)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Responsibility recorded: %s\n\nNext step: philosophy_check_reuse.",
		responsibility,
	)), nil
}

// singleSentenceProblem reports why a responsibility statement is not a
// single responsibility, or empty when it is fine.
func singleSentenceProblem(text string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(text), ".")
	if strings.Contains(trimmed, ". ") {
		return "the responsibility spans multiple sentences; if the file does several things, split the change"
	}
	lower := strings.ToLower(trimmed)
	for _, connector := range []string{" and also ", "; and ", " as well as "} {
		if strings.Contains(lower, connector) {
			return "the responsibility lists several duties (found " + strings.TrimSpace(connector) + "); a file gets exactly one"
		}
	}
	return ""
}
