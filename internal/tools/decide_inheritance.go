package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// DecideInheritanceTool handles philosophy_decide_inheritance. The
// decision is checked for coherence against the duplication verdict
// from the search step: with near-identical siblings in the project,
// "inherit nothing, reuse nothing" needs a human-approved override.
type DecideInheritanceTool struct {
	deps *Deps
}

// NewDecideInheritanceTool creates the tool with its dependencies.
func NewDecideInheritanceTool(deps *Deps) *DecideInheritanceTool {
	return &DecideInheritanceTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *DecideInheritanceTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Decide what the new code inherits from and what it reuses. " +
				"Declining both while the search found high duplication is blocked " +
				"unless the justification begins with a human-approval marker.",
		),
		mcp.WithString("inherit_from",
			mcp.Required(),
			mcp.Description("Base class or scene to inherit from, or 'none'."),
		),
		mcp.WithString("reuse_from",
			mcp.Required(),
			mcp.Description("Existing component to reuse or compose, or 'none'."),
		),
		mcp.WithString("override_justification",
			mcp.Description("Needed only to override a duplication conflict; must begin with a human-approval phrase."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_decide_inheritance", withSkipParams(opts)...)
}

// Handle processes the philosophy_decide_inheritance tool call.
func (t *DecideInheritanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inheritFrom := strings.TrimSpace(req.GetString("inherit_from", ""))
	reuseFrom := strings.TrimSpace(req.GetString("reuse_from", ""))
	if inheritFrom == "" || reuseFrom == "" {
		return mcp.NewToolResultError("'inherit_from' and 'reuse_from' are both required (use 'none' to decline)"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepInheritance, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	if workflow.InheritanceConflict(inheritFrom, reuseFrom, session.Duplication) {
		justification := req.GetString("override_justification", "")
		if !workflow.HasOverrideMarker(justification, t.deps.markers(session)) {
			var b strings.Builder
			b.WriteString("Declining inheritance and reuse conflicts with the search evidence: " +
				"the project already contains near-identical files.\n\n")
			for _, p := range session.Duplication.Pairs {
				fmt.Fprintf(&b, "- %s vs %s: %.0f%% similar\n", p.FileA, p.FileB, p.Similarity*100)
			}
			b.WriteString("\nEither name a base to inherit from, or have a human approve the " +
				"exception and pass override_justification beginning with an approval phrase.")
			return mcp.NewToolResultError(b.String()), nil
		}
		t.deps.recordOverride(root, "inheritance-conflict", justification)
	}

	session.InheritanceChoice = inheritFrom
	if !strings.EqualFold(reuseFrom, "none") {
		session.ReuseChoice = reuseFrom
	}
	session.Complete(workflow.StepInheritance)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Inheritance decision recorded: inherit from %s, reuse %s.\n\nNext step: philosophy_set_level.",
		inheritFrom, reuseFrom,
	)), nil
}
