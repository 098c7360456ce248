package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles philosophy_status: a read-only view of the current
// workflow position. It has no gate of its own.
type StatusTool struct {
	deps *Deps
}

// NewStatusTool creates the tool with its dependencies.
func NewStatusTool(deps *Deps) *StatusTool {
	return &StatusTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("philosophy_status",
		mcp.WithDescription(
			"Show the current workflow state: completed steps, the next step, pending "+
				"skip justifications, and what has been recorded so far.",
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	)
}

// Handle processes the philosophy_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, _, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	done, skipped, remaining := session.Progress()

	var b strings.Builder
	fmt.Fprintf(&b, "# Workflow Status (%s)\n\n", root)

	if session.Description != "" {
		fmt.Fprintf(&b, "**Change:** %s\n", session.Description)
	}
	if session.Filename != "" {
		fmt.Fprintf(&b, "**File:** %s (%s, %s)\n", session.Filename, session.Level, session.ChangeType)
	}
	if session.Language != "" {
		fmt.Fprintf(&b, "**Language:** %s\n", session.Language)
	}
	b.WriteString("\n")

	if len(done) == 0 && len(skipped) == 0 {
		b.WriteString("No steps completed yet. Start with philosophy_define_criteria.\n")
	} else {
		if len(done) > 0 {
			b.WriteString("## Completed\n\n")
			for _, step := range done {
				fmt.Fprintf(&b, "- %s\n", step)
			}
		}
		if len(skipped) > 0 {
			b.WriteString("\n## Skipped (human-verified)\n\n")
			for _, step := range skipped {
				fmt.Fprintf(&b, "- %s\n", step)
			}
		}
	}

	if len(remaining) > 0 {
		fmt.Fprintf(&b, "\n## Next\n\n%s", remaining[0])
		if len(remaining) > 1 {
			fmt.Fprintf(&b, " (then: %s)", joinSteps(remaining[1:]))
		}
		b.WriteString("\n")
	}

	if len(session.Pending) > 0 {
		b.WriteString("\n## Pending skip justifications\n\n")
		for _, p := range session.Pending {
			fmt.Fprintf(&b, "- skip %q to reach %q: %s\n", p.Key.Missing, p.Key.Requested, p.Justification)
		}
	}
	if session.SkipsUsed > 0 {
		fmt.Fprintf(&b, "\nSkips consumed this run: %d\n", session.SkipsUsed)
	}
	if session.Duplication != nil {
		fmt.Fprintf(&b, "\nDuplication verdict from search: %s\n", session.Duplication.Severity)
	}

	if t.deps.History != nil {
		if stats, err := t.deps.History.GetStats(); err == nil {
			fmt.Fprintf(&b, "\n## History\n\n%d documented runs, %d overrides across %d projects.\n",
				stats.TotalFlows, stats.TotalOverrides, len(stats.Projects))
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func joinSteps[T ~string](steps []T) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
