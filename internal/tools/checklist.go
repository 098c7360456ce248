package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/levels"
	"github.com/mark3labs/mcp-go/mcp"
)

// ChecklistTool handles philosophy_checklist: a static reference card
// of the workflow steps and the abstraction levels. No gate, no state.
type ChecklistTool struct{}

// NewChecklistTool creates the tool.
func NewChecklistTool() *ChecklistTool {
	return &ChecklistTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ChecklistTool) Definition() mcp.Tool {
	return mcp.NewTool("philosophy_checklist",
		mcp.WithDescription(
			"Show the full workflow checklist and the abstraction level reference. "+
				"Read-only; useful before starting a change.",
		),
	)
}

// Handle processes the philosophy_checklist tool call.
func (t *ChecklistTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Philosophy Checklist\n\n")
	b.WriteString("Work through these in order; each tool refuses until the previous step is done.\n\n")
	b.WriteString("1. philosophy_define_criteria — observable outcomes, confirmed by a human\n")
	b.WriteString("2. philosophy_define_responsibility — one file, one sentence\n")
	b.WriteString("3. philosophy_check_reuse — name what existing code this builds on\n")
	b.WriteString("4. philosophy_search_similar — find prior art in code and docs\n")
	b.WriteString("5. philosophy_decide_inheritance — inherit or compose, coherent with the search\n")
	b.WriteString("6. philosophy_set_level — place the file in the hierarchy, name it accordingly\n")
	b.WriteString("7. philosophy_verify_dependencies — confirm every called signature (no skipping)\n")
	b.WriteString("8. philosophy_validate_code — structural checks on the finished file\n")
	b.WriteString("9. philosophy_document_creation — changelog entry, workflow resets\n")

	b.WriteString("\n## Abstraction levels\n\n")
	for _, level := range levels.Values() {
		fmt.Fprintf(&b, "- **%s**: %s\n", level, levels.Descriptions[levels.Level(level)])
	}

	b.WriteString("\nSkipping a step needs a registered justification plus human verification, " +
		"and each verified skip covers exactly one step.")
	return mcp.NewToolResultText(b.String()), nil
}
