package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/depcheck"
	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/refprops"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// VerifyDependenciesTool handles philosophy_verify_dependencies: every
// function the new code will call must be confirmed to exist with the
// expected signature before the code is written. This step cannot be
// skipped.
type VerifyDependenciesTool struct {
	deps *Deps
}

// NewVerifyDependenciesTool creates the tool with its dependencies.
func NewVerifyDependenciesTool(deps *Deps) *VerifyDependenciesTool {
	return &VerifyDependenciesTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *VerifyDependenciesTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Verify that every function the planned code depends on actually exists " +
				"with the expected signature. Hallucinated or mismatched signatures block " +
				"the workflow and cannot be waived. Optionally captures property values " +
				"from a reference excerpt for later completeness checks.",
		),
		mcp.WithString("expectations",
			mcp.Required(),
			mcp.Description(`JSON array of expected dependencies, e.g. `+
				`[{"file":"scripts/inventory.gd","function":"add_item","params":"item: Item","returns":"bool"}]`),
		),
		mcp.WithString("reference",
			mcp.Description(`Optional JSON reference excerpt to capture property values from, e.g. `+
				`{"file":"scenes/shop.gd","pattern":"func _ready","properties":["texture","modulate"]}`),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_verify_dependencies", withSkipParams(opts)...)
}

// Handle processes the philosophy_verify_dependencies tool call.
func (t *VerifyDependenciesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := strings.TrimSpace(req.GetString("expectations", ""))
	if raw == "" {
		return mcp.NewToolResultError("'expectations' is required (a JSON array of dependencies)"), nil
	}
	var expectations []depcheck.Expectation
	if err := json.Unmarshal([]byte(raw), &expectations); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("expectations must be a JSON array: %v", err)), nil
	}
	if len(expectations) == 0 {
		return mcp.NewToolResultError("expectations must name at least one dependency; " +
			"if the code truly calls nothing, state a self-contained expectation for its own file"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	if _, refusal := runGate(session, workflow.StepDependencies, req); refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}

	language := session.Language
	if language == "" {
		language = lang.Other
	}

	verified, findings := depcheck.Verify(root, expectations, language)
	if len(findings) > 0 {
		var b strings.Builder
		b.WriteString("Dependency verification failed. These problems cannot be waived:\n\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "- %s %s: %s", f.File, f.Function, f.Problem)
			if f.Expected != "" || f.Actual != "" {
				fmt.Fprintf(&b, " (expected %q, found %q)", f.Expected, f.Actual)
			}
			b.WriteString("\n")
		}
		b.WriteString("\nFix the expectations to match reality, or fix the called code first.")
		return mcp.NewToolResultError(b.String()), nil
	}

	var captures []refprops.Capture
	if refRaw := strings.TrimSpace(req.GetString("reference", "")); refRaw != "" {
		var refReq refprops.Request
		if err := json.Unmarshal([]byte(refRaw), &refReq); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reference must be a JSON object: %v", err)), nil
		}
		refPath := refReq.File
		if !filepath.IsAbs(refPath) {
			refPath = filepath.Join(root, refPath)
		}
		data, err := os.ReadFile(refPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading reference file: %v", err)), nil
		}
		captures = append(captures, refprops.Extract(string(data), refReq))
	}

	session.VerifiedDependencies = verified
	session.ReferenceProperties = captures
	session.Complete(workflow.StepDependencies)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "All %d dependencies verified:\n\n", len(verified))
	for _, v := range verified {
		fmt.Fprintf(&b, "- %s %s(%s)", v.File, v.Function, v.Params)
		if v.Returns != "" {
			fmt.Fprintf(&b, " -> %s", v.Returns)
		}
		b.WriteString("\n")
	}
	for _, c := range captures {
		fmt.Fprintf(&b, "\nReference properties from %s (lines %d-%d):\n", c.File, c.StartLine, c.EndLine)
		for name, value := range c.Found {
			fmt.Fprintf(&b, "- %s = %s\n", name, value)
		}
		for _, missing := range c.Missing {
			fmt.Fprintf(&b, "- %s: not found in the excerpt\n", missing)
		}
	}
	b.WriteString("\nNext step: write the code, then philosophy_validate_code.")
	return mcp.NewToolResultText(b.String()), nil
}
