package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/codecheck"
	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// ValidateCodeTool handles philosophy_validate_code: check written code
// against the structural rules before it is documented. Blocking
// findings must be fixed; warnings can be acknowledged explicitly.
type ValidateCodeTool struct {
	deps *Deps
}

// NewValidateCodeTool creates the tool with its dependencies.
func NewValidateCodeTool(deps *Deps) *ValidateCodeTool {
	return &ValidateCodeTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateCodeTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Validate a finished file against the structural rules: forbidden patterns, " +
				"repeated lines, long functions, scene duplication, and reference property " +
				"completeness. Pass the file path; the whole file is read from disk. " +
				"Blocking findings must be fixed; warnings need ignore_warnings_confirmed.",
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of the file to validate, relative to the project root."),
		),
		mcp.WithBoolean("ignore_warnings_confirmed",
			mcp.Description("Set true only after the human has seen the warnings and accepted them."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_validate_code", withSkipParams(opts)...)
}

// Handle processes the philosophy_validate_code tool call.
func (t *ValidateCodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := strings.TrimSpace(req.GetString("file_path", ""))
	if filePath == "" {
		return mcp.NewToolResultError("'file_path' is required"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepValidate, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	absPath := filePath
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(root, filePath)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", filePath, err)), nil
	}

	language := session.Language
	if language == "" {
		language = lang.FromExtension(filePath)
	}

	report := codecheck.Validate(string(data), filePath, language, session.ReferenceProperties)

	if len(report.Blocking) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Validation of %s failed (%d lines checked). Blocking findings:\n\n", filePath, report.Lines)
		for _, finding := range report.Blocking {
			fmt.Fprintf(&b, "- %s\n", finding)
		}
		if len(report.Warnings) > 0 {
			b.WriteString("\nWarnings (also present):\n")
			for _, w := range report.Warnings {
				fmt.Fprintf(&b, "- %s\n", w)
			}
		}
		b.WriteString("\nFix the blocking findings and validate again.")
		return mcp.NewToolResultError(b.String()), nil
	}

	if !report.Passes(req.GetBool("ignore_warnings_confirmed", false)) {
		var b strings.Builder
		fmt.Fprintf(&b, "Validation of %s found warnings:\n\n", filePath)
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\nFix them, or show them to the human and call again with " +
			"ignore_warnings_confirmed=true.")
		return mcp.NewToolResultError(b.String()), nil
	}

	session.Complete(workflow.StepValidate)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Validation of %s passed (%d lines).", filePath, report.Lines)
	if len(report.Warnings) > 0 {
		msg += fmt.Sprintf(" %d warnings acknowledged by the human.", len(report.Warnings))
	}
	msg += "\n\nNext step: philosophy_document_creation."
	return mcp.NewToolResultText(msg), nil
}
