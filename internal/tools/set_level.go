package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/levels"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// SetLevelTool handles philosophy_set_level: place the change in the
// abstraction hierarchy and check the level against the stated behavior
// and the file naming convention.
type SetLevelTool struct {
	deps *Deps
}

// NewSetLevelTool creates the tool with its dependencies.
func NewSetLevelTool(deps *Deps) *SetLevelTool {
	return &SetLevelTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *SetLevelTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Declare the abstraction level of the file being changed and justify it. " +
				"A justification describing behavior of a different level is always blocked. " +
				"For new files the filename must match the level's naming convention; a " +
				"justification beginning with a human-approval phrase overrides the naming check only.",
		),
		mcp.WithString("level",
			mcp.Required(),
			mcp.Description("Abstraction level of the file."),
			mcp.Enum(levels.Values()...),
		),
		mcp.WithString("change_type",
			mcp.Required(),
			mcp.Description("Whether this creates a new file or modifies an existing one."),
			mcp.Enum(levels.ChangeTypeValues()...),
		),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("The file this change targets."),
		),
		mcp.WithString("level_justification",
			mcp.Required(),
			mcp.Description("Why this level fits: describe what the file does at this level."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_set_level", withSkipParams(opts)...)
}

// Handle processes the philosophy_set_level tool call.
func (t *SetLevelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := levels.Level(req.GetString("level", ""))
	if err := levels.Validate(level); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changeType := levels.ChangeType(req.GetString("change_type", ""))
	if err := levels.ValidateChangeType(changeType); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := strings.TrimSpace(req.GetString("filename", ""))
	justification := strings.TrimSpace(req.GetString("level_justification", ""))
	if filename == "" || justification == "" {
		return mcp.NewToolResultError("'filename' and 'level_justification' are both required"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepLevel, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	// Behavior incoherence has no override: a wrong level poisons every
	// later check.
	behavior := levels.CheckBehavior(level, justification)
	if !behavior.OK {
		msg := fmt.Sprintf(
			"The justification describes %q behavior, which does not belong at level %q.",
			behavior.IncompatiblePhrase, level)
		if behavior.SuggestedLevel != "" {
			msg += fmt.Sprintf(" Consider level %q instead.", behavior.SuggestedLevel)
		}
		return mcp.NewToolResultError(msg), nil
	}

	language := session.Language
	if language == "" {
		language = lang.Other
	}

	// Naming mismatches block new files; for existing files they are
	// reported as naming debt, not enforced retroactively.
	namingDebt := ""
	if naming := levels.CheckNaming(level, language, filename); !naming.OK {
		if changeType == levels.ChangeNew {
			if !workflow.HasOverrideMarker(justification, t.deps.markers(session)) {
				return mcp.NewToolResultError(fmt.Sprintf(
					"Filename %q does not match the %s naming convention (%s). "+
						"Suggested: %s. A human-approved justification overrides this check.",
					filename, level, naming.Pattern, naming.Suggested,
				)), nil
			}
			t.deps.recordOverride(root, "naming-convention", justification)
		} else {
			namingDebt = fmt.Sprintf(
				"\n\nNaming debt: %s does not match the %s convention (suggested: %s). "+
					"Not blocking for an existing file, but worth renaming.",
				filename, level, naming.Suggested)
		}
	}

	session.Level = level
	session.ChangeType = changeType
	session.Filename = filename
	session.Complete(workflow.StepLevel)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Level recorded: %s (%s) for %s.%s\n\nNext step: philosophy_verify_dependencies.",
		level, changeType, filename, namingDebt,
	)), nil
}
