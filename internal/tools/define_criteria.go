package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/templates"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefineCriteriaTool handles philosophy_define_criteria, the first
// workflow step. It enforces the presentation gate: criteria must be
// shown to the human on one call and confirmed on a later one.
type DefineCriteriaTool struct {
	deps *Deps
}

// NewDefineCriteriaTool creates the tool with its dependencies.
func NewDefineCriteriaTool(deps *Deps) *DefineCriteriaTool {
	return &DefineCriteriaTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *DefineCriteriaTool) Definition() mcp.Tool {
	return mcp.NewTool("philosophy_define_criteria",
		mcp.WithDescription(
			"Define the success criteria for a change before any code is written. "+
				"Criteria describe observable outcomes, never implementation details. "+
				"First call presents the criteria to the human; a second call with "+
				"confirmed=true records them and opens the workflow.",
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What is being built or changed, in one or two sentences."),
		),
		mcp.WithString("criteria",
			mcp.Required(),
			mcp.Description("The success criteria, one observable outcome per line."),
		),
		mcp.WithString("language",
			mcp.Description("Project language."),
			mcp.Enum(lang.Values()...),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description("Set true only after the human has seen and approved the presented criteria."),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	)
}

// Handle processes the philosophy_define_criteria tool call.
func (t *DefineCriteriaTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description := req.GetString("description", "")
	criteria := req.GetString("criteria", "")
	if description == "" || criteria == "" {
		return mcp.NewToolResultError("'description' and 'criteria' are both required"), nil
	}

	language := lang.Language(req.GetString("language", string(lang.Other)))
	if err := lang.Validate(language); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	check := workflow.CheckCriteria(criteria)
	if !check.OK {
		msg := "The criteria contain implementation detail:\n"
		for _, finding := range check.Findings {
			msg += "- " + finding + "\n"
		}
		msg += "\nRewrite them as observable outcomes and call again."
		return mcp.NewToolResultError(msg), nil
	}

	if !req.GetBool("confirmed", false) {
		session.CriteriaPresented = true
		session.CriteriaText = criteria
		session.Description = description
		session.Language = language
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"# Success Criteria (pending confirmation)\n\n"+
				"**Change:** %s\n\n%s\n\n"+
				"Show these to the human. When they approve, call philosophy_define_criteria "+
				"again with confirmed=true.",
			description, criteria,
		)), nil
	}

	if !session.CriteriaPresented {
		return mcp.NewToolResultError(
			"criteria cannot be confirmed before they were presented; call once without confirmed first"), nil
	}

	content, err := t.deps.Renderer.Render(templates.Criteria, templates.CriteriaData{
		Description: description,
		Criteria:    criteria,
		Date:        time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering criteria: %w", err)
	}
	criteriaPath := filepath.Join(philosophyDir(root), "success_criteria.md")
	if err := writeProjectFile(criteriaPath, content); err != nil {
		return nil, err
	}

	session.Description = description
	session.CriteriaText = criteria
	session.Language = language
	session.Complete(workflow.StepCriteria)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Success criteria recorded in %s.\n\nNext step: philosophy_define_responsibility.",
		criteriaPath,
	)), nil
}
