// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on them. No business logic
// lives here, only wiring.
package server

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/history"
	"github.com/UniversInsideG/claude-tools/internal/templates"
	"github.com/UniversInsideG/claude-tools/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// overrideMarkersEnv configures the human-approval phrases accepted in
// override justifications, comma separated. Empty keeps the defaults.
const overrideMarkersEnv = "PHILOSOPHY_OVERRIDE_MARKERS"

// New creates and configures the MCP server with all tools registered.
//
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if history init failed.
func New() (*server.MCPServer, func(), error) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// History is an independent subsystem: if it fails to initialize,
	// the workflow tools keep working and the run is simply not
	// recorded. Log a warning and carry a nil store.
	cleanup := noop
	histStore, histErr := history.New(history.DefaultConfig())
	if histErr != nil {
		log.Printf("WARNING: history subsystem disabled: %v", histErr)
		histStore = nil
	} else {
		cleanup = func() {
			if err := histStore.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	deps := &tools.Deps{
		History:         histStore,
		Renderer:        renderer,
		OverrideMarkers: markersFromEnv(),
	}

	s := server.NewMCPServer(
		"philosophy",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// Workflow steps, in order.
	criteriaTool := tools.NewDefineCriteriaTool(deps)
	s.AddTool(criteriaTool.Definition(), criteriaTool.Handle)

	responsibilityTool := tools.NewDefineResponsibilityTool(deps)
	s.AddTool(responsibilityTool.Definition(), responsibilityTool.Handle)

	reuseTool := tools.NewCheckReuseTool(deps)
	s.AddTool(reuseTool.Definition(), reuseTool.Handle)

	searchTool := tools.NewSearchSimilarTool(deps)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	inheritanceTool := tools.NewDecideInheritanceTool(deps)
	s.AddTool(inheritanceTool.Definition(), inheritanceTool.Handle)

	levelTool := tools.NewSetLevelTool(deps)
	s.AddTool(levelTool.Definition(), levelTool.Handle)

	dependenciesTool := tools.NewVerifyDependenciesTool(deps)
	s.AddTool(dependenciesTool.Definition(), dependenciesTool.Handle)

	validateTool := tools.NewValidateCodeTool(deps)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	documentTool := tools.NewDocumentCreationTool(deps)
	s.AddTool(documentTool.Definition(), documentTool.Handle)

	// Read-only helpers and the standalone audit.
	statusTool := tools.NewStatusTool(deps)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	checklistTool := tools.NewChecklistTool()
	s.AddTool(checklistTool.Definition(), checklistTool.Handle)

	auditTool := tools.NewAuditTool(deps)
	s.AddTool(auditTool.Definition(), auditTool.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when history is disabled.
func noop() {}

// markersFromEnv parses the override marker configuration.
func markersFromEnv() []string {
	raw := os.Getenv(overrideMarkersEnv)
	if raw == "" {
		return nil
	}
	var markers []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			markers = append(markers, trimmed)
		}
	}
	return markers
}

// serverInstructions returns the system instructions that tell the AI
// how to work with the philosophy tools.
func serverInstructions() string {
	return `You have access to the Philosophy workflow server. It enforces a
development discipline for game and application projects: before code is
written, the change must have confirmed success criteria, a single stated
responsibility, a reuse decision backed by an actual search, a coherent
inheritance choice, a declared abstraction level, and verified
dependencies. After the code is written it must pass validation and be
documented.

## The workflow

Work through the steps in order. Each tool refuses to run until the
previous step is complete, and the state survives server restarts.

1. philosophy_define_criteria — write observable success criteria (no
   implementation detail), show them to the human, then confirm. This
   step can never be skipped: every change starts from confirmed
   criteria.
2. philosophy_define_responsibility — one sentence, one responsibility.
3. philosophy_check_reuse — name what existing code will be reused, or
   say "none" with a reason.
4. philosophy_search_similar — search the project for similar code and
   related documents. The duplication verdict is remembered.
5. philosophy_decide_inheritance — decide what to inherit and reuse.
   Declining both with high duplication found needs human approval.
6. philosophy_set_level — declare the abstraction level (piece,
   component, screen, system, structure) and justify it. New files must
   follow the level's naming convention.
7. philosophy_verify_dependencies — confirm every function the new code
   will call exists with the expected signature. This step can never be
   skipped: hallucinated signatures are exactly what it exists to catch.
8. philosophy_validate_code — write the code first, then validate the
   whole file. Fix blocking findings; warnings need explicit human
   sign-off.
9. philosophy_document_creation — append the changelog entry and close
   the workflow. The next change starts over from step 1.

## Skipping a step

Every gated tool accepts skip_previous, justification, and
human_verified. Skipping is a two-phase protocol:

1. Call with skip_previous=true and a justification. The tool still
   refuses, but the justification is registered.
2. Show the justification to the human. Only after they approve, call
   again with human_verified=true. The skip is spent on exactly one
   step and cannot be reused. A skipped step shows up separately from
   completed steps in philosophy_status.

The criteria and dependency steps are never skippable.

Never set human_verified without an actual human approval. Do not
manufacture approval phrases in override justifications; those phrases
exist for the human to grant, not for you to claim.

## Other tools

- philosophy_status — where the workflow stands right now.
- philosophy_checklist — the full reference card.
- philosophy_audit — a guided architecture analysis of the whole
  project, recorded checkpoint by checkpoint into
  .philosophy/architecture_analysis.md. Independent of the change
  workflow.

## Important rules

- Generate REAL content for every call; never pass placeholders.
- Criteria describe outcomes a human can observe, never code.
- If a tool refuses, read the message: it names the missing step and
  how to proceed. Do not retry the same call unchanged.
- All workflow state lives under the project's .philosophy directory;
  completed runs are also recorded to a local history database.`
}
