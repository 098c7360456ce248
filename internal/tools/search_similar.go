package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/docrank"
	"github.com/UniversInsideG/claude-tools/internal/duplication"
	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/scan"
	"github.com/UniversInsideG/claude-tools/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchSimilarTool handles philosophy_search_similar: find existing
// code and documents related to the change before writing anything new.
// Its duplication verdict feeds the inheritance coherence check.
type SearchSimilarTool struct {
	deps *Deps
}

// NewSearchSimilarTool creates the tool with its dependencies.
func NewSearchSimilarTool(deps *Deps) *SearchSimilarTool {
	return &SearchSimilarTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchSimilarTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Search the project for code and documentation similar to the planned change. " +
				"Matches file names and contents, measures pairwise similarity between " +
				"candidates, and ranks related documents by relevance and freshness. " +
				"The duplication verdict is remembered and checked at the inheritance step.",
		),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("Search term: the concept, class, or feature name."),
		),
		mcp.WithString("file_type",
			mcp.Description("Restrict the search to one file type."),
			mcp.Enum("gd", "tscn", "py", "php", "js", "all"),
		),
		mcp.WithString("project_path",
			mcp.Description("Project root. Defaults to walking up from the working directory."),
		),
	}
	return mcp.NewTool("philosophy_search_similar", withSkipParams(opts)...)
}

// Handle processes the philosophy_search_similar tool call.
func (t *SearchSimilarTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := strings.TrimSpace(req.GetString("term", ""))
	if term == "" {
		return mcp.NewToolResultError("'term' is required"), nil
	}

	root, err := findProjectRoot(req.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, store, err := loadSession(root)
	if err != nil {
		return nil, err
	}

	result, refusal := runGate(session, workflow.StepSearch, req)
	if refusal != nil {
		if err := store.Save(session); err != nil {
			return nil, err
		}
		return refusal, nil
	}
	if result.SkipConsumed {
		t.deps.recordOverride(root, "skip:"+string(result.Requested), req.GetString("justification", ""))
	}

	exts := scan.ExtensionsFor(req.GetString("file_type", "all"))

	byName, err := scan.FindByName(root, term, exts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	byContent := scan.FindByContent(ctx, root, term, exts)

	files := mergeUnique(byName, byContent)

	language := session.Language
	if language == "" {
		language = lang.Other
	}
	verdict := duplication.Detect(files, language)

	docs, err := docrank.Rank(root, term)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session.SearchResults = files
	session.Duplication = &verdict
	session.Complete(workflow.StepSearch)
	if err := store.Save(session); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(renderSearchReport(term, files, verdict, docs)), nil
}

// mergeUnique merges two file lists preserving order and dropping
// duplicates.
func mergeUnique(a, b []string) []string {
	seen := map[string]bool{}
	var merged []string
	for _, list := range [][]string{a, b} {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				merged = append(merged, f)
			}
		}
	}
	return merged
}

func renderSearchReport(term string, files []string, verdict duplication.Verdict, docs docrank.Results) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results: %q\n\n", term)

	if len(files) == 0 {
		b.WriteString("No matching code files found.\n")
	} else {
		fmt.Fprintf(&b, "## Code (%d files)\n\n", len(files))
		for _, f := range files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	fmt.Fprintf(&b, "\n## Duplication: %s\n\n", verdict.Severity)
	if len(verdict.Pairs) > 0 {
		for _, p := range verdict.Pairs {
			fmt.Fprintf(&b, "- %s vs %s: %.0f%% similar\n", p.FileA, p.FileB, p.Similarity*100)
		}
		fmt.Fprintf(&b, "\n%s\n", verdict.Recommendation)
	} else {
		b.WriteString("No near-duplicate pairs among the candidates.\n")
	}

	if docs.Total > 0 {
		fmt.Fprintf(&b, "\n## Documents (%d found)\n\n", docs.Total)
		if len(docs.Primary) > 0 {
			b.WriteString("Read these first:\n")
			for _, d := range docs.Primary {
				fmt.Fprintf(&b, "- %s (%s, score %.0f)\n", d.Path, d.Type, d.Score)
			}
		}
		if len(docs.Secondary) > 0 {
			b.WriteString("\nLower relevance or superseded:\n")
			for _, d := range docs.Secondary {
				fmt.Fprintf(&b, "- %s (%s, score %.0f)\n", d.Path, d.Type, d.Score)
			}
		}
	}

	b.WriteString("\nNext step: philosophy_decide_inheritance.")
	return b.String()
}
