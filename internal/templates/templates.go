// Package templates renders the markdown documents the tools write
// into a project: success criteria, the architecture analysis scaffold,
// and changelog entries.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed files/*.md.tmpl
var templateFS embed.FS

// Template names one embedded template.
type Template string

const (
	Criteria       Template = "criteria.md.tmpl"
	Analysis       Template = "analysis.md.tmpl"
	ChangelogEntry Template = "changelog_entry.md.tmpl"
)

// CriteriaData fills the success criteria document.
type CriteriaData struct {
	Description string
	Criteria    string
	Date        string
}

// AnalysisCheckpoint is one section scaffold in the analysis document.
type AnalysisCheckpoint struct {
	Number int
	Title  string
}

// AnalysisData fills the architecture analysis scaffold.
type AnalysisData struct {
	ProjectName string
	Language    string
	Date        string
	StateMarker string
	Checkpoints []AnalysisCheckpoint
}

// ChangelogEntryData fills one changelog entry.
type ChangelogEntryData struct {
	Date        string
	Description string
	Filename    string
	Level       string
	ChangeType  string
	Criteria    string
}

// Renderer renders an embedded template with data.
type Renderer interface {
	Render(tmpl Template, data any) (string, error)
}

type embedRenderer struct {
	templates *template.Template
}

// NewRenderer parses all embedded templates once.
func NewRenderer() (Renderer, error) {
	parsed, err := template.ParseFS(templateFS, "files/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &embedRenderer{templates: parsed}, nil
}

// Render executes the named template.
func (r *embedRenderer) Render(tmpl Template, data any) (string, error) {
	var buf strings.Builder
	if err := r.templates.ExecuteTemplate(&buf, string(tmpl), data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", tmpl, err)
	}
	return buf.String(), nil
}
