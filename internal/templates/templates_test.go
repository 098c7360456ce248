package templates

import (
	"strings"
	"testing"
)

func TestNewRenderer_Succeeds(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() failed: %v", err)
	}
	if r == nil {
		t.Fatal("NewRenderer() returned nil")
	}
}

func TestRender_Criteria(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := CriteriaData{
		Description: "Add a shop screen",
		Criteria:    "- The player can buy an item and sees the gold total drop",
		Date:        "2026-08-30",
	}

	result, err := r.Render(Criteria, data)
	if err != nil {
		t.Fatalf("Render(Criteria) failed: %v", err)
	}

	checks := []string{
		"# Success Criteria",
		"2026-08-30",
		"Add a shop screen",
		"gold total drop",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("Criteria output missing: %q", check)
		}
	}
}

func TestRender_Analysis(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := AnalysisData{
		ProjectName: "dungeon-crawler",
		Language:    "godot",
		Date:        "2026-08-30",
		StateMarker: "<!-- analysis-state {} -->",
		Checkpoints: []AnalysisCheckpoint{
			{Number: 1, Title: "Component inventory"},
			{Number: 2, Title: "Responsibility map"},
		},
	}

	result, err := r.Render(Analysis, data)
	if err != nil {
		t.Fatalf("Render(Analysis) failed: %v", err)
	}

	checks := []string{
		"<!-- analysis-state {} -->",
		"dungeon-crawler",
		"**Language:** godot",
		"## Checkpoint 1: Component inventory",
		"## Checkpoint 2: Responsibility map",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("Analysis output missing: %q", check)
		}
	}
}

func TestRender_ChangelogEntry(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := ChangelogEntryData{
		Date:        "2026-08-30",
		Description: "shop screen",
		Filename:    "shop_screen.gd",
		Level:       "screen",
		ChangeType:  "new",
	}

	result, err := r.Render(ChangelogEntry, data)
	if err != nil {
		t.Fatalf("Render(ChangelogEntry) failed: %v", err)
	}

	checks := []string{
		"2026-08-30",
		"shop_screen.gd",
		"**Level:** screen",
		"**Change type:** new",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("ChangelogEntry output missing: %q", check)
		}
	}
	if strings.Contains(result, "**Criteria:**") {
		t.Error("criteria line should not render when empty")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	if _, err := r.Render("nonexistent.md.tmpl", nil); err == nil {
		t.Fatal("Render(nonexistent) should fail")
	}
}

func TestRender_EmptyCriteriaData(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	result, err := r.Render(Criteria, CriteriaData{})
	if err != nil {
		t.Fatalf("Render(Criteria, empty) failed: %v", err)
	}
	if !strings.Contains(result, "## Criteria") {
		t.Error("empty criteria should still contain section headers")
	}
}

func TestEmbedRenderer_ImplementsRenderer(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var _ Renderer = r
}
