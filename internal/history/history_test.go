package history

import (
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordFlowAndRecentFlows(t *testing.T) {
	s := newTestStore(t)

	id, err := s.RecordFlow(Flow{
		Project:     "dungeon-crawler",
		Description: "shop screen",
		Filename:    "shop_screen.gd",
		Language:    "godot",
		Level:       "screen",
		ChangeType:  "new",
		SkipCount:   1,
	})
	if err != nil {
		t.Fatalf("RecordFlow: %v", err)
	}
	if id == 0 {
		t.Error("RecordFlow should return a row id")
	}

	if _, err := s.RecordFlow(Flow{
		Project: "dungeon-crawler", Description: "fix gold display",
		Filename: "hud_screen.gd", Language: "godot", Level: "screen", ChangeType: "modification",
	}); err != nil {
		t.Fatalf("RecordFlow second: %v", err)
	}

	flows, err := s.RecentFlows("dungeon-crawler", 10)
	if err != nil {
		t.Fatalf("RecentFlows: %v", err)
	}
	if len(flows) != 2 {
		t.Fatalf("len(flows) = %d, want 2", len(flows))
	}
	// Most recent first.
	if flows[0].Description != "fix gold display" {
		t.Errorf("flows[0] = %q, want the newest run first", flows[0].Description)
	}
	if flows[1].SkipCount != 1 {
		t.Errorf("SkipCount = %d, want 1", flows[1].SkipCount)
	}
}

func TestRecentFlows_FiltersByProject(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.RecordFlow(Flow{Project: "a", Description: "x", Filename: "x.gd", Language: "godot", Level: "piece", ChangeType: "new"}); err != nil {
		t.Fatalf("RecordFlow: %v", err)
	}
	if _, err := s.RecordFlow(Flow{Project: "b", Description: "y", Filename: "y.gd", Language: "godot", Level: "piece", ChangeType: "new"}); err != nil {
		t.Fatalf("RecordFlow: %v", err)
	}

	flows, err := s.RecentFlows("a", 10)
	if err != nil {
		t.Fatalf("RecentFlows: %v", err)
	}
	if len(flows) != 1 || flows[0].Project != "a" {
		t.Errorf("flows = %+v, want only project a", flows)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.RecordFlow(Flow{Project: "a", Description: "x", Filename: "x.gd", Language: "godot", Level: "piece", ChangeType: "new"}); err != nil {
		t.Fatalf("RecordFlow: %v", err)
	}
	if err := s.RecordOverride("a", "skip", "user confirmed the reuse step is covered"); err != nil {
		t.Fatalf("RecordOverride: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalFlows != 1 || stats.TotalOverrides != 1 {
		t.Errorf("stats = %+v, want 1 flow and 1 override", stats)
	}
	if len(stats.Projects) != 1 || stats.Projects[0] != "a" {
		t.Errorf("Projects = %v, want [a]", stats.Projects)
	}
}
