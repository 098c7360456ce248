package docrank

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relPath, err)
	}
}

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func TestRank_ObsoleteScoresBelowActive(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/inventory_guide_a.md",
		"# Inventory Guide A\nStatus: active\n\ninventory inventory\n")
	writeDoc(t, root, "docs/inventory_guide_b.md",
		"# Inventory Guide B\nStatus: obsolete\n\ninventory inventory\n")

	got, err := Rank(root, "inventory")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	var active, obsolete float64
	for _, d := range append(got.Primary, got.Secondary...) {
		switch d.Status {
		case StatusActive:
			active = d.Score
		case StatusObsolete:
			obsolete = d.Score
		}
	}
	if obsolete >= active {
		t.Errorf("obsolete score %v should be below active score %v", obsolete, active)
	}
}

func TestRank_SupersededByNewerSameTopic(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	writeDoc(t, root, "docs/plan_combat_2026-08-01.md",
		"# Combat Plan\nDate: 2026-08-01\n\ncombat system design\n")
	writeDoc(t, root, "docs/plan_combat_2026-08-25.md",
		"# Combat Plan v2\nDate: 2026-08-25\n\ncombat system design revised\n")

	got, err := Rank(root, "combat")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got.Total != 2 {
		t.Fatalf("Total = %d, want 2", got.Total)
	}

	var older, newer *Document
	for i := range got.Primary {
		d := &got.Primary[i]
		if d.Date.Day() == 1 {
			older = d
		} else {
			newer = d
		}
	}
	for i := range got.Secondary {
		d := &got.Secondary[i]
		if d.Date.Day() == 1 {
			older = d
		} else {
			newer = d
		}
	}

	if older == nil || newer == nil {
		t.Fatal("expected both plan documents in the results")
	}
	if !older.Superseded {
		t.Error("older same-topic document should be superseded")
	}
	if newer.Superseded {
		t.Error("newer document should not be superseded")
	}
	if older.Score >= newer.Score {
		t.Errorf("superseded score %v should be below newer score %v", older.Score, newer.Score)
	}
}

func TestRank_SupersededWithinGraceIsNot(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/plan_ui_2026-08-20.md",
		"# UI Plan\nDate: 2026-08-20\n\nui work\n")
	writeDoc(t, root, "docs/plan_ui_2026-08-24.md",
		"# UI Plan later\nDate: 2026-08-24\n\nui work\n")

	got, err := Rank(root, "ui")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, d := range append(got.Primary, got.Secondary...) {
		if d.Superseded {
			t.Errorf("%s superseded = true, want false within the 7-day grace", d.Path)
		}
	}
}

func TestRank_PrimaryRequiresCutoffScore(t *testing.T) {
	root := t.TempDir()
	// Changelog base weight (15) stays below the cutoff.
	writeDoc(t, root, "docs/changelog.md", "# Changelog\n\nshop fix entry\n")
	writeDoc(t, root, "docs/shop_guide.md", "# Shop Guide\nStatus: active\n\nshop shop\n")

	got, err := Rank(root, "shop")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	for _, d := range got.Primary {
		if d.Type == TypeChangelog {
			t.Error("changelog should not reach primary results")
		}
	}
	foundGuide := false
	for _, d := range got.Primary {
		if d.Type == TypeGuide {
			foundGuide = true
		}
	}
	if !foundGuide {
		t.Errorf("active guide should be primary; primary = %+v, secondary = %+v", got.Primary, got.Secondary)
	}
}

func TestRank_IgnoresDocsOutsideDocDirs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "src/notes.md", "# Notes\n\nweapon stuff\n")
	writeDoc(t, root, "docs/weapon_guide.md", "# Weapon Guide\n\nweapon stuff\n")

	got, err := Rank(root, "weapon")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got.Total != 1 {
		t.Errorf("Total = %d, want 1 (src/notes.md is not under a doc dir)", got.Total)
	}
}

func TestRank_MissingRootIsError(t *testing.T) {
	_, err := Rank(filepath.Join(t.TempDir(), "nope"), "term")
	if err == nil {
		t.Error("Rank should report a missing project root")
	}
}

func TestExtractTopic_MasterObserverSpecialCase(t *testing.T) {
	got := extractTopic("plan_event_bus", "Master plan for the Observer pattern rollout")
	if got != "master-observer" {
		t.Errorf("topic = %q, want master-observer", got)
	}

	// Only when BOTH words appear.
	got = extractTopic("plan_event_bus", "Master plan for events")
	if got == "master-observer" {
		t.Error("special case must require both keywords")
	}
}

func TestExtractTopic_StripsPrefixAndDate(t *testing.T) {
	if got := extractTopic("plan_combat_2026-08-01", "Combat Plan"); got != "combat" {
		t.Errorf("topic = %q, want combat", got)
	}
	if got := extractTopic("fix-login-20260815", "Login Fix"); got != "login" {
		t.Errorf("topic = %q, want login", got)
	}
}

func TestTermSections_CapsAtFive(t *testing.T) {
	content := "# Doc\n"
	for i := 0; i < 8; i++ {
		content += "## Section\nthe term is here\n"
	}
	got := termSections(content, "term")
	if len(got) != 5 {
		t.Errorf("len(sections) = %d, want 5", len(got))
	}
}

func TestScoreDocument_TitleAndFrequencyBonuses(t *testing.T) {
	base := Document{Type: TypeGuide, Title: "Unrelated", TermCount: 1}
	scoreDocument(&base, "inventory")

	titled := Document{Type: TypeGuide, Title: "Inventory Guide", TermCount: 1}
	scoreDocument(&titled, "inventory")

	if titled.Score != base.Score+25 {
		t.Errorf("title bonus: %v vs %v, want +25", titled.Score, base.Score)
	}

	frequent := Document{Type: TypeGuide, Title: "Unrelated", TermCount: 12}
	scoreDocument(&frequent, "inventory")
	if frequent.Score != base.Score+15 {
		t.Errorf("frequency bonus: %v vs %v, want +15", frequent.Score, base.Score)
	}
}
