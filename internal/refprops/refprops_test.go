package refprops

import "testing"

const sample = `extends CharacterBody2D

var speed = 300
var jump_force := 520
export var health: int = 100

func _ready():
	self.gravity = 980;
	$Sprite.modulate = Color(1, 0.5, 0.2)
`

func TestExtract_BareAssignments(t *testing.T) {
	got := Extract(sample, Request{
		File:       "player.gd",
		Properties: []string{"speed", "jump_force", "health"},
	})

	want := map[string]string{
		"speed":      "300",
		"jump_force": "520",
		"health":     "100",
	}
	for prop, value := range want {
		if got.Found[prop] != value {
			t.Errorf("Found[%s] = %q, want %q", prop, got.Found[prop], value)
		}
	}
	if len(got.Missing) != 0 {
		t.Errorf("Missing = %v, want empty", got.Missing)
	}
}

func TestExtract_MemberAssignmentTrimsPunctuation(t *testing.T) {
	got := Extract(sample, Request{
		File:       "player.gd",
		Properties: []string{"gravity", "modulate"},
	})

	if got.Found["gravity"] != "980" {
		t.Errorf("Found[gravity] = %q, want 980 (semicolon trimmed)", got.Found["gravity"])
	}
	if got.Found["modulate"] != "Color(1, 0.5, 0.2)" {
		t.Errorf("Found[modulate] = %q, want Color(1, 0.5, 0.2)", got.Found["modulate"])
	}
}

func TestExtract_MissingProperties(t *testing.T) {
	got := Extract(sample, Request{
		File:       "player.gd",
		Properties: []string{"speed", "mana", "stamina"},
	})

	if len(got.Missing) != 2 {
		t.Fatalf("Missing = %v, want [mana stamina]", got.Missing)
	}
	if got.Missing[0] != "mana" || got.Missing[1] != "stamina" {
		t.Errorf("Missing = %v, want [mana stamina] in request order", got.Missing)
	}
}

func TestExtract_LineRangeNarrowing(t *testing.T) {
	// Lines 1-2 only: no assignments there.
	got := Extract(sample, Request{
		File:       "player.gd",
		StartLine:  1,
		EndLine:    2,
		Properties: []string{"speed"},
	})

	if len(got.Found) != 0 {
		t.Errorf("Found = %v, want empty outside the line range", got.Found)
	}
	if got.StartLine != 1 || got.EndLine != 2 {
		t.Errorf("bounds = %d-%d, want 1-2", got.StartLine, got.EndLine)
	}
}

func TestExtract_PatternNarrowing(t *testing.T) {
	got := Extract(sample, Request{
		File:       "player.gd",
		Pattern:    `func _ready`,
		Properties: []string{"speed", "gravity"},
	})

	if _, ok := got.Found["speed"]; ok {
		t.Error("speed is declared before the pattern anchor and should not be found")
	}
	if got.Found["gravity"] != "980" {
		t.Errorf("Found[gravity] = %q, want 980", got.Found["gravity"])
	}
}

func TestExtract_InvalidPatternFallsBackToWholeSource(t *testing.T) {
	got := Extract(sample, Request{
		File:       "player.gd",
		Pattern:    `([`,
		Properties: []string{"speed"},
	})

	if got.Found["speed"] != "300" {
		t.Errorf("Found[speed] = %q, want 300 (whole-source fallback)", got.Found["speed"])
	}
}
