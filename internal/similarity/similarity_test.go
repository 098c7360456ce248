package similarity

import "testing"

func TestRatio_IdenticalInputs(t *testing.T) {
	inputs := []string{
		"x",
		"func _ready():\n\tpass\n",
		"a longer block of text with repetition repetition repetition",
	}
	for _, in := range inputs {
		if got := Ratio(in, in); got != 1.0 {
			t.Errorf("Ratio(%q, same) = %v, want 1.0", in, got)
		}
	}
}

func TestRatio_EmptyInputs(t *testing.T) {
	if got := Ratio("", "anything"); got != 0.0 {
		t.Errorf("Ratio(empty, x) = %v, want 0.0", got)
	}
	if got := Ratio("anything", ""); got != 0.0 {
		t.Errorf("Ratio(x, empty) = %v, want 0.0", got)
	}
	if got := Ratio("", ""); got != 0.0 {
		t.Errorf("Ratio(empty, empty) = %v, want 0.0", got)
	}
}

func TestRatio_DisjointInputs(t *testing.T) {
	// No shared characters at all.
	got := Ratio("aaaa", "bbbb")
	if got != 0.0 {
		t.Errorf("Ratio(disjoint) = %v, want 0.0", got)
	}
}

func TestRatio_PartialOverlap(t *testing.T) {
	a := "extends Node\nfunc _ready():\n\tprint(\"hello\")\n"
	b := "extends Node\nfunc _ready():\n\tprint(\"world\")\n"

	got := Ratio(a, b)
	if got <= 0.5 || got >= 1.0 {
		t.Errorf("Ratio(near-duplicates) = %v, want in (0.5, 1.0)", got)
	}
}

func TestRatio_InRange(t *testing.T) {
	pairs := [][2]string{
		{"abc", "abd"},
		{"short", "a much longer string that shares little"},
		{"func setup()", "def setup():"},
	}
	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Ratio(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestRatio_RewardsContiguousBlocks(t *testing.T) {
	// A shared contiguous block should score higher than the same
	// characters scattered.
	base := "0123456789"
	contiguous := "xx0123456789xx"
	scattered := "0x1x2x3x4x5x6x7x8x9x"

	if Ratio(base, contiguous) <= Ratio(base, scattered) {
		t.Errorf("contiguous block (%v) should outscore scattered (%v)",
			Ratio(base, contiguous), Ratio(base, scattered))
	}
}
