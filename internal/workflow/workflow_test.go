package workflow

import (
	"testing"

	"github.com/UniversInsideG/claude-tools/internal/duplication"
)

func TestGate_FirstStepAlwaysAllowed(t *testing.T) {
	s := NewSession()
	got := s.Gate(StepCriteria, SkipRequest{})
	if !got.Allowed {
		t.Errorf("Gate(criteria) allowed = false, want true on a fresh session")
	}
}

func TestGate_RefusesOutOfOrder(t *testing.T) {
	s := NewSession()
	got := s.Gate(StepSearch, SkipRequest{})
	if got.Allowed {
		t.Error("Gate(search) should refuse with nothing complete")
	}
	if got.Missing != StepCriteria {
		t.Errorf("Missing = %q, want criteria (the first incomplete step)", got.Missing)
	}
}

func TestGate_AllowsAfterPrerequisites(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)
	s.Complete(StepResponsibility)

	if got := s.Gate(StepReuse, SkipRequest{}); !got.Allowed {
		t.Errorf("Gate(reuse) = %+v, want allowed", got)
	}
	if got := s.Gate(StepSearch, SkipRequest{}); got.Allowed {
		t.Error("Gate(search) should still refuse, reuse is incomplete")
	}
}

func TestGate_PhaseOneRegistersWithoutAdvancing(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	got := s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "responsibility already written in the issue"})
	if got.Allowed {
		t.Error("registering a justification must not advance the workflow")
	}
	if !got.JustificationRecorded {
		t.Error("JustificationRecorded = false, want true")
	}
	if s.Satisfied(StepResponsibility) {
		t.Error("phase one must not satisfy the missing step")
	}
	if len(s.Pending) != 1 {
		t.Fatalf("len(Pending) = %d, want 1", len(s.Pending))
	}
	wantKey := SkipKey{Missing: StepResponsibility, Requested: StepReuse}
	if s.Pending[0].Key != wantKey {
		t.Errorf("pending key = %+v, want %+v", s.Pending[0].Key, wantKey)
	}
}

func TestGate_PhaseTwoWithoutRegistrationFails(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	got := s.Gate(StepReuse, SkipRequest{HumanVerified: true})
	if got.Allowed {
		t.Error("verification without a registered justification must refuse")
	}
	if !got.MissingJustification {
		t.Error("MissingJustification = false, want true")
	}
	if s.Satisfied(StepResponsibility) {
		t.Error("nothing should have been completed or skipped")
	}
}

func TestGate_VerifiedSkipAdvancesOneTransition(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "covered elsewhere"})
	got := s.Gate(StepReuse, SkipRequest{HumanVerified: true})

	if !got.Allowed {
		t.Errorf("verified skip should allow the requested step, got %+v", got)
	}
	if !got.SkipConsumed {
		t.Error("SkipConsumed = false, want true")
	}
	if !s.Skipped[StepResponsibility] {
		t.Error("the skipped step should be recorded in Skipped")
	}
	if s.IsComplete(StepResponsibility) {
		t.Error("a skip must not count as genuine completion")
	}
	if len(s.Pending) != 0 {
		t.Errorf("justification should be consumed, Pending = %v", s.Pending)
	}
}

func TestGate_SkipIsSingleUse(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "covered elsewhere"})
	first := s.Gate(StepReuse, SkipRequest{HumanVerified: true})
	if !first.Allowed {
		t.Fatalf("first verification should succeed, got %+v", first)
	}

	// Undo the skip and verify again: the token must be gone.
	delete(s.Skipped, StepResponsibility)
	second := s.Gate(StepReuse, SkipRequest{HumanVerified: true})
	if second.Allowed || !second.MissingJustification {
		t.Errorf("second verification reused a consumed token: %+v", second)
	}
}

func TestGate_CombinedPhasesInOneCall(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	got := s.Gate(StepReuse, SkipRequest{
		Skip:          true,
		Justification: "responsibility documented in the ticket",
		HumanVerified: true,
	})
	if !got.Allowed || !got.SkipConsumed {
		t.Errorf("combined call should register then consume, got %+v", got)
	}
	if !s.Skipped[StepResponsibility] {
		t.Error("skipped step should be recorded as skipped")
	}
}

func TestGate_SkipCoversExactlyOneMissingStep(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	// Two steps are missing before search; one verified skip only
	// clears the first.
	got := s.Gate(StepSearch, SkipRequest{Skip: true, Justification: "reasons", HumanVerified: true})
	if got.Allowed {
		t.Error("one skip must not clear two missing steps")
	}
	if got.Missing != StepReuse {
		t.Errorf("Missing = %q, want reuse after responsibility was skipped", got.Missing)
	}
	if !s.Skipped[StepResponsibility] {
		t.Error("first missing step should be satisfied by the skip")
	}
	if s.Satisfied(StepReuse) {
		t.Error("second missing step must remain unsatisfied")
	}
}

func TestGate_JustificationKeyedToJump(t *testing.T) {
	s := NewSession()
	s.Complete(StepCriteria)

	// Register for the responsibility-to-reuse jump, then try to spend
	// it on a different requested step.
	s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "reasons"})
	got := s.Gate(StepSearch, SkipRequest{HumanVerified: true})
	if got.Allowed || !got.MissingJustification {
		t.Errorf("justification for one jump must not authorize another: %+v", got)
	}
}

func TestGate_DependenciesCannotBeSkipped(t *testing.T) {
	s := NewSession()
	for _, step := range StepOrder[:StepDependencies.Index()] {
		s.Complete(step)
	}

	got := s.Gate(StepValidate, SkipRequest{Skip: true, Justification: "trust me", HumanVerified: true})
	if got.Allowed {
		t.Error("dependency verification must not be skippable")
	}
	if !got.Unskippable {
		t.Error("Unskippable = false, want true")
	}
	if len(s.Pending) != 0 {
		t.Error("no justification should be registered for an unskippable step")
	}
}

func TestGate_CriteriaCannotBeSkipped(t *testing.T) {
	s := NewSession()

	got := s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "already agreed verbally", HumanVerified: true})
	if got.Allowed {
		t.Fatalf("criteria presentation must not be skippable, got %+v", got)
	}
	if !got.Unskippable {
		t.Error("Unskippable = false, want true")
	}
	if len(s.Pending) != 0 {
		t.Error("no justification should be registered against criteria")
	}

	// Repeating the call must not smuggle the flow past the gate.
	second := s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "already agreed verbally", HumanVerified: true})
	if second.Allowed || !second.Unskippable {
		t.Errorf("repeated skip attempt got past criteria: %+v", second)
	}
	if s.Satisfied(StepCriteria) || s.Satisfied(StepResponsibility) {
		t.Errorf("no step should be satisfied, completed=%v skipped=%v", s.Completed, s.Skipped)
	}
}

func TestSession_ResetClearsStateKeepsMarkers(t *testing.T) {
	s := NewSession()
	s.OverrideMarkers = []string{"team lead approved"}
	s.Complete(StepCriteria)
	s.Description = "inventory screen"
	s.Gate(StepReuse, SkipRequest{Skip: true, Justification: "x", HumanVerified: true})
	if len(s.Skipped) == 0 {
		t.Fatal("setup should have recorded a skipped step")
	}

	s.Reset()

	if len(s.Completed) != 0 || len(s.Skipped) != 0 || len(s.Pending) != 0 || s.Description != "" {
		t.Errorf("Reset left state behind: %+v", s)
	}
	if len(s.OverrideMarkers) != 1 {
		t.Error("Reset should keep configured override markers")
	}
}

func TestStep_PrevNext(t *testing.T) {
	if prev, ok := Prev(StepCriteria); ok {
		t.Errorf("Prev(criteria) = %q, want none", prev)
	}
	if prev, ok := Prev(StepSearch); !ok || prev != StepReuse {
		t.Errorf("Prev(search) = %q, want reuse", prev)
	}
	if next, ok := Next(StepDocument); ok {
		t.Errorf("Next(document) = %q, want none", next)
	}
	if err := Step("bogus").Validate(); err == nil {
		t.Error("Validate should reject an unknown step")
	}
}

func TestCheckCriteria(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"outcome", "The player sees their gold total update immediately after a purchase.", true},
		{"empty", "   ", false},
		{"assignment", "Set player.gold = 100 when the shop opens", false},
		{"code fence", "Works when:\n```\nfunc buy():\n```", false},
		{"method call", "Call inventory.add_item(sword) on pickup", false},
		{"debugging", "The traceback no longer appears on startup", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCriteria(tt.text)
			if got.OK != tt.ok {
				t.Errorf("CheckCriteria(%q).OK = %v, want %v (findings: %v)", tt.text, got.OK, tt.ok, got.Findings)
			}
		})
	}
}

func TestHasOverrideMarker(t *testing.T) {
	if !HasOverrideMarker("User confirmed this is intentional", nil) {
		t.Error("default markers should match case-insensitively")
	}
	if HasOverrideMarker("I am sure about this", nil) {
		t.Error("plain confidence is not an override marker")
	}
	if HasOverrideMarker("The design doc says the user confirmed it earlier", nil) {
		t.Error("a marker mentioned mid-sentence must not count as approval")
	}
	if !HasOverrideMarker("  user confirmed keeping both screens", nil) {
		t.Error("leading whitespace before the marker should be tolerated")
	}
	custom := []string{"team lead approved"}
	if !HasOverrideMarker("Team lead approved the exception", custom) {
		t.Error("configured markers should be honored")
	}
	if HasOverrideMarker("user confirmed", custom) {
		t.Error("configured markers replace the defaults")
	}
}

func TestInheritanceConflict(t *testing.T) {
	high := &duplication.Verdict{IsDuplicate: true, Severity: duplication.SeverityHigh}
	medium := &duplication.Verdict{IsDuplicate: true, Severity: duplication.SeverityMedium}

	if !InheritanceConflict("none", "none", high) {
		t.Error("declining both with high duplication should conflict")
	}
	if InheritanceConflict("base_screen.gd", "none", high) {
		t.Error("naming a base class resolves the conflict")
	}
	if InheritanceConflict("none", "none", medium) {
		t.Error("medium severity does not block")
	}
	if InheritanceConflict("none", "none", nil) {
		t.Error("no verdict means no conflict")
	}
}
