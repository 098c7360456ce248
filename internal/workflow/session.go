package workflow

import (
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/depcheck"
	"github.com/UniversInsideG/claude-tools/internal/duplication"
	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/levels"
	"github.com/UniversInsideG/claude-tools/internal/refprops"
)

// SkipKey identifies one pending skip: the step being jumped over and
// the step the caller wants to reach. Keying on both prevents a
// justification registered for one jump from authorizing a different
// one.
type SkipKey struct {
	Missing   Step `json:"missing"`
	Requested Step `json:"requested"`
}

// PendingSkip is a registered but not yet verified skip justification.
type PendingSkip struct {
	Key           SkipKey `json:"key"`
	Justification string  `json:"justification"`
}

// SkipRequest carries the skip parameters every gated tool accepts.
type SkipRequest struct {
	Skip          bool
	Justification string
	HumanVerified bool
}

// GateResult reports a gate decision in structured form. Callers render
// it however their surface requires; the gate itself never formats
// messages.
type GateResult struct {
	Allowed bool
	// Missing is the first incomplete prerequisite when not allowed.
	Missing   Step
	Requested Step
	// JustificationRecorded is true when this call registered a skip
	// justification (phase one of the protocol).
	JustificationRecorded bool
	// SkipConsumed is true when a verified skip was spent on this call.
	SkipConsumed bool
	// MissingJustification is true when human verification arrived with
	// no registered justification to consume.
	MissingJustification bool
	// Unskippable is true when the missing step cannot be skipped at all.
	Unskippable bool
}

// Session is the per-project workflow state. It accumulates what each
// completed step decided so later steps can check coherence against it.
type Session struct {
	Completed map[Step]bool `json:"completed"`
	// Skipped holds steps jumped over with a verified skip. They
	// satisfy later gates but are never shown as genuinely completed.
	Skipped map[Step]bool `json:"skipped,omitempty"`
	Pending []PendingSkip `json:"pending,omitempty"`

	// OverrideMarkers are the phrases that let a justification override
	// a blocking coherence check. Empty means DefaultOverrideMarkers.
	OverrideMarkers []string `json:"override_markers,omitempty"`

	Description       string            `json:"description,omitempty"`
	Responsibility    string            `json:"responsibility,omitempty"`
	Filename          string            `json:"filename,omitempty"`
	Language          lang.Language     `json:"language,omitempty"`
	Level             levels.Level      `json:"level,omitempty"`
	ChangeType        levels.ChangeType `json:"change_type,omitempty"`
	InheritanceChoice string            `json:"inheritance_choice,omitempty"`
	ReuseChoice       string            `json:"reuse_choice,omitempty"`

	SearchResults        []string             `json:"search_results,omitempty"`
	Duplication          *duplication.Verdict `json:"duplication,omitempty"`
	VerifiedDependencies []depcheck.Verified  `json:"verified_dependencies,omitempty"`
	ReferenceProperties  []refprops.Capture   `json:"reference_properties,omitempty"`

	CriteriaText      string `json:"criteria_text,omitempty"`
	CriteriaPresented bool   `json:"criteria_presented,omitempty"`

	// SkipsUsed counts consumed skips for the current run; it feeds the
	// history record written when the run is documented.
	SkipsUsed int `json:"skips_used,omitempty"`
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{Completed: map[Step]bool{}, Skipped: map[Step]bool{}}
}

// Gate decides whether the requested step may run. Prerequisites
// complete means yes. Otherwise the skip protocol applies:
//
//   - Skip with a justification registers it (phase one) and still
//     refuses; registration alone never advances the workflow.
//   - HumanVerified consumes a previously registered justification for
//     this exact jump and marks the missing step as skipped, which
//     satisfies later gates without claiming the step was done. One
//     verified skip spends one justification.
//   - Both phases in a single call behave as phase one followed
//     immediately by phase two.
//   - HumanVerified with nothing registered refuses and flags
//     MissingJustification.
func (s *Session) Gate(requested Step, skip SkipRequest) GateResult {
	result := GateResult{Requested: requested}

	missing, ok := s.firstMissingBefore(requested)
	if !ok {
		result.Allowed = true
		return result
	}
	result.Missing = missing

	if !skip.Skip && !skip.HumanVerified {
		return result
	}

	if unskippableSteps[missing] {
		result.Unskippable = true
		return result
	}

	key := SkipKey{Missing: missing, Requested: requested}

	if skip.Skip && strings.TrimSpace(skip.Justification) != "" {
		s.registerSkip(key, skip.Justification)
		result.JustificationRecorded = true
	}

	if !skip.HumanVerified {
		return result
	}

	if _, ok := s.consumeSkip(key); !ok {
		result.MissingJustification = true
		return result
	}
	result.SkipConsumed = true
	s.SkipsUsed++
	s.markSkipped(missing)

	// One consumed skip advances exactly one transition. If more
	// prerequisites are still missing the caller must go around again.
	if next, stillMissing := s.firstMissingBefore(requested); stillMissing {
		result.Missing = next
		return result
	}
	result.Allowed = true
	result.Missing = ""
	return result
}

// Complete marks a step done.
func (s *Session) Complete(step Step) {
	if s.Completed == nil {
		s.Completed = map[Step]bool{}
	}
	s.Completed[step] = true
}

// IsComplete reports whether a step was genuinely completed. Steps
// jumped over with a verified skip are tracked in Skipped instead.
func (s *Session) IsComplete(step Step) bool {
	return s.Completed[step]
}

// Satisfied reports whether a step no longer blocks later ones, either
// because it was completed or skipped through with human sign-off.
func (s *Session) Satisfied(step Step) bool {
	return s.Completed[step] || s.Skipped[step]
}

// markSkipped records a skipped-through step without marking it
// complete, keeping the distinction visible in status output.
func (s *Session) markSkipped(step Step) {
	if s.Skipped == nil {
		s.Skipped = map[Step]bool{}
	}
	s.Skipped[step] = true
}

// Reset clears all state. The document step calls this so the next
// change starts from criteria again.
func (s *Session) Reset() {
	markers := s.OverrideMarkers
	*s = Session{Completed: map[Step]bool{}, Skipped: map[Step]bool{}, OverrideMarkers: markers}
}

// Progress returns the completed, skipped, and remaining steps in
// order.
func (s *Session) Progress() (done, skipped, remaining []Step) {
	for _, step := range StepOrder {
		switch {
		case s.Completed[step]:
			done = append(done, step)
		case s.Skipped[step]:
			skipped = append(skipped, step)
		default:
			remaining = append(remaining, step)
		}
	}
	return done, skipped, remaining
}

// firstMissingBefore returns the first unsatisfied step strictly before
// the requested one.
func (s *Session) firstMissingBefore(requested Step) (Step, bool) {
	idx := requested.Index()
	if idx < 0 {
		idx = len(StepOrder)
	}
	for _, step := range StepOrder[:idx] {
		if !s.Satisfied(step) {
			return step, true
		}
	}
	return "", false
}

// registerSkip stores a justification, replacing any earlier one for
// the same jump.
func (s *Session) registerSkip(key SkipKey, justification string) {
	for i := range s.Pending {
		if s.Pending[i].Key == key {
			s.Pending[i].Justification = justification
			return
		}
	}
	s.Pending = append(s.Pending, PendingSkip{Key: key, Justification: justification})
}

// consumeSkip removes and returns the justification for a jump. Each
// registration is single use.
func (s *Session) consumeSkip(key SkipKey) (string, bool) {
	for i := range s.Pending {
		if s.Pending[i].Key == key {
			justification := s.Pending[i].Justification
			s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
			return justification, true
		}
	}
	return "", false
}
