// Package workflow holds the step-sequencing state machine that the
// philosophy tools consult before doing any work.
//
// A session walks an ordered list of steps. Each tool maps to one step
// and is refused until every earlier step is complete, unless the
// caller goes through the two-phase skip protocol: first register a
// justification for the skip, then have a human verify it. A verified
// skip is consumed by exactly one advance.
package workflow

import "fmt"

// Step identifies one stage of the guided workflow.
type Step string

const (
	StepCriteria       Step = "criteria"
	StepResponsibility Step = "responsibility"
	StepReuse          Step = "reuse"
	StepSearch         Step = "search"
	StepInheritance    Step = "inheritance"
	StepLevel          Step = "level"
	StepDependencies   Step = "dependencies"
	StepValidate       Step = "validate"
	StepDocument       Step = "document"
)

// StepOrder is the canonical sequence. Gate decisions derive from the
// position of a step in this slice, never from hardcoded comparisons.
var StepOrder = []Step{
	StepCriteria,
	StepResponsibility,
	StepReuse,
	StepSearch,
	StepInheritance,
	StepLevel,
	StepDependencies,
	StepValidate,
	StepDocument,
}

// unskippableSteps can never be jumped over, even with a verified
// justification. The criteria presentation gate must always run, so a
// flow can never start without human-confirmed criteria on record.
// Dependency verification guards against hallucinated function
// signatures, which is exactly the failure mode a hurried caller would
// wave through.
var unskippableSteps = map[Step]bool{
	StepCriteria:     true,
	StepDependencies: true,
}

// Validate returns an error when s is not a known step.
func (s Step) Validate() error {
	if s.Index() < 0 {
		return fmt.Errorf("invalid step %q (valid: %v)", s, StepOrder)
	}
	return nil
}

// Index returns the position of s in StepOrder, or -1 when unknown.
func (s Step) Index() int {
	for i, step := range StepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Prev returns the step before s. The second return is false for the
// first step and for unknown steps.
func Prev(s Step) (Step, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return StepOrder[i-1], true
}

// Next returns the step after s. The second return is false for the
// last step and for unknown steps.
func Next(s Step) (Step, bool) {
	i := s.Index()
	if i < 0 || i >= len(StepOrder)-1 {
		return "", false
	}
	return StepOrder[i+1], true
}
