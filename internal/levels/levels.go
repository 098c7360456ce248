// Package levels defines the five-tier modular hierarchy and validates
// that a proposed artifact matches its declared level.
//
// The hierarchy, smallest to largest:
//
//	structure (the whole project)
//	  └── system (groups components, *_system / *_manager)
//	        └── screen (single-instance view)
//	              └── component (reusable, lives in components/)
//	                    └── piece (atomic, does ONE thing)
package levels

import "fmt"

// Level is one tier of the modular hierarchy.
type Level string

const (
	LevelPiece     Level = "piece"
	LevelComponent Level = "component"
	LevelScreen    Level = "screen"
	LevelSystem    Level = "system"
	LevelStructure Level = "structure"
)

// Descriptions explains each level in one line, used in tool responses.
var Descriptions = map[Level]string{
	LevelPiece:     "Atomic unit — does ONE single thing",
	LevelComponent: "Reusable unit — instantiated in many places, lives in components/",
	LevelScreen:    "Single-instance view — built out of components",
	LevelSystem:    "Orchestrator — groups components (*_system, *_manager)",
	LevelStructure: "The whole project",
}

// validLevels is the set of allowed levels.
var validLevels = map[Level]bool{
	LevelPiece:     true,
	LevelComponent: true,
	LevelScreen:    true,
	LevelSystem:    true,
	LevelStructure: true,
}

// Validate returns an error if the level is not recognized.
func Validate(l Level) error {
	if !validLevels[l] {
		return fmt.Errorf("invalid level %q: must be one of: piece, component, screen, system, structure", l)
	}
	return nil
}

// Values returns all valid levels for tool schema enums.
func Values() []string {
	return []string{
		string(LevelPiece), string(LevelComponent), string(LevelScreen),
		string(LevelSystem), string(LevelStructure),
	}
}

// --- Change type enum ---

// ChangeType distinguishes brand-new artifacts from modifications to
// existing ones. Naming mismatches are fatal only for new artifacts.
type ChangeType string

const (
	ChangeNew          ChangeType = "new"
	ChangeModification ChangeType = "modification"
)

// ValidateChangeType returns an error if the change type is not recognized.
func ValidateChangeType(c ChangeType) error {
	if c != ChangeNew && c != ChangeModification {
		return fmt.Errorf("invalid change type %q: must be one of: new, modification", c)
	}
	return nil
}

// ChangeTypeValues returns all valid change types for tool schema enums.
func ChangeTypeValues() []string {
	return []string{string(ChangeNew), string(ChangeModification)}
}
