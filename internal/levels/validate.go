package levels

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/lang"
)

// BehaviorResult is the outcome of checking a justification against the
// declared level's behavioral vocabulary.
type BehaviorResult struct {
	OK bool
	// IncompatiblePhrase is the phrase that contradicts the declared
	// level, when OK is false.
	IncompatiblePhrase string
	// SuggestedLevel is a better-fitting level when another level's
	// keywords were found instead. Empty when no suggestion applies.
	SuggestedLevel Level
}

// NamingResult is the outcome of checking a filename against the naming
// convention for a level.
type NamingResult struct {
	OK bool
	// Pattern is the convention the filename was checked against.
	Pattern string
	// Suggested is a corrected filename when OK is false.
	Suggested string
}

// positiveKeywords are phrases that indicate a justification matches a level.
var positiveKeywords = map[Level][]string{
	LevelPiece: {
		"one thing", "single thing", "atomic", "minimal unit", "smallest",
	},
	LevelComponent: {
		"reusable", "reuse", "reused", "instantiated", "generic", "many places",
	},
	LevelScreen: {
		"screen", "view", "page", "single instance", "unique instance",
	},
	LevelSystem: {
		"coordinates", "orchestrates", "manages", "groups", "aggregates",
	},
	LevelStructure: {
		"whole project", "entire project", "global", "top level",
	},
}

// incompatiblePhrases contradict a level outright: a piece that
// orchestrates is not a piece, a screen that is reused everywhere is
// not a screen.
var incompatiblePhrases = map[Level][]string{
	LevelPiece: {
		"orchestrates", "coordinates multiple", "manages several", "groups components",
	},
	LevelComponent: {
		"only used once", "single instance", "never reused",
	},
	LevelScreen: {
		"reusable across", "instantiated in many", "generic building block",
	},
	LevelSystem: {
		"does one single thing", "atomic unit",
	},
	LevelStructure: {
		"one small piece", "atomic unit",
	},
}

// CheckBehavior scans the justification for phrases incompatible with
// the declared level. An incompatible phrase fails the check; when the
// text carries another level's positive keywords, that level is
// suggested instead.
func CheckBehavior(level Level, justification string) BehaviorResult {
	text := strings.ToLower(justification)

	for _, phrase := range incompatiblePhrases[level] {
		if !strings.Contains(text, phrase) {
			continue
		}
		result := BehaviorResult{IncompatiblePhrase: phrase}
		for _, other := range []Level{LevelPiece, LevelComponent, LevelScreen, LevelSystem, LevelStructure} {
			if other == level {
				continue
			}
			for _, kw := range positiveKeywords[other] {
				if strings.Contains(text, kw) {
					result.SuggestedLevel = other
					return result
				}
			}
		}
		return result
	}

	return BehaviorResult{OK: true}
}

// namingPatterns maps (language, level) to the expected filename regex.
// Levels without an entry carry no naming convention.
var namingPatterns = map[lang.Language]map[Level]*regexp.Regexp{
	lang.Godot: {
		LevelPiece:     regexp.MustCompile(`_piece\.gd$`),
		LevelComponent: regexp.MustCompile(`(_component|_button|_card|_dialog|_input)\.(gd|tscn)$`),
		LevelScreen:    regexp.MustCompile(`_screen\.(gd|tscn)$`),
		LevelSystem:    regexp.MustCompile(`(_system|_manager)\.gd$`),
	},
	lang.Python: {
		LevelPiece:     regexp.MustCompile(`_piece\.py$`),
		LevelComponent: regexp.MustCompile(`_component\.py$`),
		LevelScreen:    regexp.MustCompile(`_screen\.py$`),
		LevelSystem:    regexp.MustCompile(`(_system|_manager)\.py$`),
	},
	lang.PHP: {
		LevelComponent: regexp.MustCompile(`Component\.php$`),
		LevelSystem:    regexp.MustCompile(`(System|Manager)\.php$`),
	},
	lang.Web: {
		LevelPiece:     regexp.MustCompile(`[-_.]piece\.(js|ts)$`),
		LevelComponent: regexp.MustCompile(`[-_.]component\.(js|ts)$`),
		LevelScreen:    regexp.MustCompile(`[-_.]screen\.(js|ts)$`),
		LevelSystem:    regexp.MustCompile(`[-_.](system|manager)\.(js|ts)$`),
	},
}

// canonicalSuffix is the suffix appended when suggesting a corrected name.
var canonicalSuffix = map[Level]string{
	LevelPiece:     "_piece",
	LevelComponent: "_component",
	LevelScreen:    "_screen",
	LevelSystem:    "_system",
}

// genericSuffixes are stripped from the base name before appending the
// canonical suffix.
var genericSuffixes = []string{
	"_new", "_final", "_v2", "_copy", "_old", "_util", "_utils", "_helper",
	"_piece", "_component", "_screen", "_system", "_manager",
}

// CheckNaming validates the proposed filename against the convention
// for the given language and level. Levels or languages without a
// convention always pass.
func CheckNaming(level Level, language lang.Language, filename string) NamingResult {
	patterns := namingPatterns[language]
	if patterns == nil {
		return NamingResult{OK: true}
	}
	re := patterns[level]
	if re == nil {
		return NamingResult{OK: true}
	}
	if re.MatchString(filename) {
		return NamingResult{OK: true, Pattern: re.String()}
	}
	return NamingResult{
		OK:        false,
		Pattern:   re.String(),
		Suggested: SuggestFilename(level, filename),
	}
}

// SuggestFilename builds a convention-following name by stripping known
// generic suffixes and appending the canonical suffix for the level.
func SuggestFilename(level Level, filename string) string {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for changed := true; changed; {
		changed = false
		for _, suffix := range genericSuffixes {
			if strings.HasSuffix(stem, suffix) {
				stem = strings.TrimSuffix(stem, suffix)
				changed = true
			}
		}
	}

	suffix := canonicalSuffix[level]
	suggested := stem + suffix + ext
	if dir != "." {
		return filepath.Join(dir, suggested)
	}
	return suggested
}
