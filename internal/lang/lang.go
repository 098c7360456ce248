// Package lang defines the language/technology tags shared by the
// heuristic analyzers (duplication, depcheck, codecheck, levels).
package lang

import "fmt"

// Language identifies the technology a file or code excerpt belongs to.
// The analyzers are regex heuristics, so "language" here means "which
// pattern table applies", not a parser selection.
type Language string

const (
	Godot  Language = "godot"
	Python Language = "python"
	PHP    Language = "php"
	Web    Language = "web"
	Other  Language = "other"
)

// validLanguages is the set of allowed language tags.
var validLanguages = map[Language]bool{
	Godot:  true,
	Python: true,
	PHP:    true,
	Web:    true,
	Other:  true,
}

// Validate returns an error if the language is not recognized.
func Validate(l Language) error {
	if !validLanguages[l] {
		return fmt.Errorf("invalid language %q: must be one of: godot, python, php, web, other", l)
	}
	return nil
}

// Values returns all valid language tags for tool schema enums.
func Values() []string {
	return []string{string(Godot), string(Python), string(PHP), string(Web), string(Other)}
}

// Extensions returns the source file extensions associated with a language.
func Extensions(l Language) []string {
	switch l {
	case Godot:
		return []string{".gd", ".tscn"}
	case Python:
		return []string{".py"}
	case PHP:
		return []string{".php"}
	case Web:
		return []string{".js", ".ts", ".html", ".css"}
	default:
		return nil
	}
}

// FromExtension guesses the language tag from a filename extension.
// Unknown extensions map to Other.
func FromExtension(filename string) Language {
	for _, l := range []Language{Godot, Python, PHP, Web} {
		for _, ext := range Extensions(l) {
			if len(filename) >= len(ext) && filename[len(filename)-len(ext):] == ext {
				return l
			}
		}
	}
	return Other
}
