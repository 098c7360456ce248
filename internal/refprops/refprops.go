// Package refprops pulls named property assignments out of a reference
// code excerpt.
//
// When new code is written by copying attributes from an existing file
// (a themed button, a tuned physics body), the properties captured here
// are later presence-checked during code validation, forcing the new
// code to actually replicate them.
package refprops

import (
	"regexp"
	"strings"
)

// Request narrows the excerpt and names the properties to find.
// StartLine/EndLine are 1-based and inclusive; zero values mean "from
// the beginning" / "to the end". Pattern, when set, anchors the excerpt
// at the first matching line instead.
type Request struct {
	File       string   `json:"file"`
	StartLine  int      `json:"start_line,omitempty"`
	EndLine    int      `json:"end_line,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
	Properties []string `json:"properties"`
}

// Capture is the extraction result for one reference excerpt.
type Capture struct {
	File      string            `json:"file"`
	StartLine int               `json:"start_line"`
	EndLine   int               `json:"end_line"`
	Found     map[string]string `json:"found"`
	Missing   []string          `json:"missing"`
}

// patternWindow is how many lines after a pattern match the excerpt spans.
const patternWindow = 50

// Extract finds each requested property's assigned value inside the
// excerpt. For every property name a small ordered set of assignment
// shapes is tried, bare assignment first and then dotted/member
// assignment, and the first match wins. Properties with no match are
// reported as missing, never as errors.
func Extract(source string, req Request) Capture {
	lines := strings.Split(source, "\n")
	start, end := excerptBounds(lines, req)

	excerpt := strings.Join(lines[start:end], "\n")

	capture := Capture{
		File:      req.File,
		StartLine: start + 1,
		EndLine:   end,
		Found:     map[string]string{},
	}

	for _, prop := range req.Properties {
		if value, ok := findAssignment(excerpt, prop); ok {
			capture.Found[prop] = value
		} else {
			capture.Missing = append(capture.Missing, prop)
		}
	}

	return capture
}

// excerptBounds resolves the requested narrowing to [start, end) line
// indices. An unmatched pattern or out-of-range line numbers fall back
// to the whole source.
func excerptBounds(lines []string, req Request) (int, int) {
	if req.Pattern != "" {
		re, err := regexp.Compile(req.Pattern)
		if err == nil {
			for i, line := range lines {
				if re.MatchString(line) {
					end := i + patternWindow
					if end > len(lines) {
						end = len(lines)
					}
					return i, end
				}
			}
		}
		return 0, len(lines)
	}

	start := 0
	end := len(lines)
	if req.StartLine > 0 && req.StartLine <= len(lines) {
		start = req.StartLine - 1
	}
	if req.EndLine > 0 && req.EndLine <= len(lines) {
		end = req.EndLine
	}
	if end < start {
		return 0, len(lines)
	}
	return start, end
}

// findAssignment tries the assignment shapes for one property name and
// returns the first right-hand side found, trimmed of trailing
// punctuation.
func findAssignment(excerpt, prop string) (string, bool) {
	name := regexp.QuoteMeta(prop)
	shapes := []string{
		// Bare assignment, optionally declared: "var speed = 10", "speed := 10", "speed: int = 10".
		`(?m)^\s*(?:var\s+|const\s+|export\s+var\s+|@export\s+var\s+)?` + name + `\s*(?::\s*\w+\s*)?:?=\s*(.+)$`,
		// Dotted/member assignment: "self.speed = 10", "$Sprite.speed = 10".
		`(?m)[\w$\)\]]\.` + name + `\s*=\s*(.+)$`,
	}

	for _, shape := range shapes {
		re, err := regexp.Compile(shape)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(excerpt); m != nil {
			value := strings.TrimSpace(m[1])
			value = strings.TrimRight(value, ";, \t")
			if value != "" {
				return value, true
			}
		}
	}
	return "", false
}
