// Package codecheck aggregates the heuristic quality checks run before
// newly written code is accepted.
//
// Checks are regexes over the source text, deliberately approximate:
// this is a guardrail, not a compiler front end. Findings split into
// blocking issues (never pass) and warnings (pass only with explicit
// human sign-off).
package codecheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/refprops"
)

// maxFunctionLines is the single-responsibility bound for one function.
const maxFunctionLines = 50

// Report is the aggregated validation outcome.
type Report struct {
	Blocking []string
	Warnings []string
	Lines    int
}

// Passes reports whether the validation succeeds. Blocking findings
// never pass; warnings pass only when explicitly waived.
func (r Report) Passes(ignoreWarnings bool) bool {
	if len(r.Blocking) > 0 {
		return false
	}
	if len(r.Warnings) > 0 {
		return ignoreWarnings
	}
	return true
}

// forbiddenPattern is a language smell whose presence blocks validation.
type forbiddenPattern struct {
	re      *regexp.Regexp
	message string
}

var godotForbidden = []forbiddenPattern{
	{regexp.MustCompile(`AppTheme\.style_button_primary\s*\(`), "Use PrimaryButton instead of Button + AppTheme.style_button_primary()"},
	{regexp.MustCompile(`AppTheme\.style_button_secondary\s*\(`), "Use SecondaryButton instead of Button + AppTheme.style_button_secondary()"},
	{regexp.MustCompile(`AppTheme\.style_button_icon\s*\(`), "Use IconButton instead of Button + AppTheme.style_button_icon()"},
	{regexp.MustCompile(`AppTheme\.style_`), "Create a component instead of applying styles manually"},
}

// completeness markers: a real file starts with a declaration. Excerpts
// without one make every other check unreliable, so they block outright.
var completenessMarkers = map[lang.Language]*regexp.Regexp{
	lang.Godot:  regexp.MustCompile(`(?m)^\s*(extends\s|class_name\s|@?tool\b|\[gd_scene)`),
	lang.Python: regexp.MustCompile(`(?m)^(import\s|from\s|def\s|class\s|#!|"""|@)`),
	lang.PHP:    regexp.MustCompile(`<\?php`),
	lang.Web:    regexp.MustCompile(`(?m)^\s*(import\s|export\s|function\s|class\s|const\s|let\s|var\s|<!DOCTYPE|<html)`),
	lang.Other:  regexp.MustCompile(`(?m)^\s*(package\s|import\s|class\s|def\s|func(tion)?\s|module\s|#!)`),
}

var (
	classDefRe      = regexp.MustCompile(`(?m)^class\s+\w+`)
	funcDefRe       = regexp.MustCompile(`(?m)^\s*(def|func|function)\s+\w+`)
	godotDirectRe   = regexp.MustCompile(`get_node\(["']/`)
	godotSignalRe   = regexp.MustCompile(`\.emit\(|\.connect\(`)
	godotColorRe    = regexp.MustCompile(`Color\s*\(\s*[\d.]+`)
	webInlineStyle  = regexp.MustCompile(`style\s*=\s*["']`)
	propAssignShape = `(?m)(^\s*(?:var\s+|const\s+|export\s+var\s+|@export\s+var\s+)?%s\s*[:+]?=)|(\.%s\s*=)`
)

// Validate runs every applicable check over the source text. refs are
// the reference-property captures recorded at the dependency step; each
// found property must reappear in the new code.
func Validate(code, filename string, language lang.Language, refs []refprops.Capture) Report {
	lines := strings.Split(code, "\n")
	report := Report{Lines: len(lines)}

	if marker, ok := completenessMarkers[language]; ok && !marker.MatchString(code) {
		report.Blocking = append(report.Blocking,
			"This does not look like a complete file — no top-of-file declaration found. "+
				"Pass the whole file, never a fragment: partial excerpts make every other check unreliable.")
		return report
	}

	switch language {
	case lang.Godot:
		for _, p := range godotForbidden {
			if p.re.MatchString(code) {
				report.Blocking = append(report.Blocking, p.message)
				break
			}
		}
		directCalls := len(godotDirectRe.FindAllString(code, -1))
		signals := len(godotSignalRe.FindAllString(code, -1))
		if directCalls > 3 && signals == 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%d direct node lookups and no signals — consider signals for decoupling", directCalls))
		}
		if godotColorRe.MatchString(code) && !strings.Contains(code, "AppTheme") {
			report.Warnings = append(report.Warnings, "Hardcoded colors — use AppTheme for consistency")
		}
	case lang.Web:
		if webInlineStyle.MatchString(code) {
			report.Warnings = append(report.Warnings, "Inline styles — use reusable CSS classes")
		}
	}

	if classes := classDefRe.FindAllString(code, -1); len(classes) > 2 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d top-level classes in one file — consider splitting", len(classes)))
	}

	report.Warnings = append(report.Warnings, longFunctions(lines)...)

	if dup := duplicateLines(lines); dup > 0 {
		report.Blocking = append(report.Blocking,
			fmt.Sprintf("%d non-trivial lines repeated 3+ times — extract a function or component", dup))
	}

	if strings.HasSuffix(filename, ".tscn") {
		report.Blocking = append(report.Blocking, sceneDuplicateBlocks(code)...)
		report.Warnings = append(report.Warnings, sceneRepeatedStyling(code)...)
	}

	report.Blocking = append(report.Blocking, missingReferenceProperties(code, refs)...)

	return report
}

// longFunctions flags functions exceeding the line bound. The scan is a
// rough definition-to-definition count, good enough for a guardrail.
func longFunctions(lines []string) []string {
	var warnings []string
	nameRe := regexp.MustCompile(`^\s*(?:def|func|function)\s+(\w+)`)

	current := ""
	count := 0
	flush := func() {
		if current != "" && count > maxFunctionLines {
			warnings = append(warnings,
				fmt.Sprintf("function %q spans ~%d lines — split it (max %d)", current, count, maxFunctionLines))
		}
	}

	for _, line := range lines {
		if m := nameRe.FindStringSubmatch(line); m != nil {
			flush()
			current = m[1]
			count = 0
			continue
		}
		if current != "" {
			count++
		}
	}
	flush()
	return warnings
}

// duplicateLines counts distinct non-trivial lines that appear 3+ times.
func duplicateLines(lines []string) int {
	counts := map[string]int{}
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if len(stripped) <= 30 || strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "//") {
			continue
		}
		counts[stripped]++
	}
	dup := 0
	for _, n := range counts {
		if n >= 3 {
			dup++
		}
	}
	return dup
}

// missingReferenceProperties presence-checks every property captured
// from reference code. Values are not compared, only that the new code
// assigns the property at all.
func missingReferenceProperties(code string, refs []refprops.Capture) []string {
	var blocking []string
	for _, capture := range refs {
		for prop := range capture.Found {
			quoted := regexp.QuoteMeta(prop)
			re := regexp.MustCompile(fmt.Sprintf(propAssignShape, quoted, quoted))
			if !re.MatchString(code) {
				blocking = append(blocking,
					fmt.Sprintf("reference property %q (from %s) is not set in the new code", prop, capture.File))
			}
		}
	}
	return blocking
}
