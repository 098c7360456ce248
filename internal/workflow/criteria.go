package workflow

import (
	"regexp"
	"strings"
)

// Success criteria must describe observable outcomes, not code. These
// patterns catch the usual ways implementation detail leaks in.
var (
	codeFenceRe  = regexp.MustCompile("```")
	assignmentRe = regexp.MustCompile(`(?m)\b\w+(?:\.\w+)*\s*[:+]?=\s*\S`)
	callRe       = regexp.MustCompile(`\b\w+\.\w+\([^)]*\)`)
)

// codeKeywords are language keywords that have no place in a success
// criterion.
var codeKeywords = []string{
	"func ", "def ", "var ", "const ", "class ", "return ", "extends ",
	"self.", "this.", "null", "nil", "lambda",
}

// debuggingPhrases indicate the caller pasted a symptom instead of
// stating the desired outcome.
var debuggingPhrases = []string{
	"stack trace", "traceback", "exception", "error:", "segfault",
	"undefined", "doesn't compile", "does not compile",
}

// CriteriaCheck is the verdict on a proposed success criteria text.
type CriteriaCheck struct {
	OK       bool
	Findings []string
}

// CheckCriteria inspects criteria text for implementation detail and
// debugging language. It never blocks on style, only on content that
// belongs in code or a bug report.
func CheckCriteria(text string) CriteriaCheck {
	var findings []string
	lower := strings.ToLower(text)

	if strings.TrimSpace(text) == "" {
		findings = append(findings, "criteria text is empty")
	}

	if codeFenceRe.MatchString(text) {
		findings = append(findings, "contains a code block; describe the observable outcome instead")
	}
	if assignmentRe.MatchString(text) {
		findings = append(findings, "contains an assignment expression; criteria state what the user sees, not how it is set")
	}
	if callRe.MatchString(text) {
		findings = append(findings, "contains a method call; name the behavior, not the API")
	}
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			findings = append(findings, "contains the code keyword "+strings.TrimSpace(kw))
			break
		}
	}
	for _, phrase := range debuggingPhrases {
		if strings.Contains(lower, phrase) {
			findings = append(findings, "reads like a bug report ("+phrase+"); state the desired end state instead")
			break
		}
	}

	return CriteriaCheck{OK: len(findings) == 0, Findings: findings}
}
