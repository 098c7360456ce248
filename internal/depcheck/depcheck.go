// Package depcheck verifies that the functions a new artifact intends
// to call actually exist with the expected signatures.
//
// Verification is purely textual: the target file is scanned with a
// per-language definition regex and the declared parameter/return text
// is compared whitespace-normalized and case-insensitive. No code is
// executed and nothing is parsed beyond the definition header.
package depcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/lang"
)

// Expectation names one dependency to verify. Params and Returns are
// optional; when empty, only existence is checked.
type Expectation struct {
	File     string `json:"file"`
	Function string `json:"function"`
	Params   string `json:"params,omitempty"`
	Returns  string `json:"returns,omitempty"`
}

// Verified is one confirmed dependency with its real signature.
type Verified struct {
	File     string `json:"file"`
	Function string `json:"function"`
	Params   string `json:"params"`
	Returns  string `json:"returns"`
}

// Finding is one blocking problem discovered during verification.
// All findings here are unwaivable: calling a function that does not
// exist, or with the wrong signature, cannot be justified away.
type Finding struct {
	File     string `json:"file"`
	Function string `json:"function"`
	Problem  string `json:"problem"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// signature is an extracted definition header.
type signature struct {
	params  string
	returns string
}

// Verify checks every expectation against the files under projectRoot.
// Returns the confirmed dependencies and the blocking findings; an
// expectation produces exactly one of the two.
func Verify(projectRoot string, expectations []Expectation, language lang.Language) ([]Verified, []Finding) {
	var verified []Verified
	var findings []Finding

	for _, exp := range expectations {
		path := exp.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectRoot, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			findings = append(findings, Finding{
				File:     exp.File,
				Function: exp.Function,
				Problem:  fmt.Sprintf("file not found: %v", err),
			})
			continue
		}

		sig, ok := findDefinition(string(data), exp.Function, language)
		if !ok {
			findings = append(findings, Finding{
				File:     exp.File,
				Function: exp.Function,
				Problem:  "function not found in file",
			})
			continue
		}

		if exp.Params != "" && !textEqual(exp.Params, sig.params) {
			findings = append(findings, Finding{
				File:     exp.File,
				Function: exp.Function,
				Problem:  "parameter mismatch",
				Expected: exp.Params,
				Actual:   sig.params,
			})
			continue
		}

		if exp.Returns != "" && !textEqual(exp.Returns, sig.returns) {
			findings = append(findings, Finding{
				File:     exp.File,
				Function: exp.Function,
				Problem:  "return type mismatch",
				Expected: exp.Returns,
				Actual:   sig.returns,
			})
			continue
		}

		verified = append(verified, Verified{
			File:     exp.File,
			Function: exp.Function,
			Params:   sig.params,
			Returns:  sig.returns,
		})
	}

	return verified, findings
}

// findDefinition locates a function definition header in source and
// extracts its parameter list and return type.
func findDefinition(source, function string, language lang.Language) (signature, bool) {
	name := regexp.QuoteMeta(function)

	var shapes []string
	switch language {
	case lang.Godot:
		shapes = []string{`(?m)^\s*(?:static\s+)?func\s+` + name + `\s*\(([^)]*)\)\s*(?:->\s*([\w\[\].]+))?`}
	case lang.Python:
		shapes = []string{`(?m)^\s*(?:async\s+)?def\s+` + name + `\s*\(([^)]*)\)\s*(?:->\s*([^:]+))?:`}
	case lang.PHP:
		shapes = []string{`(?m)function\s+` + name + `\s*\(([^)]*)\)\s*(?::\s*\??([\w\\]+))?`}
	case lang.Web:
		shapes = []string{
			`(?m)function\s+` + name + `\s*\(([^)]*)\)`,
			`(?m)(?:const|let|var)\s+` + name + `\s*=\s*(?:async\s+)?\(([^)]*)\)\s*=>`,
			`(?m)^\s*` + name + `\s*\(([^)]*)\)\s*\{`,
		}
	default:
		shapes = []string{`(?m)(?:func|function|def)\s+` + name + `\s*\(([^)]*)\)`}
	}

	for _, shape := range shapes {
		re := regexp.MustCompile(shape)
		if m := re.FindStringSubmatch(source); m != nil {
			sig := signature{params: strings.TrimSpace(m[1])}
			if len(m) > 2 {
				sig.returns = strings.TrimSpace(m[2])
			}
			return sig, true
		}
	}
	return signature{}, false
}

// textEqual compares signature text whitespace-normalized and
// case-insensitive.
func textEqual(a, b string) bool {
	return normalize(a) == normalize(b)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
