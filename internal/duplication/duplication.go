// Package duplication flags groups of files that look like copies of
// each other.
//
// Detection is two-phase: a cheap structural prefilter keeps only files
// matching a known smell pattern (manual styling, hardcoded colors,
// repeated setup functions, Handler/Service class naming), then the
// survivors are compared pairwise with the similarity scorer. This keeps
// the expensive comparison bounded and avoids flagging unrelated files
// that merely share boilerplate.
package duplication

import (
	"os"
	"regexp"
	"sort"

	"github.com/UniversInsideG/claude-tools/internal/lang"
	"github.com/UniversInsideG/claude-tools/internal/similarity"
)

// Threshold is the minimum pairwise similarity ratio for two files to
// count as duplicates.
const Threshold = 0.60

// maxCandidates bounds how many candidate files are read per detection.
const maxCandidates = 15

// Severity classifies how strong a duplication signal is.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Pair is one duplicated file pair with its similarity ratio.
type Pair struct {
	FileA      string  `json:"file_a"`
	FileB      string  `json:"file_b"`
	Similarity float64 `json:"similarity"`
}

// Verdict is the result of a duplication scan. Pairs is non-empty iff
// IsDuplicate is true. CommonPatterns lists the smell labels found even
// when no pair cleared the threshold: a latent-risk signal without a
// false duplication claim.
type Verdict struct {
	IsDuplicate    bool     `json:"is_duplicate"`
	Severity       Severity `json:"severity"`
	Pairs          []Pair   `json:"pairs"`
	CommonPatterns []string `json:"common_patterns"`
	Recommendation string   `json:"recommendation"`
}

// smell is one structural pattern that marks a file as suspicious.
type smell struct {
	re    *regexp.Regexp
	label string
}

// smellTable holds the per-language structural smell patterns.
// At most one label is recorded per file: first hit wins.
var smellTable = map[lang.Language][]smell{
	lang.Godot: {
		{regexp.MustCompile(`AppTheme\.style_`), "manual theme styling"},
		{regexp.MustCompile(`Color\s*\(\s*[\d.]`), "hardcoded color literal"},
		{regexp.MustCompile(`func\s+_?setup_\w+`), "repeated setup function"},
		{regexp.MustCompile(`class_name\s+\w+(Handler|Service)\b`), "handler/service class"},
	},
	lang.Python: {
		{regexp.MustCompile(`def\s+_?setup_\w+`), "repeated setup function"},
		{regexp.MustCompile(`class\s+\w+(Handler|Service|Manager)\b`), "handler/service class"},
		{regexp.MustCompile(`#[0-9a-fA-F]{6}\b`), "hardcoded color literal"},
	},
	lang.PHP: {
		{regexp.MustCompile(`class\s+\w+(Handler|Service|Manager)\b`), "handler/service class"},
		{regexp.MustCompile(`function\s+setup\w+`), "repeated setup function"},
	},
	lang.Web: {
		{regexp.MustCompile(`style\s*=\s*["']`), "inline style attribute"},
		{regexp.MustCompile(`#[0-9a-fA-F]{6}\b`), "hardcoded color literal"},
		{regexp.MustCompile(`function\s+setup\w+`), "repeated setup function"},
	},
	lang.Other: {
		{regexp.MustCompile(`(?i)class\s+\w+(Handler|Service|Manager)\b`), "handler/service class"},
		{regexp.MustCompile(`(?i)(func|function|def)\s+_?setup\w*`), "repeated setup function"},
	},
}

// candidate is a suspicious file with its content loaded.
type candidate struct {
	path    string
	content string
	label   string
}

// Detect scans the candidate files for structural smells and compares
// the suspicious ones pairwise. Unreadable files are silently skipped;
// the scan degrades, it never fails. At most the first 15 candidates
// are read.
func Detect(files []string, language lang.Language) Verdict {
	smells := smellTable[language]
	if smells == nil {
		smells = smellTable[lang.Other]
	}

	if len(files) > maxCandidates {
		files = files[:maxCandidates]
	}

	var suspicious []candidate
	var labels []string
	seen := map[string]bool{}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)
		for _, sm := range smells {
			if sm.re.MatchString(content) {
				suspicious = append(suspicious, candidate{path: path, content: content, label: sm.label})
				if !seen[sm.label] {
					seen[sm.label] = true
					labels = append(labels, sm.label)
				}
				break
			}
		}
	}

	if len(suspicious) < 2 {
		return Verdict{Severity: SeverityNone}
	}

	var pairs []Pair
	for i := 0; i < len(suspicious); i++ {
		for j := i + 1; j < len(suspicious); j++ {
			ratio := similarity.Ratio(suspicious[i].content, suspicious[j].content)
			if ratio >= Threshold {
				pairs = append(pairs, Pair{
					FileA:      suspicious[i].path,
					FileB:      suspicious[j].path,
					Similarity: ratio,
				})
			}
		}
	}

	if len(pairs) == 0 {
		// Smells found, but nothing close enough to call a duplicate.
		return Verdict{Severity: SeverityNone, CommonPatterns: labels}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Similarity > pairs[j].Similarity })

	sev := classify(pairs)
	return Verdict{
		IsDuplicate:    true,
		Severity:       sev,
		Pairs:          pairs,
		CommonPatterns: labels,
		Recommendation: recommendation(sev),
	}
}

// classify derives severity from the strongest pair and the pair count.
func classify(pairs []Pair) Severity {
	maxSim := pairs[0].Similarity
	switch {
	case maxSim >= 0.80 || len(pairs) >= 3:
		return SeverityHigh
	case maxSim >= Threshold || len(pairs) >= 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// recommendation maps a severity to the suggested remediation.
func recommendation(sev Severity) string {
	switch sev {
	case SeverityHigh:
		return "Extract a shared base class — these files are near copies."
	case SeverityMedium:
		return "Evaluate inheriting from one of these files vs. extracting the shared part."
	default:
		return "Consider reusing one of these files instead of creating a new one."
	}
}
