package workflow

import (
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/duplication"
)

// DefaultOverrideMarkers are the phrases that mark a justification as
// human-approved. A blocking coherence verdict stands unless the
// justification begins with one of these (or one of the session's
// configured markers).
var DefaultOverrideMarkers = []string{
	"user confirmed",
	"human confirmed",
	"approved by user",
}

// HasOverrideMarker reports whether the justification begins with one
// of the markers, case-insensitively. An empty marker list falls back
// to the defaults. Anchoring at the start keeps an incidental mention
// of a marker phrase mid-sentence from counting as approval.
func HasOverrideMarker(justification string, markers []string) bool {
	if len(markers) == 0 {
		markers = DefaultOverrideMarkers
	}
	lower := strings.ToLower(strings.TrimSpace(justification))
	for _, marker := range markers {
		m := strings.ToLower(strings.TrimSpace(marker))
		if m == "" {
			continue
		}
		if strings.HasPrefix(lower, m) {
			return true
		}
	}
	return false
}

// declinesReuse reports whether a free-text decision amounts to "no".
func declinesReuse(decision string) bool {
	d := strings.ToLower(strings.TrimSpace(decision))
	switch d {
	case "", "none", "no", "nothing", "n/a", "na":
		return true
	}
	return strings.HasPrefix(d, "none ") || strings.HasPrefix(d, "no ")
}

// InheritanceConflict reports whether declining both inheritance and
// reuse is incoherent with the duplication evidence. High severity
// means near-identical siblings already exist; writing another from
// scratch needs a human-approved justification.
func InheritanceConflict(inheritFrom, reuseFrom string, verdict *duplication.Verdict) bool {
	if verdict == nil || verdict.Severity != duplication.SeverityHigh {
		return false
	}
	return declinesReuse(inheritFrom) && declinesReuse(reuseFrom)
}
