package docrank

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	titleRe         = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headingRe       = regexp.MustCompile(`^#{2,}\s+(.+)$`)
	dateFieldRe     = regexp.MustCompile(`(?im)^(?:\*\*)?(?:date|fecha|updated|last updated)(?:\*\*)?\s*:\s*(\d{4}-\d{2}-\d{2})`)
	filenameDateRe  = regexp.MustCompile(`[_-](\d{4}-\d{2}-\d{2})$`)
	statusFieldRe   = regexp.MustCompile(`(?im)^(?:\*\*)?(?:status|estado)(?:\*\*)?\s*:\s*([a-zA-Z _-]+)`)
	topicPrefixRe   = regexp.MustCompile(`^(plan|fix|analysis|solution|guide|debt|architecture)[_-]`)
	topicDateTailRe = regexp.MustCompile(`[_-]\d{4}-\d{2}-\d{2}$|[_-]\d{8}$`)
)

// typePriority is checked in order: the first filename keyword hit wins.
var typePriority = []struct {
	keyword string
	docType DocType
}{
	{"changelog", TypeChangelog},
	{"readme", TypeReadme},
	{"index", TypeIndex},
	{"guide", TypeGuide},
	{"instruction", TypeInstructions},
	{"howto", TypeInstructions},
	{"architecture", TypeArchitecture},
	{"analysis", TypeAnalysis},
	{"audit", TypeAnalysis},
	{"plan", TypePlan},
	{"solution", TypeSolution},
	{"fix", TypeFix},
	{"debt", TypeDebt},
}

// statusAliases normalizes the free-text status labels found in documents.
var statusAliases = map[string]Status{
	"active":      StatusActive,
	"implemented": StatusImplemented,
	"completed":   StatusCompleted,
	"done":        StatusCompleted,
	"complete":    StatusCompleted,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"wip":         StatusInProgress,
	"pending":     StatusPending,
	"todo":        StatusPending,
	"obsolete":    StatusObsolete,
	"deprecated":  StatusObsolete,
	"superseded":  StatusObsolete,
}

// extractMetadata fills a Document's title, type, status, date, and
// topic from its path and content. Extraction misses are not errors:
// a document with no date simply has HasDate false.
func extractMetadata(path, content string) Document {
	doc := Document{Path: path, Type: TypeOther}

	if m := titleRe.FindStringSubmatch(content); m != nil {
		doc.Title = strings.TrimSpace(m[1])
	} else {
		doc.Title = filepath.Base(path)
	}

	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, entry := range typePriority {
		if strings.Contains(stem, entry.keyword) {
			doc.Type = entry.docType
			break
		}
	}

	if m := statusFieldRe.FindStringSubmatch(content); m != nil {
		label := strings.ToLower(strings.TrimSpace(m[1]))
		if normalized, ok := statusAliases[label]; ok {
			doc.Status = normalized
		}
	}

	if date, ok := extractDate(stem, content); ok {
		doc.Date = date
		doc.HasDate = true
	}

	doc.Topic = extractTopic(stem, doc.Title)
	return doc
}

// extractDate looks for a labeled date field in the content, then a
// date suffix on the filename.
func extractDate(stem, content string) (time.Time, bool) {
	if m := dateFieldRe.FindStringSubmatch(content); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t, true
		}
	}
	if m := filenameDateRe.FindStringSubmatch(stem); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extractTopic derives the grouping key used for supersession checks.
//
// The master+observer title override is a deliberate, narrow special
// case inherited from the project this tool grew up in; it is matched
// literally and must not be generalized.
func extractTopic(stem, title string) string {
	titleLower := strings.ToLower(title)
	if strings.Contains(titleLower, "master") && strings.Contains(titleLower, "observer") {
		return "master-observer"
	}

	topic := topicPrefixRe.ReplaceAllString(stem, "")
	topic = topicDateTailRe.ReplaceAllString(topic, "")
	if topic == "" {
		return stem
	}
	return topic
}

// termSections collects up to 5 section headings whose body contains
// the search term.
func termSections(content, termLower string) []string {
	var sections []string
	var currentHeading string
	headingHasTerm := false

	flush := func() {
		if currentHeading != "" && headingHasTerm && len(sections) < 5 {
			sections = append(sections, currentHeading)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			currentHeading = strings.TrimSpace(m[1])
			headingHasTerm = false
			continue
		}
		if currentHeading != "" && strings.Contains(strings.ToLower(line), termLower) {
			headingHasTerm = true
		}
	}
	flush()
	return sections
}
