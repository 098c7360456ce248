// Package docrank ranks project documentation against a search term.
//
// Scoring combines document kind, lifecycle status, age, term frequency,
// and same-topic supersession, so stale or replaced plans do not outrank
// current guidance. The ranking backs the "search before creating"
// policy: when an agent looks for prior art, the primary results should
// be the documents still worth following.
package docrank

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Status is a document's lifecycle state, normalized from free-text
// labels in the document body.
type Status string

const (
	StatusActive     Status = "active"
	StatusImplemented Status = "implemented"
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in_progress"
	StatusPending    Status = "pending"
	StatusObsolete   Status = "obsolete"
	StatusUnset      Status = ""
)

// DocType categorizes a document from its filename.
type DocType string

const (
	TypeGuide        DocType = "guide"
	TypeInstructions DocType = "instructions"
	TypeArchitecture DocType = "architecture"
	TypeAnalysis     DocType = "analysis"
	TypePlan         DocType = "plan"
	TypeSolution     DocType = "solution"
	TypeFix          DocType = "fix"
	TypeChangelog    DocType = "changelog"
	TypeDebt         DocType = "debt"
	TypeIndex        DocType = "index"
	TypeReadme       DocType = "readme"
	TypeOther        DocType = "other"
)

// Document is one ranked documentation file.
type Document struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Type       DocType   `json:"type"`
	Status     Status    `json:"status"`
	Date       time.Time `json:"date,omitempty"`
	HasDate    bool      `json:"has_date"`
	Topic      string    `json:"topic"`
	Score      float64   `json:"score"`
	Superseded bool      `json:"is_superseded"`
	Sections   []string  `json:"sections,omitempty"`
	TermCount  int       `json:"term_count"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// Results partitions the ranked documents. Primary holds current,
// non-superseded documents scoring at least PrimaryCutoff; everything
// else lands in Secondary. Both are sorted by descending score.
type Results struct {
	Primary   []Document `json:"primary"`
	Secondary []Document `json:"secondary"`
	Topics    []string   `json:"topics"`
	Total     int        `json:"total"`
}

// PrimaryCutoff is the minimum score for a primary result.
const PrimaryCutoff = 30.0

// supersedeGrace is how much newer a same-topic document must be before
// it supersedes its siblings.
const supersedeGrace = 7 * 24 * time.Hour

// docDirNames are the directory names recognized as documentation roots,
// discovered recursively anywhere under the project root.
var docDirNames = map[string]bool{
	"docs":          true,
	"doc":           true,
	"documentation": true,
	"design":        true,
	"notes":         true,
	".claude":       true,
}

// Rank enumerates markdown documents under the project's documentation
// directories, keeps the ones containing the term (case-insensitive),
// extracts metadata, scores, and partitions them.
func Rank(root, term string) (Results, error) {
	if _, err := os.Stat(root); err != nil {
		return Results{}, fmt.Errorf("project root %s: %w", root, err)
	}

	paths := findDocFiles(root)
	termLower := strings.ToLower(term)

	var docs []Document
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)
		count := strings.Count(strings.ToLower(content), termLower)
		if count == 0 {
			continue
		}
		doc := extractMetadata(path, content)
		doc.TermCount = count
		doc.Sections = termSections(content, termLower)
		docs = append(docs, doc)
	}

	markSuperseded(docs)

	topicSet := map[string]bool{}
	var results Results
	for i := range docs {
		scoreDocument(&docs[i], termLower)
		topicSet[docs[i].Topic] = true
		if !docs[i].Superseded && docs[i].Score >= PrimaryCutoff {
			results.Primary = append(results.Primary, docs[i])
		} else {
			results.Secondary = append(results.Secondary, docs[i])
		}
	}

	sort.Slice(results.Primary, func(i, j int) bool { return results.Primary[i].Score > results.Primary[j].Score })
	sort.Slice(results.Secondary, func(i, j int) bool { return results.Secondary[i].Score > results.Secondary[j].Score })

	for topic := range topicSet {
		results.Topics = append(results.Topics, topic)
	}
	sort.Strings(results.Topics)
	results.Total = len(docs)

	return results, nil
}

// findDocFiles walks the tree collecting *.md files that live under a
// recognized documentation directory.
func findDocFiles(root string) []string {
	var paths []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "node_modules" || name == "__pycache__" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if underDocDir(root, path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

// underDocDir reports whether any ancestor directory of path (below
// root) is a recognized documentation directory.
func underDocDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, part := range parts[:len(parts)-1] {
		if docDirNames[strings.ToLower(part)] {
			return true
		}
	}
	return false
}

// markSuperseded flags documents that share a topic with a document
// dated more than the grace period later.
func markSuperseded(docs []Document) {
	for i := range docs {
		if !docs[i].HasDate {
			continue
		}
		for j := range docs {
			if i == j || docs[i].Topic != docs[j].Topic || !docs[j].HasDate {
				continue
			}
			if docs[j].Date.Sub(docs[i].Date) > supersedeGrace {
				docs[i].Superseded = true
				break
			}
		}
	}
}
