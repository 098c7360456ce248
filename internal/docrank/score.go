package docrank

import (
	"fmt"
	"strings"
	"time"
)

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// typeWeights are the base scores per document kind. Reference material
// (guides, instructions, architecture) starts high; point-in-time
// artifacts (plans, fixes) start lower and decay harder.
var typeWeights = map[DocType]float64{
	TypeGuide:        50,
	TypeInstructions: 50,
	TypeArchitecture: 45,
	TypeReadme:       40,
	TypeAnalysis:     35,
	TypeSolution:     35,
	TypePlan:         30,
	TypeFix:          30,
	TypeDebt:         25,
	TypeIndex:        20,
	TypeChangelog:    15,
	TypeOther:        20,
}

// evergreenTypes do not get staleness warnings: a year-old architecture
// document is usually still the architecture document.
var evergreenTypes = map[DocType]bool{
	TypeGuide:        true,
	TypeInstructions: true,
	TypeArchitecture: true,
}

// howToKeywords mark section headings that explain usage; a term
// appearing under one is a strong relevance signal.
var howToKeywords = []string{
	"how to", "howto", "usage", "example", "setup", "install", "configuration", "steps",
}

// scoreDocument computes the final score in place:
// type weight × status multiplier × age multiplier × superseded penalty,
// plus flat term-frequency and title/section bonuses.
func scoreDocument(doc *Document, termLower string) {
	score := typeWeights[doc.Type]

	switch doc.Status {
	case StatusObsolete:
		score *= 0.1
	case StatusCompleted:
		// A finished plan/analysis/fix/solution is history, not guidance.
		if doc.Type == TypePlan || doc.Type == TypeAnalysis || doc.Type == TypeFix || doc.Type == TypeSolution {
			score *= 0.5
		}
	case StatusInProgress:
		score *= 1.1
	case StatusActive:
		score *= 1.2
	}

	score *= ageMultiplier(doc)

	if doc.Superseded {
		score *= 0.3
		doc.Warnings = append(doc.Warnings, "superseded by a newer document on the same topic")
	}

	if doc.TermCount >= 10 {
		score += 15
	} else if doc.TermCount >= 5 {
		score += 8
	}

	if strings.Contains(strings.ToLower(doc.Title), termLower) {
		score += 25
	}

	if hasHowToSection(doc.Sections) {
		score += 20
	}

	doc.Score = score
}

// ageMultiplier rewards recency. Documents without an extractable date
// get a neutral multiplier rather than a penalty.
func ageMultiplier(doc *Document) float64 {
	if !doc.HasDate {
		return 1.0
	}

	age := timeNow().Sub(doc.Date)
	days := int(age.Hours() / 24)

	switch {
	case days <= 7:
		return 1.4
	case days <= 30:
		return 1.2
	case days <= 90:
		return 1.0
	case days <= 180:
		if !evergreenTypes[doc.Type] {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("document is %d days old, verify it is still current", days))
		}
		return 0.7
	default:
		if !evergreenTypes[doc.Type] {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("document is %d days old, likely stale", days))
		}
		return 0.4
	}
}

// hasHowToSection reports whether any captured section heading looks
// like usage documentation.
func hasHowToSection(sections []string) bool {
	for _, section := range sections {
		lower := strings.ToLower(section)
		for _, kw := range howToKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
