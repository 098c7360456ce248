package codecheck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/UniversInsideG/claude-tools/internal/similarity"
)

// Scene-description files (.tscn) get a structural pass of their own:
// the generic duplicate-line check misses copy-pasted resource blocks
// whose lines differ only in IDs.

var (
	sceneHeaderRe   = regexp.MustCompile(`^\[(sub_resource|node)\s+(.*)\]$`)
	sceneOverrideRe = regexp.MustCompile(`^theme_override_\w+/[\w]+\s*=\s*(.+)$`)
)

// sceneBlock is one [sub_resource ...] or [node ...] section.
type sceneBlock struct {
	kind   string
	header string
	body   string
}

// duplicateBlockThreshold is the body-similarity ratio above which two
// same-kind blocks count as duplicated.
const duplicateBlockThreshold = 0.80

// parseSceneBlocks splits a .tscn file into its bracketed sections.
func parseSceneBlocks(code string) []sceneBlock {
	var blocks []sceneBlock
	var current *sceneBlock
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.body = strings.TrimSpace(body.String())
			blocks = append(blocks, *current)
			body.Reset()
		}
	}

	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := sceneHeaderRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &sceneBlock{kind: m[1], header: m[2]}
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			// Some other section kind ends the current block.
			flush()
			current = nil
			continue
		}
		if current != nil {
			body.WriteString(trimmed)
			body.WriteString("\n")
		}
	}
	flush()
	return blocks
}

// sceneDuplicateBlocks flags sub_resource definitions that are identical
// or near-identical (>80% body overlap). One finding per duplicated pair
// group, aggregated.
func sceneDuplicateBlocks(code string) []string {
	var subs []sceneBlock
	for _, b := range parseSceneBlocks(code) {
		if b.kind == "sub_resource" && b.body != "" {
			subs = append(subs, b)
		}
	}

	pairs := 0
	for i := 0; i < len(subs); i++ {
		for j := i + 1; j < len(subs); j++ {
			if subs[i].body == subs[j].body ||
				similarity.Ratio(subs[i].body, subs[j].body) > duplicateBlockThreshold {
				pairs++
			}
		}
	}

	if pairs == 0 {
		return nil
	}
	return []string{fmt.Sprintf(
		"%d pair(s) of duplicated sub_resource blocks — define the resource once and reference it", pairs)}
}

// styledNodeThreshold is how many nodes must repeat the same override
// before the scene is flagged.
const styledNodeThreshold = 4

// sceneRepeatedStyling warns when the same theme override value is
// hand-applied to many nodes instead of living in a shared theme.
func sceneRepeatedStyling(code string) []string {
	// override line -> set of node headers carrying it
	carriers := map[string]map[string]bool{}

	var currentNode string
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := sceneHeaderRe.FindStringSubmatch(trimmed); m != nil {
			if m[1] == "node" {
				currentNode = m[2]
			} else {
				currentNode = ""
			}
			continue
		}
		if currentNode == "" {
			continue
		}
		if sceneOverrideRe.MatchString(trimmed) {
			if carriers[trimmed] == nil {
				carriers[trimmed] = map[string]bool{}
			}
			carriers[trimmed][currentNode] = true
		}
	}

	lines := make([]string, 0, len(carriers))
	for line := range carriers {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	var warnings []string
	for _, line := range lines {
		if nodes := carriers[line]; len(nodes) >= styledNodeThreshold {
			warnings = append(warnings, fmt.Sprintf(
				"override %q is repeated on %d nodes — move it into a shared theme", line, len(nodes)))
		}
	}
	return warnings
}
