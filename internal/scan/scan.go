// Package scan enumerates project files for the search and duplication
// checks.
//
// Content search prefers ripgrep when it is installed (bounded by a
// timeout) and falls back to a pure-Go walk otherwise. Both paths
// return the same shape of result, so callers never know which ran.
package scan

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SearchTimeout bounds the ripgrep subprocess. The fallback walk has no
// timeout of its own since it only touches the local filesystem.
const SearchTimeout = 5 * time.Second

// maxResults caps how many files a search returns.
const maxResults = 50

// Extensions maps a file-type tag to the extensions it covers.
var Extensions = map[string][]string{
	"gd":   {".gd"},
	"tscn": {".tscn"},
	"py":   {".py"},
	"php":  {".php"},
	"js":   {".js", ".ts"},
	"all":  {".gd", ".tscn", ".py", ".php", ".js", ".ts"},
}

// ignoredDirs are never descended into.
var ignoredDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"addons":       true,
	"node_modules": true,
	".philosophy":  true,
	".import":      true,
	".godot":       true,
}

// ExtensionsFor resolves a file-type tag, defaulting to "all".
func ExtensionsFor(fileType string) []string {
	if exts, ok := Extensions[fileType]; ok {
		return exts
	}
	return Extensions["all"]
}

// FindByName walks the project collecting files whose name or path
// contains the term (case-insensitive) and whose extension matches.
func FindByName(root, term string, exts []string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	termLower := strings.ToLower(term)
	var found []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExt(path, exts) {
			return nil
		}
		if strings.Contains(strings.ToLower(path), termLower) {
			found = append(found, path)
			if len(found) >= maxResults {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

// FindByContent returns files whose content contains the term. It tries
// ripgrep first; on absence, failure, or timeout it falls back to
// walking and reading files directly.
func FindByContent(ctx context.Context, root, term string, exts []string) []string {
	if files, ok := ripgrepSearch(ctx, root, term, exts); ok {
		return files
	}
	return walkSearch(root, term, exts)
}

// ripgrepSearch shells out to rg -l with a glob per extension. The
// second return is false when ripgrep is unavailable or failed in a way
// that warrants the fallback (exit code 1 means "no matches", which is
// a real result, not a failure).
func ripgrepSearch(ctx context.Context, root, term string, exts []string) ([]string, bool) {
	if _, err := exec.LookPath("rg"); err != nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, SearchTimeout)
	defer cancel()

	args := []string{"-l", "-i", "--fixed-strings"}
	for _, ext := range exts {
		args = append(args, "--glob", "*"+ext)
	}
	args = append(args, term, root)

	out, err := exec.CommandContext(ctx, "rg", args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, true // searched fine, nothing matched
		}
		return nil, false
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		if skippedPath(root, line) {
			continue
		}
		files = append(files, line)
		if len(files) >= maxResults {
			break
		}
	}
	sort.Strings(files)
	return files, true
}

// walkSearch is the pure-Go fallback: read each matching-extension file
// and check for the term. Unreadable files are skipped.
func walkSearch(root, term string, exts []string) []string {
	termLower := strings.ToLower(term)
	var files []string

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExt(path, exts) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if strings.Contains(strings.ToLower(string(data)), termLower) {
			files = append(files, path)
			if len(files) >= maxResults {
				return filepath.SkipAll
			}
		}
		return nil
	})

	sort.Strings(files)
	return files
}

// skippedPath reports whether any path segment below root is ignored.
func skippedPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if ignoredDirs[part] {
			return true
		}
	}
	return false
}

func hasExt(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
