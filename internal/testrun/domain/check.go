package domain

import (
	"sort"
	"strings"
)

// DefaultTestableExtensions lists the file extensions that can change the
// behavior of a check and therefore require its tests to run.
var DefaultTestableExtensions = []string{".py", ".ini", ".in", ".txt", ".yml", ".yaml"}

// TestableFiles returns the files whose name ends with one of extensions,
// preserving input order.
func TestableFiles(files, extensions []string) []string {
	var out []string
	for _, f := range files {
		for _, ext := range extensions {
			if strings.HasSuffix(f, ext) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// ExtractCheckNames returns the unique top-level path segments of files.
// The repository convention is {check}/..., so the first segment names the
// owning check. E.g., "postgres/tests/test_e2e.py" -> "postgres".
func ExtractCheckNames(files []string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range files {
		name, _, _ := strings.Cut(f, "/")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// SelectChecks intersects candidates with the testable checks and returns
// the result deduplicated and sorted ascending.
func SelectChecks(candidates, testable []string) []string {
	known := make(map[string]struct{}, len(testable))
	for _, t := range testable {
		known[t] = struct{}{}
	}

	picked := make(map[string]struct{})
	for _, c := range candidates {
		if _, ok := known[c]; ok {
			picked[c] = struct{}{}
		}
	}

	checks := make([]string, 0, len(picked))
	for c := range picked {
		checks = append(checks, c)
	}
	sort.Strings(checks)
	return checks
}

// ChangedChecks derives the owning checks of changed files that have a
// testable extension.
func ChangedChecks(changedFiles, extensions []string) []string {
	return ExtractCheckNames(TestableFiles(changedFiles, extensions))
}
