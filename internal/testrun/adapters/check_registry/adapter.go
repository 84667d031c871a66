// Package checkregistry discovers the checks of a repository that have a
// runnable test suite.
package checkregistry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const testRunnerConfig = "tox.ini"

// Adapter implements ports.CheckRegistryPort by scanning the top-level
// directories of the repository for a tox.ini file.
type Adapter struct {
	root string
}

// New creates a new check registry rooted at root.
func New(root string) *Adapter {
	return &Adapter{root: root}
}

// TestableChecks returns the sorted names of top-level directories that
// contain a tox.ini.
func (a *Adapter) TestableChecks(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		return nil, fmt.Errorf("reading repository root %s: %w", a.root, err)
	}

	var checks []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := os.Stat(filepath.Join(a.root, entry.Name(), testRunnerConfig))
		if err != nil || info.IsDir() {
			continue
		}
		checks = append(checks, entry.Name())
	}

	sort.Strings(checks)
	return checks, nil
}
