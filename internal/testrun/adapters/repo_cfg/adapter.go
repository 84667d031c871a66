// Package repocfg loads the repository manifest.
package repocfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/check-runner/api"
	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

// DefaultManifestPath is the manifest location relative to the repository
// root.
const DefaultManifestPath = ".check-runner.yaml"

// Adapter reads the repository manifest from the local checkout.
type Adapter struct {
	path string
}

// New creates a new repo config adapter. A relative manifestPath is
// resolved against root.
func New(root, manifestPath string) *Adapter {
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(root, manifestPath)
	}
	return &Adapter{path: manifestPath}
}

// Load parses the manifest and overlays it on the defaults. A missing
// manifest yields domain.DefaultRepoConfig.
func (a *Adapter) Load() (domain.RepoConfig, error) {
	cfg := domain.DefaultRepoConfig()

	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return domain.RepoConfig{}, fmt.Errorf("reading manifest %s: %w", a.path, err)
	}

	var manifest api.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return domain.RepoConfig{}, fmt.Errorf("parsing manifest YAML %s: %w", a.path, err)
	}

	if manifest.BaseRef != "" {
		cfg.BaseRef = manifest.BaseRef
	}
	if len(manifest.TestableExtensions) > 0 {
		cfg.TestableExtensions = normalizeExtensions(manifest.TestableExtensions)
	}
	for check, ns := range manifest.Namespaces {
		if check == "" || ns == "" {
			return domain.RepoConfig{}, fmt.Errorf("manifest %s: namespace entries need a check and a package", a.path)
		}
		cfg.Namespaces[check] = ns
	}
	if manifest.Coverage.NonFatalChecks != nil {
		cfg.NonFatalCoverageChecks = manifest.Coverage.NonFatalChecks
	}

	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
