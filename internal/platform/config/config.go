// Package config provides application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Root         string // repository root; empty means the git toplevel of cwd
	BaseRef      string // overrides the manifest's baseRef when set
	ManifestPath string // relative to Root unless absolute
	LogLevel     string

	ToxBinary      string
	CoverageBinary string
	CodecovBinary  string

	// GitHub pull request file listing (optional)
	GitHubRepository     string // "owner/repo"
	PRNumber             int
	GitHubToken          string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKey     string // PEM file contents

	// OpenTelemetry (optional)
	OTelEnabled bool // OTEL_ENABLED feature flag
}

// Load reads configuration from environment variables and applies
// defaults. Nothing is required: a bare checkout works with no variables.
func Load() (Config, error) {
	cfg := Config{
		ManifestPath:   ".check-runner.yaml",
		LogLevel:       "warn",
		ToxBinary:      "tox",
		CoverageBinary: "coverage",
		CodecovBinary:  "codecov",
	}

	loadCoreConfig(&cfg)

	if err := loadGitHubConfig(&cfg); err != nil {
		return Config{}, err
	}

	loadOTelConfig(&cfg)

	return cfg, nil
}

// GitHubEnabled reports whether changed files should be listed from the
// GitHub pull request instead of the local git diff.
func (c Config) GitHubEnabled() bool {
	if c.GitHubRepository == "" || c.PRNumber == 0 {
		return false
	}
	return c.GitHubToken != "" || c.GitHubAppID != 0
}

// OwnerRepo splits GitHubRepository into owner and repo.
func (c Config) OwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.GitHubRepository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid GITHUB_REPOSITORY %q, expected owner/repo", c.GitHubRepository)
	}
	return owner, repo, nil
}

func loadCoreConfig(cfg *Config) {
	cfg.Root = os.Getenv("CHECK_RUNNER_ROOT")
	cfg.BaseRef = os.Getenv("CHECK_RUNNER_BASE_REF")
	cfg.ManifestPath = getEnvOrDefault("CHECK_RUNNER_MANIFEST", cfg.ManifestPath)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.ToxBinary = getEnvOrDefault("TOX_BINARY", cfg.ToxBinary)
	cfg.CoverageBinary = getEnvOrDefault("COVERAGE_BINARY", cfg.CoverageBinary)
	cfg.CodecovBinary = getEnvOrDefault("CODECOV_BINARY", cfg.CodecovBinary)
}

func loadGitHubConfig(cfg *Config) error {
	cfg.GitHubRepository = os.Getenv("GITHUB_REPOSITORY")
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.GitHubPrivateKey = os.Getenv("GITHUB_PRIVATE_KEY")

	if v := os.Getenv("CHECK_RUNNER_PR_NUMBER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CHECK_RUNNER_PR_NUMBER %q: %w", v, err)
		}
		cfg.PRNumber = n
	}

	var err error
	cfg.GitHubAppID, err = parseOptionalInt64("GITHUB_APP_ID")
	if err != nil {
		return err
	}
	cfg.GitHubInstallationID, err = parseOptionalInt64("GITHUB_INSTALLATION_ID")
	if err != nil {
		return err
	}

	if cfg.GitHubAppID != 0 {
		if cfg.GitHubInstallationID == 0 {
			return errors.New("GITHUB_INSTALLATION_ID is required when GITHUB_APP_ID is set")
		}
		if cfg.GitHubPrivateKey == "" {
			return errors.New("GITHUB_PRIVATE_KEY is required when GITHUB_APP_ID is set")
		}
	}

	return nil
}

func loadOTelConfig(cfg *Config) {
	cfg.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"
}

func parseOptionalInt64(envKey string) (int64, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return id, nil
}

func getEnvOrDefault(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}
