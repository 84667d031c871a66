package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nathantilsley/check-runner/internal/platform/config"
	ghclient "github.com/nathantilsley/check-runner/internal/platform/github"
	"github.com/nathantilsley/check-runner/internal/platform/gitrepo"
	"github.com/nathantilsley/check-runner/internal/platform/logger"
	"github.com/nathantilsley/check-runner/internal/platform/telemetry"
	checkregistry "github.com/nathantilsley/check-runner/internal/testrun/adapters/check_registry"
	cienv "github.com/nathantilsley/check-runner/internal/testrun/adapters/ci_env"
	consoleout "github.com/nathantilsley/check-runner/internal/testrun/adapters/console_out"
	coveragecli "github.com/nathantilsley/check-runner/internal/testrun/adapters/coverage_cli"
	gitdiff "github.com/nathantilsley/check-runner/internal/testrun/adapters/git_diff"
	prfiles "github.com/nathantilsley/check-runner/internal/testrun/adapters/pr_files"
	repocfg "github.com/nathantilsley/check-runner/internal/testrun/adapters/repo_cfg"
	toxcli "github.com/nathantilsley/check-runner/internal/testrun/adapters/tox_cli"
	"github.com/nathantilsley/check-runner/internal/testrun/app"
	"github.com/nathantilsley/check-runner/internal/testrun/domain"
	"github.com/nathantilsley/check-runner/internal/testrun/ports"
)

const coverageConfig = ".coveragerc"

// Container holds all application dependencies.
type Container struct {
	Config       config.Config
	Logger       *slog.Logger
	Root         string
	RepoConfig   domain.RepoConfig
	ChangedFiles ports.ChangedFilesPort
	TestService  ports.TestUseCase
}

// NewContainer builds and wires all dependencies. Tool output goes to
// stdout and stderr.
func NewContainer(
	ctx context.Context,
	cfg config.Config,
	tel *telemetry.Telemetry,
	log *slog.Logger,
	stdout, stderr io.Writer,
) (*Container, error) {
	root, err := resolveRoot(ctx, cfg.Root, log)
	if err != nil {
		return nil, err
	}

	repoCfg, err := repocfg.New(root, cfg.ManifestPath).Load()
	if err != nil {
		return nil, fmt.Errorf("loading repository manifest: %w", err)
	}
	if cfg.BaseRef != "" {
		repoCfg.BaseRef = cfg.BaseRef
	}

	// Adapters
	changedFiles, err := newChangedFiles(cfg, root, repoCfg.BaseRef, log)
	if err != nil {
		return nil, err
	}
	registry := checkregistry.New(root)
	runner := toxcli.New(cfg.ToxBinary, stdout, stderr, log)
	coverage := coveragecli.New(
		cfg.CoverageBinary,
		cfg.CodecovBinary,
		filepath.Join(root, coverageConfig),
		stdout,
		stderr,
		log,
	)
	ci := cienv.New()
	console := consoleout.New(stdout, logger.ShouldUseColor())

	testService, err := app.NewTestService(
		changedFiles,
		registry,
		runner,
		coverage,
		ci,
		console,
		root,
		repoCfg,
		log,
		tel.Meter,
		tel.Tracer,
	)
	if err != nil {
		return nil, fmt.Errorf("creating test service: %w", err)
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		Root:         root,
		RepoConfig:   repoCfg,
		ChangedFiles: changedFiles,
		TestService:  testService,
	}, nil
}

// resolveRoot returns the absolute repository root: the configured one, or
// the git toplevel of the working directory, or the working directory
// itself outside a git checkout.
func resolveRoot(ctx context.Context, configured string, log *slog.Logger) (string, error) {
	if configured != "" {
		root, err := filepath.Abs(configured)
		if err != nil {
			return "", fmt.Errorf("resolving CHECK_RUNNER_ROOT: %w", err)
		}
		return root, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	root, err := gitrepo.FindRoot(ctx, wd)
	if err != nil {
		log.Warn("not inside a git checkout, using working directory as root", "dir", wd, "error", err)
		return wd, nil
	}
	return root, nil
}

// newChangedFiles lists pull request files through the GitHub API when a
// PR and credentials are configured, and falls back to the local git diff.
func newChangedFiles(cfg config.Config, root, baseRef string, log *slog.Logger) (ports.ChangedFilesPort, error) {
	if !cfg.GitHubEnabled() {
		log.Debug("detecting changes with git diff", "baseRef", baseRef)
		return gitdiff.New(gitrepo.New(root, log), baseRef), nil
	}

	owner, repo, err := cfg.OwnerRepo()
	if err != nil {
		return nil, err
	}

	client, err := ghclient.NewClient(ghclient.Credentials{
		Token:          cfg.GitHubToken,
		AppID:          cfg.GitHubAppID,
		InstallationID: cfg.GitHubInstallationID,
		PrivateKeyPEM:  cfg.GitHubPrivateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}

	log.Debug("detecting changes from pull request files", "repo", cfg.GitHubRepository, "pr", cfg.PRNumber)
	return prfiles.New(client, owner, repo, cfg.PRNumber, log), nil
}
