// Package coveragecli drives the coverage reporter and the codecov uploader.
package coveragecli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

// Adapter implements ports.CoveragePort by shelling out to the coverage
// and codecov CLIs.
type Adapter struct {
	coverageBin string
	codecovBin  string
	rcFile      string
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
}

// New creates a new coverage adapter. rcFile is the absolute path of the
// shared coverage configuration.
func New(coverageBin, codecovBin, rcFile string, stdout, stderr io.Writer, logger *slog.Logger) *Adapter {
	return &Adapter{
		coverageBin: coverageBin,
		codecovBin:  codecovBin,
		rcFile:      rcFile,
		stdout:      stdout,
		stderr:      stderr,
		logger:      logger,
	}
}

// Report runs `coverage report` in checkDir and returns its exit code.
func (a *Adapter) Report(ctx context.Context, checkDir string) (int, error) {
	return a.run(ctx, checkDir, a.coverageBin, "report", "--rcfile="+a.rcFile)
}

// Upload runs `codecov -F <flag>` in checkDir and returns its exit code.
func (a *Adapter) Upload(ctx context.Context, checkDir, flag string) (int, error) {
	return a.run(ctx, checkDir, a.codecovBin, "-F", flag)
}

// RemoveArtifact deletes the coverage data file of the check.
func (a *Adapter) RemoveArtifact(checkDir string) error {
	path := filepath.Join(checkDir, domain.CoverageArtifact())
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	a.logger.Debug("removed coverage artifact", "path", path)
	return nil
}

func (a *Adapter) run(ctx context.Context, dir, bin string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	a.logger.Info("running command", "bin", bin, "dir", dir, "args", args)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running %s: %w", bin, err)
}
