// Package toxcli drives the tox test runner.
package toxcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

// Adapter implements ports.TestRunnerPort by shelling out to the tox CLI.
// Test output is streamed to the configured writers as it is produced.
type Adapter struct {
	toxBin string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// New creates a new tox adapter. toxBin may be a bare name, which is
// resolved on PATH when a command first runs.
func New(toxBin string, stdout, stderr io.Writer, logger *slog.Logger) *Adapter {
	return &Adapter{
		toxBin: toxBin,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// ListEnvironments runs `tox --listenvs` in checkDir and returns the
// environment names it prints.
func (a *Adapter) ListEnvironments(ctx context.Context, checkDir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, a.toxBin, "--listenvs")
	cmd.Dir = checkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	a.logger.Debug("listing tox environments", "dir", checkDir)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tox --listenvs failed: %w\nstderr: %s", err, stderr.String())
	}

	return domain.ParseEnvironmentList(stdout.String()), nil
}

// Run executes `tox --develop -e <envs>` in checkDir with env merged into
// the inherited environment. The exit code of tox is returned; err is only
// set when tox could not be run at all.
func (a *Adapter) Run(ctx context.Context, checkDir string, envs []string, env map[string]string) (int, error) {
	args := []string{"--develop", "-e", strings.Join(envs, ",")}

	cmd := exec.CommandContext(ctx, a.toxBin, args...)
	cmd.Dir = checkDir
	cmd.Env = mergeEnv(os.Environ(), env)
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	a.logger.Info("running tox", "dir", checkDir, "args", args)
	return exitCode(cmd.Run())
}

// mergeEnv returns base with the overrides applied. Overridden keys are
// removed from base so the child sees exactly one value.
func mergeEnv(base []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+overrides[k])
	}
	return merged
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running tox: %w", err)
}
