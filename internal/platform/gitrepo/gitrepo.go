// Package gitrepo wraps the git CLI for a local working copy.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// GitRepo runs git commands against a single working copy.
type GitRepo struct {
	localPath string
	gitBin    string
	logger    *slog.Logger
}

// New creates a GitRepo for the working copy at localPath. No I/O is performed.
func New(localPath string, logger *slog.Logger) *GitRepo {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &GitRepo{
		localPath: localPath,
		gitBin:    "git",
		logger:    logger,
	}
}

// Path returns the local filesystem path of the working copy.
func (r *GitRepo) Path() string {
	return r.localPath
}

// ChangedFiles lists files that differ between the merge base of baseRef
// and HEAD (git diff baseRef...). Paths are relative to the working copy
// path, and files outside it are excluded.
func (r *GitRepo) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	out, err := r.git(ctx, "diff", "--name-only", "--relative", baseRef+"...")
	if err != nil {
		return nil, fmt.Errorf("git diff against %s: %w", baseRef, err)
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.TrimSpace(line); f != "" {
			files = append(files, f)
		}
	}

	r.logger.Debug("git diff completed", "baseRef", baseRef, "files", len(files))
	return files, nil
}

// FindRoot returns the top-level directory of the working copy containing dir.
func FindRoot(ctx context.Context, dir string) (string, error) {
	r := New(dir, nil)
	out, err := r.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("finding repository root: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (r *GitRepo) git(ctx context.Context, args ...string) (string, error) {
	args = append([]string{"-C", r.localPath}, args...)

	//nolint:gosec // G204: arguments come from trusted config, not user input
	cmd := exec.CommandContext(ctx, r.gitBin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nstderr: %s", args[2], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
