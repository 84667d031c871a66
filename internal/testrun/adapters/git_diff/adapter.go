// Package gitdiff provides change detection from the local git history.
package gitdiff

import (
	"context"
	"fmt"
)

// ChangeLister lists files changed since the merge base with a ref.
// *gitrepo.GitRepo satisfies it.
type ChangeLister interface {
	ChangedFiles(ctx context.Context, baseRef string) ([]string, error)
}

// Adapter implements ports.ChangedFilesPort by diffing the working copy
// against a base branch.
type Adapter struct {
	repo    ChangeLister
	baseRef string
}

// New creates a new git diff adapter comparing against baseRef.
func New(repo ChangeLister, baseRef string) *Adapter {
	return &Adapter{repo: repo, baseRef: baseRef}
}

// GetChangedFiles returns the files changed since the branch diverged from
// the base ref.
func (a *Adapter) GetChangedFiles(ctx context.Context) ([]string, error) {
	files, err := a.repo.ChangedFiles(ctx, a.baseRef)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}
	return files, nil
}
