// Package prfiles provides change detection by listing the files of a
// GitHub pull request.
package prfiles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v68/github"
)

// Adapter implements ports.ChangedFilesPort by querying the GitHub API
// for files changed in a pull request. It is used on CI where the checkout
// is often shallow and the base branch is not available locally.
type Adapter struct {
	client   *github.Client
	owner    string
	repo     string
	prNumber int
	logger   *slog.Logger
}

// New creates a new PR files adapter.
func New(client *github.Client, owner, repo string, prNumber int, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:   client,
		owner:    owner,
		repo:     repo,
		prNumber: prNumber,
		logger:   logger,
	}
}

// GetChangedFiles returns all file paths modified in the pull request.
func (a *Adapter) GetChangedFiles(ctx context.Context) ([]string, error) {
	var changedFiles []string
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := a.client.PullRequests.ListFiles(ctx, a.owner, a.repo, a.prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files of %s/%s#%d: %w", a.owner, a.repo, a.prNumber, err)
		}

		for _, file := range files {
			changedFiles = append(changedFiles, file.GetFilename())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	a.logger.Debug("found changed files in PR", "pr", a.prNumber, "count", len(changedFiles))
	return changedFiles, nil
}
