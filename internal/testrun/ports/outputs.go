package ports

import "context"

// ChangedFilesPort abstracts listing files changed relative to the base
// branch. Paths are relative to the repository root and use '/' separators.
type ChangedFilesPort interface {
	GetChangedFiles(ctx context.Context) ([]string, error)
}

// CheckRegistryPort abstracts discovering which checks have a runnable
// test suite.
type CheckRegistryPort interface {
	TestableChecks(ctx context.Context) ([]string, error)
}

// TestRunnerPort abstracts the test runner (tox). checkDir is always an
// absolute path and is used as the working directory of the process.
type TestRunnerPort interface {
	// ListEnvironments returns the environment names defined for the check.
	ListEnvironments(ctx context.Context, checkDir string) ([]string, error)
	// Run executes the given environments in one invocation with env merged
	// into the inherited environment. A non-zero exit is reported through
	// the returned code, not the error.
	Run(ctx context.Context, checkDir string, envs []string, env map[string]string) (int, error)
}

// CoveragePort abstracts the coverage tool and the CI upload.
type CoveragePort interface {
	Report(ctx context.Context, checkDir string) (int, error)
	Upload(ctx context.Context, checkDir, flag string) (int, error)
	// RemoveArtifact deletes the local coverage data file. A missing file
	// is not an error.
	RemoveArtifact(checkDir string) error
}

// CIDetectorPort reports whether the process runs in a CI context.
type CIDetectorPort interface {
	RunningOnCI() bool
}

// ConsolePort abstracts user-facing status output.
type ConsolePort interface {
	Info(msg string)
	Waiting(msg string)
	Success(msg string)
	Failure(msg string)
}
