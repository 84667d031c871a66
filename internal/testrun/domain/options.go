package domain

import "fmt"

// Environment variables understood by the test runner.
const (
	EnvPytestAddopts  = "PYTEST_ADDOPTS"
	EnvToxPassenv     = "TOX_TESTENV_PASSENV"
	coverageArtifact  = ".coverage"
	coverageConfigRef = "../.coveragerc"
)

// RunOptions holds the user-selected flags for a test run.
type RunOptions struct {
	Bench        bool // run only benchmark environments
	Coverage     bool
	KeepCoverage bool // keep the local .coverage file after reporting
	Verbose      int
}

// TestRequest is the input of a single CLI invocation.
type TestRequest struct {
	Checks []string // explicit check names; empty means detect from changes
	RunOptions
}

// PytestOptions composes the options string handed to pytest through the
// test runner. namespace is only used when coverage is requested.
func PytestOptions(opts RunOptions, namespace string) string {
	verbosity := opts.Verbose
	if verbosity <= 0 {
		verbosity = 1
	}

	var out string
	if opts.Bench {
		out = fmt.Sprintf("--verbosity=%d --benchmark-only --benchmark-cprofile=tottime", verbosity)
	} else {
		out = fmt.Sprintf("--verbosity=%d --benchmark-skip", verbosity)
	}

	if opts.Coverage {
		out += fmt.Sprintf(
			" --cov=%s --cov=tests --cov-config=%s --cov-append --cov-report=",
			namespace, coverageConfigRef,
		)
	}
	return out
}

// TestEnv returns the environment overrides for one test runner process.
func TestEnv(pytestOptions string) map[string]string {
	return map[string]string{
		EnvToxPassenv:    EnvPytestAddopts,
		EnvPytestAddopts: pytestOptions,
	}
}

// CoverageArtifact is the name of the coverage data file written in each
// check directory.
func CoverageArtifact() string {
	return coverageArtifact
}
