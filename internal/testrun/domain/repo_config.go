package domain

// DefaultBaseRef is the branch changes are compared against.
const DefaultBaseRef = "master"

// DefaultNonFatalCoverageChecks are checks whose coverage report failures
// do not abort the run.
var DefaultNonFatalCoverageChecks = []string{"datadog_checks_tests_helper"}

// RepoConfig holds per-repository settings, usually read from the
// repository manifest.
type RepoConfig struct {
	BaseRef                string
	TestableExtensions     []string
	Namespaces             NamespaceOverrides
	NonFatalCoverageChecks []string
}

// DefaultRepoConfig returns the settings used when the repository has no
// manifest.
func DefaultRepoConfig() RepoConfig {
	return RepoConfig{
		BaseRef:                DefaultBaseRef,
		TestableExtensions:     append([]string(nil), DefaultTestableExtensions...),
		Namespaces:             NamespaceOverrides{},
		NonFatalCoverageChecks: append([]string(nil), DefaultNonFatalCoverageChecks...),
	}
}

// CoverageFailureIsFatal reports whether a failing coverage report for
// check should abort the run.
func (c RepoConfig) CoverageFailureIsFatal(check string) bool {
	for _, name := range c.NonFatalCoverageChecks {
		if name == check {
			return false
		}
	}
	return true
}
