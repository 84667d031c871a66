package api

// Manifest is the top-level schema of the .check-runner.yaml file stored at
// the root of an integrations repository. Every field is optional.
type Manifest struct {
	// BaseRef is the branch changes are compared against.
	BaseRef string `yaml:"baseRef"`
	// TestableExtensions lists the file extensions whose changes trigger
	// the tests of their check.
	TestableExtensions []string `yaml:"testableExtensions"`
	// Namespaces maps a check directory to the Python package measured
	// for coverage, for checks that do not follow the naming convention.
	Namespaces map[string]string `yaml:"namespaces"`
	Coverage   ManifestCoverage  `yaml:"coverage"`
}

// ManifestCoverage configures coverage handling.
type ManifestCoverage struct {
	// NonFatalChecks are checks whose failing coverage report does not
	// abort the run. An explicit empty list makes every failure fatal.
	NonFatalChecks []string `yaml:"nonFatalChecks"`
}
