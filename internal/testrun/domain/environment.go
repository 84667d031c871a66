package domain

import "strings"

const benchMarker = "bench"

// ParseEnvironmentList splits the test runner's environment listing into
// trimmed, non-empty names.
func ParseEnvironmentList(output string) []string {
	var envs []string
	for _, line := range strings.Split(output, "\n") {
		if e := strings.TrimSpace(line); e != "" {
			envs = append(envs, e)
		}
	}
	return envs
}

// IsBenchmark reports whether the environment name marks a benchmark.
func IsBenchmark(env string) bool {
	return strings.Contains(env, benchMarker)
}

// PartitionEnvironments splits envs into benchmark and non-benchmark
// environments, preserving order.
func PartitionEnvironments(envs []string) (bench, nonBench []string) {
	for _, e := range envs {
		if IsBenchmark(e) {
			bench = append(bench, e)
		} else {
			nonBench = append(nonBench, e)
		}
	}
	return bench, nonBench
}

// SelectEnvironments returns the partition matching the run mode.
func SelectEnvironments(envs []string, bench bool) []string {
	b, nb := PartitionEnvironments(envs)
	if bench {
		return b
	}
	return nb
}
