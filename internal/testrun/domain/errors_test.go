package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "exit error", err: NewExitError("redis", StepTests, 3), want: 3},
		{name: "wrapped exit error", err: fmt.Errorf("running redis: %w", NewExitError("redis", StepTests, 5)), want: 5},
		{name: "zero code falls back to 1", err: NewExitError("redis", StepTests, 0), want: 1},
		{name: "plain error", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError_Error(t *testing.T) {
	err := NewExitError("postgres", StepCoverageReport, 2)

	assert.Equal(t, "coverage report for postgres exited with code 2", err.Error())
}

func TestRepoConfig_CoverageFailureIsFatal(t *testing.T) {
	cfg := DefaultRepoConfig()

	assert.False(t, cfg.CoverageFailureIsFatal("datadog_checks_tests_helper"))
	assert.True(t, cfg.CoverageFailureIsFatal("redis"))

	cfg.NonFatalCoverageChecks = nil
	assert.True(t, cfg.CoverageFailureIsFatal("datadog_checks_tests_helper"))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "passed", StatusPassed.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
