package domain

import (
	"errors"
	"fmt"
)

// Step names a sub-invocation in the per-check loop.
type Step string

const (
	StepTests          Step = "tests"
	StepBenchmarks     Step = "benchmarks"
	StepCoverageReport Step = "coverage report"
)

// ExitError reports a sub-invocation that exited non-zero. Its Code is
// propagated as the exit code of the whole run.
type ExitError struct {
	Check string
	Step  Step
	Code  int
}

// NewExitError creates an ExitError.
func NewExitError(check string, step Step, code int) *ExitError {
	return &ExitError{Check: check, Step: step, Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s for %s exited with code %d", e.Step, e.Check, e.Code)
}

// ExitCode maps err to a process exit code: 0 for nil, the propagated code
// for an ExitError, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}
	return 1
}
