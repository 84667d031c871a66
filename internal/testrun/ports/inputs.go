package ports

import (
	"context"

	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

// TestUseCase is the driving port for testing a set of checks.
type TestUseCase interface {
	Execute(ctx context.Context, req domain.TestRequest) error
}
