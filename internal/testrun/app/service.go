package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathantilsley/check-runner/internal/testrun/domain"
	"github.com/nathantilsley/check-runner/internal/testrun/ports"
)

const (
	noChecksMessage = "No checks to test!"
	coverageHeader  = "\n---------- Coverage report ----------\n"
	failedMessage   = "\nFailed!"
	passedMessage   = "\nPassed!"
)

// TestService implements ports.TestUseCase by orchestrating the full
// workflow: select checks, run the test runner per check, then report and
// upload coverage.
type TestService struct {
	changedFiles ports.ChangedFilesPort
	registry     ports.CheckRegistryPort
	runner       ports.TestRunnerPort
	coverage     ports.CoveragePort
	ci           ports.CIDetectorPort
	console      ports.ConsolePort
	root         string
	repoCfg      domain.RepoConfig
	logger       *slog.Logger

	tracer      trace.Tracer
	checkCount  metric.Int64Counter
	invocations metric.Float64Histogram
}

// NewTestService creates a new TestService wired with all driven ports.
// root must be the absolute path of the repository root.
func NewTestService(
	cf ports.ChangedFilesPort,
	reg ports.CheckRegistryPort,
	rn ports.TestRunnerPort,
	cov ports.CoveragePort,
	ci ports.CIDetectorPort,
	con ports.ConsolePort,
	root string,
	repoCfg domain.RepoConfig,
	logger *slog.Logger,
	meter metric.Meter,
	tracer trace.Tracer,
) (*TestService, error) {
	checkCount, err := meter.Int64Counter(
		"check_runner.checks",
		metric.WithDescription("Checks processed, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating checks counter: %w", err)
	}
	invocations, err := meter.Float64Histogram(
		"check_runner.invocation.duration",
		metric.WithDescription("Duration of external tool invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating invocation histogram: %w", err)
	}

	return &TestService{
		changedFiles: cf,
		registry:     reg,
		runner:       rn,
		coverage:     cov,
		ci:           ci,
		console:      con,
		root:         root,
		repoCfg:      repoCfg,
		logger:       logger,
		tracer:       tracer,
		checkCount:   checkCount,
		invocations:  invocations,
	}, nil
}

// Execute tests every selected check in sorted order. It stops at the first
// failing sub-invocation and returns a *domain.ExitError carrying its code.
func (s *TestService) Execute(ctx context.Context, req domain.TestRequest) error {
	runID := uuid.NewString()
	log := s.logger.With("runID", runID)

	ctx, span := s.tracer.Start(ctx, "TestService.Execute", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Bool("run.bench", req.Bench),
		attribute.Bool("run.coverage", req.Coverage),
	))
	defer span.End()

	checks, err := s.resolveChecks(ctx, req.Checks, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolving checks")
		return err
	}

	if len(checks) == 0 {
		log.Info("no checks to test")
		s.console.Info(noChecksMessage)
		return nil
	}

	log.Info("found checks to test", "count", len(checks), "checks", checks)
	span.SetAttributes(attribute.Int("run.checks", len(checks)))

	for i, check := range checks {
		last := i == len(checks)-1
		if err := s.runCheck(ctx, req.RunOptions, check, last, log); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "check failed")
			return err
		}
	}

	return nil
}

// resolveChecks returns the sorted intersection of the requested (or
// changed) checks with the testable checks.
func (s *TestService) resolveChecks(ctx context.Context, requested []string, log *slog.Logger) ([]string, error) {
	testable, err := s.registry.TestableChecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing testable checks: %w", err)
	}

	if len(requested) > 0 {
		return domain.SelectChecks(requested, testable), nil
	}

	files, err := s.changedFiles.GetChangedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting changed files: %w", err)
	}
	log.Debug("found changed files", "count", len(files))

	changed := domain.ChangedChecks(files, s.repoCfg.TestableExtensions)
	log.Debug("extracted changed checks", "checks", changed)

	return domain.SelectChecks(changed, testable), nil
}

func (s *TestService) runCheck(
	ctx context.Context,
	opts domain.RunOptions,
	check string,
	last bool,
	log *slog.Logger,
) (err error) {
	ctx, span := s.tracer.Start(ctx, "TestService.runCheck", trace.WithAttributes(
		attribute.String("check", check),
	))
	defer span.End()

	defer func() {
		status := domain.StatusPassed
		if err != nil {
			status = domain.StatusFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, status.String())
		}
		s.checkCount.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status.String())))
	}()

	log = log.With("check", check)
	checkDir := filepath.Join(s.root, check)

	pytestOpts := domain.PytestOptions(opts, s.repoCfg.Namespaces.Resolve(check))
	if opts.Verbose > 0 {
		s.console.Info(fmt.Sprintf("pytest options: `%s`", pytestOpts))
	}

	if err := s.runEnvironments(ctx, opts, check, checkDir, pytestOpts, log); err != nil {
		return err
	}

	if opts.Coverage {
		if err := s.handleCoverage(ctx, opts, check, checkDir, log); err != nil {
			return err
		}
	}

	if last {
		s.console.Success(passedMessage)
	} else {
		s.console.Success(passedMessage + "\n")
	}
	return nil
}

// runEnvironments invokes the test runner once against the partition of
// environments matching the run mode. An empty partition is a no-op.
func (s *TestService) runEnvironments(
	ctx context.Context,
	opts domain.RunOptions,
	check, checkDir, pytestOpts string,
	log *slog.Logger,
) error {
	envList, err := s.runner.ListEnvironments(ctx, checkDir)
	if err != nil {
		return fmt.Errorf("listing environments for %s: %w", check, err)
	}

	envs := domain.SelectEnvironments(envList, opts.Bench)
	log.Debug("selected environments", "bench", opts.Bench, "available", envList, "selected", envs)
	if len(envs) == 0 {
		log.Info("no matching environments, skipping", "bench", opts.Bench)
		return nil
	}

	step, verb := domain.StepTests, "tests"
	if opts.Bench {
		step, verb = domain.StepBenchmarks, "benchmarks"
	}

	waitText := fmt.Sprintf("Running %s for `%s`", verb, check)
	s.console.Waiting(waitText)
	s.console.Waiting(strings.Repeat("-", len(waitText)))

	start := time.Now()
	code, err := s.runner.Run(ctx, checkDir, envs, domain.TestEnv(pytestOpts))
	s.recordInvocation(ctx, "tox", check, start)
	if err != nil {
		return fmt.Errorf("running %s for %s: %w", verb, check, err)
	}
	if code != 0 {
		log.Error("test runner failed", "envs", envs, "code", code)
		s.console.Failure(failedMessage)
		return domain.NewExitError(check, step, code)
	}

	return nil
}

// handleCoverage reports coverage, then either uploads it (on CI) or
// removes the local artifact unless asked to keep it.
func (s *TestService) handleCoverage(
	ctx context.Context,
	opts domain.RunOptions,
	check, checkDir string,
	log *slog.Logger,
) error {
	s.console.Info(coverageHeader)

	start := time.Now()
	code, err := s.coverage.Report(ctx, checkDir)
	s.recordInvocation(ctx, "coverage", check, start)
	if err != nil {
		return fmt.Errorf("reporting coverage for %s: %w", check, err)
	}
	if code != 0 {
		if s.repoCfg.CoverageFailureIsFatal(check) {
			log.Error("coverage report failed", "code", code)
			s.console.Failure(failedMessage)
			return domain.NewExitError(check, domain.StepCoverageReport, code)
		}
		log.Warn("coverage report failed for non-fatal check", "code", code)
	}

	if s.ci.RunningOnCI() {
		start = time.Now()
		code, err := s.coverage.Upload(ctx, checkDir, check)
		s.recordInvocation(ctx, "codecov", check, start)
		if err != nil {
			log.Warn("coverage upload could not run", "error", err)
		} else if code != 0 {
			log.Warn("coverage upload failed", "code", code)
		}
		return nil
	}

	if opts.KeepCoverage {
		log.Debug("keeping coverage artifact")
		return nil
	}

	if err := s.coverage.RemoveArtifact(checkDir); err != nil {
		return fmt.Errorf("removing coverage artifact for %s: %w", check, err)
	}
	return nil
}

func (s *TestService) recordInvocation(ctx context.Context, tool, check string, start time.Time) {
	s.invocations.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("check", check),
	))
}
