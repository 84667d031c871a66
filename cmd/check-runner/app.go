package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

func init() {
	// -v is taken by --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

// executeFunc runs a test request. It is the seam between flag parsing and
// dependency wiring.
type executeFunc func(ctx context.Context, req domain.TestRequest) error

// newApp builds the command line application. Flags must precede check
// names.
func newApp(execute executeFunc, stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:                   "check-runner",
		Usage:                  "Run tests for integration checks",
		UsageText:              "check-runner [flags] [CHECKS...]",
		Version:                version,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "bench",
				Aliases: []string{"b"},
				Usage:   "run only benchmarks",
			},
			&cli.BoolFlag{
				Name:    "cov",
				Aliases: []string{"c"},
				Usage:   "measure code coverage",
			},
			&cli.BoolFlag{
				Name:    "keep-cov",
				Aliases: []string{"kc"},
				Usage:   "keep coverage reports",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "increase verbosity (can be used additively)",
				Count:   new(int),
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		checks := c.Args().Slice()
		for _, check := range checks {
			if strings.HasPrefix(check, "-") {
				return fmt.Errorf("flag %s must come before check names", check)
			}
		}

		req := domain.TestRequest{
			Checks: checks,
			RunOptions: domain.RunOptions{
				Bench:        c.Bool("bench"),
				Coverage:     c.Bool("cov"),
				KeepCoverage: c.Bool("keep-cov"),
				Verbose:      c.Count("verbose"),
			},
		}

		err := execute(c.Context, req)
		var exitErr *domain.ExitError
		if errors.As(err, &exitErr) {
			// The failing tool already printed its output.
			return cli.Exit("", domain.ExitCode(err))
		}
		return err
	}

	app.ExitErrHandler = func(_ *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit("error: "+err.Error(), domain.ExitCode(err)))
		}
	}

	return app
}
