package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nathantilsley/check-runner/internal/platform/config"
	"github.com/nathantilsley/check-runner/internal/platform/logger"
	"github.com/nathantilsley/check-runner/internal/platform/telemetry"
	gitdiff "github.com/nathantilsley/check-runner/internal/testrun/adapters/git_diff"
	prfiles "github.com/nathantilsley/check-runner/internal/testrun/adapters/pr_files"
	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

func baseConfig(root string) config.Config {
	return config.Config{
		Root:           root,
		ManifestPath:   ".check-runner.yaml",
		LogLevel:       "error",
		ToxBinary:      "tox",
		CoverageBinary: "coverage",
		CodecovBinary:  "codecov",
	}
}

func TestNewContainer_Defaults(t *testing.T) {
	root := t.TempDir()

	c, err := NewContainer(context.Background(), baseConfig(root), telemetry.Noop(), logger.New("error"), &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, root, c.Root)
	assert.Equal(t, domain.DefaultBaseRef, c.RepoConfig.BaseRef)
	assert.IsType(t, &gitdiff.Adapter{}, c.ChangedFiles)
}

func TestNewContainer_BaseRefOverridesManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".check-runner.yaml"), []byte("baseRef: main\n"), 0o600))

	cfg := baseConfig(root)
	c, err := NewContainer(context.Background(), cfg, telemetry.Noop(), logger.New("error"), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "main", c.RepoConfig.BaseRef)

	cfg.BaseRef = "origin/release"
	c, err = NewContainer(context.Background(), cfg, telemetry.Noop(), logger.New("error"), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "origin/release", c.RepoConfig.BaseRef)
}

func TestNewContainer_PullRequestFiles(t *testing.T) {
	cfg := baseConfig(t.TempDir())
	cfg.GitHubRepository = "DataDog/integrations-core"
	cfg.PRNumber = 12
	cfg.GitHubToken = "token"

	c, err := NewContainer(context.Background(), cfg, telemetry.Noop(), logger.New("error"), &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.IsType(t, &prfiles.Adapter{}, c.ChangedFiles)
}

func TestNewContainer_InvalidRepository(t *testing.T) {
	cfg := baseConfig(t.TempDir())
	cfg.GitHubRepository = "not-a-slug"
	cfg.PRNumber = 12
	cfg.GitHubToken = "token"

	_, err := NewContainer(context.Background(), cfg, telemetry.Noop(), logger.New("error"), &bytes.Buffer{}, &bytes.Buffer{})

	assert.Error(t, err)
}

func TestContainer_NoTestableChecks(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "redis"), 0o755))
	var stdout bytes.Buffer

	c, err := NewContainer(context.Background(), baseConfig(root), telemetry.Noop(), logger.New("error"), &stdout, &bytes.Buffer{})
	require.NoError(t, err)

	err = c.TestService.Execute(context.Background(), domain.TestRequest{Checks: []string{"redis"}})

	require.NoError(t, err)
	assert.Equal(t, "No checks to test!\n", stdout.String())
}

func TestContainer_RunsToxInCheckDir(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	root := t.TempDir()
	checkDir := filepath.Join(root, "redis")
	require.NoError(t, os.MkdirAll(checkDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(checkDir, "tox.ini"), []byte("[tox]\n"), 0o600))

	tox := filepath.Join(t.TempDir(), "tox")
	script := `#!/bin/sh
if [ "$1" = "--listenvs" ]; then
  printf 'py38\nbench\n'
  exit 0
fi
echo "tox $* :: $PYTEST_ADDOPTS"
`
	require.NoError(t, os.WriteFile(tox, []byte(script), 0o755))

	cfg := baseConfig(root)
	cfg.ToxBinary = tox
	var stdout bytes.Buffer

	c, err := NewContainer(context.Background(), cfg, telemetry.Noop(), logger.New("error"), &stdout, &bytes.Buffer{})
	require.NoError(t, err)

	err = c.TestService.Execute(context.Background(), domain.TestRequest{Checks: []string{"redis"}})

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "Running tests for `redis`")
	assert.Contains(t, out, "tox --develop -e py38 :: --verbosity=1 --benchmark-skip")
	assert.Contains(t, out, "\nPassed!\n")
}

func TestCLI_PytestOptionsReachRunner(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default", args: []string{"redis"}, want: "--verbosity=1 --benchmark-skip"},
		{name: "bench", args: []string{"-b", "redis"}, want: "--verbosity=1 --benchmark-only --benchmark-cprofile=tottime"},
		{name: "verbose", args: []string{"-vv", "redis"}, want: "--verbosity=2 --benchmark-skip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			root := t.TempDir()
			checkDir := filepath.Join(root, "redis")
			require.NoError(t, os.MkdirAll(checkDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(checkDir, "tox.ini"), []byte("[tox]\n"), 0o600))

			tox := filepath.Join(t.TempDir(), "tox")
			script := `#!/bin/sh
if [ "$1" = "--listenvs" ]; then
  printf 'py38\nbench\n'
  exit 0
fi
echo "addopts=$PYTEST_ADDOPTS"
`
			require.NoError(t, os.WriteFile(tox, []byte(script), 0o755))

			cfg := baseConfig(root)
			cfg.ToxBinary = tox
			var stdout bytes.Buffer

			execute := func(ctx context.Context, req domain.TestRequest) error {
				c, err := NewContainer(ctx, cfg, telemetry.Noop(), logger.New("error"), &stdout, &bytes.Buffer{})
				if err != nil {
					return err
				}
				return c.TestService.Execute(ctx, req)
			}
			app := newApp(execute, &stdout, &bytes.Buffer{})
			app.ExitErrHandler = func(*cli.Context, error) {}

			err := app.RunContext(context.Background(), append([]string{"check-runner"}, tt.args...))

			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "addopts="+tt.want+"\n")
		})
	}
}
