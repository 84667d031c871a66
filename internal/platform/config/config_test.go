package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"CHECK_RUNNER_ROOT",
	"CHECK_RUNNER_BASE_REF",
	"CHECK_RUNNER_MANIFEST",
	"CHECK_RUNNER_PR_NUMBER",
	"LOG_LEVEL",
	"TOX_BINARY",
	"COVERAGE_BINARY",
	"CODECOV_BINARY",
	"GITHUB_REPOSITORY",
	"GITHUB_TOKEN",
	"GITHUB_APP_ID",
	"GITHUB_INSTALLATION_ID",
	"GITHUB_PRIVATE_KEY",
	"OTEL_ENABLED",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "defaults",
			env:  nil,
			want: Config{
				ManifestPath:   ".check-runner.yaml",
				LogLevel:       "warn",
				ToxBinary:      "tox",
				CoverageBinary: "coverage",
				CodecovBinary:  "codecov",
			},
		},
		{
			name: "all core vars set",
			env: map[string]string{
				"CHECK_RUNNER_ROOT":     "/src/integrations-core",
				"CHECK_RUNNER_BASE_REF": "origin/main",
				"CHECK_RUNNER_MANIFEST": "ci/runner.yaml",
				"LOG_LEVEL":             "debug",
				"TOX_BINARY":            "/usr/local/bin/tox",
				"COVERAGE_BINARY":       "cov",
				"CODECOV_BINARY":        "codecov-cli",
				"OTEL_ENABLED":          "true",
			},
			want: Config{
				Root:           "/src/integrations-core",
				BaseRef:        "origin/main",
				ManifestPath:   "ci/runner.yaml",
				LogLevel:       "debug",
				ToxBinary:      "/usr/local/bin/tox",
				CoverageBinary: "cov",
				CodecovBinary:  "codecov-cli",
				OTelEnabled:    true,
			},
		},
		{
			name: "github app settings",
			env: map[string]string{
				"GITHUB_REPOSITORY":      "DataDog/integrations-core",
				"CHECK_RUNNER_PR_NUMBER": "1234",
				"GITHUB_APP_ID":          "42",
				"GITHUB_INSTALLATION_ID": "99",
				"GITHUB_PRIVATE_KEY":     "pem",
			},
			want: Config{
				ManifestPath:         ".check-runner.yaml",
				LogLevel:             "warn",
				ToxBinary:            "tox",
				CoverageBinary:       "coverage",
				CodecovBinary:        "codecov",
				GitHubRepository:     "DataDog/integrations-core",
				PRNumber:             1234,
				GitHubAppID:          42,
				GitHubInstallationID: 99,
				GitHubPrivateKey:     "pem",
			},
		},
		{
			name:    "invalid PR number",
			env:     map[string]string{"CHECK_RUNNER_PR_NUMBER": "abc"},
			wantErr: true,
			errMsg:  "CHECK_RUNNER_PR_NUMBER",
		},
		{
			name:    "invalid app id",
			env:     map[string]string{"GITHUB_APP_ID": "x"},
			wantErr: true,
			errMsg:  "GITHUB_APP_ID",
		},
		{
			name:    "app id without installation",
			env:     map[string]string{"GITHUB_APP_ID": "1", "GITHUB_PRIVATE_KEY": "pem"},
			wantErr: true,
			errMsg:  "GITHUB_INSTALLATION_ID",
		},
		{
			name:    "app id without key",
			env:     map[string]string{"GITHUB_APP_ID": "1", "GITHUB_INSTALLATION_ID": "2"},
			wantErr: true,
			errMsg:  "GITHUB_PRIVATE_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errMsg), "error %q should mention %q", err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_GitHubEnabled(t *testing.T) {
	base := Config{GitHubRepository: "o/r", PRNumber: 7}

	assert.False(t, base.GitHubEnabled(), "no credentials")

	withToken := base
	withToken.GitHubToken = "t"
	assert.True(t, withToken.GitHubEnabled())

	withApp := base
	withApp.GitHubAppID = 1
	assert.True(t, withApp.GitHubEnabled())

	noPR := withToken
	noPR.PRNumber = 0
	assert.False(t, noPR.GitHubEnabled())
}

func TestConfig_OwnerRepo(t *testing.T) {
	owner, repo, err := Config{GitHubRepository: "DataDog/integrations-core"}.OwnerRepo()
	require.NoError(t, err)
	assert.Equal(t, "DataDog", owner)
	assert.Equal(t, "integrations-core", repo)

	for _, bad := range []string{"", "nodash", "/repo", "owner/", "a/b/c"} {
		_, _, err := Config{GitHubRepository: bad}.OwnerRepo()
		assert.Error(t, err, bad)
	}
}
