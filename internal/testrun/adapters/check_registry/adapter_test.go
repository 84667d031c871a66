package checkregistry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestableChecks(t *testing.T) {
	root := t.TempDir()

	mustWrite(t, filepath.Join(root, "redis", "tox.ini"))
	mustWrite(t, filepath.Join(root, "apache", "tox.ini"))
	mustWrite(t, filepath.Join(root, "docs", "index.md"))
	mustWrite(t, filepath.Join(root, "tox.ini"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "weird", "tox.ini"), 0o755))

	checks, err := New(root).TestableChecks(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"apache", "redis"}, checks)
}

func TestTestableChecks_MissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope")).TestableChecks(context.Background())

	assert.Error(t, err)
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[tox]\n"), 0o600))
}
