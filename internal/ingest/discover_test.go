package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscoverFindsSupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.pdf"))
	writeFile(t, filepath.Join(root, "sub", "a.PNG"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"))
	writeFile(t, filepath.Join(root, ".secret.png"))

	paths, stats, err := Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "sub", "a.PNG"),
		filepath.Join(root, "z.pdf"),
	}, paths)
	assert.Equal(t, uint32(3), stats.Scanned)
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(1), stats.Skipped)
}

func TestDiscoverRequiresRoot(t *testing.T) {
	_, _, err := Discover(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root path is required")
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, _, err := Discover(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestDiscoverCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Discover(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}
