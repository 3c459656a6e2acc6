package download

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspace(t *testing.T) {
	root := filepath.Join(t.TempDir(), "scratch")

	ws, err := NewWorkspace(root, "job1", nil)
	require.NoError(t, err)
	assert.DirExists(t, ws.Dir)
	assert.Equal(t, root, filepath.Dir(ws.Dir))
	assert.True(t, strings.HasPrefix(filepath.Base(ws.Dir), "justpaste-job1-"))
	assert.Equal(t, filepath.Join(ws.Dir, "dl.%(ext)s"), ws.OutputTemplate())
}

func TestNewWorkspace_Distinct(t *testing.T) {
	root := t.TempDir()

	a, err := NewWorkspace(root, "same", nil)
	require.NoError(t, err)
	b, err := NewWorkspace(root, "same", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Dir, b.Dir)
}

func TestNewWorkspace_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, nil, 0o644))

	_, err := NewWorkspace(root, "job", nil)
	assert.ErrorIs(t, err, ErrWorkspace)
}

func TestWorkspace_Release(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), "job", nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(ws.Dir, "dl.mp4"), []byte("x"), 0o644))

	ws.Release()
	assert.NoDirExists(t, ws.Dir)

	// Second call is a no-op.
	ws.Release()
	assert.NoDirExists(t, ws.Dir)
}

func TestSweepStale(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)

	stale := filepath.Join(root, "justpaste-old-1")
	require.NoError(t, os.Mkdir(stale, 0o755))
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(root, "justpaste-new-1")
	require.NoError(t, os.Mkdir(fresh, 0o755))

	foreign := filepath.Join(root, "someone-else")
	require.NoError(t, os.Mkdir(foreign, 0o755))
	require.NoError(t, os.Chtimes(foreign, old, old))

	n, err := SweepStale(root, time.Hour, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh)
	assert.DirExists(t, foreign)
}

func TestSweepStale_MissingRoot(t *testing.T) {
	n, err := SweepStale(filepath.Join(t.TempDir(), "nope"), time.Hour, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepStale_SkipsLiveWorkspace(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)

	ws, err := NewWorkspace(root, "running", nil)
	require.NoError(t, err)
	t.Cleanup(ws.Release)
	require.NoError(t, os.Chtimes(ws.Dir, old, old))

	n, err := SweepStale(root, time.Hour, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.DirExists(t, ws.Dir)

	// Once released, an identically aged leftover is fair game.
	ws.Release()
	require.NoError(t, os.Mkdir(ws.Dir, 0o755))
	require.NoError(t, os.Chtimes(ws.Dir, old, old))

	n, err = SweepStale(root, time.Hour, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoDirExists(t, ws.Dir)
}
