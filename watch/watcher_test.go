package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPollReportsExistingSegmentsOnFirstCall(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CommitLog-7-1.log"), []byte("abc"), 0o644))

	w := NewWatcher(dir, time.Second)
	events, err := w.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestPollDebouncesUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CommitLog-7-1.log"), []byte("abc"), 0o644))

	w := NewWatcher(dir, time.Second)
	_, err := w.Poll()
	require.NoError(t, err)

	events, err := w.Poll()
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestPollReportsGrowth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CommitLog-7-1.log")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	w := NewWatcher(dir, time.Second)
	_, err := w.Poll()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o644))

	events, err := w.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
}
