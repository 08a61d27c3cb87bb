package offset

import (
	"path/filepath"
	"testing"

	"github.com/datastax/cassandra-source-connector/mutation"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLoadMissingReturnsZero(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer s.Close()

	pos, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, mutation.CommitLogPosition{}, pos)
}

func TestFileStoreMarkThenLoad(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer s.Close()

	want := mutation.CommitLogPosition{SegmentID: 7, Position: 128}
	require.NoError(t, s.Mark(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offset")

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Mark(mutation.CommitLogPosition{SegmentID: 3, Position: 99}))
	require.NoError(t, s1.Close())

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, mutation.CommitLogPosition{SegmentID: 3, Position: 99}, got)
}

func TestPebbleStoreMarkThenLoad(t *testing.T) {
	s, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	want := mutation.CommitLogPosition{SegmentID: 11, Position: 4096}
	require.NoError(t, s.Mark(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFileStoreMarkIgnoresRegression(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Mark(mutation.CommitLogPosition{SegmentID: 5, Position: 200}))
	require.NoError(t, s.Mark(mutation.CommitLogPosition{SegmentID: 5, Position: 50}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, mutation.CommitLogPosition{SegmentID: 5, Position: 200}, got)
}

func TestPebbleStoreMarkIgnoresRegression(t *testing.T) {
	s, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Mark(mutation.CommitLogPosition{SegmentID: 5, Position: 200}))
	require.NoError(t, s.Mark(mutation.CommitLogPosition{SegmentID: 5, Position: 50}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, mutation.CommitLogPosition{SegmentID: 5, Position: 200}, got)
}

func TestParseOffsetMalformed(t *testing.T) {
	_, err := parseOffset("not-a-valid-offset")
	require.Error(t, err)
}
