package reader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/datastax/cassandra-source-connector/commitlog"
	"github.com/datastax/cassandra-source-connector/extractor"
	"github.com/datastax/cassandra-source-connector/metadata"
	"github.com/datastax/cassandra-source-connector/mutation"
	"github.com/datastax/cassandra-source-connector/offset"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakePartitionUpdate struct {
	ks, table string
	pkBytes   []byte
	maxTS     int64
}

func (p fakePartitionUpdate) Keyspace() string                     { return p.ks }
func (p fakePartitionUpdate) Table() string                        { return p.table }
func (p fakePartitionUpdate) IsCounterTable() bool                 { return false }
func (p fakePartitionUpdate) IsViewTable() bool                    { return false }
func (p fakePartitionUpdate) IsSecondaryIndexTable() bool          { return false }
func (p fakePartitionUpdate) HasClusteringColumns() bool           { return false }
func (p fakePartitionUpdate) PartitionDeletion() (int64, bool)     { return 0, false }
func (p fakePartitionUpdate) MaxTimestamp() int64                  { return p.maxTS }
func (p fakePartitionUpdate) PartitionKeyBytes() []byte            { return p.pkBytes }
func (p fakePartitionUpdate) Rows() []extractor.RawRow             { return []extractor.RawRow{fakeRow{}} }
func (p fakePartitionUpdate) Serialize(dst []byte) ([]byte, error) { return append(dst, p.pkBytes...), nil }

type fakeRow struct{}

func (fakeRow) IsRangeTombstoneMarker() bool { return false }
func (fakeRow) Deletion() (int64, bool)      { return 0, false }
func (fakeRow) LivenessTimestamp() int64     { return 100 }
func (fakeRow) ClusteringValues() [][]byte   { return nil }

type fakeParser struct {
	updates []fakePartitionUpdate
	err     error
}

func (fp fakeParser) Parse(segPath string, startPosition int32, handle MutationHandler) error {
	for i, u := range fp.updates {
		if err := handle(u, int32(i+1)); err != nil {
			return err
		}
	}
	return fp.err
}

type fakeTransfer struct {
	successPaths []string
	errorPaths   []string
}

func (t *fakeTransfer) OnSuccess(path string) error { t.successPaths = append(t.successPaths, path); return nil }
func (t *fakeTransfer) OnError(path string) error   { t.errorPaths = append(t.errorPaths, path); return nil }

func setupSegment(t *testing.T) (string, commitlog.Segment) {
	dir := t.TempDir()
	name := "CommitLog-7-100.log"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	seg, ok := commitlog.Parse(name)
	require.True(t, ok)
	return dir, seg
}

func TestProcessSegmentDeliversAndArchives(t *testing.T) {
	dir, seg := setupSegment(t)
	store, err := offset.NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer store.Close()

	tbl := metadata.NewV4Table("ks", "tbl", []metadata.PKColumn{{Name: "id", Type: metadata.TypeText}})
	xfer := &fakeTransfer{}
	var delivered []mutation.Mutation

	r := &Reader{
		Dir:    dir,
		Parser: fakeParser{updates: []fakePartitionUpdate{{ks: "ks", table: "tbl", pkBytes: []byte("row-1"), maxTS: 1}}},
		Offset: store,
		Tables: func(ks, table string) (metadata.TableMetadata, bool) { return tbl, true },
		Deliver: func(m mutation.Mutation) bool {
			delivered = append(delivered, m)
			return true
		},
		Transfer: xfer,
		Log:      zerolog.Nop(),
	}

	require.NoError(t, r.ProcessSegment(seg))
	require.Len(t, delivered, 1)
	require.Len(t, xfer.successPaths, 1)
	require.Empty(t, xfer.errorPaths)
}

func TestProcessSegmentSkipsUnknownTable(t *testing.T) {
	dir, seg := setupSegment(t)
	store, err := offset.NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer store.Close()

	xfer := &fakeTransfer{}
	delivered := 0

	r := &Reader{
		Dir:      dir,
		Parser:   fakeParser{updates: []fakePartitionUpdate{{ks: "ks", table: "unknown", pkBytes: []byte("x"), maxTS: 1}}},
		Offset:   store,
		Tables:   func(ks, table string) (metadata.TableMetadata, bool) { return nil, false },
		Deliver:  func(m mutation.Mutation) bool { delivered++; return true },
		Transfer: xfer,
		Log:      zerolog.Nop(),
	}

	require.NoError(t, r.ProcessSegment(seg))
	require.Equal(t, 0, delivered)
	require.Len(t, xfer.successPaths, 1)
}

func TestProcessSegmentNonPermissibleErrorQuarantines(t *testing.T) {
	dir, seg := setupSegment(t)
	store, err := offset.NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer store.Close()

	xfer := &fakeTransfer{}
	r := &Reader{
		Dir:      dir,
		Parser:   fakeParser{err: errors.New("corrupt segment")},
		Offset:   store,
		Tables:   func(ks, table string) (metadata.TableMetadata, bool) { return nil, false },
		Deliver:  func(m mutation.Mutation) bool { return true },
		Transfer: xfer,
		Log:      zerolog.Nop(),
	}

	err = r.ProcessSegment(seg)
	require.Error(t, err)
	require.Len(t, xfer.errorPaths, 1)
	require.Empty(t, xfer.successPaths)
}

func TestProcessSegmentPermissibleErrorContinues(t *testing.T) {
	dir, seg := setupSegment(t)
	store, err := offset.NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer store.Close()

	xfer := &fakeTransfer{}
	r := &Reader{
		Dir:      dir,
		Parser:   fakeParser{err: errors.New("harmless trailing garbage")},
		Offset:   store,
		Tables:   func(ks, table string) (metadata.TableMetadata, bool) { return nil, false },
		Deliver:  func(m mutation.Mutation) bool { return true },
		Transfer: xfer,
		Classify: func(error) bool { return true },
		Log:      zerolog.Nop(),
	}

	require.NoError(t, r.ProcessSegment(seg))
	require.Empty(t, xfer.errorPaths)
	require.Len(t, xfer.successPaths, 1)
}

func TestProcessSegmentSkipsUnsupportedColumnType(t *testing.T) {
	dir, seg := setupSegment(t)
	store, err := offset.NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer store.Close()

	tbl := metadata.NewV4Table("ks", "tbl", []metadata.PKColumn{{Name: "id", Type: "decimal"}})
	xfer := &fakeTransfer{}
	delivered := 0
	skipped := 0

	r := &Reader{
		Dir:               dir,
		Parser:            fakeParser{updates: []fakePartitionUpdate{{ks: "ks", table: "tbl", pkBytes: []byte("row-1"), maxTS: 1}}},
		Offset:            store,
		Tables:            func(ks, table string) (metadata.TableMetadata, bool) { return tbl, true },
		Deliver:           func(m mutation.Mutation) bool { delivered++; return true },
		Transfer:          xfer,
		OnSkippedMutation: func() { skipped++ },
		Log:               zerolog.Nop(),
	}

	require.NoError(t, r.ProcessSegment(seg))
	require.Equal(t, 0, delivered)
	require.Equal(t, 1, skipped)
	require.Len(t, xfer.successPaths, 1)
	require.Empty(t, xfer.errorPaths)
}

func TestProcessSegmentStopsOnDeliverAbort(t *testing.T) {
	dir, seg := setupSegment(t)
	store, err := offset.NewFileStore(filepath.Join(t.TempDir(), "offset"))
	require.NoError(t, err)
	defer store.Close()

	tbl := metadata.NewV4Table("ks", "tbl", []metadata.PKColumn{{Name: "id", Type: metadata.TypeText}})
	xfer := &fakeTransfer{}

	r := &Reader{
		Dir:      dir,
		Parser:   fakeParser{updates: []fakePartitionUpdate{{ks: "ks", table: "tbl", pkBytes: []byte("row-1"), maxTS: 1}}},
		Offset:   store,
		Tables:   func(ks, table string) (metadata.TableMetadata, bool) { return tbl, true },
		Deliver:  func(m mutation.Mutation) bool { return false },
		Transfer: xfer,
		Log:      zerolog.Nop(),
	}

	require.NoError(t, r.ProcessSegment(seg))
	require.Empty(t, xfer.successPaths)
	require.Empty(t, xfer.errorPaths)
}
