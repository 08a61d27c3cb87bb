package reader

import (
	"errors"
	"fmt"

	"github.com/datastax/cassandra-source-connector/commitlog"
	"github.com/datastax/cassandra-source-connector/extractor"
	"github.com/datastax/cassandra-source-connector/metadata"
	"github.com/datastax/cassandra-source-connector/mutation"
	"github.com/datastax/cassandra-source-connector/offset"
	"github.com/datastax/cassandra-source-connector/transfer"
	"github.com/rs/zerolog"
)

// errAborted is returned internally when Deliver reports the process is
// shutting down; it is never surfaced to callers or the transfer policy.
var errAborted = errors.New("reader: delivery aborted")

// TableLookup resolves a keyspace/table pair to its metadata handle.
// Tables not found here (dropped, or never registered) are silently
// skipped rather than treated as an error: a commit log can reference
// tables the producer was never configured to care about.
type TableLookup func(keyspace, table string) (metadata.TableMetadata, bool)

// Deliverer publishes m and blocks until it's durably delivered, or
// returns false if the caller should stop because the process is
// shutting down.
type Deliverer func(m mutation.Mutation) bool

// Reader processes commit-log segments one at a time.
type Reader struct {
	Dir      string
	Parser   SegmentParser
	Offset   offset.Store
	Tables   TableLookup
	Deliver  Deliverer
	Transfer transfer.Policy
	Classify ErrorClassifier
	Source   mutation.SourceInfo // template; Position is overwritten per mutation
	Log      zerolog.Logger

	// OnSkippedMutation, if set, is called once for every entry that
	// belongs to a known table but whose primary-key schema the producer
	// cannot decode (an unsupported CQL type). Optional.
	OnSkippedMutation func()
}

// ProcessSegment parses seg from the last durably-marked position (if it's
// the segment currently being resumed) or from the start, extracts and
// delivers every mutation it contains, and hands the file to the transfer
// policy once done.
func (r *Reader) ProcessSegment(seg commitlog.Segment) error {
	path := seg.Path(r.Dir)

	current, err := r.Offset.Load()
	if err != nil {
		return fmt.Errorf("reader: load offset: %w", err)
	}

	var startPosition int32
	if current.SegmentID == seg.SegmentID {
		startPosition = current.Position
	}

	classify := r.Classify
	if classify == nil {
		classify = AlwaysNonPermissible
	}

	aborted := false
	parseErr := r.Parser.Parse(path, startPosition, func(pu extractor.RawPartitionUpdate, entryLocation int32) error {
		entryPos := mutation.CommitLogPosition{SegmentID: seg.SegmentID, Position: entryLocation}
		if extractor.ShouldSkip(current, entryPos) {
			return nil
		}

		tbl, ok := r.Tables(pu.Keyspace(), pu.Table())
		if !ok {
			return nil
		}

		if !metadata.IsSupported(tbl.PrimaryKey()) {
			if r.OnSkippedMutation != nil {
				r.OnSkippedMutation()
			}
			return nil
		}

		muts, err := extractor.Extract(pu, tbl, entryPos, r.Source)
		if err != nil {
			return fmt.Errorf("extract mutation at %s: %w", entryPos, err)
		}

		for _, m := range muts {
			if !r.Deliver(m) {
				aborted = true
				return errAborted
			}
		}
		return nil
	})

	if aborted {
		return nil
	}

	if parseErr != nil {
		if classify(parseErr) {
			r.Log.Warn().Err(parseErr).Str("segment", seg.Name).Msg("permissible parse error, moving on")
			if terr := r.Transfer.OnSuccess(path); terr != nil {
				return fmt.Errorf("reader: transfer completed segment: %w", terr)
			}
			return nil
		}
		r.Log.Error().Err(parseErr).Str("segment", seg.Name).Msg("non-permissible parse error, quarantining segment")
		if terr := r.Transfer.OnError(path); terr != nil {
			return fmt.Errorf("reader: transfer error segment: %w", terr)
		}
		return parseErr
	}

	if terr := r.Transfer.OnSuccess(path); terr != nil {
		return fmt.Errorf("reader: transfer completed segment: %w", terr)
	}
	return nil
}
