// Package reader drives a single commit-log segment through an external
// parser, the extractor, and the delivery loop, one segment at a time.
// Parsing the Cassandra commit-log binary format itself is out of scope:
// SegmentParser is the seam a caller plugs a real parser into.
package reader

import "github.com/datastax/cassandra-source-connector/extractor"

// MutationHandler is invoked by a SegmentParser for every partition update
// found in a segment, along with the byte offset within the segment file
// where that update begins.
type MutationHandler func(pu extractor.RawPartitionUpdate, entryLocation int32) error

// SegmentParser reads a commit-log segment starting at startPosition and
// invokes handle for each partition update it decodes.
type SegmentParser interface {
	Parse(segPath string, startPosition int32, handle MutationHandler) error
}

// ErrorClassifier distinguishes parse failures the reader can shrug off
// (log and move on to the next segment) from ones serious enough to
// quarantine the segment. What counts as permissible is inherently
// specific to the wire format a concrete parser understands, so it's
// supplied by the caller rather than hard-coded here.
type ErrorClassifier func(err error) (permissible bool)

// AlwaysNonPermissible treats every parse error as segment-ending, the
// conservative default when no finer classification is available.
func AlwaysNonPermissible(error) bool { return false }
