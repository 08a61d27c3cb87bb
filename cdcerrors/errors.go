// Package cdcerrors names the error conditions the producer's error-handling
// design distinguishes, so callers can branch on error identity (via
// errors.Is) instead of matching on message strings.
package cdcerrors

import "errors"

var (
	// ErrSegmentNotFound names a segment queued for processing that no
	// longer exists on disk (recycled or removed out from under the
	// reader). No code path in this module returns it.
	ErrSegmentNotFound = errors.New("cdcerrors: commit-log segment not found")

	// ErrUnsupportedPartitionType marks a partition update the extractor
	// intentionally does not turn into a mutation (counter, view, index).
	// extractor.Extract returns no error for such updates, so no code path
	// in this module returns it.
	ErrUnsupportedPartitionType = errors.New("cdcerrors: unsupported partition type")

	// ErrUnsupportedColumnType marks a primary-key column type with no
	// AVRO mapping; the owning table is skipped rather than the process
	// failing.
	ErrUnsupportedColumnType = errors.New("cdcerrors: unsupported primary-key column type")

	// ErrMalformedCompositeKey is returned when a composite partition key
	// cannot be decomposed into its declared columns.
	ErrMalformedCompositeKey = errors.New("cdcerrors: malformed composite partition key")

	// ErrNonPermissibleParseError marks a commit-log parse failure serious
	// enough that the segment is moved to the error directory instead of
	// being retried in place.
	ErrNonPermissibleParseError = errors.New("cdcerrors: non-permissible commit-log parse error")

	// ErrOffsetCorrupt is returned by an offset.Store when its persisted
	// cursor cannot be parsed.
	ErrOffsetCorrupt = errors.New("cdcerrors: offset store contents are corrupt")

	// ErrBusUnavailable names a bus client send failure. The bus drivers
	// and the publisher return their own wrapped errors instead of this
	// one; the delivery loop retries any send error.
	ErrBusUnavailable = errors.New("cdcerrors: bus client unavailable")

	// ErrProducerClosed names an operation attempted after Close has been
	// called on the owning component. No code path in this module returns
	// it.
	ErrProducerClosed = errors.New("cdcerrors: producer is closed")
)
