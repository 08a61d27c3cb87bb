// Package offset persists the single monotonic cursor that tells the
// detector and reader where to resume after a restart. Durability is
// delegated to a pluggable backend so the same pipeline code runs whether
// the cursor lives in a flat file or an embedded key-value store.
package offset

import "github.com/datastax/cassandra-source-connector/mutation"

// Store loads and advances the producer's single durable cursor. Mark
// advances the cursor to max(current, pos): a position at or behind the
// current cursor is accepted and leaves it unchanged, so callers may mark
// the same position more than once.
type Store interface {
	// Load returns the last durably marked position, or the zero position
	// if none has ever been marked.
	Load() (mutation.CommitLogPosition, error)
	// Mark durably records pos as the new cursor. It must not return until
	// pos is safely persisted.
	Mark(pos mutation.CommitLogPosition) error
	Close() error
}
