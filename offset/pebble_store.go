package offset

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/datastax/cassandra-source-connector/mutation"
)

// cursorKey is the single key under which the cursor lives; a producer only
// ever tracks one logical stream, so there is no need for a keyspace.
var cursorKey = []byte("cdc/cursor")

// PebbleStore persists the cursor in an embedded pebble database instead of
// a flat file. It exists so operators running the producer alongside other
// pebble-backed tooling can share the durability story instead of adding a
// second on-disk format.
type PebbleStore struct {
	mu sync.Mutex
	db *pebble.DB
}

// NewPebbleStore opens (creating if absent) a pebble database at dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("offset: open pebble store at %s: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Load() (mutation.CommitLogPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *PebbleStore) load() (mutation.CommitLogPosition, error) {
	val, closer, err := s.db.Get(cursorKey)
	if err == pebble.ErrNotFound {
		return mutation.CommitLogPosition{}, nil
	}
	if err != nil {
		return mutation.CommitLogPosition{}, fmt.Errorf("offset: pebble get: %w", err)
	}
	defer closer.Close()

	return parseOffset(string(val))
}

// Mark advances the cursor to max(current, pos), reading and writing under
// the same lock so Load never observes a regressed value.
func (s *PebbleStore) Mark(pos mutation.CommitLogPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	if pos.Compare(current) <= 0 {
		return nil
	}

	if err := s.db.Set(cursorKey, []byte(pos.String()), pebble.Sync); err != nil {
		return fmt.Errorf("offset: pebble set: %w", err)
	}
	return nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
