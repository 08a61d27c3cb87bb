package offset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/datastax/cassandra-source-connector/cdcerrors"
	"github.com/datastax/cassandra-source-connector/mutation"
)

// FileStore persists the cursor as "<segmentId>:<position>" in a single
// file, written via write-temp-then-rename so a crash mid-write can never
// leave a half-written cursor behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (without yet reading) the cursor file at path,
// creating its parent directory if necessary.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("offset: create offset dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() (mutation.CommitLogPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *FileStore) load() (mutation.CommitLogPosition, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return mutation.CommitLogPosition{}, nil
	}
	if err != nil {
		return mutation.CommitLogPosition{}, fmt.Errorf("offset: read %s: %w", s.path, err)
	}

	return parseOffset(strings.TrimSpace(string(data)))
}

// Mark advances the cursor to max(current, pos), reading and writing under
// the same lock so Load never observes a torn or regressed value.
func (s *FileStore) Mark(pos mutation.CommitLogPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	if pos.Compare(current) <= 0 {
		return nil
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(pos.String()), 0o644); err != nil {
		return fmt.Errorf("offset: write temp offset: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("offset: rename temp offset: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func parseOffset(s string) (mutation.CommitLogPosition, error) {
	if s == "" {
		return mutation.CommitLogPosition{}, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return mutation.CommitLogPosition{}, fmt.Errorf("offset: %w: malformed offset %q", cdcerrors.ErrOffsetCorrupt, s)
	}
	segID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return mutation.CommitLogPosition{}, fmt.Errorf("offset: %w: bad segment id in %q: %w", cdcerrors.ErrOffsetCorrupt, s, err)
	}
	pos, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return mutation.CommitLogPosition{}, fmt.Errorf("offset: %w: bad position in %q: %w", cdcerrors.ErrOffsetCorrupt, s, err)
	}
	return mutation.CommitLogPosition{SegmentID: segID, Position: int32(pos)}, nil
}
