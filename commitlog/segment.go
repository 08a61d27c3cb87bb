// Package commitlog understands the naming and ordering of Cassandra
// commit-log segment files and their CDC index sidecars, independent of
// how they're discovered or read.
package commitlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes a segment's own log file from its near-real-time CDC
// index sidecar.
type Kind uint8

const (
	KindLog Kind = iota
	KindCDCIndex
)

const (
	logSuffix   = ".log"
	idxSuffix   = "_cdc.idx"
	filePrefix  = "CommitLog-"
)

// Segment identifies one commit-log file by its numeric segment id and
// whether it's the log itself or its CDC index sidecar.
type Segment struct {
	SegmentID uint64
	Kind      Kind
	Name      string // base filename, as found on disk
}

// Parse extracts a Segment from a commit-log directory entry's base name.
// Recognized shapes are "CommitLog-<version>-<segmentId>.log" and
// "<segmentId>_cdc.idx". Anything else is not a commit-log artifact.
func Parse(name string) (Segment, bool) {
	switch {
	case strings.HasSuffix(name, idxSuffix):
		idPart := strings.TrimSuffix(name, idxSuffix)
		id, err := strconv.ParseUint(idPart, 10, 64)
		if err != nil {
			return Segment{}, false
		}
		return Segment{SegmentID: id, Kind: KindCDCIndex, Name: name}, true

	case strings.HasSuffix(name, logSuffix) && strings.HasPrefix(name, filePrefix):
		trimmed := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), logSuffix)
		parts := strings.Split(trimmed, "-")
		if len(parts) < 2 {
			return Segment{}, false
		}
		id, err := strconv.ParseUint(parts[len(parts)-1], 10, 64)
		if err != nil {
			return Segment{}, false
		}
		return Segment{SegmentID: id, Kind: KindLog, Name: name}, true

	default:
		return Segment{}, false
	}
}

// Compare orders segments by segment id first, then by kind, with the
// ".log" file for a given id ordered before its "_cdc.idx" sidecar so a
// segment's data is always processed before the index that confirms it as
// CDC-complete.
func Compare(a, b Segment) int {
	if a.SegmentID != b.SegmentID {
		if a.SegmentID < b.SegmentID {
			return -1
		}
		return 1
	}
	if a.Kind == b.Kind {
		return 0
	}
	if a.Kind == KindLog {
		return -1
	}
	return 1
}

func (s Segment) String() string {
	kind := "log"
	if s.Kind == KindCDCIndex {
		kind = "cdc.idx"
	}
	return fmt.Sprintf("segment(%d,%s,%s)", s.SegmentID, kind, s.Name)
}
