// Package mutation defines the row-level change record produced by the
// extractor and carried through the delivery loop to the bus client.
package mutation

import (
	"fmt"
	"time"
)

// Operation identifies the kind of row-level change a Mutation represents.
type Operation uint8

const (
	OpInsert Operation = iota
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpInsert:
		return "INSERT"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// CellKind distinguishes primary-key column roles inside a RowData.
type CellKind uint8

const (
	PartitionKey CellKind = iota
	ClusteringKey
)

// CellData is a single decoded primary-key column value.
type CellData struct {
	Name  string
	Value interface{}
	Kind  CellKind
}

// RowData holds the decoded primary key of the row a mutation applies to.
// Non-key columns are never carried; the bus payload only needs enough to
// identify the row plus the operation and its digest.
type RowData struct {
	Cells []CellData
}

// PartitionValues returns the decoded partition-key cell values in column order.
func (r RowData) PartitionValues() []CellData {
	out := make([]CellData, 0, len(r.Cells))
	for _, c := range r.Cells {
		if c.Kind == PartitionKey {
			out = append(out, c)
		}
	}
	return out
}

// ClusteringValues returns the decoded clustering-key cell values in column order.
func (r RowData) ClusteringValues() []CellData {
	out := make([]CellData, 0, len(r.Cells))
	for _, c := range r.Cells {
		if c.Kind == ClusteringKey {
			out = append(out, c)
		}
	}
	return out
}

// CommitLogPosition is the monotonic cursor into the commit-log stream:
// the numeric id of the segment file plus a byte offset within it. Positions
// are ordered lexicographically by (SegmentID, Position).
type CommitLogPosition struct {
	SegmentID uint64
	Position  int32
}

// Compare returns -1, 0 or 1 as p is less than, equal to, or greater than o.
func (p CommitLogPosition) Compare(o CommitLogPosition) int {
	if p.SegmentID != o.SegmentID {
		if p.SegmentID < o.SegmentID {
			return -1
		}
		return 1
	}
	if p.Position != o.Position {
		if p.Position < o.Position {
			return -1
		}
		return 1
	}
	return 0
}

func (p CommitLogPosition) String() string {
	return fmt.Sprintf("%d:%d", p.SegmentID, p.Position)
}

// SourceInfo identifies the origin cluster/node/commit-log position a
// mutation was extracted from.
type SourceInfo struct {
	ClusterName string
	NodeUUID    string
	Position    CommitLogPosition
	Timestamp   time.Time
}

// Mutation is a single row-level change extracted from a commit-log mutation.
// All Mutation records derived from one partition update share the same
// Digest and the same Source.Position (e.g. a write touching several rows
// of one partition); records from different partition updates of one
// multi-partition Cassandra mutation get different digests.
type Mutation struct {
	Keyspace  string
	Table     string
	Op        Operation
	Row       RowData
	Source    SourceInfo
	Digest    [16]byte // MD5 of the partition update's serialized wire form
}

// MutationValue is the payload shape handed to the bus client: everything
// except the key columns, which travel in the message key instead. Its
// three fields map directly onto the AVRO value record's md5Digest, nodeId,
// and operation fields.
type MutationValue struct {
	MD5Digest string
	NodeID    string
	Operation string
}
