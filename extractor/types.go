// Package extractor turns a parsed commit-log mutation into the Mutation
// records the delivery loop publishes. It never reads bytes off disk
// itself; a caller-supplied parser hands it decoded partition updates
// through the RawPartitionUpdate/RawRow interfaces below.
package extractor

import "math"

// NoTimestamp is the sentinel Cassandra uses to mean "no liveness/deletion
// timestamp set", mirroring LivenessInfo.NO_TIMESTAMP.
const NoTimestamp int64 = math.MinInt64

// PartitionType classifies what kind of change a partition update
// represents, in the same priority order the original commit-log reader
// uses: the first matching classification wins.
type PartitionType uint8

const (
	PartitionCounter PartitionType = iota
	PartitionMaterializedView
	PartitionSecondaryIndex
	PartitionAndClusteringKeyRowDeletion
	PartitionKeyRowDeletion
	PartitionRowLevelModification
)

func (t PartitionType) String() string {
	switch t {
	case PartitionCounter:
		return "COUNTER"
	case PartitionMaterializedView:
		return "MATERIALIZED_VIEW"
	case PartitionSecondaryIndex:
		return "SECONDARY_INDEX"
	case PartitionAndClusteringKeyRowDeletion:
		return "PARTITION_AND_CLUSTERING_KEY_ROW_DELETION"
	case PartitionKeyRowDeletion:
		return "PARTITION_KEY_ROW_DELETION"
	case PartitionRowLevelModification:
		return "ROW_LEVEL_MODIFICATION"
	default:
		return "UNKNOWN"
	}
}

// Supported reports whether mutations of this partition type are ones the
// producer knows how to turn into row-level events. Counter tables,
// materialized views and secondary index backing tables are intentionally
// out of scope.
func (t PartitionType) Supported() bool {
	return t == PartitionKeyRowDeletion || t == PartitionRowLevelModification
}

// RowType classifies a single unfiltered row-level entry within a
// supported partition update.
type RowType uint8

const (
	RowRangeTombstone RowType = iota
	RowDelete
	RowInsert
	RowUpdate
	RowUnknown
)

func (t RowType) String() string {
	switch t {
	case RowRangeTombstone:
		return "RANGE_TOMBSTONE"
	case RowDelete:
		return "DELETE"
	case RowInsert:
		return "INSERT"
	case RowUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// RawPartitionUpdate is what an external commit-log parser hands the
// extractor for each partition touched by a mutation. It exposes only the
// facts classification and key decoding need, not the full mutation AST.
type RawPartitionUpdate interface {
	Keyspace() string
	Table() string
	IsCounterTable() bool
	IsViewTable() bool
	IsSecondaryIndexTable() bool
	HasClusteringColumns() bool
	// PartitionDeletion returns the partition-level deletion timestamp
	// (micros) and whether one is present at all.
	PartitionDeletion() (markedForDeleteAt int64, present bool)
	MaxTimestamp() int64 // micros
	PartitionKeyBytes() []byte
	Rows() []RawRow
	// Serialize appends this update's wire form to dst, for digest input.
	Serialize(dst []byte) ([]byte, error)
}

// RawRow is a single unfiltered row-level entry within a partition update.
type RawRow interface {
	IsRangeTombstoneMarker() bool
	// Deletion returns the row's own deletion timestamp (micros) and
	// whether the row carries one.
	Deletion() (markedForDeleteAt int64, present bool)
	// LivenessTimestamp returns the row's liveness timestamp (micros), or
	// NoTimestamp if the row has none (a plain update with no new insert).
	LivenessTimestamp() int64
	// ClusteringValues returns the raw bytes of each clustering column, in
	// clustering order.
	ClusteringValues() [][]byte
}
