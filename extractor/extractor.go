package extractor

import (
	"fmt"
	"time"

	"github.com/datastax/cassandra-source-connector/metadata"
	"github.com/datastax/cassandra-source-connector/mutation"
)

// ShouldSkip reports whether an entry at entryPos has already been
// delivered, based on the last durably marked offset. Entries at or before
// the current offset are re-reads from a segment that was only partially
// processed before a restart.
func ShouldSkip(current, entryPos mutation.CommitLogPosition) bool {
	return current.Compare(entryPos) >= 0
}

// Extract classifies pu and turns it into zero or more Mutation records.
// Unsupported partition types (counters, materialized views, secondary
// indexes), tables with an unsupported primary-key column type, and range
// tombstone entries yield no records and no error: they are legitimately
// not part of the producer's contract. A row with neither a liveness nor a
// deletion timestamp is emitted as an UPDATE.
func Extract(pu RawPartitionUpdate, tbl metadata.TableMetadata, pos mutation.CommitLogPosition, source mutation.SourceInfo) ([]mutation.Mutation, error) {
	pt := ClassifyPartition(pu)
	if !pt.Supported() {
		return nil, nil
	}

	if !metadata.IsSupported(tbl.PrimaryKey()) {
		return nil, nil
	}

	digest, err := computeDigest(pu, tbl)
	if err != nil {
		return nil, fmt.Errorf("extractor: compute digest: %w", err)
	}

	partitionCells, err := decodePartitionCells(pu, tbl)
	if err != nil {
		return nil, fmt.Errorf("extractor: decode partition key: %w", err)
	}

	source.Position = pos

	switch pt {
	case PartitionKeyRowDeletion:
		m := mutation.Mutation{
			Keyspace: pu.Keyspace(),
			Table:    pu.Table(),
			Op:       mutation.OpDelete,
			Row:      mutation.RowData{Cells: partitionCells},
			Source:   source,
			Digest:   digest,
		}
		m.Source.Timestamp = time.UnixMicro(pu.MaxTimestamp())
		return []mutation.Mutation{m}, nil

	case PartitionRowLevelModification:
		var out []mutation.Mutation
		for _, row := range pu.Rows() {
			rt := ClassifyRow(row)
			if rt == RowRangeTombstone || rt == RowUnknown {
				continue
			}

			clusteringCells, err := decodeClusteringCells(row, tbl)
			if err != nil {
				return nil, fmt.Errorf("extractor: decode clustering key: %w", err)
			}

			cells := make([]mutation.CellData, 0, len(partitionCells)+len(clusteringCells))
			cells = append(cells, partitionCells...)
			cells = append(cells, clusteringCells...)

			ts := pu.MaxTimestamp()
			if rt == RowDelete {
				if markedForDeleteAt, present := row.Deletion(); present {
					ts = markedForDeleteAt
				}
			}

			m := mutation.Mutation{
				Keyspace: pu.Keyspace(),
				Table:    pu.Table(),
				Op:       rowTypeToOperation(rt),
				Row:      mutation.RowData{Cells: cells},
				Source:   source,
				Digest:   digest,
			}
			m.Source.Timestamp = time.UnixMicro(ts)
			out = append(out, m)
		}
		return out, nil

	default:
		return nil, nil
	}
}

func rowTypeToOperation(rt RowType) mutation.Operation {
	switch rt {
	case RowInsert:
		return mutation.OpInsert
	case RowUpdate:
		return mutation.OpUpdate
	case RowDelete:
		return mutation.OpDelete
	default:
		return mutation.OpUpdate
	}
}

func computeDigest(pu RawPartitionUpdate, tbl metadata.TableMetadata) ([16]byte, error) {
	serialized, err := pu.Serialize(nil)
	if err != nil {
		return [16]byte{}, err
	}
	tagged, err := tbl.Serializer().Serialize(nil, serialized)
	if err != nil {
		return [16]byte{}, err
	}
	return Digest(tagged), nil
}

func decodePartitionCells(pu RawPartitionUpdate, tbl metadata.TableMetadata) ([]mutation.CellData, error) {
	var partitionCols []metadata.PKColumn
	for _, c := range tbl.PrimaryKey() {
		if !c.Clustering {
			partitionCols = append(partitionCols, c)
		}
	}

	parts, err := DecomposeCompositeKey(pu.PartitionKeyBytes(), len(partitionCols))
	if err != nil {
		return nil, err
	}

	cells := make([]mutation.CellData, 0, len(partitionCols))
	for i, col := range partitionCols {
		if i >= len(parts) {
			break
		}
		val, err := tbl.ComposeCell(col, parts[i])
		if err != nil {
			return nil, err
		}
		cells = append(cells, mutation.CellData{Name: col.Name, Value: val, Kind: mutation.PartitionKey})
	}
	return cells, nil
}

func decodeClusteringCells(row RawRow, tbl metadata.TableMetadata) ([]mutation.CellData, error) {
	var clusteringCols []metadata.PKColumn
	for _, c := range tbl.PrimaryKey() {
		if c.Clustering {
			clusteringCols = append(clusteringCols, c)
		}
	}

	raw := row.ClusteringValues()
	cells := make([]mutation.CellData, 0, len(clusteringCols))
	for i, col := range clusteringCols {
		if i >= len(raw) {
			break
		}
		val, err := tbl.ComposeCell(col, raw[i])
		if err != nil {
			return nil, err
		}
		cells = append(cells, mutation.CellData{Name: col.Name, Value: val, Kind: mutation.ClusteringKey})
	}
	return cells, nil
}
