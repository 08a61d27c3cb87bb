package metadata

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"
	"strings"

	"github.com/datastax/cassandra-source-connector/cdcerrors"
	"github.com/google/uuid"
)

// composeValue turns raw bytes for a primary-key column of the given CQL
// type into a Go value. Both supported wire-protocol versions decode
// primary-key cells identically; only the mutation serializer used for
// digest computation differs between them.
func composeValue(t CQLType, raw []byte) (interface{}, error) {
	switch t {
	case TypeAscii, TypeText, TypeVarchar:
		return string(raw), nil
	case TypeBoolean:
		if len(raw) < 1 {
			return nil, fmt.Errorf("metadata: boolean cell too short")
		}
		return raw[0] != 0, nil
	case TypeBlob:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case TypeTinyint:
		if len(raw) < 1 {
			return nil, fmt.Errorf("metadata: tinyint cell too short")
		}
		return int32(int8(raw[0])), nil
	case TypeSmallint:
		if len(raw) < 2 {
			return nil, fmt.Errorf("metadata: smallint cell too short")
		}
		return int32(int16(binary.BigEndian.Uint16(raw))), nil
	case TypeInt:
		if len(raw) < 4 {
			return nil, fmt.Errorf("metadata: int cell too short")
		}
		return int32(binary.BigEndian.Uint32(raw)), nil
	case TypeBigint, TypeTimestamp:
		if len(raw) < 8 {
			return nil, fmt.Errorf("metadata: bigint cell too short")
		}
		return int64(binary.BigEndian.Uint64(raw)), nil
	case TypeFloat:
		if len(raw) < 4 {
			return nil, fmt.Errorf("metadata: float cell too short")
		}
		return math.Float32frombits(binary.BigEndian.Uint32(raw)), nil
	case TypeDouble:
		if len(raw) < 8 {
			return nil, fmt.Errorf("metadata: double cell too short")
		}
		return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
	case TypeDate:
		if len(raw) < 4 {
			return nil, fmt.Errorf("metadata: date cell too short")
		}
		// Cassandra encodes DATE as days since epoch offset by 2^31.
		return int32(binary.BigEndian.Uint32(raw) - (1 << 31)), nil
	case TypeTime:
		if len(raw) < 8 {
			return nil, fmt.Errorf("metadata: time cell too short")
		}
		nanosOfDay := int64(binary.BigEndian.Uint64(raw))
		// Narrow to millis-of-day so the value fits the AVRO int (32-bit)
		// field cqlToAvro maps TypeTime onto; nanos-of-day overflows int32.
		return int32(nanosOfDay / 1_000_000), nil
	case TypeUUID, TypeTimeUUID:
		id, err := uuid.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("metadata: bad uuid cell: %w", err)
		}
		return id.String(), nil
	case TypeInet:
		return net.IP(raw).String(), nil
	default:
		return nil, fmt.Errorf("metadata: %w %q", cdcerrors.ErrUnsupportedColumnType, t)
	}
}

// IsSupported reports whether every primary-key column of cols has a known
// AVRO mapping. Tables with any unsupported PK column type are skipped by
// the extractor, the reader, and the publisher rather than failing the
// segment that references them.
func IsSupported(cols []PKColumn) bool {
	for _, c := range cols {
		switch c.Type {
		case TypeAscii, TypeText, TypeVarchar, TypeBoolean, TypeBlob, TypeTinyint,
			TypeSmallint, TypeInt, TypeBigint, TypeFloat, TypeDouble, TypeTimestamp,
			TypeDate, TypeTime, TypeUUID, TypeTimeUUID, TypeInet:
			continue
		default:
			return false
		}
	}
	return true
}

// QualifiedName returns "<keyspace>.<table>", the key used to index
// per-table schema and producer caches.
func QualifiedName(keyspace, table string) string {
	var b strings.Builder
	b.Grow(len(keyspace) + len(table) + 1)
	b.WriteString(keyspace)
	b.WriteByte('.')
	b.WriteString(table)
	return b.String()
}
