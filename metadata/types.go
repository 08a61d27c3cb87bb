// Package metadata defines the narrow capability interface the producer uses
// to ask a database handle about a table's primary key and to serialize a
// mutation for digest computation, without depending on the concrete
// wire-protocol version the handle was obtained from.
package metadata

// CQLType is the subset of CQL column types the producer knows how to map
// onto an AVRO schema. Unsupported types cause the owning table to be
// skipped rather than the process failing, whether the schema is caught
// before extraction, before delivery, or (defense in depth) in all of
// the above.
type CQLType string

const (
	TypeAscii     CQLType = "ascii"
	TypeText      CQLType = "text"
	TypeVarchar   CQLType = "varchar"
	TypeBoolean   CQLType = "boolean"
	TypeBlob      CQLType = "blob"
	TypeTinyint   CQLType = "tinyint"
	TypeSmallint  CQLType = "smallint"
	TypeInt       CQLType = "int"
	TypeBigint    CQLType = "bigint"
	TypeFloat     CQLType = "float"
	TypeDouble    CQLType = "double"
	TypeTimestamp CQLType = "timestamp"
	TypeDate      CQLType = "date"
	TypeTime      CQLType = "time"
	TypeUUID      CQLType = "uuid"
	TypeTimeUUID  CQLType = "timeuuid"
	TypeInet      CQLType = "inet"
)

// PKColumn describes one column that participates in a table's primary key.
type PKColumn struct {
	Name        string
	Type        CQLType
	Position    int  // 0-based position within its component (partition or clustering)
	Clustering  bool // false => partition key column
}

// TableMetadata is the capability interface the extractor and publisher need
// from a database handle. It deliberately narrows the wire-protocol surface
// down to what a CDC producer actually consumes, so a producer can run
// against either supported major version by swapping the concrete
// implementation rather than branching on version throughout the pipeline.
type TableMetadata interface {
	Keyspace() string
	Table() string
	PrimaryKey() []PKColumn
	// ComposeCell decodes a single primary-key column's raw byte
	// representation into a Go value suitable for AVRO encoding.
	ComposeCell(col PKColumn, raw []byte) (interface{}, error)
	// Serializer returns the wire serializer used to compute the digest of
	// mutations touching this table.
	Serializer() MutationSerializer
}

// MutationSerializer produces the canonical byte representation of a raw
// mutation, used only as digest input. The producer never needs to decode
// this representation, only to hash it consistently for a given wire
// protocol version.
type MutationSerializer interface {
	// Serialize appends the wire form of v (an opaque, version-specific
	// mutation handle) to dst and returns the extended slice.
	Serialize(dst []byte, v interface{}) ([]byte, error)
}
