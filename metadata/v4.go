package metadata

// V4Table is the TableMetadata implementation for clusters running the
// pre-5.0 (VERSION_40-era) internode messaging protocol. It exists
// alongside V5Table instead of a single generic-typed implementation so the
// producer never needs a type parameter over the wire-protocol version: the
// caller picks the concrete handle once, at startup, based on the cluster
// it is attached to.
type V4Table struct {
	keyspace, table string
	pk              []PKColumn
}

// NewV4Table builds a V4Table handle for the given keyspace/table with the
// supplied primary-key column definitions, ordered partition columns first
// then clustering columns, each in its own component order.
func NewV4Table(keyspace, table string, pk []PKColumn) *V4Table {
	return &V4Table{keyspace: keyspace, table: table, pk: append([]PKColumn(nil), pk...)}
}

func (t *V4Table) Keyspace() string       { return t.keyspace }
func (t *V4Table) Table() string          { return t.table }
func (t *V4Table) PrimaryKey() []PKColumn { return t.pk }

func (t *V4Table) ComposeCell(col PKColumn, raw []byte) (interface{}, error) {
	return composeValue(col.Type, raw)
}

func (t *V4Table) Serializer() MutationSerializer { return v4Serializer{} }

// v4Serializer tags the serialized wire form with the VERSION_40 messaging
// version byte so digests computed against different protocol versions
// never collide even if the underlying bytes happen to match.
type v4Serializer struct{}

func (v4Serializer) Serialize(dst []byte, val interface{}) ([]byte, error) {
	return serializeTagged(dst, 0x0a, val)
}
