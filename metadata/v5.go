package metadata

// V5Table is the TableMetadata implementation for clusters running the
// 5.0+ internode messaging protocol. Its primary-key decoding is identical
// to V4Table; only the digest serializer differs.
type V5Table struct {
	keyspace, table string
	pk              []PKColumn
}

// NewV5Table builds a V5Table handle for the given keyspace/table.
func NewV5Table(keyspace, table string, pk []PKColumn) *V5Table {
	return &V5Table{keyspace: keyspace, table: table, pk: append([]PKColumn(nil), pk...)}
}

func (t *V5Table) Keyspace() string       { return t.keyspace }
func (t *V5Table) Table() string          { return t.table }
func (t *V5Table) PrimaryKey() []PKColumn { return t.pk }

func (t *V5Table) ComposeCell(col PKColumn, raw []byte) (interface{}, error) {
	return composeValue(col.Type, raw)
}

func (t *V5Table) Serializer() MutationSerializer { return v5Serializer{} }

type v5Serializer struct{}

func (v5Serializer) Serialize(dst []byte, val interface{}) ([]byte, error) {
	return serializeTagged(dst, 0x0c, val)
}
