package metadata

import "fmt"

// TableSpec is the static description of one table the producer watches,
// as supplied by configuration rather than discovered live from the
// database (schema discovery over a driver connection is out of scope).
type TableSpec struct {
	Keyspace       string
	Table          string
	ProtocolMajor  int // 4 or 5, selects V4Table vs V5Table
	PrimaryKey     []PKColumn
}

// BuildRegistry constructs the keyspace.table -> TableMetadata lookup used
// by the reader from a static list of table specs.
func BuildRegistry(specs []TableSpec) (map[string]TableMetadata, error) {
	registry := make(map[string]TableMetadata, len(specs))
	for _, s := range specs {
		var tbl TableMetadata
		switch s.ProtocolMajor {
		case 4:
			tbl = NewV4Table(s.Keyspace, s.Table, s.PrimaryKey)
		case 5:
			tbl = NewV5Table(s.Keyspace, s.Table, s.PrimaryKey)
		default:
			return nil, fmt.Errorf("metadata: unsupported protocol major version %d for %s", s.ProtocolMajor, QualifiedName(s.Keyspace, s.Table))
		}
		registry[QualifiedName(s.Keyspace, s.Table)] = tbl
	}
	return registry, nil
}

// Lookup adapts a registry map into the reader's TableLookup signature.
func Lookup(registry map[string]TableMetadata) func(keyspace, table string) (TableMetadata, bool) {
	return func(keyspace, table string) (TableMetadata, bool) {
		tbl, ok := registry[QualifiedName(keyspace, table)]
		return tbl, ok
	}
}
