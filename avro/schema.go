// Package avro implements the minimal subset of the AVRO binary encoding
// the producer needs: deriving a record schema from a table's primary key
// and encoding key values against it. There is no ecosystem AVRO library in
// play here, so this is a deliberately small encode-only codec rather than
// a general-purpose implementation (see the project's grounding ledger for
// why this is the one place the producer falls back to a hand-written
// codec instead of a third-party dependency).
package avro

import (
	"fmt"

	"github.com/datastax/cassandra-source-connector/metadata"
)

// FieldType is the AVRO primitive or logical type a CQL column maps to.
type FieldType string

const (
	TString  FieldType = "string"
	TBoolean FieldType = "boolean"
	TBytes   FieldType = "bytes"
	TInt     FieldType = "int"
	TLong    FieldType = "long"
	TFloat   FieldType = "float"
	TDouble  FieldType = "double"
)

// Field is one field of a derived record schema.
type Field struct {
	Name     string
	Type     FieldType
	Nullable bool // clustering-key columns are wrapped in union{null, T}
}

// Schema is the AVRO record schema derived from a table's primary key:
// partition columns are required, clustering columns are nullable.
type Schema struct {
	Name   string // "<keyspace>.<table>"
	Fields []Field
}

// cqlToAvro mirrors the type table the original producer uses to pick an
// AVRO type per CQL native type. tinyint/smallint widen to int because AVRO
// has no 8/16-bit integer type.
var cqlToAvro = map[metadata.CQLType]FieldType{
	metadata.TypeAscii:     TString,
	metadata.TypeText:      TString,
	metadata.TypeVarchar:   TString,
	metadata.TypeBoolean:   TBoolean,
	metadata.TypeBlob:      TBytes,
	metadata.TypeTinyint:   TInt,
	metadata.TypeSmallint:  TInt,
	metadata.TypeInt:       TInt,
	metadata.TypeBigint:    TLong,
	metadata.TypeFloat:     TFloat,
	metadata.TypeDouble:    TDouble,
	metadata.TypeTimestamp: TLong,
	metadata.TypeDate:      TInt,
	metadata.TypeTime:      TInt,
	metadata.TypeUUID:      TString,
	metadata.TypeTimeUUID:  TString,
	metadata.TypeInet:      TString,
}

// DeriveSchema builds the key schema for a table's primary key columns.
// It returns an error if any column's CQL type has no AVRO mapping; callers
// treat that as "table unsupported, skip it" rather than a fatal error.
func DeriveSchema(qualifiedName string, pk []metadata.PKColumn) (Schema, error) {
	fields := make([]Field, 0, len(pk))
	for _, col := range pk {
		t, ok := cqlToAvro[col.Type]
		if !ok {
			return Schema{}, fmt.Errorf("avro: unsupported column type %q for %s.%s", col.Type, qualifiedName, col.Name)
		}
		fields = append(fields, Field{Name: col.Name, Type: t, Nullable: col.Clustering})
	}
	return Schema{Name: qualifiedName, Fields: fields}, nil
}
