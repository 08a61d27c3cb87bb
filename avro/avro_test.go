package avro

import (
	"testing"

	"github.com/datastax/cassandra-source-connector/metadata"
	"github.com/stretchr/testify/require"
)

func TestDeriveSchemaPartitionRequiredClusteringNullable(t *testing.T) {
	schema, err := DeriveSchema("ks.tbl", []metadata.PKColumn{
		{Name: "id", Type: metadata.TypeText},
		{Name: "seq", Type: metadata.TypeInt, Clustering: true},
	})
	require.NoError(t, err)
	require.Len(t, schema.Fields, 2)
	require.False(t, schema.Fields[0].Nullable)
	require.True(t, schema.Fields[1].Nullable)
}

func TestDeriveSchemaUnsupportedType(t *testing.T) {
	_, err := DeriveSchema("ks.tbl", []metadata.PKColumn{{Name: "c", Type: "counter"}})
	require.Error(t, err)
}

func TestEncodeKeyStringAndNullableInt(t *testing.T) {
	schema, err := DeriveSchema("ks.tbl", []metadata.PKColumn{
		{Name: "id", Type: metadata.TypeText},
		{Name: "seq", Type: metadata.TypeInt, Clustering: true},
	})
	require.NoError(t, err)

	data, err := EncodeKey(schema, []interface{}{"row-1", int32(42)})
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestEncodeKeyNullClusteringValue(t *testing.T) {
	schema, err := DeriveSchema("ks.tbl", []metadata.PKColumn{
		{Name: "id", Type: metadata.TypeText},
		{Name: "seq", Type: metadata.TypeInt, Clustering: true},
	})
	require.NoError(t, err)

	data, err := EncodeKey(schema, []interface{}{"row-1", nil})
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestEncodeKeyRejectsNonNullableNil(t *testing.T) {
	schema, err := DeriveSchema("ks.tbl", []metadata.PKColumn{{Name: "id", Type: metadata.TypeText}})
	require.NoError(t, err)

	_, err = EncodeKey(schema, []interface{}{nil})
	require.Error(t, err)
}

func TestEncodeKeyWrongArity(t *testing.T) {
	schema, err := DeriveSchema("ks.tbl", []metadata.PKColumn{{Name: "id", Type: metadata.TypeText}})
	require.NoError(t, err)

	_, err = EncodeKey(schema, []interface{}{"a", "b"})
	require.Error(t, err)
}

func TestEncodeMutationValueMatchesSchemaEncoding(t *testing.T) {
	data, err := EncodeMutationValue("abcd1234", "node-1", "INSERT")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	want, err := EncodeKey(MutationValueSchema, []interface{}{"abcd1234", "node-1", "INSERT"})
	require.NoError(t, err)
	require.Equal(t, want, data)
}

func TestAppendLongZigZag(t *testing.T) {
	require.Equal(t, []byte{0}, appendLong(nil, 0))
	require.Equal(t, []byte{1}, appendLong(nil, -1))
	require.Equal(t, []byte{2}, appendLong(nil, 1))
}
