package avro

// MutationValueSchema is the fixed record schema for a mutation's value
// payload: three required string fields, no nulls, no per-table variation.
var MutationValueSchema = Schema{
	Name: "MutationValue",
	Fields: []Field{
		{Name: "md5Digest", Type: TString},
		{Name: "nodeId", Type: TString},
		{Name: "operation", Type: TString},
	},
}

// EncodeMutationValue encodes the mutation value record against
// MutationValueSchema.
func EncodeMutationValue(md5Digest, nodeID, operation string) ([]byte, error) {
	return EncodeKey(MutationValueSchema, []interface{}{md5Digest, nodeID, operation})
}
