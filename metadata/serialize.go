package metadata

import "github.com/datastax/cassandra-source-connector/encoding"

// serializeTagged encodes val with the shared canonical codec and prefixes
// it with a one-byte protocol-version tag, so the resulting bytes are stable
// digest input for a given (version, mutation) pair regardless of which
// TableMetadata implementation produced them.
func serializeTagged(dst []byte, versionTag byte, val interface{}) ([]byte, error) {
	body, err := encoding.Marshal(val)
	if err != nil {
		return nil, err
	}
	dst = append(dst, versionTag)
	dst = append(dst, body...)
	return dst, nil
}
