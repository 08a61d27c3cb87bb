// Package encoding provides the canonical wire serialization used to compute
// mutation digests. All msgpack operations in the producer go through this
// package.
//
// Thread Safety: Marshal and Unmarshal are safe for concurrent use.
//
// Type Preservation: When decoding into interface{}, msgpack strings decode as
// Go strings, and msgpack binary values also decode as Go strings (not
// []byte), so round-tripped text and binary column values are not
// distinguishable from each other.
package encoding

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes a value to msgpack format.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes msgpack data using loose interface decoding.
// When decoding into interface{}, strings are preserved as Go strings and
// binary values are decoded as Go strings too, so a []byte column value does
// not come back as []byte.
func Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	// UseLooseInterfaceDecoding converts []byte to string when decoding into interface{}.
	dec.UseLooseInterfaceDecoding(true)

	return dec.Decode(v)
}
