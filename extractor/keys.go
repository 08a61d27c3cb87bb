package extractor

import (
	"encoding/binary"
	"fmt"

	"github.com/datastax/cassandra-source-connector/cdcerrors"
)

// staticColumnMarker prefixes a composite key's byte buffer when the row it
// belongs to only has static columns; it must be skipped before decoding
// partition-key components.
const staticColumnMarker = 0xFFFF

// DecomposeCompositeKey splits a partition key's raw bytes into one slice
// per partition-key component. With a single component the whole buffer is
// the value. With more than one, components are length-prefixed: a 2-byte
// big-endian length, the value bytes, then a 1-byte end-of-component marker
// that must be zero to continue to the next component.
func DecomposeCompositeKey(raw []byte, numColumns int) ([][]byte, error) {
	if numColumns <= 0 {
		return nil, fmt.Errorf("extractor: numColumns must be positive, got %d", numColumns)
	}
	if numColumns == 1 {
		return [][]byte{raw}, nil
	}

	buf := raw
	if len(buf) >= 2 && binary.BigEndian.Uint16(buf[:2]) == staticColumnMarker {
		buf = buf[2:]
	}

	components := make([][]byte, 0, numColumns)
	i := 0
	for len(buf) > 0 && i < numColumns {
		if len(buf) < 2 {
			return nil, fmt.Errorf("extractor: %w: truncated at component %d", cdcerrors.ErrMalformedCompositeKey, i)
		}
		length := int(binary.BigEndian.Uint16(buf[:2]))
		buf = buf[2:]

		if len(buf) < length {
			return nil, fmt.Errorf("extractor: %w: component %d claims length %d, only %d bytes remain", cdcerrors.ErrMalformedCompositeKey, i, length, len(buf))
		}
		components = append(components, buf[:length])
		buf = buf[length:]

		if len(buf) < 1 {
			return nil, fmt.Errorf("extractor: %w: missing end-of-component marker after component %d", cdcerrors.ErrMalformedCompositeKey, i)
		}
		marker := buf[0]
		buf = buf[1:]
		i++

		if marker != 0 {
			break
		}
	}

	return components, nil
}
