package avro

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeKey encodes values (in schema field order) into AVRO binary format.
// A nullable field encodes as a union: a zig-zag long index (0 for null, 1
// for present) followed by the value when present.
func EncodeKey(schema Schema, values []interface{}) ([]byte, error) {
	if len(values) != len(schema.Fields) {
		return nil, fmt.Errorf("avro: expected %d values for schema %s, got %d", len(schema.Fields), schema.Name, len(values))
	}

	var buf []byte
	for i, f := range schema.Fields {
		v := values[i]

		if f.Nullable {
			if v == nil {
				buf = appendLong(buf, 0)
				continue
			}
			buf = appendLong(buf, 1)
		} else if v == nil {
			return nil, fmt.Errorf("avro: field %q is not nullable but value is nil", f.Name)
		}

		var err error
		buf, err = encodeValue(buf, f.Type, v)
		if err != nil {
			return nil, fmt.Errorf("avro: field %q: %w", f.Name, err)
		}
	}
	return buf, nil
}

func encodeValue(buf []byte, t FieldType, v interface{}) ([]byte, error) {
	switch t {
	case TString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		buf = appendLong(buf, int64(len(s)))
		return append(buf, s...), nil

	case TBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("expected []byte, got %T", v)
		}
		buf = appendLong(buf, int64(len(b)))
		return append(buf, b...), nil

	case TBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		if b {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case TInt:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return appendLong(buf, i), nil

	case TLong:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return appendLong(buf, i), nil

	case TFloat:
		f, ok := v.(float32)
		if !ok {
			return nil, fmt.Errorf("expected float32, got %T", v)
		}
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(f))
		return append(buf, tmp[:]...), nil

	case TDouble:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected float64, got %T", v)
		}
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
		return append(buf, tmp[:]...), nil

	default:
		return nil, fmt.Errorf("unsupported AVRO field type %q", t)
	}
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// appendLong zig-zag-varint encodes n, AVRO's representation for int/long.
func appendLong(buf []byte, n int64) []byte {
	zz := uint64((n << 1) ^ (n >> 63))
	for zz >= 0x80 {
		buf = append(buf, byte(zz)|0x80)
		zz >>= 7
	}
	return append(buf, byte(zz))
}
