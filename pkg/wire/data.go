package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// MaxStringSize is the longest string AppendData can prefix with one byte.
const MaxStringSize = 0xFF

// AppendData normalizes values into payload bytes and appends them to dst.
//
//   - integers and floats: one byte, floored and truncated to uint8
//   - bool: one byte, 0 or 1
//   - string: [u8 len][utf8 bytes]
//   - []byte: copied verbatim
//   - other slices and arrays: each element normalized in order
//   - maps and structs: JSON, then encoded as a string
//   - nil: nothing
func AppendData(dst []byte, values ...any) ([]byte, error) {
	for _, v := range values {
		var err error
		dst, err = appendValue(dst, v)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Data is AppendData into a fresh slice.
func Data(values ...any) ([]byte, error) {
	return AppendData(nil, values...)
}

// AppendString appends a one-byte length prefixed string.
func AppendString(dst []byte, s string) ([]byte, error) {
	if len(s) > MaxStringSize {
		return nil, fmt.Errorf("%w: string of %d bytes exceeds %d", ErrPayloadTooLarge, len(s), MaxStringSize)
	}
	dst = append(dst, byte(len(s)))
	return append(dst, s...), nil
}

// ReadString reads a one-byte length prefixed string and returns the rest.
func ReadString(buf []byte) (string, []byte, error) {
	if len(buf) < 1 || len(buf) < 1+int(buf[0]) {
		return "", nil, fmt.Errorf("%w: string prefix", ErrTruncatedMessage)
	}
	n := int(buf[0])
	return string(buf[1 : 1+n]), buf[1+n:], nil
}

func appendValue(dst []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return dst, nil
	case []byte:
		return append(dst, x...), nil
	case string:
		return AppendString(dst, x)
	case bool:
		if x {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case Message:
		return nil, fmt.Errorf("%w: Message must be encoded with Encode", ErrUnsupportedData)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(dst, byte(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return append(dst, byte(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return append(dst, byte(int64(math.Floor(rv.Float())))), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(dst, rv.Bytes()...), nil
		}
		for i := 0; i < rv.Len(); i++ {
			var err error
			dst, err = appendValue(dst, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	case reflect.Map, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedData, err)
		}
		return AppendString(dst, string(b))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return dst, nil
		}
		return appendValue(dst, rv.Elem().Interface())
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedData, v)
	}
}
