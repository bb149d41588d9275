package kv

import (
	"fmt"
	"math"
	"strconv"
)

// Key encoding: every key is stored as text with a one-byte type tag, so
// keys of different semantic types can never collide in the table's
// uniqueness constraint.
//
//	nil     -> "n"
//	string  -> "s" + text (byte-exact, no Unicode normalization)
//	integer -> "i" + base-10 int64
//	float   -> "f" + shortest round-trip decimal
//
// The integer key 1 and the float key 1.0 encode to "i1" and "f1" and
// are distinct keys.
const (
	keyTagNull   = 'n'
	keyTagString = 's'
	keyTagInt    = 'i'
	keyTagFloat  = 'f'
)

// encodeKey normalizes a Go key into its tagged text encoding.
// Accepted key types: nil, string, integer kinds, float kinds, and the
// corresponding Value kinds (Null, String, Int, Float). Everything else
// fails with an unsupported-key error.
func encodeKey(key any) (string, error) {
	switch k := key.(type) {
	case nil:
		return string(keyTagNull), nil
	case Null:
		return string(keyTagNull), nil
	case string:
		return string(keyTagString) + k, nil
	case String:
		return string(keyTagString) + string(k), nil
	case int:
		return encodeIntKey(int64(k)), nil
	case int8:
		return encodeIntKey(int64(k)), nil
	case int16:
		return encodeIntKey(int64(k)), nil
	case int32:
		return encodeIntKey(int64(k)), nil
	case int64:
		return encodeIntKey(k), nil
	case uint:
		return encodeUintKey(uint64(k))
	case uint8:
		return encodeIntKey(int64(k)), nil
	case uint16:
		return encodeIntKey(int64(k)), nil
	case uint32:
		return encodeIntKey(int64(k)), nil
	case uint64:
		return encodeUintKey(k)
	case Int:
		return encodeIntKey(int64(k)), nil
	case float32:
		return encodeFloatKey(float64(k))
	case float64:
		return encodeFloatKey(k)
	case Float:
		return encodeFloatKey(float64(k))
	}
	return "", newUnsupportedKeyType(key)
}

func encodeIntKey(k int64) string {
	return string(keyTagInt) + strconv.FormatInt(k, 10)
}

func encodeUintKey(k uint64) (string, error) {
	if k > math.MaxInt64 {
		return "", &Error{
			Code:    ErrCodeUnsupportedKeyType,
			Message: fmt.Sprintf("unsigned key %d overflows int64", k),
		}
	}
	return encodeIntKey(int64(k)), nil
}

func encodeFloatKey(k float64) (string, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return "", &Error{
			Code:    ErrCodeUnsupportedKeyType,
			Message: fmt.Sprintf("float key %v is not representable", k),
		}
	}
	return string(keyTagFloat) + strconv.FormatFloat(k, 'g', -1, 64), nil
}

// decodeKey inverts encodeKey for iteration. The returned Value is one
// of Null, String, Int or Float.
func decodeKey(encoded string) (Value, error) {
	if encoded == "" {
		return nil, newStorageError("empty encoded key", nil)
	}
	tag, rest := encoded[0], encoded[1:]
	switch tag {
	case keyTagNull:
		return Null{}, nil
	case keyTagString:
		return String(rest), nil
	case keyTagInt:
		i, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, newStorageError(fmt.Sprintf("malformed integer key %q", encoded), err)
		}
		return Int(i), nil
	case keyTagFloat:
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, newStorageError(fmt.Sprintf("malformed float key %q", encoded), err)
		}
		return Float(f), nil
	}
	return nil, newStorageError(fmt.Sprintf("unknown key tag %q", tag), nil)
}
