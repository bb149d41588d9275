package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is a sealed interface representing the JSON value domain.
// Only Null, Bool, Int, Float, String, Array and Object implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null value.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Int represents an integer value. Integers and floats are distinct on
// round-trip: decoding uses json.Number, so 2 comes back as Int and 2.0
// as Float, and large integers never pass through float64.
type Int int64

func (Int) value() {}

// Float represents a floating-point value.
type Float float64

func (Float) value() {}

// MarshalJSON implements json.Marshaler for Float. Integral floats keep
// a decimal point ("2.0", not "2"), so a stored Float never round-trips
// back as an Int.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("float %v is not representable as JSON", v)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

// String represents a text value.
type String string

func (String) value() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) value() {}

// Object represents a mapping of text keys to values.
type Object map[string]Value

func (Object) value() {}

// FromGo converts a Go value into a Value at the encoding boundary.
// Supported inputs: nil, bool, string, all integer kinds, float32/64,
// json.Number, Value itself, slices and arrays of supported values, and
// string-keyed maps of supported values.
//
// Rejected with an unsupported-value error: []byte (raw binary has no
// JSON representation), strings and object keys holding invalid UTF-8,
// NaN and infinities, uint64 above MaxInt64, and every other Go type
// (structs, channels, funcs, pointers).
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		if err := validateValue(x); err != nil {
			return nil, err
		}
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return stringValue(x)
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return uintValue(x)
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case json.Number:
		return numberValue(x)
	case []byte:
		return nil, newUnsupportedValueType(v)
	case []any:
		arr := make(Array, len(x))
		for i, el := range x {
			ev, err := FromGo(el)
			if err != nil {
				return nil, err
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(x))
		for k, el := range x {
			if err := validKey(k); err != nil {
				return nil, err
			}
			ev, err := FromGo(el)
			if err != nil {
				return nil, err
			}
			obj[k] = ev
		}
		return obj, nil
	}
	return fromGoReflect(v)
}

// fromGoReflect handles typed slices, arrays and string-keyed maps that
// the direct type switch misses (e.g. []string, map[string]int).
func fromGoReflect(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, newUnsupportedValueType(v)
		}
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			arr[i] = ev
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, newUnsupportedValueType(v)
		}
		obj := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if err := validKey(k); err != nil {
				return nil, err
			}
			ev, err := FromGo(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			obj[k] = ev
		}
		return obj, nil
	}
	return nil, newUnsupportedValueType(v)
}

func uintValue(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return nil, &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: fmt.Sprintf("unsigned integer %d overflows int64", x),
		}
	}
	return Int(x), nil
}

func floatValue(x float64) (Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: fmt.Sprintf("float %v is not representable as JSON", x),
		}
	}
	return Float(x), nil
}

// stringValue rejects invalid UTF-8 up front. json.Marshal would
// otherwise silently replace the bad bytes with U+FFFD, so the value
// read back would differ from the value stored.
func stringValue(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return nil, &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: "string is not valid UTF-8",
		}
	}
	return String(s), nil
}

func validKey(k string) error {
	if !utf8.ValidString(k) {
		return &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: "object key is not valid UTF-8",
		}
	}
	return nil
}

// validateValue checks a caller-constructed Value tree for contents
// that would not survive the JSON round-trip: invalid UTF-8 in strings
// or object keys, and NaN or infinite floats.
func validateValue(v Value) error {
	switch x := v.(type) {
	case String:
		if !utf8.ValidString(string(x)) {
			return &Error{
				Code:    ErrCodeUnsupportedValueType,
				Message: "string is not valid UTF-8",
			}
		}
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &Error{
				Code:    ErrCodeUnsupportedValueType,
				Message: fmt.Sprintf("float %v is not representable as JSON", f),
			}
		}
	case Array:
		for _, el := range x {
			if err := validateValue(el); err != nil {
				return err
			}
		}
	case Object:
		for k, el := range x {
			if err := validKey(k); err != nil {
				return err
			}
			if err := validateValue(el); err != nil {
				return err
			}
		}
	}
	return nil
}

func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: fmt.Sprintf("number %q is not representable", s),
			Err:     err,
		}
	}
	return Float(f), nil
}

// FromJSON parses JSON text into a Value. Integers decode as Int and
// fractional or exponent forms as Float. The input must hold exactly
// one JSON value; trailing non-whitespace is rejected rather than
// silently discarded.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: "invalid JSON",
			Err:     err,
		}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: "trailing data after JSON value",
		}
	}
	return FromGo(raw)
}

// encodeValue serializes a Value to its JSON wire form.
func encodeValue(v Value) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", &Error{
			Code:    ErrCodeUnsupportedValueType,
			Message: "value is not representable as JSON",
			Err:     err,
		}
	}
	return string(data), nil
}

// decodeValue parses the JSON wire form back into a Value.
func decodeValue(data string) (Value, error) {
	v, err := FromJSON([]byte(data))
	if err != nil {
		return nil, newStorageError("stored value is not valid JSON", err)
	}
	return v, nil
}
