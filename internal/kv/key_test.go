package kv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name string
		key  any
		want string
	}{
		{"nil", nil, "n"},
		{"Null value", Null{}, "n"},
		{"string", "hello", "shello"},
		{"empty string", "", "s"},
		{"String value", String("x"), "sx"},
		{"int", 42, "i42"},
		{"negative int", -1, "i-1"},
		{"int64", int64(1) << 40, "i1099511627776"},
		{"Int value", Int(7), "i7"},
		{"float", 1.0, "f1"},
		{"fractional float", 2.5, "f2.5"},
		{"Float value", Float(0.25), "f0.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeKey_IntFloatDistinct(t *testing.T) {
	ik, err := encodeKey(1)
	require.NoError(t, err)
	fk, err := encodeKey(1.0)
	require.NoError(t, err)

	// The integer key 1 and the float key 1.0 never collide.
	assert.NotEqual(t, ik, fk)
}

func TestEncodeKey_NullDistinctFromText(t *testing.T) {
	nk, err := encodeKey(nil)
	require.NoError(t, err)

	// No legal text key shares the null placeholder: text encodings are
	// at least two bytes ("s" + text includes "s" for the empty string).
	sk, err := encodeKey("")
	require.NoError(t, err)
	assert.NotEqual(t, nk, sk)
}

func TestEncodeKey_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		key  any
	}{
		{"bytes", []byte("raw")},
		{"bool", true},
		{"slice", []any{1}},
		{"map", map[string]any{}},
		{"struct", struct{}{}},
		{"NaN", math.NaN()},
		{"-Inf", math.Inf(-1)},
		{"huge uint64", uint64(math.MaxUint64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeKey(tt.key)
			require.Error(t, err)
			assert.True(t, IsUnsupportedKeyType(err), "want unsupported-key error, got %v", err)
		})
	}
}

func TestDecodeKey_RoundTrip(t *testing.T) {
	keys := []any{nil, "hello", "", 42, -1, int64(1) << 52, 1.0, 2.5, -1e21}
	for _, key := range keys {
		ek, err := encodeKey(key)
		require.NoError(t, err)

		decoded, err := decodeKey(ek)
		require.NoError(t, err)

		// Encoding the decoded key must reproduce the same bytes.
		ek2, err := encodeKey(decoded)
		require.NoError(t, err)
		assert.Equal(t, ek, ek2, "key %v", key)
	}
}

func TestDecodeKey_Malformed(t *testing.T) {
	for _, ek := range []string{"", "x1", "iNaN", "f", "i"} {
		_, err := decodeKey(ek)
		assert.Error(t, err, "encoded key %q", ek)
	}
}

func TestEncodeKey_NoUnicodeNormalization(t *testing.T) {
	// The same visible text in NFC and NFD is two different keys: keys
	// are stored byte-exact.
	nfc := norm.NFC.String("é")
	nfd := norm.NFD.String("é")
	require.NotEqual(t, nfc, nfd)

	ck, err := encodeKey(nfc)
	require.NoError(t, err)
	dk, err := encodeKey(nfd)
	require.NoError(t, err)
	assert.NotEqual(t, ck, dk)
}
