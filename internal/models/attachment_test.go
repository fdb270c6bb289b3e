package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleSize_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *int64
	}{
		{name: "number", raw: `2048`, expected: int64Ptr(2048)},
		{name: "numeric string", raw: `"2048"`, expected: int64Ptr(2048)},
		{name: "padded string", raw: `" 512 "`, expected: int64Ptr(512)},
		{name: "fractional number truncated", raw: `10.9`, expected: int64Ptr(10)},
		{name: "exponent within range", raw: `1e3`, expected: int64Ptr(1000)},
		{name: "zero", raw: `0`, expected: int64Ptr(0)},
		{name: "null", raw: `null`},
		{name: "negative", raw: `-5`},
		{name: "text", raw: `"about 2MB"`},
		{name: "empty string", raw: `""`},
		{name: "boolean", raw: `true`},
		{name: "huge number", raw: `1e30`},
		{name: "huge numeric string", raw: `"1e30"`},
		{name: "just past int64", raw: `9223372036854775808`},
		{name: "infinity string", raw: `"Infinity"`},
		{name: "inf string", raw: `"+Inf"`},
		{name: "nan string", raw: `"NaN"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s FlexibleSize
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))

			if tt.expected == nil {
				assert.Nil(t, s.Value)
				return
			}
			require.NotNil(t, s.Value)
			assert.Equal(t, *tt.expected, *s.Value)
		})
	}
}

func TestFlexibleSize_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(AttachmentInput{Name: "a.pdf", Size: FlexibleSize{Value: int64Ptr(42)}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"size":42`)

	data, err = json.Marshal(AttachmentInput{Name: "a.pdf"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"size":null`)
}

func int64Ptr(n int64) *int64 {
	return &n
}
