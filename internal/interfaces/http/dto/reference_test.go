package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain string",
			input:    `"550e8400-e29b-41d4-a716-446655440000"`,
			expected: "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:     "ref object",
			input:    `{"_ref": "550e8400-e29b-41d4-a716-446655440000"}`,
			expected: "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:     "id object",
			input:    `{"_id": "550e8400-e29b-41d4-a716-446655440000"}`,
			expected: "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:     "ref wins over id when both present",
			input:    `{"_ref": "aaa", "_id": "bbb"}`,
			expected: "aaa",
		},
		{
			name:     "null",
			input:    `null`,
			expected: "",
		},
		{
			name:     "empty object",
			input:    `{}`,
			expected: "",
		},
		{
			name:     "object with unrelated keys",
			input:    `{"name": "dry store bin"}`,
			expected: "",
		},
		{
			name:     "number",
			input:    `42`,
			expected: "",
		},
		{
			name:     "array",
			input:    `["aaa"]`,
			expected: "",
		},
		{
			name:     "ref with non-string value",
			input:    `{"_ref": 42}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Reference
			err := json.Unmarshal([]byte(tt.input), &ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref.String())
		})
	}
}

func TestReferenceInStruct(t *testing.T) {
	type payload struct {
		SourceBin Reference `json:"source_bin"`
	}

	var p payload
	err := json.Unmarshal([]byte(`{"source_bin": {"_ref": "bin-123"}}`), &p)
	require.NoError(t, err)
	assert.Equal(t, "bin-123", p.SourceBin.String())
	assert.False(t, p.SourceBin.IsZero())

	var empty payload
	err = json.Unmarshal([]byte(`{"source_bin": null}`), &empty)
	require.NoError(t, err)
	assert.True(t, empty.SourceBin.IsZero())
}

func TestReferenceMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Reference("bin-123"))
	require.NoError(t, err)
	assert.Equal(t, `"bin-123"`, string(out))
}
