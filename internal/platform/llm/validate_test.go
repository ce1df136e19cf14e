package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pairSchema = &Schema{
	Name: "validate-test-pair",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value":       map[string]any{"type": "string"},
			"translation": map[string]any{"type": "string"},
		},
		"required":             []string{"value", "translation"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{name: "nil schema accepts anything", schema: nil, raw: "not json"},
		{name: "valid object", schema: pairSchema, raw: `{"value":"a","translation":"б"}`},
		{name: "missing field", schema: pairSchema, raw: `{"value":"a"}`, wantErr: true},
		{name: "wrong type", schema: pairSchema, raw: `{"value":1,"translation":"б"}`, wantErr: true},
		{name: "extra field", schema: pairSchema, raw: `{"value":"a","translation":"б","x":1}`, wantErr: true},
		{name: "not json", schema: pairSchema, raw: `{"value":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateResponse(tt.schema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
}
