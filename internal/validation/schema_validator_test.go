package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = []byte(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "count"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"count": {"type": "integer", "minimum": 0}
	}
}`)

func TestValidateBytes(t *testing.T) {
	v := NewSchemaValidator()

	t.Run("accepts valid document", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{"name":"chest","count":3}`), "test.schema.json", testSchema)
		assert.NoError(t, err)
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{"name":"chest"}`), "test.schema.json", testSchema)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "schema validation failed"))
	})

	t.Run("rejects wrong type with location", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{"name":"chest","count":"three"}`), "test.schema.json", testSchema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/count")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{`), "test.schema.json", testSchema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse JSON data")
	})

	t.Run("rejects malformed schema", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{}`), "broken.schema.json", []byte(`{"type": 42}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to compile schema")
	})
}
