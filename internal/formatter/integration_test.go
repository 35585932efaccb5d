package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontransformer/internal/models"
	"github.com/mcncl/jsontransformer/internal/parser"
)

func TestIntegration_ParserFormatterRoundTrip(t *testing.T) {
	inputs := []string{
		`{"user_id": 123, "username": "johndoe", "is_active": true, "profile": {"full_name": "John Doe", "email": "john.doe@example.com"}}`,
		`[{"id": 1, "tags": []}, {"id": 2, "tags": ["x", "y"]}, {}]`,
		`{"z": 1, "a": {"nested": [1, [2, [3, {"deep": null}]]]}}`,
		`"just a string"`,
		`-0.5e-10`,
	}

	formatter := NewFormatter()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			original, err := parser.ParseString(input)
			require.NoError(t, err)

			compact := formatter.Compact(original)
			fromCompact, err := parser.ParseString(compact)
			require.NoError(t, err)
			assert.True(t, models.Equal(original, fromCompact))

			pretty := formatter.Pretty(original)
			fromPretty, err := parser.ParseString(pretty)
			require.NoError(t, err)
			assert.True(t, models.Equal(original, fromPretty))

			// Pretty and compact output normalize to the same compact text
			assert.Equal(t, compact, formatter.Compact(fromPretty))
		})
	}
}

func TestIntegration_KeyOrderPreserved(t *testing.T) {
	root, err := parser.ParseString(`{"zebra": 1, "apple": 2, "mango": {"b": 1, "a": 2}}`)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"apple":2,"mango":{"b":1,"a":2}}`, Compact(root))
}
