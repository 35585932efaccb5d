package transform

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      depth + width,
			"enabled":    width%2 == 0,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width)
	}
	return result
}

// generateWideJSON creates a JSON object with many fields at the same level
func generateWideJSON(fieldCount int) map[string]interface{} {
	result := make(map[string]interface{})

	for i := 0; i < fieldCount; i++ {
		switch i % 5 {
		case 0:
			result[fmt.Sprintf("string_field_%d", i)] = fmt.Sprintf("value_%d", i)
		case 1:
			result[fmt.Sprintf("int_field_%d", i)] = i
		case 2:
			result[fmt.Sprintf("bool_field_%d", i)] = i%2 == 0
		case 3:
			result[fmt.Sprintf("float_field_%d", i)] = float64(i) + 0.5
		case 4:
			result[fmt.Sprintf("object_field_%d", i)] = map[string]interface{}{
				"id":    i,
				"name":  fmt.Sprintf("Object %d", i),
				"value": i * 10,
			}
		}
	}
	return result
}

func marshal(b *testing.B, v interface{}) string {
	b.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(b, err)
	return string(data)
}

func BenchmarkMinify_Nested(b *testing.B) {
	doc := marshal(b, generateNestedJSON(5, 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Minify(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPrettify_Wide(b *testing.B) {
	doc := marshal(b, generateWideJSON(1000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Prettify(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilterExclude_Wide(b *testing.B) {
	doc := marshal(b, generateWideJSON(1000))
	properties := []string{"string_field_0", "int_field_1", "object_field_4"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FilterExclude(doc, properties); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompare_Nested(b *testing.B) {
	reference := marshal(b, generateNestedJSON(5, 4))
	changed := generateNestedJSON(5, 4)
	changed["nested_5_0"] = "replaced"
	actual := marshal(b, changed)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compare(reference, actual); err != nil {
			b.Fatal(err)
		}
	}
}
