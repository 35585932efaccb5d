package transform

import (
	"github.com/mcncl/jsontransformer/internal/codec"
	"github.com/mcncl/jsontransformer/internal/diff"
	"github.com/mcncl/jsontransformer/internal/models"
)

// Include returns a fresh object holding the root-level fields of root named
// in properties, in request order. Values are shared with root, not copied.
// Unknown and repeated names are ignored; a non-object root has no fields.
func Include(root *models.Value, properties []string) *models.Value {
	result := models.NewObject()
	if !root.IsObject() {
		return result
	}
	for _, property := range properties {
		if val, ok := root.Get(property); ok {
			result.Set(property, val)
		}
	}
	return result
}

// Exclude returns a deep copy of root without the root-level fields named in
// properties. Retained fields keep their original order. A non-object root
// has no fields and yields an empty object.
func Exclude(root *models.Value, properties []string) *models.Value {
	if !root.IsObject() {
		return models.NewObject()
	}
	result := root.DeepCopy()
	for _, property := range properties {
		result.Delete(property)
	}
	return result
}

// Transformer performs single transformations on JSON text without building
// a processor chain.
type Transformer struct {
	codec *codec.Codec
}

// New creates a Transformer that parses and serializes with c
func New(c *codec.Codec) *Transformer {
	return &Transformer{codec: c}
}

// Minify re-serializes document without insignificant whitespace
func (t *Transformer) Minify(document string) (string, error) {
	root, err := t.codec.Parse(document)
	if err != nil {
		return "", err
	}
	return t.codec.Serialize(root, false), nil
}

// Prettify re-serializes document indented, one member per line
func (t *Transformer) Prettify(document string) (string, error) {
	root, err := t.codec.Parse(document)
	if err != nil {
		return "", err
	}
	return t.codec.Serialize(root, true), nil
}

// FilterInclude keeps only the named root-level fields of document
func (t *Transformer) FilterInclude(document string, properties []string) (string, error) {
	root, err := t.codec.Parse(document)
	if err != nil {
		return "", err
	}
	return t.codec.Serialize(Include(root, properties), false), nil
}

// FilterExclude drops the named root-level fields of document
func (t *Transformer) FilterExclude(document string, properties []string) (string, error) {
	root, err := t.codec.Parse(document)
	if err != nil {
		return "", err
	}
	return t.codec.Serialize(Exclude(root, properties), false), nil
}

// Compare diffs actual against reference and returns the text report.
// Traversal is driven by the fields of reference.
func (t *Transformer) Compare(reference, actual string) (string, error) {
	report, err := t.CompareReport(reference, actual)
	if err != nil {
		return "", err
	}
	return report.String(), nil
}

// CompareReport is Compare returning the structured report
func (t *Transformer) CompareReport(reference, actual string) (*diff.Report, error) {
	ref, err := t.codec.Parse(reference)
	if err != nil {
		return nil, err
	}
	act, err := t.codec.Parse(actual)
	if err != nil {
		return nil, err
	}
	return diff.Compare(ref, act), nil
}

var std = New(codec.Default())

// Minify re-serializes document without insignificant whitespace
func Minify(document string) (string, error) {
	return std.Minify(document)
}

// Prettify re-serializes document indented, one member per line
func Prettify(document string) (string, error) {
	return std.Prettify(document)
}

// FilterInclude keeps only the named root-level fields of document
func FilterInclude(document string, properties []string) (string, error) {
	return std.FilterInclude(document, properties)
}

// FilterExclude drops the named root-level fields of document
func FilterExclude(document string, properties []string) (string, error) {
	return std.FilterExclude(document, properties)
}

// Compare diffs doc2 against doc1, iterating the fields of doc1
func Compare(doc1, doc2 string) (string, error) {
	return std.Compare(doc1, doc2)
}
