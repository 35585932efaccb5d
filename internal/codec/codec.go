// Package codec bundles the parser and formatter into the single JSON
// library dependency handed to every processor, facade and handler.
package codec

import (
	"github.com/mcncl/jsontransformer/internal/formatter"
	"github.com/mcncl/jsontransformer/internal/models"
	"github.com/mcncl/jsontransformer/internal/parser"
)

// Codec parses and serializes JSON documents. It is immutable after
// construction and safe for concurrent use.
type Codec struct {
	parser    *parser.Parser
	formatter *formatter.Formatter
}

// New creates a Codec. A non-positive maxDepth selects parser.DefaultMaxDepth
// and an empty indent selects formatter.DefaultIndent.
func New(maxDepth int, indent string) *Codec {
	if maxDepth <= 0 {
		maxDepth = parser.DefaultMaxDepth
	}
	if indent == "" {
		indent = formatter.DefaultIndent
	}
	return &Codec{
		parser:    &parser.Parser{MaxDepth: maxDepth},
		formatter: &formatter.Formatter{Indent: indent},
	}
}

var defaultCodec = New(0, "")

// Default returns the shared Codec with default limits.
func Default() *Codec {
	return defaultCodec
}

// Parse parses document, failing with errors.ErrMalformedDocument.
func (c *Codec) Parse(document string) (*models.Value, error) {
	return c.parser.ParseString(document)
}

// Serialize renders v compactly, or indented when pretty is set.
func (c *Codec) Serialize(v *models.Value, pretty bool) string {
	return c.formatter.Format(v, pretty)
}
