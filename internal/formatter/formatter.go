package formatter

import (
	"bytes"
	"encoding/json"

	"github.com/mcncl/jsontransformer/internal/models"
)

// DefaultIndent is one nesting level of pretty output.
const DefaultIndent = "  "

// KeySeparator separates an object key from its value in pretty output.
const KeySeparator = " : "

// Formatter is responsible for serializing JSON values, either compactly or
// with one member per line. It holds no mutable state.
type Formatter struct {
	Indent string
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{Indent: DefaultIndent}
}

// Format serializes v, indented when pretty is set
func (f *Formatter) Format(v *models.Value, pretty bool) string {
	if pretty {
		return f.Pretty(v)
	}
	return f.Compact(v)
}

// Compact serializes v with no insignificant whitespace.
func (f *Formatter) Compact(v *models.Value) string {
	w := newWriter(f.Indent)
	w.compact(v)
	return w.buf.String()
}

// Pretty serializes v with each nesting level indented by f.Indent,
// " : " between keys and values, and empty containers as "{ }" and "[ ]".
// No trailing newline is written.
func (f *Formatter) Pretty(v *models.Value) string {
	w := newWriter(f.Indent)
	w.pretty(v, 0)
	return w.buf.String()
}

// writer accumulates the output of a single Compact or Pretty call. Its
// string encoder writes straight into buf.
type writer struct {
	buf    bytes.Buffer
	enc    *json.Encoder
	indent string
}

func newWriter(indent string) *writer {
	w := &writer{indent: indent}
	w.enc = json.NewEncoder(&w.buf)
	w.enc.SetEscapeHTML(false)
	return w
}

func (w *writer) compact(v *models.Value) {
	if v == nil {
		w.buf.WriteString("null")
		return
	}
	switch v.Kind() {
	case models.KindObject:
		w.buf.WriteByte('{')
		for i, m := range v.Members() {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.writeString(m.Key)
			w.buf.WriteByte(':')
			w.compact(m.Value)
		}
		w.buf.WriteByte('}')
	case models.KindArray:
		w.buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.compact(item)
		}
		w.buf.WriteByte(']')
	default:
		w.scalar(v)
	}
}

func (w *writer) pretty(v *models.Value, depth int) {
	if v == nil {
		w.buf.WriteString("null")
		return
	}
	switch v.Kind() {
	case models.KindObject:
		if v.Len() == 0 {
			w.buf.WriteString("{ }")
			return
		}
		w.buf.WriteByte('{')
		for i, m := range v.Members() {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			w.writeString(m.Key)
			w.buf.WriteString(KeySeparator)
			w.pretty(m.Value, depth+1)
		}
		w.newline(depth)
		w.buf.WriteByte('}')
	case models.KindArray:
		if v.Len() == 0 {
			w.buf.WriteString("[ ]")
			return
		}
		w.buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			w.pretty(item, depth+1)
		}
		w.newline(depth)
		w.buf.WriteByte(']')
	default:
		w.scalar(v)
	}
}

func (w *writer) newline(depth int) {
	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *writer) scalar(v *models.Value) {
	switch v.Kind() {
	case models.KindNull:
		w.buf.WriteString("null")
	case models.KindBool:
		if v.BoolValue() {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case models.KindNumber:
		w.buf.WriteString(v.NumberValue().String())
	case models.KindString:
		w.writeString(v.StringValue())
	}
}

// writeString writes s as a quoted JSON string without HTML escaping
func (w *writer) writeString(s string) {
	// Encoding a string into a bytes.Buffer cannot fail
	_ = w.enc.Encode(s)
	w.buf.Truncate(w.buf.Len() - 1) // Encode appends a newline
}

var defaultFormatter = NewFormatter()

// Compact serializes v with the default formatter
func Compact(v *models.Value) string {
	return defaultFormatter.Compact(v)
}

// Pretty serializes v with the default formatter
func Pretty(v *models.Value) string {
	return defaultFormatter.Pretty(v)
}
