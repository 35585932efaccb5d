// Package processor provides composable JSON document transformations.
//
// A chain is built from the inside out: the Base processor validates its
// input, and every decorator wraps an upstream Processor, runs it first and
// transforms its output:
//
//	p := processor.NewPrettify(c, processor.NewFilterExclude(c, processor.NewBase(c), []string{"password"}))
//	out, err := p.Process(document)
//
// Processors hold no mutable state; a chain may be built per request and
// discarded. Every parse failure is returned unchanged and matches
// errors.ErrMalformedDocument.
package processor

import (
	"github.com/mcncl/jsontransformer/internal/models"
)

// Processor turns one JSON document into another
type Processor interface {
	Process(document string) (string, error)
}

// Codec is the JSON library used by processors to parse and serialize
type Codec interface {
	Parse(document string) (*models.Value, error)
	Serialize(v *models.Value, pretty bool) string
}

// Decorator wraps an upstream processor
type Decorator func(upstream Processor) Processor

// Chain applies decorators to base in order, so the last decorator is the
// outermost processor and runs its transform last.
func Chain(base Processor, decorators ...Decorator) Processor {
	p := base
	for _, d := range decorators {
		p = d(p)
	}
	return p
}

// Base is the innermost processor. It returns its input unchanged once it
// has checked that the input parses.
type Base struct {
	codec Codec
}

// NewBase creates the identity processor
func NewBase(c Codec) *Base {
	return &Base{codec: c}
}

// Process implements Processor
func (b *Base) Process(document string) (string, error) {
	if _, err := b.codec.Parse(document); err != nil {
		return "", err
	}
	return document, nil
}

// decorator holds what every transform shares: the codec and the upstream
// processor whose output it transforms.
type decorator struct {
	codec    Codec
	upstream Processor
}

// upstreamValue runs the upstream processor and parses its output
func (d decorator) upstreamValue(document string) (*models.Value, error) {
	out, err := d.upstream.Process(document)
	if err != nil {
		return nil, err
	}
	return d.codec.Parse(out)
}
