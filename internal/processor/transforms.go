package processor

import (
	"github.com/mcncl/jsontransformer/internal/transform"
)

// Minify re-serializes its upstream output without insignificant whitespace
type Minify struct {
	decorator
}

// NewMinify wraps upstream with minification
func NewMinify(c Codec, upstream Processor) *Minify {
	return &Minify{decorator{codec: c, upstream: upstream}}
}

// Process implements Processor
func (m *Minify) Process(document string) (string, error) {
	root, err := m.upstreamValue(document)
	if err != nil {
		return "", err
	}
	return m.codec.Serialize(root, false), nil
}

// Prettify re-serializes its upstream output indented, one member per line
type Prettify struct {
	decorator
}

// NewPrettify wraps upstream with pretty-printing
func NewPrettify(c Codec, upstream Processor) *Prettify {
	return &Prettify{decorator{codec: c, upstream: upstream}}
}

// Process implements Processor
func (p *Prettify) Process(document string) (string, error) {
	root, err := p.upstreamValue(document)
	if err != nil {
		return "", err
	}
	return p.codec.Serialize(root, true), nil
}

// FilterInclude keeps only the listed root-level fields, in list order
type FilterInclude struct {
	decorator
	properties []string
}

// NewFilterInclude wraps upstream with field inclusion
func NewFilterInclude(c Codec, upstream Processor, properties []string) *FilterInclude {
	return &FilterInclude{
		decorator:  decorator{codec: c, upstream: upstream},
		properties: properties,
	}
}

// Process implements Processor
func (f *FilterInclude) Process(document string) (string, error) {
	root, err := f.upstreamValue(document)
	if err != nil {
		return "", err
	}
	return f.codec.Serialize(transform.Include(root, f.properties), false), nil
}

// FilterExclude removes the listed root-level fields
type FilterExclude struct {
	decorator
	properties []string
}

// NewFilterExclude wraps upstream with field exclusion
func NewFilterExclude(c Codec, upstream Processor, properties []string) *FilterExclude {
	return &FilterExclude{
		decorator:  decorator{codec: c, upstream: upstream},
		properties: properties,
	}
}

// Process implements Processor
func (f *FilterExclude) Process(document string) (string, error) {
	root, err := f.upstreamValue(document)
	if err != nil {
		return "", err
	}
	return f.codec.Serialize(transform.Exclude(root, f.properties), false), nil
}

// Decorators for use with Chain

// WithMinify returns a Decorator adding Minify
func WithMinify(c Codec) Decorator {
	return func(upstream Processor) Processor { return NewMinify(c, upstream) }
}

// WithPrettify returns a Decorator adding Prettify
func WithPrettify(c Codec) Decorator {
	return func(upstream Processor) Processor { return NewPrettify(c, upstream) }
}

// WithFilterInclude returns a Decorator adding FilterInclude
func WithFilterInclude(c Codec, properties []string) Decorator {
	return func(upstream Processor) Processor { return NewFilterInclude(c, upstream, properties) }
}

// WithFilterExclude returns a Decorator adding FilterExclude
func WithFilterExclude(c Codec, properties []string) Decorator {
	return func(upstream Processor) Processor { return NewFilterExclude(c, upstream, properties) }
}
