package parser

import (
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/jsontransformer/internal/errors" // Custom errors package
	"github.com/mcncl/jsontransformer/internal/models"
)

// DefaultMaxDepth bounds object/array nesting. Everything downstream of the
// parser (serialization, equality, diffing) recurses at most this deep.
const DefaultMaxDepth = 512

// Parser converts JSON text into an ordered models.Value tree.
// A Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	MaxDepth int
}

// NewParser creates a Parser with the default nesting limit
func NewParser() *Parser {
	return &Parser{MaxDepth: DefaultMaxDepth}
}

// Parse reads exactly one JSON value from reader. Every failure is reported
// as a parsing error wrapping errors.ErrMalformedDocument.
func (p *Parser) Parse(reader io.Reader) (*models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Keep number literals as written

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewMalformedError("input is empty or contains only whitespace")
		}
		return nil, malformed(err)
	}

	root, err := p.parseValue(decoder, tok, 0)
	if err != nil {
		return nil, err
	}

	// Only whitespace may follow the root value
	if tok, err := decoder.Token(); err == nil {
		return nil, errors.NewMalformedError(fmt.Sprintf("unexpected %v after top-level value", describe(tok)))
	} else if !stderrors.Is(err, io.EOF) {
		return nil, malformed(err)
	}

	return root, nil
}

// ParseString parses JSON from a string
func (p *Parser) ParseString(jsonString string) (*models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewMalformedError("input is empty or contains only whitespace")
	}
	return p.Parse(strings.NewReader(jsonString))
}

func (p *Parser) parseValue(decoder *json.Decoder, tok json.Token, depth int) (*models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if depth >= p.maxDepth() {
			return nil, errors.NewMalformedError(fmt.Sprintf("nesting depth exceeds limit of %d", p.maxDepth()))
		}
		switch t {
		case '{':
			return p.parseObject(decoder, depth+1)
		case '[':
			return p.parseArray(decoder, depth+1)
		}
		return nil, errors.NewMalformedError(fmt.Sprintf("unexpected delimiter %q", rune(t)))
	case string:
		return models.String(t), nil
	case json.Number:
		return models.Number(t), nil
	case bool:
		return models.Bool(t), nil
	case nil:
		return models.Null(), nil
	default:
		return nil, errors.NewMalformedError(fmt.Sprintf("unexpected token %v", t))
	}
}

func (p *Parser) parseObject(decoder *json.Decoder, depth int) (*models.Value, error) {
	obj := models.NewObject()
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewMalformedError(fmt.Sprintf("object key must be a string, got %v", describe(tok)))
		}

		tok, err = decoder.Token()
		if err != nil {
			return nil, malformed(err)
		}
		val, err := p.parseValue(decoder, tok, depth)
		if err != nil {
			return nil, err
		}
		// Duplicate keys: last value wins, first position is kept
		obj.Set(key, val)
	}
}

func (p *Parser) parseArray(decoder *json.Decoder, depth int) (*models.Value, error) {
	arr := models.Array()
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return arr, nil
		}
		val, err := p.parseValue(decoder, tok, depth)
		if err != nil {
			return nil, err
		}
		arr.Append(val)
	}
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// malformed converts a decoder error into a parsing error
func malformed(err error) *errors.AppError {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewMalformedError(fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()))
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewMalformedError("unexpected end of JSON input")
	}
	return errors.NewMalformedError(fmt.Sprintf("failed to decode JSON: %v", err))
}

func describe(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		return fmt.Sprintf("%q", rune(t))
	case string:
		return fmt.Sprintf("string %q", t)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", t)
	}
}

var defaultParser = NewParser()

// Parse reads one JSON value using the default limits
func Parse(reader io.Reader) (*models.Value, error) {
	return defaultParser.Parse(reader)
}

// ParseString parses a JSON string using the default limits
func ParseString(jsonString string) (*models.Value, error) {
	return defaultParser.ParseString(jsonString)
}
