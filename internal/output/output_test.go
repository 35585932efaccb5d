package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontransformer/internal/diff"
	"github.com/mcncl/jsontransformer/internal/parser"
)

func report(t *testing.T, reference, actual string) *diff.Report {
	t.Helper()
	ref, err := parser.ParseString(reference)
	require.NoError(t, err)
	act, err := parser.ParseString(actual)
	require.NoError(t, err)
	return diff.Compare(ref, act)
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, ColorEnabled(ColorAlways, nil))
	assert.False(t, ColorEnabled(ColorNever, os.Stdout))
	assert.False(t, ColorEnabled(ColorAuto, nil))

	// A regular file is never a terminal
	f, err := os.CreateTemp("", "output_test_*")
	require.NoError(t, err)
	defer func() { _ = os.Remove(f.Name()) }()
	defer func() { _ = f.Close() }()
	assert.False(t, ColorEnabled(ColorAuto, f))
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	require.NoError(t, p.WriteDocument(`{"a":1}`))
	require.NoError(t, p.WriteDocument("{ }\n"))
	assert.Equal(t, "{\"a\":1}\n{ }\n", buf.String())
}

func TestWriteReport_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := report(t, `{"age":25}`, `{"age":30}`)

	require.NoError(t, NewPrinter(&buf, false).WriteReport(r))
	assert.Equal(t, r.String(), buf.String())
}

func TestWriteReport_PlainNoDifferences(t *testing.T) {
	var buf bytes.Buffer
	r := report(t, `{"age":25}`, `{"age":25}`)

	require.NoError(t, NewPrinter(&buf, false).WriteReport(r))
	assert.Equal(t, "No differences.\n", buf.String())
}

func TestWriteReport_Colored(t *testing.T) {
	var buf bytes.Buffer
	r := report(t, `{"age":25}`, `{"age":30}`)

	require.NoError(t, NewPrinter(&buf, true).WriteReport(r))
	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Difference at: /age")
	assert.Contains(t, out, "Expected: 25")
	assert.Contains(t, out, "Actual: 30")
}
