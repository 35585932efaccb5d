package diff

import (
	"strings"

	"github.com/mcncl/jsontransformer/internal/formatter"
	"github.com/mcncl/jsontransformer/internal/models"
)

// NoDifferences is the report text when two documents match.
const NoDifferences = "No differences."

// Report line labels
const (
	LabelPath     = "Difference at: "
	LabelExpected = "Expected: "
	LabelActual   = "Actual: "
)

// Difference is a single mismatch between the reference and the actual
// document. Actual is nil when the reference field is absent from the
// actual document.
type Difference struct {
	Path     string
	Expected *models.Value
	Actual   *models.Value
}

// Missing reports whether the field was absent from the actual document
func (d Difference) Missing() bool {
	return d.Actual == nil
}

// ExpectedText returns the compact form of the reference value
func (d Difference) ExpectedText() string {
	return formatter.Compact(d.Expected)
}

// ActualText returns the compact form of the actual value; a missing
// value renders as null.
func (d Difference) ActualText() string {
	return formatter.Compact(d.Actual)
}

// Report is the ordered list of differences found by Compare
type Report struct {
	Differences []Difference
}

// Empty reports whether no differences were found
func (r *Report) Empty() bool {
	return len(r.Differences) == 0
}

// String renders the report as text: three lines per difference followed
// by a blank line, or NoDifferences.
func (r *Report) String() string {
	if r.Empty() {
		return NoDifferences
	}
	var sb strings.Builder
	for _, d := range r.Differences {
		sb.WriteString(LabelPath)
		sb.WriteString(d.Path)
		sb.WriteString("\n")
		sb.WriteString(LabelExpected)
		sb.WriteString(d.ExpectedText())
		sb.WriteString("\n")
		sb.WriteString(LabelActual)
		sb.WriteString(d.ActualText())
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Value renders the report as a JSON value:
// {"differences":[{"path":..,"expected":..,"actual":..}]}. Records for
// fields absent from the actual document carry "missing": true.
func (r *Report) Value() *models.Value {
	records := models.Array()
	for _, d := range r.Differences {
		rec := models.NewObject()
		rec.Set("path", models.String(d.Path))
		rec.Set("expected", d.Expected)
		if d.Missing() {
			rec.Set("actual", models.Null())
			rec.Set("missing", models.Bool(true))
		} else {
			rec.Set("actual", d.Actual)
		}
		records.Append(rec)
	}
	root := models.NewObject()
	root.Set("differences", records)
	return root
}

// JSON renders Value compactly
func (r *Report) JSON() string {
	return formatter.Compact(r.Value())
}

type frame struct {
	reference *models.Value
	actual    *models.Value
	path      string
}

// Compare walks reference and actual together and reports every leaf where
// they differ.
//
// Only fields of the reference are visited: a field present solely in the
// actual document is never reported. Arrays are compared as whole values.
// The walk uses an explicit stack so input depth does not grow the call stack.
func Compare(reference, actual *models.Value) *Report {
	report := &Report{}
	stack := []frame{{reference: reference, actual: actual}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if models.Equal(f.reference, f.actual) {
			continue
		}

		if f.reference.IsObject() && f.actual.IsObject() {
			members := f.reference.Members()
			// Push in reverse so fields pop in reference order
			for i := len(members) - 1; i >= 0; i-- {
				m := members[i]
				other, _ := f.actual.Get(m.Key)
				stack = append(stack, frame{
					reference: m.Value,
					actual:    other,
					path:      f.path + "/" + m.Key,
				})
			}
			continue
		}

		report.Differences = append(report.Differences, Difference{
			Path:     f.path,
			Expected: f.reference,
			Actual:   f.actual,
		})
	}

	return report
}
