package processor

import (
	"github.com/mcncl/jsontransformer/internal/diff"
)

// Differ compares its input against a fixed reference document. Unlike the
// other processors it has no upstream and emits a diff report rather than
// a document.
type Differ struct {
	codec     Codec
	reference string
}

// NewDiffer binds reference as the expected side of every comparison.
// The reference is parsed on each Process call, so a malformed reference
// surfaces as a Process error.
func NewDiffer(c Codec, reference string) *Differ {
	return &Differ{codec: c, reference: reference}
}

// Process parses document as the actual side and returns the text report,
// or diff.NoDifferences.
func (d *Differ) Process(document string) (string, error) {
	report, err := d.Report(document)
	if err != nil {
		return "", err
	}
	return report.String(), nil
}

// Report is Process returning the structured report
func (d *Differ) Report(document string) (*diff.Report, error) {
	reference, err := d.codec.Parse(d.reference)
	if err != nil {
		return nil, err
	}
	actual, err := d.codec.Parse(document)
	if err != nil {
		return nil, err
	}
	return diff.Compare(reference, actual), nil
}
