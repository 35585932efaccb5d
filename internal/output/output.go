package output

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/jsontransformer/internal/diff"
)

// Color modes accepted by ColorEnabled
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled decides whether output to f should be colorized. In auto
// mode color is used only for terminals and only when NO_COLOR is unset.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes documents and diff reports
type Printer struct {
	w        io.Writer
	colorful bool

	pathColor     *color.Color
	expectedColor *color.Color
	actualColor   *color.Color
	okColor       *color.Color
}

// NewPrinter creates a Printer writing to w
func NewPrinter(w io.Writer, colorful bool) *Printer {
	p := &Printer{
		w:             w,
		colorful:      colorful,
		pathColor:     color.New(color.FgCyan, color.Bold),
		expectedColor: color.New(color.FgGreen),
		actualColor:   color.New(color.FgRed),
		okColor:       color.New(color.FgGreen, color.Bold),
	}
	if colorful {
		for _, c := range []*color.Color{p.pathColor, p.expectedColor, p.actualColor, p.okColor} {
			c.EnableColor()
		}
	}
	return p
}

// NewStdoutPrinter creates a Printer for os.Stdout using the given color
// mode. Colored output goes through an ANSI-translating writer so it also
// renders on Windows consoles.
func NewStdoutPrinter(mode string) *Printer {
	if ColorEnabled(mode, os.Stdout) {
		return NewPrinter(colorable.NewColorable(os.Stdout), true)
	}
	return NewPrinter(os.Stdout, false)
}

// WriteDocument writes text followed by a newline
func (p *Printer) WriteDocument(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(p.w, text)
	return err
}

// WriteReport writes a diff report. Without color the output is exactly
// the report text.
func (p *Printer) WriteReport(report *diff.Report) error {
	if !p.colorful {
		return p.WriteDocument(report.String())
	}
	if report.Empty() {
		return p.WriteDocument(p.okColor.Sprint(diff.NoDifferences))
	}

	var sb strings.Builder
	for _, d := range report.Differences {
		sb.WriteString(p.pathColor.Sprint(diff.LabelPath + d.Path))
		sb.WriteString("\n")
		sb.WriteString(p.expectedColor.Sprint(diff.LabelExpected + d.ExpectedText()))
		sb.WriteString("\n")
		sb.WriteString(p.actualColor.Sprint(diff.LabelActual + d.ActualText()))
		sb.WriteString("\n\n")
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}
