package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/mcncl/jsontransformer/internal/errors"
	"github.com/mcncl/jsontransformer/internal/output"
	"github.com/mcncl/jsontransformer/internal/processor"
	"github.com/mcncl/jsontransformer/internal/server"
)

// IOFlags selects where a command reads its document and writes its result
type IOFlags struct {
	Input  string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// ServeCmd runs the HTTP front end
type ServeCmd struct {
	Addr string `help:"Listen address, overriding the configured server.addr." short:"a"`
}

// Run implements the serve command
func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, ctx.Codec, ctx.Logger).Run(runCtx)
}

// MinifyCmd minifies a document
type MinifyCmd struct {
	IOFlags
}

// Run implements the minify command
func (c *MinifyCmd) Run(ctx *Context) error {
	p := processor.NewMinify(ctx.Codec, processor.NewBase(ctx.Codec))
	return runProcessor(ctx, c.IOFlags, p)
}

// PrettifyCmd pretty-prints a document
type PrettifyCmd struct {
	IOFlags
}

// Run implements the prettify command
func (c *PrettifyCmd) Run(ctx *Context) error {
	p := processor.NewPrettify(ctx.Codec, processor.NewBase(ctx.Codec))
	return runProcessor(ctx, c.IOFlags, p)
}

// IncludeCmd keeps the given root-level properties
type IncludeCmd struct {
	IOFlags
	Properties []string `help:"Root-level property to keep. Repeatable." name:"property" short:"p" sep:"none"`
	Pretty     bool     `help:"Pretty-print the result." short:"P"`
}

// Run implements the include command
func (c *IncludeCmd) Run(ctx *Context) error {
	p := processor.Chain(processor.NewBase(ctx.Codec), processor.WithFilterInclude(ctx.Codec, c.Properties))
	if c.Pretty {
		p = processor.NewPrettify(ctx.Codec, p)
	}
	return runProcessor(ctx, c.IOFlags, p)
}

// ExcludeCmd removes the given root-level properties
type ExcludeCmd struct {
	IOFlags
	Properties []string `help:"Root-level property to remove. Repeatable." name:"property" short:"p" sep:"none"`
	Pretty     bool     `help:"Pretty-print the result." short:"P"`
}

// Run implements the exclude command
func (c *ExcludeCmd) Run(ctx *Context) error {
	p := processor.Chain(processor.NewBase(ctx.Codec), processor.WithFilterExclude(ctx.Codec, c.Properties))
	if c.Pretty {
		p = processor.NewPrettify(ctx.Codec, p)
	}
	return runProcessor(ctx, c.IOFlags, p)
}

// CompareCmd diffs a document against a reference file
type CompareCmd struct {
	IOFlags
	Reference string `help:"Reference (expected) JSON file; its fields drive the comparison." short:"r" required:"" type:"path"`
	Format    string `help:"Report format." enum:"text,json" default:"text"`
	Color     string `help:"Colorize the text report: auto, always or never. Defaults to the configured output.color." enum:"auto,always,never," default:""`
}

// Run implements the compare command
func (c *CompareCmd) Run(ctx *Context) error {
	reference, err := readFile(c.Reference)
	if err != nil {
		return err
	}
	document, err := readInput(ctx, c.Input)
	if err != nil {
		return err
	}

	report, err := processor.NewDiffer(ctx.Codec, reference).Report(document)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("comparison finished", "differences", len(report.Differences))

	if c.Format == "json" {
		return writeOutput(ctx, c.Output, report.JSON())
	}
	if c.Output != "" {
		return writeOutput(ctx, c.Output, report.String())
	}

	mode := c.Color
	if mode == "" {
		mode = ctx.Config.Output.Color
	}
	if err := stdoutPrinter(ctx, mode).WriteReport(report); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// runProcessor reads the input, runs p over it and writes the result
func runProcessor(ctx *Context, flags IOFlags, p processor.Processor) error {
	document, err := readInput(ctx, flags.Input)
	if err != nil {
		return err
	}

	result, err := p.Process(document)
	if err != nil {
		return err
	}
	return writeOutput(ctx, flags.Output, result)
}

// readInput reads the document from a file or stdin
func readInput(ctx *Context, path string) (string, error) {
	if path != "" {
		return readFile(path)
	}

	if f, ok := ctx.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return readInteractiveInput(ctx)
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// readFile reads a whole JSON file
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError(fmt.Sprintf("input file '%s' is empty", path), errors.ErrEmptyInput)
	}
	return string(data), nil
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (string, error) {
	fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder
	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(jsonBuilder.String()) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	return jsonBuilder.String(), nil
}

// writeOutput writes text to a file or stdout
func writeOutput(ctx *Context, path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(ctx.Stderr, "Result written to %s\n", path)
		return nil
	}

	if err := output.NewPrinter(ctx.Stdout, false).WriteDocument(text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// stdoutPrinter returns a colorizing printer when writing to the real stdout
func stdoutPrinter(ctx *Context, mode string) *output.Printer {
	if ctx.Stdout == os.Stdout {
		return output.NewStdoutPrinter(mode)
	}
	return output.NewPrinter(ctx.Stdout, mode == output.ColorAlways)
}
