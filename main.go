package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsontransformer/internal/codec"
	"github.com/mcncl/jsontransformer/internal/config"
	"github.com/mcncl/jsontransformer/internal/errors"
	"github.com/mcncl/jsontransformer/internal/logging"
)

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to configuration file. If not specified, .jsontransformer.yml is searched for upwards from the working directory." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP server."`
	Minify   MinifyCmd   `cmd:"" help:"Remove insignificant whitespace from a JSON document."`
	Prettify PrettifyCmd `cmd:"" help:"Indent a JSON document, one member per line."`
	Include  IncludeCmd  `cmd:"" help:"Keep only the given root-level properties."`
	Exclude  ExcludeCmd  `cmd:"" help:"Remove the given root-level properties."`
	Compare  CompareCmd  `cmd:"" help:"Compare a JSON document against a reference document."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
	Codec  *codec.Codec
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsontransformer"),
		kong.Description("Minify, prettify, filter and compare JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsontransformer version %s", Version)},
	)

	ctx, err := parser.Parse(os.Args[1:])
	// Prints the error and, with kong.UsageOnError(), the usage before exiting
	parser.FatalIfErrorf(err)

	appCtx, err := newContext(CLI.Config, CLI.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontransformer --help\n")
		os.Exit(1)
	}
}

// newContext loads the configuration and builds the shared components
func newContext(configPath string, debug bool) (*Context, error) {
	cfg, err := config.Load(configPath, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, os.Stderr, debug)
	if err != nil {
		return nil, errors.NewConfigError("failed to set up logging", err)
	}
	logger.Debug("configuration loaded", "addr", cfg.Server.Addr, "max_depth", cfg.JSON.MaxDepth)

	return &Context{
		Debug:  debug,
		Config: cfg,
		Logger: logger,
		Codec:  codec.New(cfg.JSON.MaxDepth, cfg.JSON.Indent),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}
