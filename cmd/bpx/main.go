// Command bpx decodes, encodes, inspects and stores blueprint exchange
// strings.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"factoriobp.io/internal/config"
	"factoriobp.io/internal/logging"
	"factoriobp.io/internal/pipeline"
	"factoriobp.io/internal/protocol"
)

const (
	exitOK = iota
	exitGeneric
	exitUsage
	exitIO
	exitFormat
	exitSchema
	exitData
	exitInvalid
)

// CLI is the bpx command line.
type CLI struct {
	Config   string `help:"YAML config file." type:"path" env:"BPX_CONFIG" placeholder:"FILE"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)." placeholder:"LEVEL"`
	Verbose  bool   `short:"v" help:"Log every pipeline stage (same as --log-level=debug)."`

	Decode   DecodeCmd    `cmd:"" help:"Decode an exchange string to JSON, YAML or a debug dump."`
	Encode   EncodeCmd    `cmd:"" help:"Encode a JSON or JSONC document as an exchange string."`
	Validate ValidateCmd  `cmd:"" help:"Decode an exchange string and report every problem found."`
	Info     InfoCmd      `cmd:"" help:"Summarize an exchange string."`
	Library  LibraryGroup `cmd:"" help:"Store and retrieve blueprints in a local library."`
}

// App carries what every command needs once flags and config are resolved.
type App struct {
	Config   config.Config
	Log      *zap.Logger
	Pipeline *pipeline.Pipeline
	Stdout   io.Writer
	Stderr   io.Writer
}

type exitRequest int

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("bpx"),
		kong.Description("Blueprint exchange string tool."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitRequest(code)) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "bpx: %v\n", err)
		return exitGeneric
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "bpx: %v\n", err)
		return exitUsage
	}

	app, err := newApp(&cli, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "bpx: %v\n", err)
		return exitCode(err)
	}
	defer func() { _ = app.Log.Sync() }()

	if err := ctx.Run(app); err != nil {
		app.Log.Debug("command failed", zap.String("command", ctx.Command()), zap.String("code", protocol.Code(err)))
		fmt.Fprintf(stderr, "bpx: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func newApp(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.Verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging())
	if err != nil {
		return nil, err
	}

	p := pipeline.New(log)
	p.Decode = cfg.DecodeOptions()
	p.Encode = cfg.EncodeOptions()
	p.Checks = cfg.ValidateOptions()
	p.Stdin = stdin
	p.Stdout = stdout

	return &App{Config: cfg, Log: log, Pipeline: p, Stdout: stdout, Stderr: stderr}, nil
}

// exitCode maps an error onto the documented exit statuses.
func exitCode(err error) int {
	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		return exitUsage
	}
	switch protocol.Code(err) {
	case protocol.ErrIO:
		return exitIO
	case protocol.ErrFormat:
		return exitFormat
	case protocol.ErrSchema:
		return exitSchema
	case protocol.ErrData:
		return exitData
	case protocol.ErrInvalid:
		return exitInvalid
	}
	return exitGeneric
}
