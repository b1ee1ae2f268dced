package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/datasniff/internal/config"
	"github.com/mcncl/datasniff/internal/converter"
	"github.com/mcncl/datasniff/internal/errors"
	"github.com/mcncl/datasniff/internal/logging"
	"github.com/mcncl/datasniff/internal/models"
	"github.com/mcncl/datasniff/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	File        string   `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Targets     []string `help:"Comma separated target formats (json, yaml, toml, csv, markdown_table). Defaults to all." short:"t" sep:","`
	Format      string   `help:"Render a single target format. Takes precedence over --targets." short:"f"`
	Permissive  bool     `help:"Repair almost-JSON input (unquoted keys, trailing commas) during detection." short:"p"`
	MaxBytes    int      `help:"Truncate input to this many bytes before detection." short:"m"`
	Config      string   `help:"Path to config file. Defaults to the nearest .datasniff.yml." short:"c" type:"path"`
	Debug       bool     `help:"Enable debug logging on stderr." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

// Exit codes
const (
	exitError = 1
	exitUsage = 2
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("datasniff"),
		kong.Description("Detect the format of structured text and convert it to JSON, YAML, TOML and CSV"),
		kong.UsageOnError(),
	)

	ctx, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "datasniff: error: %v\n", err)
		var parseErr *kong.ParseError
		if stderrors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		os.Exit(exitUsage)
	}

	if CLI.Version {
		fmt.Printf("datasniff version %s\n", Version)
		return
	}

	if CLI.MaxBytes < 0 {
		fmt.Fprintln(os.Stderr, "datasniff: error: --max-bytes must not be negative")
		_ = ctx.PrintUsage(true)
		os.Exit(exitUsage)
	}

	runCtx, err := newContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(exitError)
	}

	if err := run(runCtx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: datasniff --help\n")
		os.Exit(exitError)
	}
}

// newContext resolves configuration from the .env file, the config file,
// the environment and the command line, in increasing precedence.
func newContext() (*Context, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, cliOverrides())
	if err != nil {
		return nil, err
	}

	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logging.ForCLI(os.Stderr, cfg.Dev.Debug),
	}, nil
}

// cliOverrides collects the settings given as flags
func cliOverrides() config.Overrides {
	override := config.Overrides{
		Permissive: CLI.Permissive,
		MaxBytes:   CLI.MaxBytes,
		Debug:      CLI.Debug,
	}
	switch {
	case strings.TrimSpace(CLI.Format) != "":
		override.Targets = []string{strings.TrimSpace(CLI.Format)}
	case len(CLI.Targets) > 0:
		override.Targets = config.SplitList(strings.Join(CLI.Targets, ","))
	}
	return override
}

// run executes the main program logic
func run(ctx *Context, out io.Writer) error {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	if ctx.Logger == nil {
		ctx.Logger = logging.ForCLI(os.Stderr, ctx.Debug)
	}

	// 1. Read raw input
	input, err := readInput()
	if err != nil {
		return err
	}
	ctx.Logger.Debug("input read", "bytes", len(input))

	// 2. Detect and convert
	conv := converter.New(ctx.Config, ctx.Logger)
	result := conv.Convert(input, converter.OptionsFromConfig(ctx.Config))

	// 3. Output the result
	return writeOutput(out, result)
}

// readInput reads raw bytes from file or stdin
func readInput() ([]byte, error) {
	if CLI.File != "" {
		return parser.ReadFile(CLI.File)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	// Terminal is interactive (not piped)
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	return parser.ReadAll(os.Stdin)
}

// writeOutput prints the result as pretty JSON
func writeOutput(out io.Writer, result models.Result) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return errors.NewOutputError("failed to encode result", err)
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste data and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "datasniff Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your data below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	fmt.Fprintln(os.Stderr, "\nProcessing input...")
	return []byte(builder.String()), nil
}
