// Package main parses and validates the flags and input passed to the program, and then
// converts text components from files, stdin or a WebSocket feed using the internal client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jkbrsn/textcomp"
	"github.com/jkbrsn/textcomp/internal/app"
)

var (
	// Input
	countFlag       = newTrackedIntFlag(0)
	headerArguments headerList
	inputFormat     = flag.String("in", "json", "input format: json, yaml or nbt")
	feedArg         = flag.String("feed", "", "read components from a WebSocket feed at this URL")
	textMessage     = flag.String("text", "", "a text message to send to the feed")
	rpcMethod       = flag.String("rpc-method", "", "a JSON-RPC method to call on the feed")
	maxDepth        = flag.Int("max-depth", textcomp.DefaultMaxDepth, "maximum nesting depth")
	maxNodes        = flag.Int("max-nodes", textcomp.DefaultMaxNodes, "maximum components per tree")
	// Output
	outputFormat = flag.String("out", "console", "output format: console, json, yaml or nbt")
	colorArg     = flag.String("color", "auto", "color output: auto, always or never")
	showVersion  = flag.Bool("version", false, "print the program version")
	version      = "unknown"
	// Protocol
	noTLS = flag.Bool("no-tls", false, "use ws:// instead of wss:// when the feed URL has no scheme")
	// Verbosity
	quiet          = flag.Bool("q", false, "quiet all output but the components")
	verbosityLevel = newVerbosityCounter()
)

func init() {
	flag.Var(&countFlag, "count", "number of feed components to print; 0 means unlimited")
	flag.Var(&headerArguments, "H", "HTTP header for the feed handshake, 'Key: Value' (repeatable)")
	flag.Var(&headerArguments, "header", "alias of -H")
	flag.Var(verbosityLevel, "v", "increase verbosity; repeat or use -vv for debug logs")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:  textcomp [options] [file ...]")
		fmt.Fprintln(os.Stderr, "        textcomp [options] -feed <url>")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Without files or -feed, components are read from stdin.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Format options:")
		fmt.Fprintln(os.Stderr, "  -in         "+flag.Lookup("in").Usage)
		fmt.Fprintln(os.Stderr, "  -out        "+flag.Lookup("out").Usage)
		fmt.Fprintln(os.Stderr, "  -color      "+flag.Lookup("color").Usage)
		fmt.Fprintln(os.Stderr, "  -max-depth  "+flag.Lookup("max-depth").Usage)
		fmt.Fprintln(os.Stderr, "  -max-nodes  "+flag.Lookup("max-nodes").Usage)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Feed options:")
		fmt.Fprintln(os.Stderr, "  -feed        "+flag.Lookup("feed").Usage)
		fmt.Fprintln(os.Stderr, "  -H           "+flag.Lookup("H").Usage)
		fmt.Fprintln(os.Stderr, "  -text        "+flag.Lookup("text").Usage)
		fmt.Fprintln(os.Stderr, "  -rpc-method  "+flag.Lookup("rpc-method").Usage)
		fmt.Fprintln(os.Stderr, "  -count       "+flag.Lookup("count").Usage)
		fmt.Fprintln(os.Stderr, "  -no-tls      "+flag.Lookup("no-tls").Usage)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Other options:")
		fmt.Fprintln(os.Stderr, "  -q        "+flag.Lookup("q").Usage)
		fmt.Fprintln(os.Stderr, "  -v        "+flag.Lookup("v").Usage)
		fmt.Fprintln(os.Stderr, "  -version  "+flag.Lookup("version").Usage)
	}
}

func main() {
	preprocessVerbosityArgs()

	cfg, err := parseConfig()
	if err != nil {
		if errors.Is(err, errVersionRequested) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error parsing input: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := newLogger(cfg.Quiet, cfg.Verbosity)

	client := app.Client{
		InputFormat:    cfg.InputFormat,
		Count:          cfg.Count,
		Headers:        cfg.Headers,
		RPCMethod:      cfg.RPCMethod,
		TextMessage:    cfg.TextMessage,
		MaxDepth:       cfg.MaxDepth,
		MaxNodes:       cfg.MaxNodes,
		OutputFormat:   cfg.OutputFormat,
		ColorMode:      cfg.ColorMode,
		Quiet:          cfg.Quiet,
		VerbosityLevel: cfg.Verbosity,
		Logger:         logger,
	}

	if err := client.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in input settings: %v\n", err)
		os.Exit(1)
	}

	if cfg.FeedURL != nil {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if err := client.StreamFeed(ctx, cfg.FeedURL); err != nil {
			logger.Error().Err(err).Msg("Streaming feed failed")
			cancel()
			os.Exit(1) //revive:disable-line:deep-exit
		}
		return
	}

	files := cfg.Files
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, path := range files {
		if err := client.ConvertFile(path); err != nil {
			logger.Error().Err(err).Msg("Conversion failed")
			os.Exit(1)
		}
	}
}

// newLogger builds the stderr logger. -q leaves errors only, -vv enables debug output.
func newLogger(quiet bool, verbosity int) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbosity >= 2:
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
