package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds all configuration parsed from command-line flags.
type Config struct {
	Files        []string
	FeedURL      *url.URL
	InputFormat  string
	OutputFormat string
	ColorMode    string
	MaxDepth     int
	MaxNodes     int
	Count        int
	Headers      []string
	RPCMethod    string
	TextMessage  string
	Quiet        bool
	Verbosity    int
}

// parseConfig parses command-line flags and returns a validated Config.
func parseConfig() (*Config, error) {
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	if *showVersion {
		fmt.Printf("Version: %s\n", version)
		return nil, errVersionRequested
	}

	if *quiet && verbosityLevel.Value() > 0 {
		return nil, errors.New("-q cannot be combined with -v")
	}

	if *textMessage != "" && *rpcMethod != "" {
		return nil, errors.New("mutually exclusive messaging flags")
	}

	switch strings.ToLower(*colorArg) {
	case "auto", "always", "never":
		// valid
	default:
		return nil, errors.New("-color must be auto, always, or never")
	}

	if *maxDepth < 1 || *maxNodes < 1 {
		return nil, errors.New("-max-depth and -max-nodes must be positive")
	}

	cfg := &Config{
		Files:        flag.Args(),
		InputFormat:  strings.ToLower(*inputFormat),
		OutputFormat: strings.ToLower(*outputFormat),
		ColorMode:    strings.ToLower(*colorArg),
		MaxDepth:     *maxDepth,
		MaxNodes:     *maxNodes,
		Headers:      headerArguments.Values(),
		RPCMethod:    *rpcMethod,
		TextMessage:  *textMessage,
		Quiet:        *quiet,
		Verbosity:    verbosityLevel.Value(),
	}

	if *feedArg == "" {
		feedOnly := countFlag.WasSet() || len(cfg.Headers) > 0 ||
			cfg.TextMessage != "" || cfg.RPCMethod != ""
		if feedOnly {
			return nil, errors.New("-count, -H, -text and -rpc-method require -feed")
		}
		return cfg, nil
	}

	if len(cfg.Files) > 0 {
		return nil, errors.New("files cannot be combined with -feed")
	}
	feedURL, err := parseWSURI(*feedArg)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed URI: %w", err)
	}
	cfg.FeedURL = feedURL
	cfg.Count = countFlag.Value()
	return cfg, nil
}

// parseWSURI parses the rawURI string into a URL object.
func parseWSURI(rawURI string) (*url.URL, error) {
	uri := rawURI
	if !strings.Contains(rawURI, "://") {
		scheme := "wss://"
		if *noTLS {
			scheme = "ws://"
		}
		uri = scheme + rawURI
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// errVersionRequested is returned when -version flag is used.
var errVersionRequested = errors.New("version requested")

// onlyRune returns true if the string consists solely of the provided rune.
func onlyRune(s string, r rune) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch != r {
			return false
		}
	}
	return true
}

// preprocessVerbosityArgs rewrites os.Args so that shorthand -v/-vv translates to
// canonical -v=N forms before flag parsing. This lets the default flag package
// treat -v as a repeatable count.
func preprocessVerbosityArgs() {
	if len(os.Args) <= 1 {
		return
	}

	filtered := make([]string, 0, len(os.Args)-1)
	for _, arg := range os.Args[1:] {
		switch {
		case arg == "-v" || arg == "--verbose":
			filtered = append(filtered, "-v")
		case strings.HasPrefix(arg, "-v="):
			filtered = append(filtered, arg)
		case strings.HasPrefix(arg, "-vv") && onlyRune(arg[1:], 'v'):
			filtered = append(filtered, fmt.Sprintf("-v=%d", len(arg)-1))
		default:
			filtered = append(filtered, arg)
		}
	}

	os.Args = append([]string{os.Args[0]}, filtered...)
}
