package main

import (
	"flag"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkbrsn/textcomp"
)

func TestParseWSURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		noTLS    bool
		expected string
		wantErr  bool
	}{
		{
			name:     "full wss URL",
			input:    "wss://example.com/chat",
			expected: "wss://example.com/chat",
		},
		{
			name:     "full ws URL",
			input:    "ws://example.com/chat",
			expected: "ws://example.com/chat",
		},
		{
			name:     "no scheme defaults to wss",
			input:    "example.com/chat",
			expected: "wss://example.com/chat",
		},
		{
			name:     "no scheme with noTLS defaults to ws",
			input:    "localhost:8080/chat",
			noTLS:    true,
			expected: "ws://localhost:8080/chat",
		},
		{
			name:    "invalid URL",
			input:   "ht!tp://invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldNoTLS := *noTLS
			defer func() { *noTLS = oldNoTLS }()
			*noTLS = tt.noTLS

			result, err := parseWSURI(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

// revive:disable:function-length test setup requires saving/restoring many flags
func TestParseConfig(t *testing.T) {
	// These tests manipulate global flag state, so they cannot run in parallel
	origArgs := os.Args
	origCommandLine := flag.CommandLine
	origNoTLS := noTLS
	origColorArg := colorArg
	origQuiet := quiet
	origShowVersion := showVersion
	origTextMessage := textMessage
	origRPCMethod := rpcMethod
	origInputFormat := inputFormat
	origOutputFormat := outputFormat
	origFeedArg := feedArg
	origMaxDepth := maxDepth
	origMaxNodes := maxNodes
	origVerbosityLevel := verbosityLevel
	origCountFlag := countFlag
	origHeaderArguments := headerArguments

	defer func() {
		os.Args = origArgs
		flag.CommandLine = origCommandLine
		noTLS = origNoTLS
		colorArg = origColorArg
		quiet = origQuiet
		showVersion = origShowVersion
		textMessage = origTextMessage
		rpcMethod = origRPCMethod
		inputFormat = origInputFormat
		outputFormat = origOutputFormat
		feedArg = origFeedArg
		maxDepth = origMaxDepth
		maxNodes = origMaxNodes
		verbosityLevel = origVerbosityLevel
		countFlag = origCountFlag
		headerArguments = origHeaderArguments
	}()

	resetFlags := func() {
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

		noTLS = flag.Bool("no-tls", false, "")
		colorArg = flag.String("color", "auto", "")
		quiet = flag.Bool("q", false, "")
		showVersion = flag.Bool("version", false, "")
		textMessage = flag.String("text", "", "")
		rpcMethod = flag.String("rpc-method", "", "")
		inputFormat = flag.String("in", "json", "")
		outputFormat = flag.String("out", "console", "")
		feedArg = flag.String("feed", "", "")
		maxDepth = flag.Int("max-depth", textcomp.DefaultMaxDepth, "")
		maxNodes = flag.Int("max-nodes", textcomp.DefaultMaxNodes, "")

		verbosityLevel = newVerbosityCounter()
		countFlag = newTrackedIntFlag(0)
		headerArguments = headerList{}

		flag.Var(&countFlag, "count", "")
		flag.Var(&headerArguments, "H", "")
		flag.Var(&headerArguments, "header", "")
		flag.Var(verbosityLevel, "v", "")
	}

	tests := []struct {
		name      string
		args      []string
		wantErr   bool
		errIs     error
		checkFunc func(*testing.T, *Config)
	}{
		{
			name:    "version flag",
			args:    []string{"cmd", "-version"},
			wantErr: true,
			errIs:   errVersionRequested,
		},
		{
			name:    "quiet and verbose conflict",
			args:    []string{"cmd", "-q", "-v"},
			wantErr: true,
		},
		{
			name:    "text and rpc-method conflict",
			args:    []string{"cmd", "-feed", "example.com", "-text", "hi", "-rpc-method", "sub"},
			wantErr: true,
		},
		{
			name:    "invalid color option",
			args:    []string{"cmd", "-color", "invalid"},
			wantErr: true,
		},
		{
			name:    "non-positive limits",
			args:    []string{"cmd", "-max-depth", "0"},
			wantErr: true,
		},
		{
			name:    "feed options without feed",
			args:    []string{"cmd", "-count", "3", "chat.json"},
			wantErr: true,
		},
		{
			name:    "files and feed",
			args:    []string{"cmd", "-feed", "example.com", "chat.json"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"cmd", "-bogus"},
			wantErr: true,
		},
		{
			name: "defaults",
			args: []string{"cmd"},
			checkFunc: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Files)
				assert.Nil(t, cfg.FeedURL)
				assert.Equal(t, "json", cfg.InputFormat)
				assert.Equal(t, "console", cfg.OutputFormat)
				assert.Equal(t, "auto", cfg.ColorMode)
				assert.Equal(t, textcomp.DefaultMaxDepth, cfg.MaxDepth)
				assert.Equal(t, textcomp.DefaultMaxNodes, cfg.MaxNodes)
				assert.Equal(t, 0, cfg.Verbosity)
			},
		},
		{
			name: "files and formats",
			args: []string{"cmd", "-in", "YAML", "-out", "nbt", "-max-nodes", "64", "a.yaml", "b.yaml"},
			checkFunc: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Files)
				assert.Equal(t, "yaml", cfg.InputFormat)
				assert.Equal(t, "nbt", cfg.OutputFormat)
				assert.Equal(t, 64, cfg.MaxNodes)
			},
		},
		{
			name: "feed",
			args: []string{
				"cmd", "-feed", "example.com/chat", "-H", "Auth: Bearer token",
				"-H", "Origin: https://foo.com", "-rpc-method", "chat_subscribe",
				"-count", "5", "-v", "-v",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.FeedURL)
				assert.Equal(t, "wss://example.com/chat", cfg.FeedURL.String())
				assert.Equal(t, []string{"Auth: Bearer token", "Origin: https://foo.com"}, cfg.Headers)
				assert.Equal(t, "chat_subscribe", cfg.RPCMethod)
				assert.Equal(t, 5, cfg.Count)
				assert.Equal(t, 2, cfg.Verbosity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			resetFlags()

			cfg, err := parseConfig()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestPreprocessVerbosityArgs(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd", "-vvv", "-v", "--verbose", "-v=4", "-out", "json", "-vx"}
	preprocessVerbosityArgs()
	assert.Equal(t, []string{"cmd", "-v=3", "-v", "-v", "-v=4", "-out", "json", "-vx"}, os.Args)
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, newLogger(false, 0).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(false, 1).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger(false, 2).GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, newLogger(true, 0).GetLevel())
}
