// Package app implements the textcomp command: it reads text components from files, stdin or
// a WebSocket feed, decodes them with the configured limits and prints them in the requested
// output format.
package app

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jkbrsn/textcomp"
)

// Input and output formats.
const (
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatNBT     = "nbt"
	formatConsole = "console"
)

// maxLineSize bounds a single hex encoded NBT line.
const maxLineSize = 1 << 20

// Client converts text components between their wire forms, applying different methods based
// on the settings passed to the struct.
type Client struct {
	// Input
	InputFormat string   // "json", "yaml" or "nbt" (hex, one record per line)
	Count       int      // Nr of feed messages to print; 0 means unlimited
	Headers     []string // HTTP headers for the feed handshake ("Key: Value")
	RPCMethod   string   // JSON-RPC method sent after connecting to a feed
	TextMessage string   // Text message sent after connecting to a feed

	// Decoding limits; zero keeps the package defaults
	MaxDepth int
	MaxNodes int

	// Output
	OutputFormat string // "console", "json", "yaml" or "nbt"
	ColorMode    string // Color behavior: "auto", "always", or "never"

	// Verbosity
	Quiet          bool // print nothing but the components
	VerbosityLevel int  // >=1 prefixes feed messages with their index and arrival time

	Logger zerolog.Logger

	printed int
}

// Validate checks the settings and fills in defaults.
func (c *Client) Validate() error {
	if c.InputFormat == "" {
		c.InputFormat = formatJSON
	}
	if c.OutputFormat == "" {
		c.OutputFormat = formatConsole
	}
	switch c.InputFormat {
	case formatJSON, formatYAML, formatNBT:
	default:
		return fmt.Errorf("unknown input format %q", c.InputFormat)
	}
	switch c.OutputFormat {
	case formatConsole, formatJSON, formatYAML, formatNBT:
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	switch c.ColorMode {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q", c.ColorMode)
	}
	if c.Count < 0 {
		return errors.New("count must be zero or positive")
	}
	if c.MaxDepth < 0 || c.MaxNodes < 0 {
		return errors.New("decoding limits must be zero or positive")
	}
	if c.TextMessage != "" && c.RPCMethod != "" {
		return errors.New("mutually exclusive messaging flags")
	}
	if c.Quiet && c.VerbosityLevel > 0 {
		return errors.New("quiet cannot be combined with verbose")
	}
	return nil
}

// codec returns a codec with the configured limits.
func (c *Client) codec() *textcomp.Codec {
	var opts []textcomp.Option
	if c.MaxDepth > 0 {
		opts = append(opts, textcomp.WithMaxDepth(c.MaxDepth))
	}
	if c.MaxNodes > 0 {
		opts = append(opts, textcomp.WithMaxNodes(c.MaxNodes))
	}
	return textcomp.NewCodec(opts...)
}

// ConvertFile converts every component in the named file. A path of "-" reads stdin.
func (c *Client) ConvertFile(path string) error {
	if path == "-" {
		return c.ConvertReader(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := c.ConvertReader(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ConvertReader decodes a stream of components from r and prints each one. JSON input is a
// sequence of values, YAML input a sequence of documents and NBT input one hex encoded record
// per line. The first malformed component stops the conversion.
func (c *Client) ConvertReader(r io.Reader) error {
	codec := c.codec()
	index := 0
	emit := func(t textcomp.Text, err error) error {
		index++
		if err != nil {
			return fmt.Errorf("component %d: %w", index, err)
		}
		return c.printText(t)
	}

	switch c.InputFormat {
	case formatYAML:
		dec := yaml.NewDecoder(r)
		for {
			var raw any
			if err := dec.Decode(&raw); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("component %d: invalid YAML: %w", index+1, err)
			}
			if err := emit(codec.Decode(raw)); err != nil {
				return err
			}
		}
	case formatNBT:
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			data, err := hex.DecodeString(line)
			if err != nil {
				index++
				return fmt.Errorf("component %d: invalid hex: %w", index, err)
			}
			if err := emit(codec.DecodeBinary(data)); err != nil {
				return err
			}
		}
		return scanner.Err()
	default:
		dec := json.NewDecoder(r)
		for {
			var raw any
			if err := dec.Decode(&raw); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("component %d: invalid JSON: %w", index+1, err)
			}
			if err := emit(codec.Decode(raw)); err != nil {
				return err
			}
		}
	}
}
