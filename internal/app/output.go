package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/jkbrsn/textcomp"
	"github.com/jkbrsn/textcomp/internal/color"
)

// colorEnabled returns true if color output is enabled, based on both color mode and terminal
// detection.
func (c *Client) colorEnabled() bool {
	switch c.ColorMode {
	case "always":
		return true
	case "never":
		return false
	case "auto", "":
	default:
		return false
	}

	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}

	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorizeMuted returns the text in the muted color if color output is enabled.
func (c *Client) colorizeMuted(text string) string {
	if !c.colorEnabled() {
		return text
	}
	return color.Muted.Sprint(text)
}

// colorizeAccent returns the text in the accent color if color output is enabled.
func (c *Client) colorizeAccent(text string) string {
	if !c.colorEnabled() {
		return text
	}
	return color.Accent.Sprint(text)
}

// render returns t in the configured output format, without a trailing newline.
func (c *Client) render(t textcomp.Text) (string, error) {
	switch c.OutputFormat {
	case formatJSON:
		data, err := json.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON output: %w", err)
		}
		return string(data), nil
	case formatYAML:
		data, err := yaml.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML output: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	case formatNBT:
		data, err := t.MarshalBinary()
		if err != nil {
			return "", fmt.Errorf("failed to encode NBT output: %w", err)
		}
		return hex.EncodeToString(data), nil
	default:
		if c.colorEnabled() {
			return t.ConsoleString(), nil
		}
		return t.PlainString(), nil
	}
}

// printText prints t on its own line. YAML documents after the first are separated by "---".
func (c *Client) printText(t textcomp.Text) error {
	out, err := c.render(t)
	if err != nil {
		return err
	}
	if c.OutputFormat == formatYAML && c.printed > 0 {
		fmt.Println("---")
	}
	c.printed++
	fmt.Println(out)
	return nil
}

// printFeedMessage prints a component received from a feed, prefixed with its index and
// arrival time at verbosity 1 and above.
func (c *Client) printFeedMessage(index int, received time.Time, t textcomp.Text) error {
	if c.VerbosityLevel < 1 || c.OutputFormat == formatYAML {
		return c.printText(t)
	}
	out, err := c.render(t)
	if err != nil {
		return err
	}
	c.printed++
	fmt.Printf("[%s @ %s] %s\n",
		c.colorizeAccent(fmt.Sprintf("%04d", index)),
		c.colorizeMuted(received.Format("15:04:05.000")),
		out)
	return nil
}
