// Package color provides ANSI color support for terminal output: true-color RGB values, the
// sixteen-entry chat palette and the escape sequences used to decorate console text.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/morikuni/aec"
)

// ErrInvalidHex is returned by ParseHex for anything but "#rrggbb".
var ErrInvalidHex = errors.New("color must be in '#rrggbb' format")

// RGB represents an RGB color value
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	Accent = RGB{255, 170, 0}   // palette gold (#ffaa00)
	Muted  = RGB{170, 170, 170} // palette gray (#aaaaaa)
)

// Foreground returns the true-color foreground escape for c.
func (c RGB) Foreground() aec.ANSI {
	return aec.FullColorF(c.R, c.G, c.B)
}

// Sprint returns the text with ANSI color codes applied
func (c RGB) Sprint(text string) string {
	return c.Foreground().Apply(text)
}

// Hex returns c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" (case-insensitive).
func ParseHex(s string) (RGB, error) {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return RGB{}, ErrInvalidHex
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, ErrInvalidHex
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hyperlink wraps label in an OSC 8 terminal hyperlink pointing at target.
func Hyperlink(target, label string) string {
	return "\x1b]8;;" + target + "\x1b\\" + label + "\x1b]8;;\x1b\\"
}
