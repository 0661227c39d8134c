package textcomp

import (
	"fmt"

	"github.com/jkbrsn/textcomp/internal/color"
	"github.com/morikuni/aec"
)

// RGB is an explicit 24-bit color.
type RGB = color.RGB

// NamedColor is one of the sixteen palette colors.
type NamedColor uint8

// Palette colors, in protocol order.
const (
	Black NamedColor = iota
	DarkBlue
	DarkGreen
	DarkAqua
	DarkRed
	DarkPurple
	Gold
	Gray
	DarkGray
	Blue
	Green
	Aqua
	Red
	LightPurple
	Yellow
	White
)

// String returns the palette name, e.g. "dark_red".
func (n NamedColor) String() string {
	if e, ok := color.At(int(n)); ok {
		return e.Name
	}
	return fmt.Sprintf("NamedColor(%d)", uint8(n))
}

// RGB returns the palette's RGB value for n.
func (n NamedColor) RGB() RGB {
	e, _ := color.At(int(n))
	return e.RGB
}

// Color is either a palette color or an explicit RGB triple. The zero value is Black.
type Color struct {
	named NamedColor
	rgb   RGB
	isRGB bool
}

// ColorFromName returns the palette color n. Values past the end of the palette clamp to White,
// so every Color encodes to a name ParseColor accepts.
func ColorFromName(n NamedColor) Color {
	if int(n) >= len(color.Palette) {
		n = White
	}
	return Color{named: n}
}

// ColorFromRGB returns an explicit RGB color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{rgb: RGB{R: r, G: g, B: b}, isRGB: true}
}

// ParseColor parses the structural form of a color: a palette name or "#rrggbb".
func ParseColor(s string) (Color, error) {
	if i, ok := color.Lookup(s); ok {
		return ColorFromName(NamedColor(i)), nil
	}
	rgb, err := color.ParseHex(s)
	if err != nil {
		return Color{}, fmt.Errorf("unknown color %q: %w", s, err)
	}
	return ColorFromRGB(rgb.R, rgb.G, rgb.B), nil
}

// Named returns the palette color and true when c is a palette color.
func (c Color) Named() (NamedColor, bool) {
	return c.named, !c.isRGB
}

// RGB returns the RGB value of c, resolving palette colors through the palette.
func (c Color) RGB() RGB {
	if c.isRGB {
		return c.rgb
	}
	return c.named.RGB()
}

// String returns the structural form of c.
func (c Color) String() string {
	if c.isRGB {
		return c.rgb.Hex()
	}
	return c.named.String()
}

// foreground returns the terminal escape for c: the palette's 16-color code for named colors,
// true color otherwise.
func (c Color) foreground() aec.ANSI {
	if c.isRGB {
		return c.rgb.Foreground()
	}
	if e, ok := color.At(int(c.named)); ok {
		return e.Foreground
	}
	return aec.DefaultF
}
