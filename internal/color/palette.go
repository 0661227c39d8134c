package color

import "github.com/morikuni/aec"

// Entry is one named palette color.
type Entry struct {
	Name       string
	Foreground aec.ANSI // nearest 16-color terminal foreground
	RGB        RGB
}

// Palette lists the named chat colors in their protocol order.
var Palette = [...]Entry{
	{Name: "black", Foreground: aec.BlackF, RGB: RGB{0x00, 0x00, 0x00}},
	{Name: "dark_blue", Foreground: aec.BlueF, RGB: RGB{0x00, 0x00, 0xAA}},
	{Name: "dark_green", Foreground: aec.GreenF, RGB: RGB{0x00, 0xAA, 0x00}},
	{Name: "dark_aqua", Foreground: aec.CyanF, RGB: RGB{0x00, 0xAA, 0xAA}},
	{Name: "dark_red", Foreground: aec.RedF, RGB: RGB{0xAA, 0x00, 0x00}},
	{Name: "dark_purple", Foreground: aec.MagentaF, RGB: RGB{0xAA, 0x00, 0xAA}},
	{Name: "gold", Foreground: aec.YellowF, RGB: RGB{0xFF, 0xAA, 0x00}},
	{Name: "gray", Foreground: aec.WhiteF, RGB: RGB{0xAA, 0xAA, 0xAA}},
	{Name: "dark_gray", Foreground: aec.LightBlackF, RGB: RGB{0x55, 0x55, 0x55}},
	{Name: "blue", Foreground: aec.LightBlueF, RGB: RGB{0x55, 0x55, 0xFF}},
	{Name: "green", Foreground: aec.LightGreenF, RGB: RGB{0x55, 0xFF, 0x55}},
	{Name: "aqua", Foreground: aec.LightCyanF, RGB: RGB{0x55, 0xFF, 0xFF}},
	{Name: "red", Foreground: aec.LightRedF, RGB: RGB{0xFF, 0x55, 0x55}},
	{Name: "light_purple", Foreground: aec.LightMagentaF, RGB: RGB{0xFF, 0x55, 0xFF}},
	{Name: "yellow", Foreground: aec.LightYellowF, RGB: RGB{0xFF, 0xFF, 0x55}},
	{Name: "white", Foreground: aec.LightWhiteF, RGB: RGB{0xFF, 0xFF, 0xFF}},
}

var paletteIndex = func() map[string]int {
	m := make(map[string]int, len(Palette))
	for i, e := range Palette {
		m[e.Name] = i
	}
	return m
}()

// Lookup returns the palette index of name.
func Lookup(name string) (int, bool) {
	i, ok := paletteIndex[name]
	return i, ok
}

// At returns the palette entry at index i.
func At(i int) (Entry, bool) {
	if i < 0 || i >= len(Palette) {
		return Entry{}, false
	}
	return Palette[i], true
}
