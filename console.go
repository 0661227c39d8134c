package textcomp

import (
	"github.com/jkbrsn/textcomp/internal/color"
	"github.com/morikuni/aec"
)

// PlainString returns the undecorated console text of c: the literal text, the translation key,
// the selector pattern or the keybind id. Translation arguments and selector separators are
// not rendered.
func (c Component) PlainString() string {
	return c.content().base()
}

// ConsoleString renders c for a terminal. Color, bold, italic, underline and strikethrough
// escapes nest in that order, color outermost, each closed by its own reset. Bold applies only
// when set to true; italic, underline and strikethrough apply whenever the field is present. An
// open_url click event then wraps the whole decorated string in an OSC 8 hyperlink.
// Obfuscation, insertion and hover events have no terminal form.
func (c Component) ConsoleString() string {
	s := c.PlainString()
	st := c.Style

	var layers []aec.ANSI
	if st.Color != nil {
		layers = append(layers, st.Color.foreground())
	}
	if isTrue(st.Bold) {
		layers = append(layers, aec.Bold)
	}
	if st.Italic != nil {
		layers = append(layers, aec.Italic)
	}
	if st.Underlined != nil {
		layers = append(layers, aec.Underline)
	}
	if st.Strikethrough != nil {
		layers = append(layers, aec.CrossOut)
	}
	for i := len(layers) - 1; i >= 0; i-- {
		s = layers[i].Apply(s)
	}

	if ev := st.ClickEvent; ev != nil && ev.Action == ActionOpenURL {
		s = color.Hyperlink(ev.Value, s)
	}
	return s
}

// PlainString returns the undecorated console text of the boxed component.
func (t Text) PlainString() string { return t.Component().PlainString() }

// ConsoleString renders the boxed component for a terminal.
func (t Text) ConsoleString() string { return t.Component().ConsoleString() }
