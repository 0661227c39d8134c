// Package textcomp implements the rich-text model used for chat, signs, titles and other
// in-band display strings of the game protocol. A Component pairs a Content with a Style and
// can be encoded structurally (JSON or YAML), as an anonymous NBT compound for embedding in
// binary payloads, or rendered with ANSI escapes for terminal logs.
//
// Components are values: every builder method returns an updated copy and leaves the receiver
// untouched, so trees can be shared freely between goroutines once built.
package textcomp

import "slices"

// Component is one node of a text tree.
type Component struct {
	Content Content
	Style   Style
}

// Text is a boxed Component. It is the element type of translation arguments, which is what
// makes the tree recursive. The zero Text holds an empty literal.
type Text struct {
	c *Component
}

// Plain returns a literal component.
func Plain(text string) Component {
	return Component{Content: LiteralContent{Text: text}}
}

// Translate returns a translated component with the given substitution arguments.
func Translate(key string, with ...Text) Component {
	return Component{Content: TranslatedContent{Key: key, With: slices.Clone(with)}}
}

// Selector returns a component showing the entities matched by pattern.
func Selector(pattern string) Component {
	return Component{Content: SelectorContent{Pattern: pattern}}
}

// Keybind returns a component showing the key bound to the control id.
func Keybind(id string) Component {
	return Component{Content: KeybindContent{Key: id}}
}

// Text boxes a copy of c.
func (c Component) Text() Text {
	return Text{c: &c}
}

// Component returns a copy of the boxed component.
func (t Text) Component() Component {
	if t.c == nil {
		return Plain("")
	}
	return *t.c
}

// content returns the content of c, treating a nil content as an empty literal.
func (c Component) content() Content {
	if c.Content == nil {
		return LiteralContent{}
	}
	return c.Content
}

// Color sets the text color.
func (c Component) Color(col Color) Component {
	c.Style.Color = &col
	return c
}

// ColorNamed sets a palette color.
func (c Component) ColorNamed(n NamedColor) Component {
	return c.Color(ColorFromName(n))
}

// ColorRGB sets an explicit RGB color.
func (c Component) ColorRGB(r, g, b uint8) Component {
	return c.Color(ColorFromRGB(r, g, b))
}

// Bold makes the text bold.
func (c Component) Bold() Component {
	c.Style.Bold = ptr(true)
	return c
}

// Italic makes the text italic.
func (c Component) Italic() Component {
	c.Style.Italic = ptr(true)
	return c
}

// Underlined underlines the text.
func (c Component) Underlined() Component {
	c.Style.Underlined = ptr(true)
	return c
}

// Strikethrough strikes the text through.
func (c Component) Strikethrough() Component {
	c.Style.Strikethrough = ptr(true)
	return c
}

// Obfuscated makes the client scramble the text.
func (c Component) Obfuscated() Component {
	c.Style.Obfuscated = ptr(true)
	return c
}

// Insertion sets the string inserted into the chat input when the text is shift-clicked.
func (c Component) Insertion(text string) Component {
	c.Style.Insertion = &text
	return c
}

// Font sets the resource location of the font, e.g. "minecraft:uniform".
func (c Component) Font(id string) Component {
	c.Style.Font = &id
	return c
}

// ClickEvent attaches a click action.
func (c Component) ClickEvent(e ClickEvent) Component {
	c.Style.ClickEvent = &e
	return c
}

// HoverEvent attaches a tooltip.
func (c Component) HoverEvent(e HoverEvent) Component {
	c.Style.HoverEvent = &e
	return c
}

// WithStyle replaces the whole style.
func (c Component) WithStyle(s Style) Component {
	c.Style = s
	return c
}

// Separator sets the separator of a selector component. Other contents are returned unchanged.
func (c Component) Separator(sep string) Component {
	if sel, ok := c.Content.(SelectorContent); ok {
		sel.Separator = &sep
		c.Content = sel
	}
	return c
}
