package textcomp

// Style holds the optional formatting and interaction attributes of a component. A nil field
// means "inherit from the parent", never false or empty, and is never encoded.
type Style struct {
	Color         *Color
	Bold          *bool
	Italic        *bool
	Underlined    *bool
	Strikethrough *bool
	Obfuscated    *bool
	Insertion     *string
	Font          *string
	ClickEvent    *ClickEvent
	HoverEvent    *HoverEvent
}

// Structural keys of the style fields, in encoding order.
const (
	keyColor         = "color"
	keyBold          = "bold"
	keyItalic        = "italic"
	keyUnderlined    = "underlined"
	keyStrikethrough = "strikethrough"
	keyObfuscated    = "obfuscated"
	keyInsertion     = "insertion"
	keyFont          = "font"
	keyClickEvent    = "clickEvent"
	keyHoverEvent    = "hoverEvent"
)

// IsZero reports whether no style field is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

func isTrue(b *bool) bool { return b != nil && *b }

func ptr[T any](v T) *T { return &v }
