package textcomp

// Content is the payload of a component: one of LiteralContent, TranslatedContent,
// SelectorContent or KeybindContent.
type Content interface {
	// base returns the string shown on the console for this content.
	base() string
}

// LiteralContent is raw text.
type LiteralContent struct {
	Text string
}

// TranslatedContent is a translation key rendered by the client with With substituted into
// its placeholders.
type TranslatedContent struct {
	Key  string
	With []Text
}

// SelectorContent displays the names of the entities matched by an entity selector.
type SelectorContent struct {
	Pattern   string
	Separator *string
}

// KeybindContent displays the key the client has bound to a control.
type KeybindContent struct {
	Key string
}

// Structural keys of the content fields.
const (
	keyText      = "text"
	keyTranslate = "translate"
	keyWith      = "with"
	keySelector  = "selector"
	keySeparator = "separator"
	keyKeybind   = "keybind"
)

// Translation arguments are deliberately not substituted on the console.
func (c LiteralContent) base() string    { return c.Text }
func (c TranslatedContent) base() string { return c.Key }
func (c SelectorContent) base() string   { return c.Pattern }
func (c KeybindContent) base() string    { return c.Key }
