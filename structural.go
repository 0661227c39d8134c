package textcomp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

const (
	// DefaultMaxDepth is the default bound on component nesting while decoding.
	DefaultMaxDepth = 32
	// DefaultMaxNodes is the default bound on the number of components in a decoded tree.
	DefaultMaxNodes = 4096
)

// Codec converts between text trees and the generic structural form: map[string]any trees as
// produced by encoding/json, yaml.v3 or an NBT compound. Decoding is bounded because structural
// input usually comes straight off the network.
type Codec struct {
	maxDepth int
	maxNodes int
}

// Option configures a Codec.
type Option func(*options)

// options stores the configuration for a Codec.
type options struct {
	maxDepth int
	maxNodes int
}

// WithMaxDepth sets how deeply components may nest through translation arguments and
// show_text tooltips. The root is at depth 1.
func WithMaxDepth(n int) Option { return func(o *options) { o.maxDepth = n } }

// WithMaxNodes sets how many components a decoded tree may contain in total.
func WithMaxNodes(n int) Option { return func(o *options) { o.maxNodes = n } }

// NewCodec creates a Codec. Without options the package defaults apply.
func NewCodec(opts ...Option) *Codec {
	cfg := options{
		maxDepth: DefaultMaxDepth,
		maxNodes: DefaultMaxNodes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Codec{maxDepth: cfg.maxDepth, maxNodes: cfg.maxNodes}
}

var defaultCodec = NewCodec()

// Decode decodes v with the default codec.
func Decode(v any) (Text, error) { return defaultCodec.Decode(v) }

// Encode encodes t with the default codec.
func Encode(t Text) map[string]any { return defaultCodec.Encode(t) }

// Decode converts a structural value into a text tree. v is either a key/value mapping or a
// bare string, which decodes to a literal.
func (c *Codec) Decode(v any) (Text, error) {
	d := &decodeState{maxDepth: c.maxDepth, maxNodes: c.maxNodes}
	return d.text(v, "", 1)
}

// Encode converts t into its structural form. Only present fields are emitted and empty
// translation arguments are omitted.
func (*Codec) Encode(t Text) map[string]any {
	return encodeComponent(t.Component())
}

// contentShape pairs a discriminating key with the decoder for its content.
type contentShape struct {
	key    string
	decode func(d *decodeState, m map[string]any, path string, depth int) (Content, error)
}

// contentShapes is checked top to bottom; the first key present wins. The order is part of
// the wire contract: an input carrying both "text" and "translate" is a literal.
var contentShapes []contentShape

func init() {
	contentShapes = []contentShape{
		{key: keyText, decode: decodeLiteral},
		{key: keyTranslate, decode: decodeTranslated},
		{key: keySelector, decode: decodeSelector},
		{key: keyKeybind, decode: decodeKeybind},
	}
}

// decodeState tracks the limits of one Decode call.
type decodeState struct {
	maxDepth int
	maxNodes int
	nodes    int
}

func (d *decodeState) text(v any, path string, depth int) (Text, error) {
	if depth > d.maxDepth {
		return Text{}, fmt.Errorf("%s: %w (max %d)", pathOrRoot(path), ErrDepthLimitExceeded,
			d.maxDepth)
	}
	d.nodes++
	if d.nodes > d.maxNodes {
		return Text{}, fmt.Errorf("%s: %w (max %d components)", pathOrRoot(path),
			ErrSizeLimitExceeded, d.maxNodes)
	}

	switch v := v.(type) {
	case string:
		return Plain(v).Text(), nil
	case map[string]any:
		content, err := d.content(v, path, depth)
		if err != nil {
			return Text{}, err
		}
		style, err := d.style(v, path, depth)
		if err != nil {
			return Text{}, err
		}
		return Component{Content: content, Style: style}.Text(), nil
	default:
		return Text{}, fmt.Errorf("%s: %w: component is %T, want mapping or string",
			pathOrRoot(path), ErrMalformedContent, v)
	}
}

func (d *decodeState) content(m map[string]any, path string, depth int) (Content, error) {
	for _, shape := range contentShapes {
		if _, ok := m[shape.key]; ok {
			return shape.decode(d, m, path, depth)
		}
	}
	return nil, fmt.Errorf("%s: %w: none of text, translate, selector or keybind present",
		pathOrRoot(path), ErrUnknownContentShape)
}

func decodeLiteral(_ *decodeState, m map[string]any, path string, _ int) (Content, error) {
	s, err := contentString(m, keyText, path)
	if err != nil {
		return nil, err
	}
	return LiteralContent{Text: s}, nil
}

func decodeTranslated(d *decodeState, m map[string]any, path string, depth int) (Content, error) {
	key, err := contentString(m, keyTranslate, path)
	if err != nil {
		return nil, err
	}
	content := TranslatedContent{Key: key}

	raw, ok := m[keyWith]
	if !ok {
		return content, nil
	}
	args, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: with is %T, want sequence",
			joinPath(path, keyWith), ErrMalformedContent, raw)
	}
	if len(args) > d.maxNodes-d.nodes {
		return nil, fmt.Errorf("%s: %w (max %d components)", joinPath(path, keyWith),
			ErrSizeLimitExceeded, d.maxNodes)
	}
	if len(args) > 0 {
		content.With = make([]Text, 0, len(args))
	}
	for i, arg := range args {
		child, err := d.text(arg, indexPath(path, keyWith, i), depth+1)
		if err != nil {
			return nil, err
		}
		content.With = append(content.With, child)
	}
	return content, nil
}

func decodeSelector(_ *decodeState, m map[string]any, path string, _ int) (Content, error) {
	pattern, err := contentString(m, keySelector, path)
	if err != nil {
		return nil, err
	}
	content := SelectorContent{Pattern: pattern}
	if raw, ok := m[keySeparator]; ok {
		sep, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: separator is %T, want string",
				joinPath(path, keySeparator), ErrMalformedContent, raw)
		}
		content.Separator = &sep
	}
	return content, nil
}

func decodeKeybind(_ *decodeState, m map[string]any, path string, _ int) (Content, error) {
	key, err := contentString(m, keyKeybind, path)
	if err != nil {
		return nil, err
	}
	return KeybindContent{Key: key}, nil
}

func contentString(m map[string]any, key, path string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: %s is %T, want string",
			joinPath(path, key), ErrMalformedContent, key, m[key])
	}
	return s, nil
}

func (d *decodeState) style(m map[string]any, path string, depth int) (Style, error) {
	var (
		s   Style
		err error
	)
	if raw, ok := m[keyColor]; ok {
		str, ok := raw.(string)
		if !ok {
			return s, styleError(path, keyColor, "%T, want string", raw)
		}
		col, err := ParseColor(str)
		if err != nil {
			return s, styleError(path, keyColor, "%v", err)
		}
		s.Color = &col
	}
	for _, f := range []struct {
		key string
		dst **bool
	}{
		{keyBold, &s.Bold},
		{keyItalic, &s.Italic},
		{keyUnderlined, &s.Underlined},
		{keyStrikethrough, &s.Strikethrough},
		{keyObfuscated, &s.Obfuscated},
	} {
		if *f.dst, err = optBool(m, f.key, path); err != nil {
			return s, err
		}
	}
	if s.Insertion, err = optString(m, keyInsertion, path); err != nil {
		return s, err
	}
	if s.Font, err = optString(m, keyFont, path); err != nil {
		return s, err
	}
	if raw, ok := m[keyClickEvent]; ok {
		ev, err := decodeClick(raw, joinPath(path, keyClickEvent))
		if err != nil {
			return s, err
		}
		s.ClickEvent = &ev
	}
	if raw, ok := m[keyHoverEvent]; ok {
		ev, err := d.hover(raw, joinPath(path, keyHoverEvent), depth)
		if err != nil {
			return s, err
		}
		s.HoverEvent = &ev
	}
	return s, nil
}

// optBool accepts a bool, or an integer 0/1 as carried by the binary record form.
func optBool(m map[string]any, key, path string) (*bool, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	if b, ok := raw.(bool); ok {
		return &b, nil
	}
	if n, ok := asInt(raw); ok && (n == 0 || n == 1) {
		return ptr(n == 1), nil
	}
	return nil, styleError(path, key, "%T, want bool", raw)
}

func optString(m map[string]any, key, path string) (*string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, styleError(path, key, "%T, want string", raw)
	}
	return &s, nil
}

func decodeClick(raw any, path string) (ClickEvent, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return ClickEvent{}, styleError(path, "", "%T, want mapping", raw)
	}
	action, _ := m["action"].(string)
	if !ClickAction(action).valid() {
		return ClickEvent{}, styleError(path, "action", "unknown click action %q", action)
	}
	ev := ClickEvent{Action: ClickAction(action)}
	switch v := m["value"].(type) {
	case string:
		ev.Value = v
	default:
		n, ok := asInt(v)
		if !ok {
			return ClickEvent{}, styleError(path, "value", "%T, want string", v)
		}
		ev.Value = strconv.FormatInt(n, 10)
	}
	return ev, nil
}

func (d *decodeState) hover(raw any, path string, depth int) (HoverEvent, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return HoverEvent{}, styleError(path, "", "%T, want mapping", raw)
	}
	action, _ := m["action"].(string)
	contents, ok := m["contents"]
	if !ok {
		contents, ok = m["value"]
	}
	if !ok {
		return HoverEvent{}, styleError(path, "contents", "missing")
	}
	contentsPath := joinPath(path, "contents")

	switch HoverAction(action) {
	case ActionShowText:
		t, err := d.text(contents, contentsPath, depth+1)
		if err != nil {
			return HoverEvent{}, err
		}
		return ShowText(t), nil
	case ActionShowItem:
		item, err := decodeHoverItem(contents, contentsPath)
		if err != nil {
			return HoverEvent{}, err
		}
		return HoverEvent{Action: ActionShowItem, Item: item}, nil
	case ActionShowEntity:
		entity, err := d.hoverEntity(contents, contentsPath, depth)
		if err != nil {
			return HoverEvent{}, err
		}
		return HoverEvent{Action: ActionShowEntity, Entity: entity}, nil
	default:
		return HoverEvent{}, styleError(path, "action", "unknown hover action %q", action)
	}
}

func decodeHoverItem(raw any, path string) (*HoverItem, error) {
	if id, ok := raw.(string); ok {
		return &HoverItem{ID: id}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, styleError(path, "", "%T, want mapping or string", raw)
	}
	id, ok := m["id"].(string)
	if !ok {
		return nil, styleError(path, "id", "%T, want string", m["id"])
	}
	item := &HoverItem{ID: id}
	if rawCount, ok := m["count"]; ok {
		n, ok := asInt(rawCount)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, styleError(path, "count", "%v, want 32-bit integer", rawCount)
		}
		item.Count = ptr(int32(n))
	}
	var err error
	if item.Tag, err = optString(m, "tag", path); err != nil {
		return nil, err
	}
	return item, nil
}

func (d *decodeState) hoverEntity(raw any, path string, depth int) (*HoverEntity, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, styleError(path, "", "%T, want mapping", raw)
	}
	kind, ok := m["type"].(string)
	if !ok {
		return nil, styleError(path, "type", "%T, want string", m["type"])
	}
	rawID, _ := m["id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, styleError(path, "id", "%v", err)
	}
	entity := &HoverEntity{Type: kind, ID: id}
	if rawName, ok := m["name"]; ok {
		name, err := d.text(rawName, joinPath(path, "name"), depth+1)
		if err != nil {
			return nil, err
		}
		entity.Name = &name
	}
	return entity, nil
}

// asInt accepts the integer representations produced by the structural decoders: float64 from
// encoding/json, int from yaml.v3 and the fixed-width types of the NBT codec.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func styleError(path, key, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", joinPath(path, key), ErrMalformedStyleField,
		fmt.Sprintf(format, args...))
}

func joinPath(path, key string) string {
	switch {
	case key == "":
		return pathOrRoot(path)
	case path == "":
		return key
	default:
		return path + "." + key
	}
}

func indexPath(path, key string, i int) string {
	return joinPath(path, key) + "[" + strconv.Itoa(i) + "]"
}

func pathOrRoot(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

func encodeComponent(c Component) map[string]any {
	m := make(map[string]any)
	switch content := c.content().(type) {
	case LiteralContent:
		m[keyText] = content.Text
	case TranslatedContent:
		m[keyTranslate] = content.Key
		if len(content.With) > 0 {
			with := make([]any, len(content.With))
			for i, arg := range content.With {
				with[i] = encodeComponent(arg.Component())
			}
			m[keyWith] = with
		}
	case SelectorContent:
		m[keySelector] = content.Pattern
		if content.Separator != nil {
			m[keySeparator] = *content.Separator
		}
	case KeybindContent:
		m[keyKeybind] = content.Key
	}

	s := c.Style
	if s.Color != nil {
		m[keyColor] = s.Color.String()
	}
	for _, f := range []struct {
		key string
		val *bool
	}{
		{keyBold, s.Bold},
		{keyItalic, s.Italic},
		{keyUnderlined, s.Underlined},
		{keyStrikethrough, s.Strikethrough},
		{keyObfuscated, s.Obfuscated},
	} {
		if f.val != nil {
			m[f.key] = *f.val
		}
	}
	if s.Insertion != nil {
		m[keyInsertion] = *s.Insertion
	}
	if s.Font != nil {
		m[keyFont] = *s.Font
	}
	if s.ClickEvent != nil {
		m[keyClickEvent] = map[string]any{
			"action": string(s.ClickEvent.Action),
			"value":  s.ClickEvent.Value,
		}
	}
	if s.HoverEvent != nil {
		m[keyHoverEvent] = encodeHover(*s.HoverEvent)
	}
	return m
}

// encodeHover always emits contents so the output decodes again. A show_item or show_entity
// event without a payload carries an empty one.
func encodeHover(ev HoverEvent) map[string]any {
	m := map[string]any{"action": string(ev.Action)}
	switch ev.Action {
	case ActionShowText:
		m["contents"] = encodeComponent(ev.Text.Component())
	case ActionShowItem:
		it := ev.hoverItem()
		item := map[string]any{"id": it.ID}
		if it.Count != nil {
			item["count"] = *it.Count
		}
		if it.Tag != nil {
			item["tag"] = *it.Tag
		}
		m["contents"] = item
	case ActionShowEntity:
		en := ev.hoverEntity()
		entity := map[string]any{"type": en.Type, "id": en.ID.String()}
		if en.Name != nil {
			entity["name"] = encodeComponent(en.Name.Component())
		}
		m["contents"] = entity
	}
	return m
}
