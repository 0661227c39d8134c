package textcomp

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKeepsAbsentFieldsAbsent(t *testing.T) {
	c := Plain("hello").Italic()
	m := Encode(c.Text())
	assert.Equal(t, map[string]any{"text": "hello", "italic": true}, m)

	decoded, err := Decode(m)
	require.NoError(t, err)
	got := decoded.Component()
	assert.Equal(t, c, got)
	assert.Nil(t, got.Style.Bold)
	assert.Nil(t, got.Style.Color)
}

func TestDecodeContentPriority(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want Content
	}{
		{
			name: "text wins over translate",
			in:   map[string]any{"text": "a", "translate": "b"},
			want: LiteralContent{Text: "a"},
		},
		{
			name: "translate wins over selector",
			in:   map[string]any{"translate": "b", "selector": "@p", "keybind": "key.jump"},
			want: TranslatedContent{Key: "b"},
		},
		{
			name: "selector wins over keybind",
			in:   map[string]any{"selector": "@p", "keybind": "key.jump"},
			want: SelectorContent{Pattern: "@p"},
		},
		{
			name: "keybind",
			in:   map[string]any{"keybind": "key.jump"},
			want: KeybindContent{Key: "key.jump"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Component().Content)
		})
	}
}

func TestTranslatedRoundTrip(t *testing.T) {
	inner := Translate("commands.give.item", Plain("diamond").ColorNamed(Aqua).Text())
	outer := Translate("chat.type.announcement", Plain("Server").Text(), inner.Text())

	m := Encode(outer.Text())
	with, ok := m["with"].([]any)
	require.True(t, ok)
	require.Len(t, with, 2)
	assert.Equal(t, map[string]any{"text": "Server"}, with[0])

	decoded, err := Decode(m)
	require.NoError(t, err)
	assert.Equal(t, outer, decoded.Component())
}

func TestEmptyWithIsOmitted(t *testing.T) {
	m := Encode(Translate("gui.done").Text())
	assert.Equal(t, map[string]any{"translate": "gui.done"}, m)

	decoded, err := Decode(map[string]any{"translate": "gui.done", "with": []any{}})
	require.NoError(t, err)
	assert.Equal(t, Translate("gui.done"), decoded.Component())
}

func TestDecodeBareStrings(t *testing.T) {
	got, err := Decode("plain")
	require.NoError(t, err)
	assert.Equal(t, Plain("plain"), got.Component())

	got, err = Decode(map[string]any{"translate": "k", "with": []any{"x", map[string]any{"text": "y"}}})
	require.NoError(t, err)
	assert.Equal(t, Translate("k", Plain("x").Text(), Plain("y").Text()), got.Component())
}

func TestSelectorAndKeybindRoundTrip(t *testing.T) {
	for _, c := range []Component{
		Selector("@e[type=cow]").Separator(" | "),
		Selector("@a"),
		Keybind("key.inventory").Underlined(),
	} {
		decoded, err := Decode(Encode(c.Text()))
		require.NoError(t, err)
		assert.Equal(t, c, decoded.Component())
	}
}

func TestStyleRoundTrip(t *testing.T) {
	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	entity := ShowEntity("minecraft:player", id)
	name := Plain("Notch").Text()
	entity.Entity.Name = &name

	item := ShowItem("minecraft:diamond_sword")
	item.Item.Count = ptr(int32(1))
	item.Item.Tag = ptr("{Damage:3}")

	tests := []struct {
		name string
		c    Component
	}{
		{"colors", Plain("x").ColorRGB(0x12, 0x34, 0x56).Obfuscated().Strikethrough()},
		{"false bold", Plain("x").WithStyle(Style{Bold: ptr(false)})},
		{"insertion and font", Plain("x").Insertion("/tp").Font("minecraft:uniform")},
		{"click", Plain("x").ClickEvent(SuggestCommand("/msg "))},
		{"show text", Plain("x").HoverEvent(ShowText(Plain("tip").Bold().Text()))},
		{"show item", Plain("x").HoverEvent(item)},
		{"show entity", Plain("x").HoverEvent(entity)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(Encode(tt.c.Text()))
			require.NoError(t, err)
			assert.Equal(t, tt.c, decoded.Component())
		})
	}
}

func TestDecodeLegacyHover(t *testing.T) {
	got, err := Decode(map[string]any{
		"text": "x",
		"hoverEvent": map[string]any{
			"action": "show_item",
			"value":  "minecraft:stone",
		},
	})
	require.NoError(t, err)
	ev := got.Component().Style.HoverEvent
	require.NotNil(t, ev)
	require.NotNil(t, ev.Item)
	assert.Equal(t, "minecraft:stone", ev.Item.ID)
}

func TestHoverWithoutPayloadRoundTrips(t *testing.T) {
	tests := []struct {
		name  string
		ev    HoverEvent
		check func(t *testing.T, ev *HoverEvent)
	}{
		{
			name: "show item",
			ev:   HoverEvent{Action: ActionShowItem},
			check: func(t *testing.T, ev *HoverEvent) {
				require.NotNil(t, ev.Item)
				assert.Equal(t, HoverItem{}, *ev.Item)
			},
		},
		{
			name: "show entity",
			ev:   HoverEvent{Action: ActionShowEntity},
			check: func(t *testing.T, ev *HoverEvent) {
				require.NotNil(t, ev.Entity)
				assert.Equal(t, uuid.Nil, ev.Entity.ID)
				assert.Empty(t, ev.Entity.Type)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Plain("x").HoverEvent(tt.ev)

			hover, ok := Encode(c.Text())[keyHoverEvent].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, hover, "contents")

			got, err := Decode(Encode(c.Text()))
			require.NoError(t, err)
			tt.check(t, got.Component().Style.HoverEvent)

			data, err := c.MarshalBinary()
			require.NoError(t, err)
			got, err = DecodeBinary(data)
			require.NoError(t, err)
			tt.check(t, got.Component().Style.HoverEvent)
		})
	}
}

func TestDecodeNumericForms(t *testing.T) {
	got, err := Decode(map[string]any{
		"text":       "x",
		"bold":       int8(1),
		"italic":     float64(0),
		"clickEvent": map[string]any{"action": "change_page", "value": float64(7)},
	})
	require.NoError(t, err)
	st := got.Component().Style
	require.NotNil(t, st.Bold)
	assert.True(t, *st.Bold)
	require.NotNil(t, st.Italic)
	assert.False(t, *st.Italic)
	assert.Equal(t, ChangePage(7), *st.ClickEvent)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		wantErr error
		wantMsg string
	}{
		{
			name:    "no content key",
			in:      map[string]any{"color": "red"},
			wantErr: ErrUnknownContentShape,
		},
		{
			name:    "not a component",
			in:      42.0,
			wantErr: ErrMalformedContent,
		},
		{
			name:    "text not a string",
			in:      map[string]any{"text": 5.0},
			wantErr: ErrMalformedContent,
			wantMsg: "text:",
		},
		{
			name:    "with not a sequence",
			in:      map[string]any{"translate": "k", "with": "oops"},
			wantErr: ErrMalformedContent,
			wantMsg: "with:",
		},
		{
			name:    "nested argument",
			in:      map[string]any{"translate": "k", "with": []any{"ok", map[string]any{}}},
			wantErr: ErrUnknownContentShape,
			wantMsg: "with[1]",
		},
		{
			name:    "separator not a string",
			in:      map[string]any{"selector": "@a", "separator": true},
			wantErr: ErrMalformedContent,
		},
		{
			name:    "bold not a bool",
			in:      map[string]any{"text": "x", "bold": "yes"},
			wantErr: ErrMalformedStyleField,
			wantMsg: "bold:",
		},
		{
			name:    "bold out of range",
			in:      map[string]any{"text": "x", "bold": 2},
			wantErr: ErrMalformedStyleField,
		},
		{
			name:    "unknown color",
			in:      map[string]any{"text": "x", "color": "crimson"},
			wantErr: ErrMalformedStyleField,
		},
		{
			name:    "color not a string",
			in:      map[string]any{"text": "x", "color": 3},
			wantErr: ErrMalformedStyleField,
		},
		{
			name:    "unknown click action",
			in:      map[string]any{"text": "x", "clickEvent": map[string]any{"action": "fly", "value": ""}},
			wantErr: ErrMalformedStyleField,
			wantMsg: "clickEvent.action",
		},
		{
			name:    "unknown hover action",
			in:      map[string]any{"text": "x", "hoverEvent": map[string]any{"action": "x", "contents": ""}},
			wantErr: ErrMalformedStyleField,
		},
		{
			name:    "hover missing contents",
			in:      map[string]any{"text": "x", "hoverEvent": map[string]any{"action": "show_text"}},
			wantErr: ErrMalformedStyleField,
		},
		{
			name: "bad entity id",
			in: map[string]any{"text": "x", "hoverEvent": map[string]any{
				"action":   "show_entity",
				"contents": map[string]any{"type": "minecraft:pig", "id": "nope"},
			}},
			wantErr: ErrMalformedStyleField,
			wantMsg: "hoverEvent.contents.id",
		},
		{
			name:    "hover text malformed",
			in: map[string]any{"text": "x", "hoverEvent": map[string]any{
				"action": "show_text", "contents": []any{},
			}},
			wantErr: ErrMalformedContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

// nested returns a chain of depth translated components.
func nested(depth int) any {
	var v any = map[string]any{"text": "leaf"}
	for i := 1; i < depth; i++ {
		v = map[string]any{"translate": "k", "with": []any{v}}
	}
	return v
}

func TestDepthLimit(t *testing.T) {
	codec := NewCodec(WithMaxDepth(4))

	_, err := codec.Decode(nested(4))
	require.NoError(t, err)

	_, err = codec.Decode(nested(5))
	assert.ErrorIs(t, err, ErrDepthLimitExceeded)

	// Tooltips count as nesting too.
	hover := map[string]any{"text": "x", "hoverEvent": map[string]any{
		"action": "show_text", "contents": nested(4),
	}}
	_, err = codec.Decode(hover)
	assert.ErrorIs(t, err, ErrDepthLimitExceeded)

	_, err = Decode(nested(DefaultMaxDepth + 1))
	assert.ErrorIs(t, err, ErrDepthLimitExceeded)
}

func TestSizeLimit(t *testing.T) {
	codec := NewCodec(WithMaxNodes(10))

	args := make([]any, 9)
	for i := range args {
		args[i] = "a"
	}
	_, err := codec.Decode(map[string]any{"translate": "k", "with": args})
	require.NoError(t, err)

	args = append(args, "b")
	_, err = codec.Decode(map[string]any{"translate": "k", "with": args})
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)

	// Wide trees are caught before any argument is decoded.
	huge := make([]any, 1_000_000)
	_, err = Decode(map[string]any{"translate": "k", "with": huge})
	require.ErrorIs(t, err, ErrSizeLimitExceeded)
	assert.True(t, strings.HasPrefix(err.Error(), "with:"))
}
