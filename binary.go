package textcomp

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
)

var (
	_ encoding.BinaryMarshaler = Component{}
	_ encoding.BinaryMarshaler = Text{}
)

// maxStringLen is the largest string the u16 length prefix of TAG_String can carry.
const maxStringLen = 1<<16 - 1

var (
	errStringTooLong = errors.New("string exceeds 65535 encoded bytes")
	errTruncated     = errors.New("truncated record")
)

// wireComponent is the binary record layout of a component. Fields are written in declaration
// order and absent ones are skipped, which keeps the output deterministic.
type wireComponent struct {
	Text      *string         `nbt:"text,omitempty"`
	Translate *string         `nbt:"translate,omitempty"`
	With      []wireComponent `nbt:"with,omitempty"`
	Selector  *string         `nbt:"selector,omitempty"`
	Separator *string         `nbt:"separator,omitempty"`
	Keybind   *string         `nbt:"keybind,omitempty"`

	Color         *string    `nbt:"color,omitempty"`
	Bold          *bool      `nbt:"bold,omitempty"`
	Italic        *bool      `nbt:"italic,omitempty"`
	Underlined    *bool      `nbt:"underlined,omitempty"`
	Strikethrough *bool      `nbt:"strikethrough,omitempty"`
	Obfuscated    *bool      `nbt:"obfuscated,omitempty"`
	Insertion     *string    `nbt:"insertion,omitempty"`
	Font          *string    `nbt:"font,omitempty"`
	ClickEvent    *wireClick `nbt:"clickEvent,omitempty"`
	HoverEvent    *wireHover `nbt:"hoverEvent,omitempty"`
}

type wireClick struct {
	Action string `nbt:"action"`
	Value  string `nbt:"value"`
}

// wireHover holds one of *wireComponent, *wireItem or *wireEntity in Contents.
type wireHover struct {
	Action   string `nbt:"action"`
	Contents any    `nbt:"contents,omitempty"`
}

type wireItem struct {
	ID    string  `nbt:"id"`
	Count *int32  `nbt:"count,omitempty"`
	Tag   *string `nbt:"tag,omitempty"`
}

type wireEntity struct {
	Type string         `nbt:"type"`
	ID   string         `nbt:"id"`
	Name *wireComponent `nbt:"name,omitempty"`
}

// MarshalBinary returns c as an anonymous NBT compound: the fields of the active content
// shape followed by the present style fields. Equal components always produce equal bytes.
func (c Component) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodeBinary(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeBinary writes the MarshalBinary form of c to w. Writer errors are returned unchanged.
func (c Component) EncodeBinary(w io.Writer) error {
	var b wireBuilder
	record := b.component(c)
	if b.err != nil {
		return b.err
	}
	enc := nbt.NewEncoder(w)
	enc.NetworkFormat(true)
	return enc.Encode(record, "")
}

// MarshalBinary returns the boxed component as an anonymous NBT compound.
func (t Text) MarshalBinary() ([]byte, error) {
	return t.Component().MarshalBinary()
}

// DecodeBinary decodes an anonymous NBT compound into a text tree, applying the
// codec's limits.
func (c *Codec) DecodeBinary(data []byte) (Text, error) {
	// A text level costs at most three NBT levels (hoverEvent, contents, name).
	if err := checkBinary(data, 3*c.maxDepth+1); err != nil {
		if errors.Is(err, ErrDepthLimitExceeded) {
			return Text{}, err
		}
		return Text{}, fmt.Errorf("invalid binary text component: %w", err)
	}

	dec := nbt.NewDecoder(bytes.NewReader(data))
	dec.NetworkFormat(true)
	var root map[string]any
	if _, err := dec.Decode(&root); err != nil {
		return Text{}, fmt.Errorf("invalid binary text component: %w", err)
	}
	raw, err := fromMUTF8Tree(root)
	if err != nil {
		return Text{}, fmt.Errorf("invalid binary text component: %w", err)
	}
	return c.Decode(raw)
}

// DecodeBinary decodes an anonymous NBT compound with the default codec.
func DecodeBinary(data []byte) (Text, error) { return defaultCodec.DecodeBinary(data) }

// wireBuilder converts components to their record layout. Strings are stored in modified
// UTF-8; the first string too long for its length prefix is kept in err.
type wireBuilder struct {
	err error
}

func (b *wireBuilder) str(s string) *string {
	m := toMUTF8(s)
	if len(m) > maxStringLen && b.err == nil {
		b.err = fmt.Errorf("%w: %d bytes", errStringTooLong, len(m))
	}
	return &m
}

func (b *wireBuilder) component(c Component) wireComponent {
	var w wireComponent
	switch content := c.content().(type) {
	case LiteralContent:
		w.Text = b.str(content.Text)
	case TranslatedContent:
		w.Translate = b.str(content.Key)
		if len(content.With) > 0 {
			w.With = make([]wireComponent, len(content.With))
			for i, arg := range content.With {
				w.With[i] = b.component(arg.Component())
			}
		}
	case SelectorContent:
		w.Selector = b.str(content.Pattern)
		if content.Separator != nil {
			w.Separator = b.str(*content.Separator)
		}
	case KeybindContent:
		w.Keybind = b.str(content.Key)
	}

	s := c.Style
	if s.Color != nil {
		w.Color = b.str(s.Color.String())
	}
	w.Bold = s.Bold
	w.Italic = s.Italic
	w.Underlined = s.Underlined
	w.Strikethrough = s.Strikethrough
	w.Obfuscated = s.Obfuscated
	if s.Insertion != nil {
		w.Insertion = b.str(*s.Insertion)
	}
	if s.Font != nil {
		w.Font = b.str(*s.Font)
	}
	if ev := s.ClickEvent; ev != nil {
		w.ClickEvent = &wireClick{Action: *b.str(string(ev.Action)), Value: *b.str(ev.Value)}
	}
	if s.HoverEvent != nil {
		w.HoverEvent = b.hover(*s.HoverEvent)
	}
	return w
}

func (b *wireBuilder) hover(ev HoverEvent) *wireHover {
	h := &wireHover{Action: *b.str(string(ev.Action))}
	switch ev.Action {
	case ActionShowText:
		contents := b.component(ev.Text.Component())
		h.Contents = &contents
	case ActionShowItem:
		it := ev.hoverItem()
		item := &wireItem{ID: *b.str(it.ID), Count: it.Count}
		if it.Tag != nil {
			item.Tag = b.str(*it.Tag)
		}
		h.Contents = item
	case ActionShowEntity:
		en := ev.hoverEntity()
		entity := &wireEntity{Type: *b.str(en.Type), ID: en.ID.String()}
		if en.Name != nil {
			name := b.component(en.Name.Component())
			entity.Name = &name
		}
		h.Contents = entity
	}
	return h
}

// checkBinary walks an anonymous NBT compound without decoding it. The NBT decoder sizes
// lists from their length prefix and recurses as deep as the input goes, so untrusted records
// are checked against maxDepth and their own length first.
func checkBinary(data []byte, maxDepth int) error {
	s := &binaryScan{data: data, maxDepth: maxDepth}
	tag, err := s.readByte()
	if err != nil {
		return err
	}
	if tag != nbt.TagCompound {
		return fmt.Errorf("root tag %#02x is not a compound", tag)
	}
	return s.payload(tag, 1)
}

type binaryScan struct {
	data     []byte
	pos      int
	maxDepth int
}

func (s *binaryScan) remaining() int64 { return int64(len(s.data) - s.pos) }

func (s *binaryScan) skip(n int64) error {
	if n < 0 || n > s.remaining() {
		return errTruncated
	}
	s.pos += int(n)
	return nil
}

func (s *binaryScan) readByte() (byte, error) {
	if s.remaining() < 1 {
		return 0, errTruncated
	}
	s.pos++
	return s.data[s.pos-1], nil
}

func (s *binaryScan) readUint16() (int64, error) {
	if s.remaining() < 2 {
		return 0, errTruncated
	}
	v := binary.BigEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return int64(v), nil
}

// readCount reads a signed 32-bit element count.
func (s *binaryScan) readCount() (int64, error) {
	if s.remaining() < 4 {
		return 0, errTruncated
	}
	v := int32(binary.BigEndian.Uint32(s.data[s.pos:]))
	s.pos += 4
	if v < 0 {
		return 0, fmt.Errorf("negative length %d", v)
	}
	return int64(v), nil
}

// skipArray skips a counted array of elements of the given size.
func (s *binaryScan) skipArray(size int64) error {
	n, err := s.readCount()
	if err != nil {
		return err
	}
	return s.skip(n * size)
}

func (s *binaryScan) payload(tag byte, depth int) error {
	switch tag {
	case nbt.TagByte:
		return s.skip(1)
	case nbt.TagShort:
		return s.skip(2)
	case nbt.TagInt, nbt.TagFloat:
		return s.skip(4)
	case nbt.TagLong, nbt.TagDouble:
		return s.skip(8)
	case nbt.TagString:
		n, err := s.readUint16()
		if err != nil {
			return err
		}
		return s.skip(n)
	case nbt.TagByteArray:
		return s.skipArray(1)
	case nbt.TagIntArray:
		return s.skipArray(4)
	case nbt.TagLongArray:
		return s.skipArray(8)
	case nbt.TagList:
		if depth > s.maxDepth {
			return fmt.Errorf("%w: NBT nesting deeper than %d", ErrDepthLimitExceeded, s.maxDepth)
		}
		elem, err := s.readByte()
		if err != nil {
			return err
		}
		n, err := s.readCount()
		if err != nil {
			return err
		}
		// Every element but TAG_End takes at least one byte.
		if (n > 0 && elem == nbt.TagEnd) || n > s.remaining() {
			return fmt.Errorf("list of %d elements does not fit the record", n)
		}
		for i := int64(0); i < n; i++ {
			if err := s.payload(elem, depth+1); err != nil {
				return err
			}
		}
		return nil
	case nbt.TagCompound:
		if depth > s.maxDepth {
			return fmt.Errorf("%w: NBT nesting deeper than %d", ErrDepthLimitExceeded, s.maxDepth)
		}
		for {
			t, err := s.readByte()
			if err != nil {
				return err
			}
			if t == nbt.TagEnd {
				return nil
			}
			n, err := s.readUint16()
			if err != nil {
				return err
			}
			if err := s.skip(n); err != nil {
				return err
			}
			if err := s.payload(t, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown tag %#02x", tag)
	}
}
