package textcomp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Make sure Text and Component implement the interfaces at compile time.
var (
	_ json.Marshaler   = Text{}
	_ json.Unmarshaler = (*Text)(nil)
	_ yaml.Marshaler   = Text{}
	_ yaml.Unmarshaler = (*Text)(nil)

	_ json.Marshaler   = Component{}
	_ json.Unmarshaler = (*Component)(nil)
	_ yaml.Marshaler   = Component{}
	_ yaml.Unmarshaler = (*Component)(nil)
)

// parserMaxDepth is the nesting limit built into encoding/json and yaml.v3.
const parserMaxDepth = 10000

// nestingLimit bounds the raw nesting of structural input. A text level costs at most three
// levels (hoverEvent, contents, name).
func (c *Codec) nestingLimit() int {
	return min(3*c.maxDepth+1, parserMaxDepth)
}

// DecodeJSON decodes a JSON text component. Input nested deeper than the codec allows fails
// with ErrDepthLimitExceeded before the tree is built.
func (c *Codec) DecodeJSON(data []byte) (Text, error) {
	if err := checkJSONDepth(data, c.nestingLimit()); err != nil {
		return Text{}, err
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Text{}, fmt.Errorf("invalid JSON text component: %w", err)
	}
	return c.Decode(raw)
}

// checkJSONDepth counts object and array nesting with a token pass. Syntax errors are left
// for json.Unmarshal to report.
func checkJSONDepth(data []byte, limit int) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
			if depth > limit {
				return fmt.Errorf("root: %w: JSON nesting deeper than %d", ErrDepthLimitExceeded,
					limit)
			}
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
}

// DecodeYAML decodes a YAML text component. yaml.v3 refuses input nested past its own limit;
// that failure is reported as ErrDepthLimitExceeded.
func (c *Codec) DecodeYAML(data []byte) (Text, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		if strings.Contains(err.Error(), "exceeded max depth") {
			return Text{}, fmt.Errorf("root: %w: %w", ErrDepthLimitExceeded, err)
		}
		return Text{}, fmt.Errorf("invalid YAML text component: %w", err)
	}
	return c.Decode(raw)
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(Encode(t))
}

// UnmarshalJSON implements json.Unmarshaler using the default codec limits.
func (t *Text) UnmarshalJSON(data []byte) error {
	text, err := defaultCodec.DecodeJSON(data)
	if err != nil {
		return err
	}
	*t = text
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Text) MarshalYAML() (any, error) {
	return Encode(t), nil
}

// UnmarshalYAML implements yaml.Unmarshaler using the default codec limits.
func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	text, err := Decode(raw)
	if err != nil {
		return err
	}
	*t = text
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Component) MarshalJSON() ([]byte, error) {
	return c.Text().MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Component) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = t.Component()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Component) MarshalYAML() (any, error) {
	return c.Text().MarshalYAML()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Component) UnmarshalYAML(value *yaml.Node) error {
	var t Text
	if err := t.UnmarshalYAML(value); err != nil {
		return err
	}
	*c = t.Component()
	return nil
}
