package textcomp

import (
	"errors"
	"unicode/utf16"
)

var errInvalidMUTF8 = errors.New("invalid modified UTF-8")

// toMUTF8 returns the modified UTF-8 form of s used by NBT strings: NUL takes two bytes and
// supplementary characters are written as two three-byte surrogates. The result is a byte
// string, not necessarily valid UTF-8.
func toMUTF8(s string) string {
	dst := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			dst = append(dst, 0xC0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			dst = appendUnit(dst, uint16(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnit(appendUnit(dst, uint16(hi)), uint16(lo))
		}
	}
	return string(dst)
}

func appendUnit(dst []byte, u uint16) []byte {
	return append(dst, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
}

// fromMUTF8 decodes modified UTF-8. Unpaired surrogates decode to U+FFFD.
func fromMUTF8(s string) (string, error) {
	units := make([]uint16, 0, len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(s) || s[i+1]&0xC0 != 0x80 {
				return "", errInvalidMUTF8
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(s[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(s) || s[i+1]&0xC0 != 0x80 || s[i+2]&0xC0 != 0x80 {
				return "", errInvalidMUTF8
			}
			units = append(units,
				uint16(c&0x0F)<<12|uint16(s[i+1]&0x3F)<<6|uint16(s[i+2]&0x3F))
			i += 3
		default:
			return "", errInvalidMUTF8
		}
	}
	return string(utf16.Decode(units)), nil
}

// fromMUTF8Tree rewrites every string and key of a decoded NBT value from modified UTF-8.
func fromMUTF8Tree(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return fromMUTF8(v)
	case []any:
		for i, item := range v {
			out, err := fromMUTF8Tree(item)
			if err != nil {
				return nil, err
			}
			v[i] = out
		}
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			key, err := fromMUTF8(k)
			if err != nil {
				return nil, err
			}
			if out[key], err = fromMUTF8Tree(item); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return v, nil
	}
}
