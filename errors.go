package textcomp

import "errors"

// Decode errors. Every decode failure wraps exactly one of these, so callers can branch with
// errors.Is regardless of where in the tree the failure happened.
var (
	// ErrUnknownContentShape is returned when none of text, translate, selector or keybind is
	// present.
	ErrUnknownContentShape = errors.New("unknown text content shape")
	// ErrMalformedContent is returned when a content key holds the wrong kind of value.
	ErrMalformedContent = errors.New("malformed text content")
	// ErrMalformedStyleField is returned when a style key holds the wrong kind of value.
	ErrMalformedStyleField = errors.New("malformed style field")
	// ErrDepthLimitExceeded is returned when components nest deeper than the codec allows.
	ErrDepthLimitExceeded = errors.New("text depth limit exceeded")
	// ErrSizeLimitExceeded is returned when a tree holds more components than the codec allows.
	ErrSizeLimitExceeded = errors.New("text size limit exceeded")
)
