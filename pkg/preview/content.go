// Package preview turns the bytes of an object into something a terminal can
// show: decoded and highlighted text, or an image with the escape protocol
// able to draw it.
package preview

import (
	"errors"
	"image"
	"strings"
	"unicode"
)

// ErrDecodeFailure is returned when the content cannot be decoded as text
// with any candidate encoding, or as an image.
var ErrDecodeFailure = errors.New("decode failure")

// Content is the outcome of the pipeline. The set is closed: Text, Image,
// Unsupported and Failed.
type Content interface {
	isContent()
}

// Fragment is a run of text sharing one style. Colours are "#rrggbb" or empty.
type Fragment struct {
	Text      string
	Fg        string
	Bold      bool
	Italic    bool
	Underline bool
}

// Line is one highlighted line.
type Line []Fragment

// Text is decoded text. Highlighted is nil when no lexer matched or
// highlighting is off.
type Text struct {
	Decoded      string
	EncodingUsed string
	Highlighted  []Line
}

// Image is a decoded image and the protocol chosen to draw it.
type Image struct {
	Pixels   image.Image
	Protocol string
	Format   string
}

// Unsupported means the content is not previewed. It is not an error.
type Unsupported struct {
	Reason string
}

// Failed means the content could not be decoded.
type Failed struct {
	Err error
}

func (Text) isContent()        {}
func (Image) isContent()       {}
func (Unsupported) isContent() {}
func (Failed) isContent()      {}

const tabWidth = 4

// Lines returns the text split in lines, ready to be drawn: tabs expanded,
// control characters dropped, trailing newline removed.
func (t Text) Lines() []string {
	return strings.Split(normalize(t.Decoded), "\n")
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	return strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
