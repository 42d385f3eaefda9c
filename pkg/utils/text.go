// Package utils provides common utility functions.
package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextHelper provides display-oriented string utility functions.
type TextHelper struct{}

// NewTextHelper creates a new text helper.
func NewTextHelper() *TextHelper {
	return &TextHelper{}
}

// TrimWhitespace removes leading and trailing whitespace.
func (s *TextHelper) TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *TextHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// DisplayWidth returns the terminal cell width of str. Wide characters
// count as two cells.
func (s *TextHelper) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// TruncateToWidth truncates str to maxWidth terminal cells, appending an
// ellipsis when anything was cut. Width is measured in cells, not bytes,
// so CJK labels truncate cleanly.
func (s *TextHelper) TruncateToWidth(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}

// PadToWidth right-pads str with spaces to width terminal cells.
func (s *TextHelper) PadToWidth(str string, width int) string {
	return runewidth.FillRight(str, width)
}
