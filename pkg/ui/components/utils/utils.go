// Package utils holds cell-width helpers shared by the transcript, status bar
// and welcome banner. Widths are terminal cells, not bytes or runes.
package utils

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// TruncateToWidth shortens text to width cells, ending in an ellipsis when cut.
// Escape sequences are kept intact and do not count toward the width.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width <= len(ellipsis) {
		return ansi.Truncate(text, width, "")
	}
	return ansi.Truncate(text, width, ellipsis)
}

// TrimToWidth cuts plain text at width cells without an ellipsis.
// A wide rune that would straddle the edge is dropped.
func TrimToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	used := 0
	for i, r := range text {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			return text[:i]
		}
		used += w
	}
	return text
}

// PadPlain right-pads text with spaces to width cells.
func PadPlain(text string, width int) string {
	gap := width - ansi.StringWidth(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

// FitLine lays out left and right on one line exactly width cells wide.
// The right part is dropped first when both do not fit, then left is truncated.
func FitLine(left, right string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(left)+ansi.StringWidth(right) > width {
		right = ""
	}
	left = TruncateToWidth(left, width)
	return PadPlain(left, width-ansi.StringWidth(right)) + right
}

// Center left-pads text so it sits in the middle of width cells.
func Center(text string, width int) string {
	left := max((width-ansi.StringWidth(text))/2, 0)
	return strings.Repeat(" ", left) + text
}
