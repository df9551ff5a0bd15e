package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the display width of a string, accounting for unicode characters.
//
// Wide characters (CJK, emoji) count as two terminal cells.
//
// Parameters:
//   - val: The string to measure
//
// Returns:
//   - int: The display width in character cells
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth pads a string with trailing spaces to a display width.
//
// Parameters:
//   - val: The string to pad
//   - width: The target display width in character cells
//
// Returns:
//   - string: The padded string, or val unchanged if already wide enough
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}

// Plural returns singular when n is 1, otherwise plural.
//
// Parameters:
//   - n: Count being described
//   - singular: Word for exactly one (e.g., "update")
//   - plural: Word for any other count (e.g., "updates")
//
// Returns:
//   - string: The chosen word
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
