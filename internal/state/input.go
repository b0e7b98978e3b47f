package state

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseInput reads the leading number of editor text, ignoring leading
// whitespace and any trailing characters ("12ms" -> 12). With decimals
// false only the integer part is read ("1.9" -> 1).
func ParseInput(raw string, decimals bool) (float64, bool) {
	text := strings.TrimLeftFunc(raw, unicode.IsSpace)

	re := leadingInt
	if decimals {
		re = leadingFloat
	}
	match := re.FindString(text)
	if match == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
