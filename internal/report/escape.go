package report

import (
	"fmt"
	"strings"
	"unicode"
)

// EscapeUnprintable returns b as a string, reading each byte as Latin-1.
// Printable characters are kept; everything else is escaped as \xXX.
func EscapeUnprintable(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		r := rune(c)
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteString(fmt.Sprintf("\\x%02X", c))
		}
	}
	return sb.String()
}

// EscapeTitle formats a module title for display. Titles end at the first
// NUL or TAB.
func EscapeTitle(b []byte) string {
	for i, c := range b {
		if c == 0 || c == '\t' {
			b = b[:i]
			break
		}
	}
	return EscapeUnprintable(b)
}
