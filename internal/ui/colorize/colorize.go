// Package colorize highlights ARM listings for terminal output.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Disabled reports whether ROXTRACT_NO_COLOR is set.
func Disabled() bool {
	return os.Getenv("ROXTRACT_NO_COLOR") != ""
}

// getAssemblyLexer returns an ARM assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	candidates := []string{"armasm", "gas", "nasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getListingStyle() *chroma.Style {
	candidates := []string{"roxtract-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeAssembly applies syntax highlighting to ARM assembly text.
// The input is returned unchanged when colours are disabled or no lexer
// is available.
func ColorizeAssembly(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getListingStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// ColorizeListing colours a listing in the "address  encoding  text"
// layout produced by disasm.Stream. Addresses and encodings are grey; the
// instruction text goes through chroma.
func ColorizeListing(listing string) string {
	if Disabled() {
		return listing
	}

	var sb strings.Builder
	for _, line := range strings.SplitAfter(listing, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		parts := strings.SplitN(body, "  ", 3)
		if len(parts) != 3 || !isHex(parts[0]) {
			sb.WriteString(line)
			continue
		}

		text, err := ColorizeAssembly(parts[2])
		if err != nil {
			text = parts[2]
		}
		// lexers may append a newline inside the escape sequences
		text = strings.ReplaceAll(text, "\n", "")
		fmt.Fprintf(&sb, "\033[38;2;79;79;79m%s  %s\033[0m  %s", parts[0], parts[1], text)
		if strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return true
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
