package toml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// validateUTF8 checks that data contains only valid UTF-8 and returns
// a message plus the offending byte offset.
func validateUTF8(data []byte) (string, int) {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Sprintf("invalid UTF-8 byte at position %d", i), i
		}
		i += size
	}
	return "", 0
}

// validateCommentText checks a comment for control characters.
func validateCommentText(s string) string {
	for _, r := range s {
		if r != '\t' && isControlChar(r) {
			return fmt.Sprintf("control character U+%04X in comment", r)
		}
	}
	return ""
}

func isControlChar(r rune) bool {
	return (r >= 0 && r <= 0x1F) || r == 0x7F
}

// unquoteString validates and decodes any of the four string token
// forms. The second return is an error message ("" on success); the
// third is the classification sentinel for a failure.
func unquoteString(tok Token, pol policy) (string, string, error) {
	raw := tok.Text
	switch tok.Type { //nolint:exhaustive
	case TokBasicString:
		return decodeBasic(raw[1:len(raw)-1], false, pol)
	case TokMultiLineBasicStr:
		return decodeBasic(trimMultiLine(raw), true, pol)
	case TokLiteralString:
		return decodeLiteral(raw[1:len(raw)-1], false)
	case TokMultiLineLiteralStr:
		return decodeLiteral(trimMultiLine(raw), true)
	default:
		return "", "not a string token", ErrUnexpectedToken
	}
}

// trimMultiLine strips the triple quotes and the single newline
// immediately following the opening delimiter.
func trimMultiLine(raw string) string {
	inner := raw[3 : len(raw)-3]
	if strings.HasPrefix(inner, "\r\n") {
		return inner[2:]
	}
	if len(inner) > 0 && inner[0] == '\n' {
		return inner[1:]
	}
	return inner
}

//nolint:gocyclo
func decodeBasic(s string, multiline bool, pol policy) (string, string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		ch := s[i]
		if ch == '\\' {
			i++
			if i >= len(s) {
				return "", "trailing backslash in string", ErrInvalidEscape
			}
			next, msg, err := decodeEscape(&b, s, i, multiline, pol)
			if msg != "" {
				return "", msg, err
			}
			i = next
			continue
		}
		if msg := checkStringChar(s, i, multiline, "string"); msg != "" {
			return "", msg, ErrInvalidCharacter
		}
		if multiline && ch == '\r' {
			// \r\n inside a multi-line string normalizes to \n.
			i += 2
			b.WriteByte('\n')
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String(), "", nil
}

func decodeLiteral(s string, multiline bool) (string, string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if msg := checkStringChar(s, i, multiline, "literal string"); msg != "" {
			return "", msg, ErrInvalidCharacter
		}
		if multiline && s[i] == '\r' {
			i += 2
			b.WriteByte('\n')
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String(), "", nil
}

// checkStringChar rejects control characters and bare carriage returns
// at byte position i.
func checkStringChar(s string, i int, multiline bool, what string) string {
	if s[i] == '\r' {
		if !multiline || i+1 >= len(s) || s[i+1] != '\n' {
			return fmt.Sprintf("bare carriage return in %s", what)
		}
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	if r == '\t' {
		return ""
	}
	if isControlChar(r) {
		if multiline && r == '\n' {
			return ""
		}
		return fmt.Sprintf("control character U+%04X in %s", r, what)
	}
	return ""
}

// decodeEscape handles one escape sequence starting at s[i] (the byte
// after the backslash), appending the decoded text to b. It returns
// the next read position.
func decodeEscape(b *strings.Builder, s string, i int, multiline bool, pol policy) (int, string, error) {
	switch s[i] {
	case 'b':
		b.WriteByte('\b')
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'f':
		b.WriteByte('\f')
	case 'r':
		b.WriteByte('\r')
	case '"':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case 'e':
		if !pol.extendedEscapes {
			return 0, fmt.Sprintf(`escape \e requires TOML %s`, V1_1_0), ErrInvalidEscape
		}
		b.WriteByte(0x1B)
	case 'x':
		if !pol.extendedEscapes {
			return 0, fmt.Sprintf(`escape \x requires TOML %s`, V1_1_0), ErrInvalidEscape
		}
		return decodeUnicodeEscape(b, s, i, 2)
	case 'u':
		return decodeUnicodeEscape(b, s, i, 4)
	case 'U':
		return decodeUnicodeEscape(b, s, i, 8)
	case '\n', '\r':
		if !multiline {
			return 0, "invalid escape sequence", ErrInvalidEscape
		}
		return skipLineEndingBackslash(s, i), "", nil
	case ' ', '\t':
		// A line-ending backslash may be followed by trailing
		// whitespace before the newline.
		if multiline && hasNewlineAfterWs(s, i) {
			return skipLineEndingBackslash(s, i), "", nil
		}
		return 0, fmt.Sprintf("invalid escape sequence '\\%c'", s[i]), ErrInvalidEscape
	default:
		return 0, fmt.Sprintf("invalid escape sequence '\\%c'", s[i]), ErrInvalidEscape
	}
	return i + 1, "", nil
}

func decodeUnicodeEscape(b *strings.Builder, s string, i, digits int) (int, string, error) {
	label := `\u`
	switch digits {
	case 2:
		label = `\x`
	case 8:
		label = `\U`
	}
	if i+digits >= len(s) {
		return 0, fmt.Sprintf("incomplete %s escape", label), ErrInvalidEscape
	}
	for j := 1; j <= digits; j++ {
		if !isHexDigit(s[i+j]) {
			return 0, fmt.Sprintf("invalid %s escape", label), ErrInvalidEscape
		}
	}
	n, _ := strconv.ParseUint(s[i+1:i+1+digits], 16, 32)
	if n >= 0xD800 && n <= 0xDFFF {
		return 0, fmt.Sprintf("invalid unicode scalar U+%04X", n), ErrInvalidEscape
	}
	if n > 0x10FFFF {
		return 0, fmt.Sprintf("unicode codepoint U+%04X out of range", n), ErrInvalidEscape
	}
	b.WriteRune(rune(n))
	return i + 1 + digits, "", nil
}

// skipLineEndingBackslash consumes the newline after a line-ending
// backslash along with all following whitespace.
func skipLineEndingBackslash(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i < len(s) && s[i] == '\r' {
		i++
	}
	if i < len(s) && s[i] == '\n' {
		i++
	}
	for i < len(s) && isWhitespaceOrNewline(s[i]) {
		i++
	}
	return i
}

func isWhitespaceOrNewline(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func hasNewlineAfterWs(s string, pos int) bool {
	i := pos
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i < len(s) && (s[i] == '\n' || s[i] == '\r')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
