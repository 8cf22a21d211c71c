package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// --- Lexical validation ---

// validateNumberText validates a TOML number token. It returns an
// error message, or "" when the literal is well-formed.
func validateNumberText(text string) string {
	raw := text
	clean := strings.ReplaceAll(raw, "_", "")

	if isSpecialFloat(clean) {
		return validateUnderscores(raw)
	}
	if hasUnsignedPrefix(clean) || hasSignedPrefix(clean) {
		return checkPrefixNumber(raw, clean)
	}
	if msg := checkDecimalLeadingZeros(raw, clean); msg != "" {
		return msg
	}
	if strings.ContainsAny(clean, ".eE") {
		return validateFloatText(raw, clean)
	}
	return validateDecimalDigits(raw, clean)
}

func checkPrefixNumber(raw, clean string) string {
	if hasSignedPrefix(clean) {
		return fmt.Sprintf("sign not allowed on %s integer", clean[1:3])
	}
	switch clean[1] {
	case 'x':
		return validatePrefixIntBody(raw, clean, "0x", isHexDigit)
	case 'o':
		return validatePrefixIntBody(raw, clean, "0o", isOctDigit)
	case 'b':
		return validatePrefixIntBody(raw, clean, "0b", isBinDigit)
	}
	return ""
}

func hasUnsignedPrefix(clean string) bool {
	if len(clean) <= 1 {
		return false
	}
	return clean[0] == '0' && isBasePrefix(clean[1])
}

func hasSignedPrefix(clean string) bool {
	if len(clean) <= 2 {
		return false
	}
	if clean[0] != '+' && clean[0] != '-' {
		return false
	}
	return clean[1] == '0' && isBasePrefix(clean[2])
}

func checkDecimalLeadingZeros(raw, clean string) string {
	num := stripSign(clean)
	if len(num) <= 1 {
		return ""
	}
	if num[0] == '0' && num[1] != '.' && num[1] != 'e' && num[1] != 'E' {
		return fmt.Sprintf("leading zeros not allowed: %s", raw)
	}
	return ""
}

func stripSign(s string) string {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

func validateDecimalDigits(raw, clean string) string {
	num := stripSign(clean)
	if len(num) == 0 {
		return fmt.Sprintf("invalid integer: %s", raw)
	}
	for i := 0; i < len(num); i++ {
		if !isDecDigit(num[i]) {
			return fmt.Sprintf("invalid character in integer: %s", raw)
		}
	}
	return validateUnderscores(raw)
}

func validatePrefixIntBody(raw, clean, prefix string, validDigit func(byte) bool) string {
	body := clean[len(prefix):]
	if len(body) == 0 {
		return fmt.Sprintf("incomplete %s integer: %s", prefix, raw)
	}
	for i := 0; i < len(body); i++ {
		if !validDigit(body[i]) {
			return fmt.Sprintf("invalid digit in %s integer: %s", prefix, raw)
		}
	}
	return validateUnderscoresInBody(raw, len(prefix))
}

func validateFloatText(raw, clean string) string {
	if strings.Count(clean, ".") > 1 {
		return fmt.Sprintf("multiple dots in float: %s", raw)
	}
	if strings.Count(clean, "e")+strings.Count(clean, "E") > 1 {
		return fmt.Sprintf("multiple exponents in float: %s", raw)
	}
	if msg := validateFloatUnderscores(raw); msg != "" {
		return msg
	}
	return validateFloatParts(raw, clean)
}

func validateFloatParts(raw, clean string) string {
	num := stripSign(clean)
	dotIdx := strings.Index(num, ".")
	eIdx := strings.IndexAny(num, "eE")

	if dotIdx >= 0 && eIdx >= 0 && dotIdx > eIdx {
		return fmt.Sprintf("dot after exponent: %s", raw)
	}
	if dotIdx >= 0 {
		if msg := validateFloatDotParts(raw, num, dotIdx, eIdx); msg != "" {
			return msg
		}
	}
	if eIdx >= 0 {
		if msg := validateFloatExponent(raw, clean, dotIdx, eIdx); msg != "" {
			return msg
		}
	}
	return ""
}

func validateFloatDotParts(raw, num string, dotIdx, eIdx int) string {
	if dotIdx == 0 || dotIdx == len(num)-1 {
		return fmt.Sprintf("invalid float: %s", raw)
	}
	afterDot := num[dotIdx+1:]
	if eIdx >= 0 {
		afterDot = afterDot[:eIdx-dotIdx-1]
	}
	if len(afterDot) == 0 {
		return fmt.Sprintf("no digits after decimal point: %s", raw)
	}
	return ""
}

func validateFloatExponent(raw, clean string, dotIdx, eIdx int) string {
	after := clean[strings.IndexAny(clean, "eE")+1:]
	if len(after) > 0 && (after[0] == '+' || after[0] == '-') {
		after = after[1:]
	}
	if len(after) == 0 {
		return fmt.Sprintf("no digits in exponent: %s", raw)
	}
	if dotIdx >= 0 && dotIdx == eIdx-1 {
		return fmt.Sprintf("no digits between dot and exponent: %s", raw)
	}
	return ""
}

func validateFloatUnderscores(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '_' {
			continue
		}
		if i > 0 && isFloatSeparator(raw[i-1]) {
			return fmt.Sprintf("underscore after %c: %s", raw[i-1], raw)
		}
		if i+1 < len(raw) && isFloatSeparator(raw[i+1]) {
			return fmt.Sprintf("underscore before %c: %s", raw[i+1], raw)
		}
	}
	return validateUnderscores(raw)
}

func isFloatSeparator(c byte) bool {
	return c == '.' || c == 'e' || c == 'E'
}

func validateUnderscores(raw string) string {
	start := 0
	if len(raw) > 0 && (raw[0] == '+' || raw[0] == '-') {
		start = 1
	}
	if start >= len(raw) {
		return ""
	}
	return validateUnderscoresInBody(raw, start)
}

// validateUnderscoresInBody enforces that every underscore sits between
// two digits of the same group.
func validateUnderscoresInBody(s string, start int) string {
	body := s[start:]
	if len(body) == 0 {
		return ""
	}
	if body[0] == '_' {
		return fmt.Sprintf("leading underscore: %s", s)
	}
	if body[len(body)-1] == '_' {
		return fmt.Sprintf("trailing underscore: %s", s)
	}
	for i := 1; i < len(body); i++ {
		if body[i] == '_' && body[i-1] == '_' {
			return fmt.Sprintf("double underscore: %s", s)
		}
		if body[i] == '_' && (body[i-1] == '+' || body[i-1] == '-') {
			return fmt.Sprintf("underscore after sign: %s", s)
		}
	}
	return ""
}

func isDecDigit(c byte) bool { return c >= '0' && c <= '9' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }

// --- Decoding ---

// decodeInteger turns a validated integer literal into an int64. The
// only possible failure after lexical validation is range overflow.
func decodeInteger(text string) (int64, string, error) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	digits := clean
	if hasUnsignedPrefix(clean) {
		switch clean[1] {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		digits = clean[2:]
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, fmt.Sprintf("integer outside 64-bit signed range: %s", text), ErrIntegerOverflow
	}
	return n, "", nil
}

// decodeFloat turns a validated float literal into a value. When fn is
// nil the standard strconv decode applies; otherwise fn receives the
// underscore-free literal text and its result is stored as the float
// representation.
func decodeFloat(text string, fn FloatFunc) (float64, any, string) {
	clean := strings.ReplaceAll(text, "_", "")
	if fn != nil {
		rep, err := fn(clean)
		if err != nil {
			return 0, nil, fmt.Sprintf("float hook rejected %q: %v", clean, err)
		}
		if f, ok := rep.(float64); ok {
			return f, nil, ""
		}
		return 0, rep, ""
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, nil, fmt.Sprintf("invalid float: %s", text)
	}
	return f, nil, ""
}
