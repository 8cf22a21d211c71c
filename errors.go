package toml

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every *ParseError unwraps to exactly one of these,
// so callers can classify failures with errors.Is.
var (
	ErrNilInput             = errors.New("nil input")
	ErrInvalidCharacter     = errors.New("invalid character")
	ErrUnterminatedString   = errors.New("unterminated string")
	ErrUnterminatedStruct   = errors.New("unterminated structure")
	ErrInvalidEscape        = errors.New("invalid escape")
	ErrInvalidNumber        = errors.New("invalid numeric literal")
	ErrIntegerOverflow      = errors.New("integer overflow")
	ErrInvalidDateTime      = errors.New("invalid datetime")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrDuplicateTable       = errors.New("duplicate table")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnsupportedVersion   = errors.New("unsupported TOML version")
	ErrNilValue             = errors.New("nil value")
	ErrUnsupportedFloatRepr = errors.New("unsupported float representation")
)

// ParseError is a positioned parse failure. Line and Column are
// 1-indexed; Offset is the byte offset into Source.
type ParseError struct {
	Message string
	Line    int
	Column  int
	Offset  int
	Source  string
	Err     error // classification sentinel
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at line %d, column %d: %s\n", e.Line, e.Column, e.Message)
	b.WriteString(e.Snippet())
	return b.String()
}

// Unwrap returns the classification sentinel.
func (e *ParseError) Unwrap() error { return e.Err }

// Snippet returns the offending source line with a caret marking the
// error column.
func (e *ParseError) Snippet() string {
	return renderSnippet(e.Source, e.Line, e.Column)
}

// renderSnippet formats a one-line source excerpt plus caret. It is a
// pure function of the source text and position, so alternate error
// presentations can reuse it.
func renderSnippet(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	content := strings.TrimSuffix(lines[line-1], "\r")
	var b strings.Builder
	fmt.Fprintf(&b, "  %d | %s\n", line, content)
	b.WriteString("    | ")
	for i := 1; i < column; i++ {
		if i-1 < len(content) && content[i-1] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("^\n")
	return b.String()
}

// positionedError builds a ParseError from a byte offset, deriving line
// and column by scanning the source.
func positionedError(msg string, sentinel error, source string, offset int) *ParseError {
	line, col := 1, 1
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{
		Message: msg,
		Line:    line,
		Column:  col,
		Offset:  offset,
		Source:  source,
		Err:     sentinel,
	}
}

// EncodeError reports a value graph that cannot be rendered as TOML.
type EncodeError struct {
	Message string
	Path    string // dotted path of the offending value, if known
	Err     error  // classification sentinel, may be nil
}

func (e *EncodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("encode error at %s: %s", e.Path, e.Message)
	}
	return "encode error: " + e.Message
}

// Unwrap returns the classification sentinel.
func (e *EncodeError) Unwrap() error { return e.Err }
