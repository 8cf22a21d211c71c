package toml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// encoder walks a value graph and emits TOML text. Layout is governed
// by EncodeOptions; escape rules by the version policy.
type encoder struct {
	b      strings.Builder
	opts   EncodeOptions
	pol    policy
	inline map[string]bool // normalized dotted paths forced to { } form
}

func encodeDocument(root *Table, opts EncodeOptions, pol policy) (string, error) {
	if root == nil {
		return "", &EncodeError{Message: "nil root table", Err: ErrNilValue}
	}
	e := &encoder{opts: opts, pol: pol, inline: make(map[string]bool, len(opts.InlineTables))}
	for _, p := range opts.InlineTables {
		e.inline[joinPath(splitPath(p))] = true
	}
	if err := e.table(root, nil); err != nil {
		return "", err
	}
	return e.b.String(), nil
}

func (e *encoder) forcedInline(path []string) bool {
	return e.inline[joinPath(path)]
}

// isHeaderArray reports whether an array renders as a sequence of
// [[path]] blocks: non-empty and all elements tables.
func isHeaderArray(v *Value) bool {
	if v.kind != KindArray || len(v.arr) == 0 {
		return false
	}
	for _, el := range v.arr {
		if el == nil || el.kind != KindTable {
			return false
		}
	}
	return true
}

// table emits one table body. Entries keep their insertion order:
// key-value lines come first and header blocks last, and a table key
// that precedes a plain value is rendered inline so the order survives
// a round trip (lines after a [sub] header would otherwise belong to
// the sub-table).
func (e *encoder) table(t *Table, path []string) error {
	subPath := func(k string) []string {
		return append(append([]string(nil), path...), k)
	}
	isBlock := func(k string, v *Value) bool {
		if e.forcedInline(subPath(k)) {
			return false
		}
		return v.kind == KindTable || isHeaderArray(v)
	}

	lastLine := -1
	for i, k := range t.keys {
		v := t.items[k]
		if v == nil {
			return &EncodeError{Message: "nil value", Path: joinPath(subPath(k)), Err: ErrNilValue}
		}
		if !isBlock(k, v) {
			lastLine = i
		}
	}

	for i, k := range t.keys {
		if i > lastLine {
			break
		}
		sub := subPath(k)
		line, err := e.renderValue(t.items[k], sub, 0, true)
		if err != nil {
			return err
		}
		e.b.WriteString(encodeKey(k))
		e.b.WriteString(" = ")
		e.b.WriteString(line)
		e.b.WriteByte('\n')
	}

	for i, k := range t.keys {
		if i <= lastLine {
			continue
		}
		v := t.items[k]
		sub := subPath(k)
		hdr := encodeHeaderPath(sub)
		if v.kind == KindTable {
			e.beforeHeader()
			e.b.WriteString("[")
			e.b.WriteString(hdr)
			e.b.WriteString("]\n")
			if err := e.table(v.tbl, sub); err != nil {
				return err
			}
			continue
		}
		for _, el := range v.arr {
			e.beforeHeader()
			e.b.WriteString("[[")
			e.b.WriteString(hdr)
			e.b.WriteString("]]\n")
			if err := e.table(el.tbl, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// beforeHeader separates header blocks with a blank line in pretty
// mode.
func (e *encoder) beforeHeader() {
	if e.opts.Pretty && e.b.Len() > 0 {
		e.b.WriteByte('\n')
	}
}

// renderValue renders any value in value position. allowPretty is
// false inside inline tables, which are single-line constructs.
func (e *encoder) renderValue(v *Value, path []string, depth int, allowPretty bool) (string, error) {
	switch v.kind {
	case KindString:
		return `"` + escapeBasicString(v.s) + `"`, nil
	case KindInteger:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		if v.rep != nil {
			return "", &EncodeError{
				Message: fmt.Sprintf("cannot render float representation %T", v.rep),
				Path:    joinPath(path),
				Err:     ErrUnsupportedFloatRepr,
			}
		}
		return formatFloat(v.f), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	case KindDatetime, KindLocalDatetime, KindLocalDate, KindLocalTime:
		return v.dt.render(e.pol), nil
	case KindArray:
		return e.renderArray(v, path, depth, allowPretty)
	case KindTable:
		return e.renderInlineTable(v.tbl, path)
	}
	return "", &EncodeError{Message: "unknown value kind", Path: joinPath(path), Err: ErrNilValue}
}

func (e *encoder) renderArray(v *Value, path []string, depth int, allowPretty bool) (string, error) {
	if allowPretty && e.opts.Pretty && len(v.arr) > 1 {
		return e.renderArrayPretty(v, path, depth)
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, el := range v.arr {
		if el == nil {
			return "", &EncodeError{Message: "nil array element", Path: joinPath(path), Err: ErrNilValue}
		}
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := e.renderValue(el, path, depth, false)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteByte(']')
	return b.String(), nil
}

// renderArrayPretty emits one element per line with a trailing comma.
func (e *encoder) renderArrayPretty(v *Value, path []string, depth int) (string, error) {
	indent := strings.Repeat("    ", depth+1)
	var b strings.Builder
	b.WriteString("[\n")
	for _, el := range v.arr {
		if el == nil {
			return "", &EncodeError{Message: "nil array element", Path: joinPath(path), Err: ErrNilValue}
		}
		s, err := e.renderValue(el, path, depth+1, true)
		if err != nil {
			return "", err
		}
		b.WriteString(indent)
		b.WriteString(s)
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat("    ", depth))
	b.WriteByte(']')
	return b.String(), nil
}

// renderInlineTable emits { k = v, ... }, recursively inlining any
// nested tables.
func (e *encoder) renderInlineTable(t *Table, path []string) (string, error) {
	if t == nil {
		return "", &EncodeError{Message: "nil table", Path: joinPath(path), Err: ErrNilValue}
	}
	if t.Len() == 0 {
		return "{}", nil
	}
	var b strings.Builder
	b.WriteString("{ ")
	for i, k := range t.keys {
		v := t.items[k]
		if v == nil {
			return "", &EncodeError{Message: "nil value", Path: joinPath(append(path, k)), Err: ErrNilValue}
		}
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := e.renderValue(v, append(path, k), 0, false)
		if err != nil {
			return "", err
		}
		b.WriteString(encodeKey(k))
		b.WriteString(" = ")
		b.WriteString(s)
	}
	b.WriteString(" }")
	return b.String(), nil
}

// encodeKey emits a key bare when possible, quoted otherwise.
func encodeKey(k string) string {
	if k == "" {
		return `""`
	}
	for _, r := range k {
		if !isBareKeyChar(r) {
			return `"` + escapeBasicString(k) + `"`
		}
	}
	return k
}

func encodeHeaderPath(path []string) string {
	segs := make([]string, len(path))
	for i, s := range path {
		segs[i] = encodeKey(s)
	}
	return strings.Join(segs, ".")
}

// formatFloat renders the shortest decimal form that round-trips to
// the same float64, always keeping a decimal point or exponent so the
// value re-parses as a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// escapeBasicString escapes a Go string for TOML double quotes.
func escapeBasicString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			switch {
			case r < 0x20 || r == 0x7F:
				fmt.Fprintf(&b, `\u%04X`, r)
			case r > 0xFFFF:
				fmt.Fprintf(&b, `\U%08X`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
