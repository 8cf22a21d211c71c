package toml

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Table {
	t.Helper()
	root, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return root
}

func lookupInt(t *testing.T, root *Table, path string) int64 {
	t.Helper()
	v, ok := root.Lookup(path)
	if !ok {
		t.Fatalf("missing key %q", path)
	}
	n, ok := v.AsInteger()
	if !ok {
		t.Fatalf("key %q is %v, not integer", path, v.Kind())
	}
	return n
}

func TestParse_EmptyDocument(t *testing.T) {
	root := mustParse(t, "")
	if root.Len() != 0 {
		t.Fatalf("expected empty table, got %d keys", root.Len())
	}
}

func TestParse_NilInput(t *testing.T) {
	_, err := Parse(nil)
	if !errors.Is(err, ErrNilInput) {
		t.Fatalf("expected ErrNilInput, got %v", err)
	}
}

func TestParse_SimpleKeyValue(t *testing.T) {
	root := mustParse(t, `key = "value"`)
	v, ok := root.Get("key")
	if !ok {
		t.Fatalf("missing key")
	}
	s, ok := v.AsString()
	if !ok || s != "value" {
		t.Fatalf("expected \"value\", got %q (ok=%v)", s, ok)
	}
}

func TestParse_ScalarKinds(t *testing.T) {
	root := mustParse(t, `
i = 42
neg = -17
hex = 0xDEAD_BEEF
oct = 0o755
bin = 0b1101
f = 3.14
exp = 5e2
b = true
s = 'literal'
`)
	if n := lookupInt(t, root, "i"); n != 42 {
		t.Fatalf("i = %d", n)
	}
	if n := lookupInt(t, root, "neg"); n != -17 {
		t.Fatalf("neg = %d", n)
	}
	if n := lookupInt(t, root, "hex"); n != 0xDEADBEEF {
		t.Fatalf("hex = %d", n)
	}
	if n := lookupInt(t, root, "oct"); n != 0o755 {
		t.Fatalf("oct = %d", n)
	}
	if n := lookupInt(t, root, "bin"); n != 13 {
		t.Fatalf("bin = %d", n)
	}
	v, _ := root.Get("f")
	if f, ok := v.AsFloat(); !ok || f != 3.14 {
		t.Fatalf("f = %v (ok=%v)", f, ok)
	}
	v, _ = root.Get("exp")
	if f, ok := v.AsFloat(); !ok || f != 500.0 {
		t.Fatalf("exp = %v", f)
	}
	v, _ = root.Get("b")
	if b, ok := v.AsBool(); !ok || !b {
		t.Fatalf("b = %v", b)
	}
	v, _ = root.Get("s")
	if s, _ := v.AsString(); s != "literal" {
		t.Fatalf("s = %q", s)
	}
}

func TestParse_KeyOrderPreserved(t *testing.T) {
	root := mustParse(t, "b = 1\na = 2\nm = 3\n")
	keys := root.Keys()
	want := []string{"b", "a", "m"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestParse_DottedKeys(t *testing.T) {
	root := mustParse(t, "a.b.c = 1\na.b.d = 2\n")
	if n := lookupInt(t, root, "a.b.c"); n != 1 {
		t.Fatalf("a.b.c = %d", n)
	}
	if n := lookupInt(t, root, "a.b.d"); n != 2 {
		t.Fatalf("a.b.d = %d", n)
	}
	if root.Len() != 1 {
		t.Fatalf("expected 1 root key, got %d", root.Len())
	}
}

func TestParse_QuotedKeys(t *testing.T) {
	root := mustParse(t, "\"a.b\" = 1\n'lit key' = 2\n")
	v, ok := root.Get("a.b")
	if !ok {
		t.Fatalf("missing quoted key \"a.b\"")
	}
	if n, _ := v.AsInteger(); n != 1 {
		t.Fatalf("a.b = %d", n)
	}
	if _, ok := root.Get("lit key"); !ok {
		t.Fatalf("missing literal quoted key")
	}
}

func TestParse_TablesAndSubtables(t *testing.T) {
	root := mustParse(t, "[server]\nhost = \"localhost\"\nport = 8080\n[server.tls]\nenabled = true\n")
	v, ok := root.Lookup("server.host")
	if !ok {
		t.Fatalf("missing server.host")
	}
	if s, _ := v.AsString(); s != "localhost" {
		t.Fatalf("host = %q", s)
	}
	v, ok = root.Lookup("server.tls.enabled")
	if !ok {
		t.Fatalf("missing server.tls.enabled")
	}
	if b, _ := v.AsBool(); !b {
		t.Fatalf("enabled = %v", b)
	}
}

func TestParse_ArrayOfTables(t *testing.T) {
	root := mustParse(t, "[[job]]\nname = \"a\"\n[[job]]\nname = \"b\"\n")
	v, ok := root.Get("job")
	if !ok {
		t.Fatalf("missing job")
	}
	arr, ok := v.AsArray()
	if !ok || len(arr) != 2 {
		t.Fatalf("expected 2 job tables, got %d (ok=%v)", len(arr), ok)
	}
	elem, _ := arr[1].AsTable()
	nv, _ := elem.Get("name")
	if s, _ := nv.AsString(); s != "b" {
		t.Fatalf("job[1].name = %q", s)
	}
}

func TestParse_SubtableOfArrayElement(t *testing.T) {
	root := mustParse(t, "[[job]]\nname = \"a\"\n[job.limits]\ncpu = 2\n")
	v, _ := root.Get("job")
	arr, _ := v.AsArray()
	elem, _ := arr[0].AsTable()
	lv, ok := elem.Get("limits")
	if !ok {
		t.Fatalf("missing job.limits")
	}
	lt, _ := lv.AsTable()
	cv, _ := lt.Get("cpu")
	if n, _ := cv.AsInteger(); n != 2 {
		t.Fatalf("cpu = %d", n)
	}
}

func TestParse_InlineTable(t *testing.T) {
	root := mustParse(t, "point = { x = 1, y = 2 }\n")
	if n := lookupInt(t, root, "point.x"); n != 1 {
		t.Fatalf("x = %d", n)
	}
	if n := lookupInt(t, root, "point.y"); n != 2 {
		t.Fatalf("y = %d", n)
	}
}

func TestParse_InlineTableDottedNumericKey(t *testing.T) {
	// The key must lex the same with or without a space after {.
	for _, src := range []string{
		"pi = {3.14159 = \"pi\"}\n",
		"pi = { 3.14159 = \"pi\" }\n",
	} {
		root := mustParse(t, src)
		v, ok := root.Lookup("pi.3.14159")
		if !ok {
			t.Fatalf("%q: missing pi.3.14159", src)
		}
		if s, _ := v.AsString(); s != "pi" {
			t.Fatalf("%q: value = %q", src, s)
		}
	}
}

func TestParse_ArrayValues(t *testing.T) {
	root := mustParse(t, "a = [1, 2, 3]\nmixed = [[1, 2], [\"x\"]]\ntrailing = [1, 2,]\n")
	v, _ := root.Get("a")
	arr, ok := v.AsArray()
	if !ok || len(arr) != 3 {
		t.Fatalf("a has %d elements", len(arr))
	}
	v, _ = root.Get("trailing")
	arr, _ = v.AsArray()
	if len(arr) != 2 {
		t.Fatalf("trailing comma array has %d elements", len(arr))
	}
}

func TestParse_ArrayWithNewlinesAndComments(t *testing.T) {
	root := mustParse(t, "a = [\n  1, # one\n  2,\n]\n")
	v, _ := root.Get("a")
	arr, _ := v.AsArray()
	if len(arr) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(arr))
	}
}

func TestParse_MultiLineStrings(t *testing.T) {
	root := mustParse(t, "a = \"\"\"\nline one\nline two\"\"\"\nb = '''\nraw \\ text'''\n")
	v, _ := root.Get("a")
	if s, _ := v.AsString(); s != "line one\nline two" {
		t.Fatalf("a = %q", s)
	}
	v, _ = root.Get("b")
	if s, _ := v.AsString(); s != "raw \\ text" {
		t.Fatalf("b = %q", s)
	}
}

func TestParse_LineEndingBackslash(t *testing.T) {
	root := mustParse(t, "a = \"\"\"one \\\n   two\"\"\"\n")
	v, _ := root.Get("a")
	if s, _ := v.AsString(); s != "one two" {
		t.Fatalf("a = %q", s)
	}
}

func TestParse_UnicodeEscapes(t *testing.T) {
	root := mustParse(t, `a = "A\U0001F600"`)
	v, _ := root.Get("a")
	if s, _ := v.AsString(); s != "A\U0001F600" {
		t.Fatalf("a = %q", s)
	}
}

func TestParse_SurrogateEscapeRejected(t *testing.T) {
	_, err := Parse([]byte(`a = "\uD800"`))
	if !errors.Is(err, ErrInvalidEscape) {
		t.Fatalf("expected ErrInvalidEscape, got %v", err)
	}
}

// --- Duplicate detection ---

func TestParse_DuplicateKey(t *testing.T) {
	_, err := Parse([]byte("a = 1\na = 2\n"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 2 || pe.Column != 1 {
		t.Fatalf("error at line %d, column %d; want 2, 1", pe.Line, pe.Column)
	}
}

func TestParse_DuplicateTable(t *testing.T) {
	_, err := Parse([]byte("[a]\n[a]\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestParse_ReopenImplicitTable(t *testing.T) {
	// [a] after [a.b] explicitly defines the implicit intermediate.
	root := mustParse(t, "[a.b]\nx = 1\n[a]\ny = 2\n")
	if n := lookupInt(t, root, "a.y"); n != 2 {
		t.Fatalf("a.y = %d", n)
	}
}

func TestParse_InlineTableIsClosed(t *testing.T) {
	_, err := Parse([]byte("a = { b = 1 }\n[a.c]\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
	_, err = Parse([]byte("a = { b = 1 }\na.c = 2\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestParse_DottedTableCannotBeReopened(t *testing.T) {
	_, err := Parse([]byte("a.b = 1\n[a]\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestParse_DottedCannotExtendExplicitTable(t *testing.T) {
	_, err := Parse([]byte("[a.b]\nx = 1\n[a]\nb.c = 2\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestParse_StaticArrayCannotGrow(t *testing.T) {
	_, err := Parse([]byte("x = [1]\n[[x]]\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestParse_TableHeaderOverArrayOfTables(t *testing.T) {
	_, err := Parse([]byte("[[x]]\n[x]\n"))
	if !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("expected ErrDuplicateTable, got %v", err)
	}
}

func TestParse_DuplicateKeyInInlineTable(t *testing.T) {
	_, err := Parse([]byte("t = { a = 1, a = 2 }\n"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

// --- Numbers ---

func TestParse_IntegerBounds(t *testing.T) {
	root := mustParse(t, "max = 9223372036854775807\nmin = -9223372036854775808\n")
	if n := lookupInt(t, root, "max"); n != 9223372036854775807 {
		t.Fatalf("max = %d", n)
	}
	if n := lookupInt(t, root, "min"); n != -9223372036854775808 {
		t.Fatalf("min = %d", n)
	}

	_, err := Parse([]byte("over = 9223372036854775808\n"))
	if !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected ErrIntegerOverflow, got %v", err)
	}
}

func TestParse_LeadingZeroRejected(t *testing.T) {
	_, err := Parse([]byte("a = 0123\n"))
	if !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestParse_BadUnderscores(t *testing.T) {
	for _, src := range []string{"a = 1__2\n", "a = 0x_1\n", "a = 1_\n", "a = 1._5\n"} {
		if _, err := Parse([]byte(src)); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("%q: expected ErrInvalidNumber, got %v", src, err)
		}
	}
}

func TestParse_SpecialFloats(t *testing.T) {
	root := mustParse(t, "a = inf\nb = -inf\nc = nan\n")
	v, _ := root.Get("a")
	f, _ := v.AsFloat()
	if !(f > 0 && f*2 == f) {
		t.Fatalf("a = %v, want +inf", f)
	}
	v, _ = root.Get("c")
	f, _ = v.AsFloat()
	if f == f {
		t.Fatalf("c = %v, want nan", f)
	}
}

// --- Diagnostics ---

func TestParse_MissingValuePosition(t *testing.T) {
	_, err := Parse([]byte("v = \n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 1 || pe.Column != 5 {
		t.Fatalf("error at line %d, column %d; want 1, 5", pe.Line, pe.Column)
	}
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}

func TestParseError_Snippet(t *testing.T) {
	_, err := Parse([]byte("good = 1\nbad = \n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	msg := pe.Error()
	if !strings.Contains(msg, "line 2, column 7") {
		t.Fatalf("missing position in %q", msg)
	}
	if !strings.Contains(msg, "  2 | bad = ") {
		t.Fatalf("missing source line in %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("missing caret in %q", msg)
	}
}

func TestParse_UnterminatedString(t *testing.T) {
	_, err := Parse([]byte(`a = "abc`))
	if !errors.Is(err, ErrUnterminatedString) {
		t.Fatalf("expected ErrUnterminatedString, got %v", err)
	}
	var pe *ParseError
	errors.As(err, &pe)
	if pe.Column != 5 {
		t.Fatalf("error at column %d, want 5 (the opening quote)", pe.Column)
	}
}

func TestParse_UnterminatedArray(t *testing.T) {
	_, err := Parse([]byte("a = [1, 2\n"))
	if !errors.Is(err, ErrUnterminatedStruct) {
		t.Fatalf("expected ErrUnterminatedStruct, got %v", err)
	}
}

func TestParse_UnterminatedInlineTable(t *testing.T) {
	_, err := Parse([]byte("a = { x = 1"))
	if !errors.Is(err, ErrUnterminatedStruct) {
		t.Fatalf("expected ErrUnterminatedStruct, got %v", err)
	}
}

func TestParse_JunkAfterValue(t *testing.T) {
	_, err := Parse([]byte("a = 1 junk\n"))
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{'a', ' ', '=', ' ', 0xFF, '\n'})
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}

func TestParse_ControlCharInString(t *testing.T) {
	_, err := Parse([]byte("a = \"ab\x01cd\"\n"))
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}

// --- Versions ---

func TestParseWith_UnsupportedVersion(t *testing.T) {
	_, err := ParseWith([]byte("a = 1\n"), ParseOptions{Version: "2.0.0"})
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestParseWith_HexEscapeVersionGated(t *testing.T) {
	src := []byte(`a = "\x41"`)
	_, err := Parse(src)
	if !errors.Is(err, ErrInvalidEscape) {
		t.Fatalf("expected ErrInvalidEscape under 1.0.0, got %v", err)
	}

	root, err := ParseWith(src, ParseOptions{Version: V1_1_0})
	if err != nil {
		t.Fatalf("parse error under 1.1.0: %v", err)
	}
	v, _ := root.Get("a")
	if s, _ := v.AsString(); s != "A" {
		t.Fatalf("a = %q, want \"A\"", s)
	}
}

func TestParseWith_EscEscapeVersionGated(t *testing.T) {
	src := []byte(`a = "\e"`)
	if _, err := Parse(src); !errors.Is(err, ErrInvalidEscape) {
		t.Fatalf("expected ErrInvalidEscape under 1.0.0, got %v", err)
	}
	root, err := ParseWith(src, ParseOptions{Version: V1_1_0})
	if err != nil {
		t.Fatalf("parse error under 1.1.0: %v", err)
	}
	v, _ := root.Get("a")
	if s, _ := v.AsString(); s != "\x1b" {
		t.Fatalf("a = %q", s)
	}
}

func TestParseWith_OptionalSecondsVersionGated(t *testing.T) {
	src := []byte("t = 07:32\n")
	if _, err := Parse(src); !errors.Is(err, ErrInvalidDateTime) {
		t.Fatalf("expected ErrInvalidDateTime under 1.0.0, got %v", err)
	}
	root, err := ParseWith(src, ParseOptions{Version: V1_1_0})
	if err != nil {
		t.Fatalf("parse error under 1.1.0: %v", err)
	}
	v, _ := root.Get("t")
	dt, ok := v.AsDatetime()
	if !ok || v.Kind() != KindLocalTime {
		t.Fatalf("t is %v", v.Kind())
	}
	if dt.Hour != 7 || dt.Minute != 32 || !dt.SecondsOmitted {
		t.Fatalf("dt = %+v", dt)
	}
}

func TestParseWith_InlineTrailingCommaVersionGated(t *testing.T) {
	src := []byte("t = { a = 1, }\n")
	if _, err := Parse(src); !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken under 1.0.0, got %v", err)
	}
	root, err := ParseWith(src, ParseOptions{Version: V1_1_0})
	if err != nil {
		t.Fatalf("parse error under 1.1.0: %v", err)
	}
	if n := lookupInt(t, root, "t.a"); n != 1 {
		t.Fatalf("t.a = %d", n)
	}
}

func TestParseWith_MultiLineInlineTableVersionGated(t *testing.T) {
	src := []byte("t = {\n  a = 1,\n  b = 2,\n}\n")
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error under 1.0.0")
	}
	root, err := ParseWith(src, ParseOptions{Version: V1_1_0})
	if err != nil {
		t.Fatalf("parse error under 1.1.0: %v", err)
	}
	if n := lookupInt(t, root, "t.b"); n != 2 {
		t.Fatalf("t.b = %d", n)
	}
}

// --- Float hook ---

func TestParseWith_FloatHook(t *testing.T) {
	hook := func(text string) (any, error) { return "dec:" + text, nil }
	root, err := ParseWith([]byte("f = 1_000.5\n"), ParseOptions{ParseFloat: hook})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	v, _ := root.Get("f")
	if _, ok := v.AsFloat(); ok {
		t.Fatalf("AsFloat should fail for a substituted representation")
	}
	rep, ok := v.FloatRep()
	if !ok || rep != "dec:1000.5" {
		t.Fatalf("rep = %v (ok=%v)", rep, ok)
	}
}

func TestParseWith_FloatHookReturningFloat64(t *testing.T) {
	hook := func(text string) (any, error) { return 2.5, nil }
	root, err := ParseWith([]byte("f = 1.0\n"), ParseOptions{ParseFloat: hook})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	v, _ := root.Get("f")
	f, ok := v.AsFloat()
	if !ok || f != 2.5 {
		t.Fatalf("f = %v (ok=%v)", f, ok)
	}
}

func TestParseWith_FloatHookError(t *testing.T) {
	hook := func(text string) (any, error) { return nil, errors.New("no floats today") }
	_, err := ParseWith([]byte("f = 1.0\n"), ParseOptions{ParseFloat: hook})
	if !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

// --- Comments ---

func TestParse_Comments(t *testing.T) {
	root := mustParse(t, "# leading\na = 1 # trailing\n# closing\n")
	if n := lookupInt(t, root, "a"); n != 1 {
		t.Fatalf("a = %d", n)
	}
}

func TestParse_ControlCharInComment(t *testing.T) {
	_, err := Parse([]byte("# bad \x01 comment\na = 1\n"))
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}
