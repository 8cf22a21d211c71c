package toml

import "fmt"

// keyPart is one segment of a possibly dotted key, with the token it
// came from for error positioning.
type keyPart struct {
	val string // unquoted key name
	tok Token
}

// parser consumes tokens and builds the value graph directly,
// enforcing table semantics as it goes. The first error aborts.
type parser struct {
	lex        *lexer
	cur        Token
	source     string
	pol        policy
	parseFloat FloatFunc

	root    *Table
	current *Table // target of bare key = value lines
}

func newParser(source string, pol policy, fn FloatFunc) *parser {
	p := &parser{
		lex:        newLexer(source),
		source:     source,
		pol:        pol,
		parseFloat: fn,
		root:       NewTable(),
	}
	p.current = p.root
	p.cur = p.lex.Next()
	return p
}

func (p *parser) advance() Token {
	prev := p.cur
	p.cur = p.lex.Next()
	return prev
}

func (p *parser) at(t TokenType) bool { return p.cur.Type == t }

func (p *parser) errAt(tok Token, sentinel error, format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Col,
		Offset:  tok.Pos,
		Source:  p.source,
		Err:     sentinel,
	}
}

func (p *parser) errHere(sentinel error, format string, args ...any) error {
	return p.errAt(p.cur, sentinel, format, args...)
}

func (p *parser) parse() (*Table, error) {
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.at(TokEOF) {
			break
		}
		if p.at(TokLBracket) {
			if err := p.parseHeader(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.parseEntry(p.current); err != nil {
			return nil, err
		}
		if err := p.expectLineEnd(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

// skipTrivia consumes whitespace, newlines, and comments between
// entries. Comment text is validated as it is discarded.
func (p *parser) skipTrivia() error {
	for {
		switch {
		case p.at(TokWhitespace), p.at(TokNewline):
			p.advance()
		case p.at(TokComment):
			tok := p.advance()
			if msg := validateCommentText(tok.Text); msg != "" {
				return p.errAt(tok, ErrInvalidCharacter, "%s", msg)
			}
		default:
			return nil
		}
	}
}

// expectLineEnd enforces that nothing but whitespace and a comment
// follows a completed entry or header on its line.
func (p *parser) expectLineEnd() error {
	if p.at(TokWhitespace) {
		p.advance()
	}
	if p.at(TokComment) {
		tok := p.advance()
		if msg := validateCommentText(tok.Text); msg != "" {
			return p.errAt(tok, ErrInvalidCharacter, "%s", msg)
		}
	}
	if p.at(TokNewline) {
		p.advance()
		return nil
	}
	if p.at(TokEOF) {
		return nil
	}
	return p.errHere(ErrUnexpectedToken, "expected newline or end of file after value")
}

// --- Keys ---

func (p *parser) parseKey() ([]keyPart, error) {
	part, err := p.parseSimpleKey()
	if err != nil {
		return nil, err
	}
	parts := []keyPart{part}

	for p.at(TokDot) || (p.at(TokWhitespace) && p.lex.peekForDot()) {
		if p.at(TokWhitespace) {
			p.advance()
		}
		if !p.at(TokDot) {
			break
		}
		p.advance()
		if p.at(TokWhitespace) {
			p.advance()
		}
		part, err = p.parseSimpleKey()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func (p *parser) parseSimpleKey() (keyPart, error) {
	switch p.cur.Type { //nolint:exhaustive
	case TokBareKey, TokBoolean, TokInteger, TokFloat, TokDateTime:
		tok := p.advance()
		for _, r := range tok.Text {
			if !isBareKeyChar(r) {
				return keyPart{}, p.errAt(tok, ErrInvalidCharacter,
					"invalid character %q in bare key %q", r, tok.Text)
			}
		}
		return keyPart{val: tok.Text, tok: tok}, nil
	case TokBasicString, TokLiteralString:
		tok := p.advance()
		s, msg, serr := unquoteString(tok, p.pol)
		if msg != "" {
			return keyPart{}, p.errAt(tok, serr, "%s", msg)
		}
		return keyPart{val: s, tok: tok}, nil
	case TokError:
		return keyPart{}, p.lexErrValue()
	default:
		return keyPart{}, p.errHere(ErrUnexpectedToken, "expected key")
	}
}

func isBareKeyChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_'
}

func pathOf(parts []keyPart) string {
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = p.val
	}
	return joinPath(segs)
}

// --- Headers ---

func (p *parser) parseHeader() error {
	hdr := p.advance() // first [
	isAOT := false
	if p.at(TokLBracket) {
		isAOT = true
		p.advance()
	}

	if p.at(TokWhitespace) {
		p.advance()
	}
	parts, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.at(TokWhitespace) {
		p.advance()
	}

	closing := "']'"
	if isAOT {
		closing = "']]'"
	}
	if !p.at(TokRBracket) {
		if p.at(TokEOF) {
			return p.errAt(hdr, ErrUnterminatedStruct, "unterminated table header")
		}
		return p.errHere(ErrUnexpectedToken, "expected %s to close table header", closing)
	}
	p.advance()
	if isAOT {
		if !p.at(TokRBracket) {
			return p.errHere(ErrUnexpectedToken, "expected %s to close table header", closing)
		}
		p.advance()
	}

	if isAOT {
		err = p.openArrayTable(parts, hdr)
	} else {
		err = p.openTable(parts, hdr)
	}
	if err != nil {
		return err
	}
	return p.expectLineEnd()
}

// descend resolves one intermediate header segment, creating implicit
// tables and following an array of tables to its last element.
func (p *parser) descend(t *Table, part keyPart) (*Table, error) {
	existing, ok := t.items[part.val]
	if !ok {
		nt := NewTable()
		t.Set(part.val, NewTableValue(nt))
		return nt, nil
	}
	if sub, isTbl := existing.AsTable(); isTbl {
		if sub.frozen {
			return nil, p.errAt(part.tok, ErrDuplicateTable,
				"cannot extend inline table %q", part.val)
		}
		return sub, nil
	}
	if arr, isArr := existing.AsArray(); isArr && !existing.static && len(arr) > 0 {
		if elem, isTbl := arr[len(arr)-1].AsTable(); isTbl {
			return elem, nil
		}
	}
	if existing.static {
		return nil, p.errAt(part.tok, ErrDuplicateTable,
			"cannot extend static array %q", part.val)
	}
	return nil, p.errAt(part.tok, ErrDuplicateTable,
		"key %q already defined as %s", part.val, existing.Kind())
}

// openTable resolves a [a.b.c] header and makes the final table the
// current target.
func (p *parser) openTable(parts []keyPart, hdr Token) error {
	t := p.root
	for _, part := range parts[:len(parts)-1] {
		var err error
		t, err = p.descend(t, part)
		if err != nil {
			return err
		}
	}

	last := parts[len(parts)-1]
	existing, ok := t.items[last.val]
	if !ok {
		nt := NewTable()
		nt.explicit = true
		t.Set(last.val, NewTableValue(nt))
		p.current = nt
		return nil
	}

	sub, isTbl := existing.AsTable()
	if !isTbl {
		if existing.kind == KindArray && !existing.static {
			return p.errAt(hdr, ErrDuplicateTable,
				"cannot define table [%s] already defined as array of tables", pathOf(parts))
		}
		return p.errAt(hdr, ErrDuplicateTable,
			"cannot define table [%s], key already defined as %s", pathOf(parts), existing.Kind())
	}
	switch {
	case sub.frozen:
		return p.errAt(hdr, ErrDuplicateTable,
			"cannot extend inline table [%s]", pathOf(parts))
	case sub.explicit:
		return p.errAt(hdr, ErrDuplicateTable, "duplicate table: [%s]", pathOf(parts))
	case sub.dotted:
		return p.errAt(hdr, ErrDuplicateTable,
			"cannot reopen table [%s] defined via dotted keys", pathOf(parts))
	}
	sub.explicit = true
	p.current = sub
	return nil
}

// openArrayTable resolves a [[a.b.c]] header, appending a fresh table
// to the array at the final segment.
func (p *parser) openArrayTable(parts []keyPart, hdr Token) error {
	t := p.root
	for _, part := range parts[:len(parts)-1] {
		var err error
		t, err = p.descend(t, part)
		if err != nil {
			return err
		}
	}

	last := parts[len(parts)-1]
	elem := NewTable()
	elem.explicit = true

	existing, ok := t.items[last.val]
	if !ok {
		t.Set(last.val, NewArray(NewTableValue(elem)))
		p.current = elem
		return nil
	}
	if existing.kind != KindArray {
		if sub, isTbl := existing.AsTable(); isTbl && sub.frozen {
			return p.errAt(hdr, ErrDuplicateTable,
				"cannot extend inline table [[%s]]", pathOf(parts))
		}
		return p.errAt(hdr, ErrDuplicateTable,
			"cannot define array of tables [[%s]], key already defined as %s",
			pathOf(parts), existing.Kind())
	}
	if existing.static {
		return p.errAt(hdr, ErrDuplicateTable,
			"cannot extend static array [[%s]]", pathOf(parts))
	}
	existing.arr = append(existing.arr, NewTableValue(elem))
	p.current = elem
	return nil
}

// --- Entries ---

// parseEntry parses one key = value pair and assigns it into target.
func (p *parser) parseEntry(target *Table) error {
	parts, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.at(TokWhitespace) {
		p.advance()
	}
	if !p.at(TokEquals) {
		return p.errHere(ErrUnexpectedToken, "expected '=' after key")
	}
	p.lex.valueMode = true // dot is part of floats/datetimes now
	p.advance()
	if p.at(TokWhitespace) {
		p.advance()
	}
	val, err := p.parseValue()
	if err != nil {
		return err
	}
	p.lex.valueMode = false
	return p.assign(target, parts, val)
}

// assign resolves dotted-key intermediates under target and stores the
// value at the final segment.
func (p *parser) assign(target *Table, parts []keyPart, val *Value) error {
	t := target
	for _, part := range parts[:len(parts)-1] {
		existing, ok := t.items[part.val]
		if !ok {
			nt := NewTable()
			nt.dotted = true
			t.Set(part.val, NewTableValue(nt))
			t = nt
			continue
		}
		sub, isTbl := existing.AsTable()
		if !isTbl {
			return p.errAt(part.tok, ErrDuplicateKey,
				"key %q already defined as %s", part.val, existing.Kind())
		}
		switch {
		case sub.frozen:
			return p.errAt(part.tok, ErrDuplicateTable,
				"cannot extend inline table %q", part.val)
		case sub.explicit:
			return p.errAt(part.tok, ErrDuplicateTable,
				"cannot add to explicitly defined table %q via dotted keys", part.val)
		}
		sub.dotted = true
		t = sub
	}

	last := parts[len(parts)-1]
	if _, exists := t.items[last.val]; exists {
		return p.errAt(last.tok, ErrDuplicateKey, "duplicate key %q", last.val)
	}
	t.Set(last.val, val)
	return nil
}

// --- Values ---

func (p *parser) parseValue() (*Value, error) {
	switch p.cur.Type { //nolint:exhaustive
	case TokBasicString, TokMultiLineBasicStr, TokLiteralString, TokMultiLineLiteralStr:
		tok := p.advance()
		s, msg, serr := unquoteString(tok, p.pol)
		if msg != "" {
			return nil, p.errAt(tok, serr, "%s", msg)
		}
		return NewString(s), nil
	case TokInteger:
		tok := p.advance()
		if msg := validateNumberText(tok.Text); msg != "" {
			return nil, p.errAt(tok, ErrInvalidNumber, "%s", msg)
		}
		n, msg, serr := decodeInteger(tok.Text)
		if msg != "" {
			return nil, p.errAt(tok, serr, "%s", msg)
		}
		return NewInteger(n), nil
	case TokFloat:
		tok := p.advance()
		if msg := validateNumberText(tok.Text); msg != "" {
			return nil, p.errAt(tok, ErrInvalidNumber, "%s", msg)
		}
		f, rep, msg := decodeFloat(tok.Text, p.parseFloat)
		if msg != "" {
			return nil, p.errAt(tok, ErrInvalidNumber, "%s", msg)
		}
		v := NewFloat(f)
		v.rep = rep
		return v, nil
	case TokBoolean:
		tok := p.advance()
		return NewBool(tok.Text == "true"), nil
	case TokDateTime:
		tok := p.advance()
		dt, msg := parseDatetime(tok.Text, p.pol)
		if msg != "" {
			return nil, p.errAt(tok, ErrInvalidDateTime, "%s", msg)
		}
		return NewDatetime(dt), nil
	case TokLBracket:
		return p.parseArray()
	case TokLBrace:
		return p.parseInlineTable()
	case TokError:
		return nil, p.lexErrValue()
	default:
		return nil, p.errHere(ErrUnexpectedToken, "expected value")
	}
}

// lexErrValue maps a lexer error token to a positioned error. The
// token position is the opening delimiter for unterminated strings.
func (p *parser) lexErrValue() error {
	tok := p.cur
	if len(tok.Text) > 0 && (tok.Text[0] == '"' || tok.Text[0] == '\'') {
		return p.errAt(tok, ErrUnterminatedString, "unterminated string")
	}
	return p.errAt(tok, ErrInvalidCharacter, "invalid character")
}

func (p *parser) parseArray() (*Value, error) {
	open := p.advance() // [
	var elems []*Value

	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	for !p.at(TokRBracket) {
		if p.at(TokEOF) {
			return nil, p.errAt(open, ErrUnterminatedStruct, "unterminated array")
		}
		p.lex.valueMode = true
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		p.lex.valueMode = true // restore after parseValue (inline table unsets it)
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}

		if p.at(TokComma) {
			p.advance()
			if err := p.skipTrivia(); err != nil {
				return nil, err
			}
		} else if !p.at(TokRBracket) {
			if p.at(TokEOF) {
				return nil, p.errAt(open, ErrUnterminatedStruct, "unterminated array")
			}
			return nil, p.errHere(ErrUnexpectedToken, "expected ',' or ']' in array")
		}
	}
	p.advance() // ]

	v := NewArray(elems...)
	v.static = true // literal arrays cannot be extended by [[headers]]
	return v, nil
}

func (p *parser) parseInlineTable() (*Value, error) {
	// Key context must be restored before the token after { is lexed,
	// or a numeric dotted key like 3.14 arrives as one float token.
	p.lex.valueMode = false
	open := p.advance() // {
	t := NewTable()

	if err := p.skipInlineTrivia(); err != nil {
		return nil, err
	}
	for !p.at(TokRBrace) {
		if p.at(TokEOF) {
			return nil, p.errAt(open, ErrUnterminatedStruct, "unterminated inline table")
		}
		if err := p.parseEntry(t); err != nil {
			return nil, err
		}
		if err := p.skipInlineTrivia(); err != nil {
			return nil, err
		}

		if p.at(TokComma) {
			p.advance()
			if err := p.skipInlineTrivia(); err != nil {
				return nil, err
			}
			if p.at(TokRBrace) && !p.pol.inlineTrailingComma {
				return nil, p.errHere(ErrUnexpectedToken,
					"trailing comma in inline table requires TOML %s", V1_1_0)
			}
		} else if !p.at(TokRBrace) {
			if p.at(TokEOF) {
				return nil, p.errAt(open, ErrUnterminatedStruct, "unterminated inline table")
			}
			return nil, p.errHere(ErrUnexpectedToken, "expected ',' or '}' in inline table")
		}
	}
	p.advance() // }
	p.lex.valueMode = true

	v := NewTableValue(t)
	freezeValue(v)
	return v, nil
}

// skipInlineTrivia consumes whitespace (and, under a policy that
// permits multi-line inline tables, newlines and comments) inside
// { }. A newline under the 1.0.0 policy is left for the caller to
// reject.
func (p *parser) skipInlineTrivia() error {
	for {
		switch {
		case p.at(TokWhitespace):
			p.advance()
		case p.at(TokNewline) && p.pol.inlineNewlines:
			p.advance()
		case p.at(TokComment) && p.pol.inlineNewlines:
			tok := p.advance()
			if msg := validateCommentText(tok.Text); msg != "" {
				return p.errAt(tok, ErrInvalidCharacter, "%s", msg)
			}
		default:
			return nil
		}
	}
}

// freezeValue closes an inline table and everything reachable from it
// against later extension by headers or dotted keys.
func freezeValue(v *Value) {
	switch v.kind { //nolint:exhaustive
	case KindTable:
		v.tbl.frozen = true
		for _, k := range v.tbl.keys {
			freezeValue(v.tbl.items[k])
		}
	case KindArray:
		for _, e := range v.arr {
			freezeValue(e)
		}
	}
}
