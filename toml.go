// Package toml implements a bidirectional TOML codec: Parse turns TOML
// source text into a value graph, Encode turns a value graph back into
// TOML text. Both directions follow the TOML specification strictly,
// for version 1.0.0 (the default) and 1.1.0.
//
// The package is purely functional per call: no state is shared between
// calls, and concurrent Parse/Encode calls need no coordination.
package toml

// FloatFunc decodes the text of a lexically valid TOML float literal
// into a caller-chosen representation. It is invoked only after the
// literal has passed TOML's syntax rules, so implementations never see
// malformed input. Underscores have already been removed from text.
type FloatFunc func(text string) (any, error)

// ParseOptions configures Parse behavior.
type ParseOptions struct {
	// Version selects the TOML grammar. Empty means V1_0_0.
	Version Version

	// ParseFloat substitutes the float decoder. Nil means standard
	// 64-bit IEEE-754 decoding via strconv.
	ParseFloat FloatFunc
}

// EncodeOptions configures Encode behavior.
type EncodeOptions struct {
	// Pretty renders multi-element arrays one element per line with a
	// trailing comma, and separates table headers with blank lines.
	Pretty bool

	// InlineTables lists dotted table paths that must render as inline
	// { } literals. Tables nested under a forced-inline table are
	// inlined as well.
	InlineTables []string

	// Version selects escape and layout rules. Empty means V1_0_0.
	Version Version
}

// Parse reads a TOML document under the 1.0.0 grammar with the standard
// float decoder. It returns the root table, or the first error
// encountered (always a *ParseError for malformed documents).
func Parse(data []byte) (*Table, error) {
	return ParseWith(data, ParseOptions{})
}

// ParseWith reads a TOML document with explicit options.
func ParseWith(data []byte, opts ParseOptions) (*Table, error) {
	pol, err := policyFor(opts.Version)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNilInput
	}
	s := string(data)
	if msg, off := validateUTF8(data); msg != "" {
		return nil, positionedError(msg, ErrInvalidCharacter, s, off)
	}
	if s == "" {
		return NewTable(), nil
	}
	p := newParser(s, pol, opts.ParseFloat)
	return p.parse()
}

// Encode renders a value graph as TOML text with default layout: block
// headers for every nested table, single-line arrays.
func Encode(root *Table) (string, error) {
	return EncodeWith(root, EncodeOptions{})
}

// EncodeWith renders a value graph with explicit options. It fails with
// an *EncodeError on graphs that cannot be expressed as valid TOML (nil
// root, nil values, float representations the encoder cannot render).
func EncodeWith(root *Table, opts EncodeOptions) (string, error) {
	pol, err := policyFor(opts.Version)
	if err != nil {
		return "", err
	}
	return encodeDocument(root, opts, pol)
}
