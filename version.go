package toml

import "fmt"

// Version selects the TOML grammar revision.
type Version string

// Supported TOML versions.
const (
	V1_0_0 Version = "1.0.0"
	V1_1_0 Version = "1.1.0"
)

// policy holds the grammar feature flags that differ between TOML
// versions. Lexer, parser, and encoder consult it; it is never mutated
// after construction, so a single copy is safe to share.
type policy struct {
	version Version

	// \x two-hex-digit and \e escapes in basic strings.
	extendedEscapes bool

	// Trailing comma before } in inline tables.
	inlineTrailingComma bool

	// Newlines between entries of an inline table.
	inlineNewlines bool

	// HH:MM time literals without seconds.
	optionalSeconds bool
}

var (
	policy100 = policy{version: V1_0_0}
	policy110 = policy{
		version:             V1_1_0,
		extendedEscapes:     true,
		inlineTrailingComma: true,
		inlineNewlines:      true,
		optionalSeconds:     true,
	}
)

// policyFor resolves a version string to its feature flags. An empty
// version means 1.0.0. Unknown versions fail before any parsing.
func policyFor(v Version) (policy, error) {
	switch v {
	case "", V1_0_0:
		return policy100, nil
	case V1_1_0:
		return policy110, nil
	default:
		return policy{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, string(v))
	}
}
