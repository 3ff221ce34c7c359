// Package toon implements the TOON (Token-Oriented Object Notation) format.
// TOON is a line-oriented, indentation-based text format that encodes the JSON
// data model with explicit structure and minimal quoting.
//
// The codec operates on the canonical Value model. Marshal and Unmarshal wrap
// the codec for native Go values.
package toon

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Delimiter selects the separator used between inline array values, tabular
// row cells and tabular header fields.
type Delimiter int

const (
	Comma Delimiter = iota
	Tab
	Pipe
)

// Rune returns the separator character.
func (d Delimiter) Rune() rune {
	switch d {
	case Tab:
		return '\t'
	case Pipe:
		return '|'
	default:
		return ','
	}
}

func (d Delimiter) String() string {
	return string(d.Rune())
}

// delimiterFor maps a separator character back to its Delimiter, for headers
// that carry an explicit override.
func delimiterFor(r rune) (Delimiter, bool) {
	switch r {
	case ',':
		return Comma, true
	case '\t':
		return Tab, true
	case '|':
		return Pipe, true
	default:
		return Comma, false
	}
}

// PathExpansion controls decode-side expansion of dotted keys.
type PathExpansion int

const (
	ExpandOff PathExpansion = iota
	ExpandSafe
)

// KeyFolding controls encode-side flattening of single-key object chains.
type KeyFolding int

const (
	FoldOff KeyFolding = iota
	FoldSafe
)

// EncodeOptions configures TOON encoding behavior.
type EncodeOptions struct {
	Indent       int        // Number of spaces per indentation level (default: 2)
	Delimiter    Delimiter  // Delimiter for arrays and tabular data (default: Comma)
	LengthMarker bool       // Emit "#" before array lengths
	KeyFolding   KeyFolding // Fold single-key object chains into dotted keys
	FlattenDepth int        // Max segments in a folded key; 0 means unbounded
}

// DecodeOptions configures TOON decoding behavior.
type DecodeOptions struct {
	Indent      int           // Number of spaces per indentation level (default: 2)
	Delimiter   Delimiter     // Delimiter for arrays and tabular data (default: Comma)
	Strict      bool          // Enable strict validation (default: true)
	ExpandPaths PathExpansion // Expand dotted keys into nested objects
}

// Encode converts a Value to TOON text.
func Encode(v Value) (string, error) {
	return EncodeWithOptions(v, nil)
}

// EncodeWithOptions converts a Value to TOON text with custom options.
func EncodeWithOptions(v Value, opts *EncodeOptions) (string, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	resolved := *opts
	if resolved.Indent <= 0 {
		resolved.Indent = 2
	}
	if resolved.FlattenDepth < 0 {
		resolved.FlattenDepth = 0
	}

	if resolved.KeyFolding == FoldSafe {
		v = foldKeys(v, &resolved)
	}

	e := newEncoder(&resolved)
	return e.encode(v)
}

// Decode parses TOON text and returns the decoded Value.
func Decode(data string) (Value, error) {
	return DecodeWithOptions(data, nil)
}

// DecodeWithOptions parses TOON text with custom options.
func DecodeWithOptions(data string, opts *DecodeOptions) (Value, error) {
	if opts == nil {
		opts = &DecodeOptions{Strict: true}
	}
	resolved := *opts
	if resolved.Indent <= 0 {
		resolved.Indent = 2
	}

	d := newDecoder(data, &resolved)
	return d.decode()
}

// Marshal converts a native Go value to TOON text.
func Marshal(v any) (string, error) {
	return MarshalWithOptions(v, nil)
}

// MarshalWithOptions converts a native Go value to TOON text with custom
// options.
func MarshalWithOptions(v any, opts *EncodeOptions) (string, error) {
	normalized, err := Normalize(v)
	if err != nil {
		return "", err
	}
	return EncodeWithOptions(normalized, opts)
}

// Unmarshal parses TOON text and stores the result in the value pointed to
// by v, using JSON field mapping rules.
func Unmarshal(data string, v any) error {
	return UnmarshalWithOptions(data, v, nil)
}

// UnmarshalWithOptions parses TOON text with custom options and stores the
// result in the value pointed to by v.
func UnmarshalWithOptions(data string, v any, opts *DecodeOptions) error {
	decoded, err := DecodeWithOptions(data, opts)
	if err != nil {
		return err
	}
	jsonBytes, err := decoded.MarshalJSON()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(jsonBytes, v); err != nil {
		return errors.Wrap(err, "toon: unmarshal")
	}
	return nil
}
