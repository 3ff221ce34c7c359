package toon

import (
	"github.com/cockroachdb/errors"
)

// Decode error categories. Callers match them with errors.Is; the returned
// errors carry line context from the wrap site.
var (
	// Indentation.
	ErrTabInIndentation      = errors.New("tab character in indentation")
	ErrNonMultipleIndent     = errors.New("indentation is not a multiple of the indent size")
	ErrUnexpectedIndentation = errors.New("unexpected indentation")

	// Structure.
	ErrMissingColon           = errors.New("missing colon in key/value context")
	ErrMultipleRootPrimitives = errors.New("multiple primitive values at document root")
	ErrBlankLineInsideArray   = errors.New("blank line inside array")

	// Array headers.
	ErrInvalidArrayHeader  = errors.New("invalid array header")
	ErrArrayLengthMismatch = errors.New("array length mismatch")
	ErrRowFieldCount       = errors.New("row value count does not match field count")
	ErrDelimiterMismatch   = errors.New("delimiter mismatch between bracket and field list")

	// Strings.
	ErrInvalidQuotedLiteral = errors.New("unterminated or invalid quoted literal")

	// Path expansion.
	ErrPathExpansionConflict = errors.New("path expansion conflict")
)

// decodeErrorf wraps a category sentinel with the 1-based source line and a
// detail message.
func decodeErrorf(kind error, line int, format string, args ...any) error {
	return errors.Wrapf(kind, "line %d: "+format, append([]any{line}, args...)...)
}
