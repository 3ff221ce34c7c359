package toon

import (
	"regexp"
	"strings"
)

var (
	numericRegex     = regexp.MustCompile(`^-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?$`)
	leadingZeroRegex = regexp.MustCompile(`^-?0\d+$`)
	identifierRegex  = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// needsQuoting reports whether s must be quoted to survive a round trip
// through the decoder under the active delimiter.
func needsQuoting(s string, delim rune) bool {
	if len(s) == 0 {
		return true
	}

	switch s {
	case "true", "false", "null":
		return true
	}

	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}

	for _, c := range s {
		if c == delim {
			return true
		}
		switch c {
		case ':', '"', '\\', '[', ']', '{', '}':
			return true
		}
		if c < 0x20 {
			return true
		}
	}

	// Anything the scalar grammar would read back as a number, including the
	// octal-looking leading-zero forms.
	return numericRegex.MatchString(s) || leadingZeroRegex.MatchString(s)
}

// escapeString returns s as a quoted TOON literal.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// encodeString renders s either bare or as a quoted literal.
func encodeString(s string, delim rune) string {
	if needsQuoting(s, delim) {
		return escapeString(s)
	}
	return s
}

// unescapeString inverts escapeString for the content between the quotes.
// An escape sequence outside the supported set is invalid.
func unescapeString(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", ErrInvalidQuotedLiteral
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", ErrInvalidQuotedLiteral
		}
		i++
	}
	return b.String(), nil
}

// scanQuoted returns the index just past the closing quote of the quoted
// literal starting at s[start], which must be '"'. Backslash escapes are
// skipped without being validated.
func scanQuoted(s string, start int) (int, error) {
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return 0, ErrInvalidQuotedLiteral
			}
			i += 2
		case '"':
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, ErrInvalidQuotedLiteral
}

// parseQuoted parses s, which must be exactly one quoted literal with no
// surrounding text, and returns the unescaped content.
func parseQuoted(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' {
		return "", ErrInvalidQuotedLiteral
	}
	end, err := scanQuoted(s, 0)
	if err != nil {
		return "", err
	}
	if end != len(s) {
		return "", ErrInvalidQuotedLiteral
	}
	return unescapeString(s[1 : end-1])
}

// indexUnquoted returns the index of the first occurrence of target outside
// quoted segments, or -1 when absent. A malformed quoted segment encountered
// while scanning is reported instead of being treated as absence.
func indexUnquoted(s string, target byte) (int, error) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			end, err := scanQuoted(s, i)
			if err != nil {
				return -1, err
			}
			i = end - 1
		case target:
			return i, nil
		}
	}
	return -1, nil
}

// firstUnquoted is indexUnquoted for lookahead positions where a malformed
// quote just means no match.
func firstUnquoted(s string, target byte) int {
	i, err := indexUnquoted(s, target)
	if err != nil {
		return -1
	}
	return i
}

// splitDelimited splits s on delim, ignoring delimiters inside quoted
// segments. It always returns at least one cell.
func splitDelimited(s string, delim rune) []string {
	var cells []string
	d := string(delim)
	start := 0
	i := 0
	for i < len(s) {
		if s[i] == '"' {
			end, err := scanQuoted(s, i)
			if err != nil {
				// Leave the malformed tail as one cell; the scalar parser
				// reports the error.
				break
			}
			i = end
			continue
		}
		if strings.HasPrefix(s[i:], d) {
			cells = append(cells, s[start:i])
			i += len(d)
			start = i
			continue
		}
		i++
	}
	cells = append(cells, s[start:])
	return cells
}

// containsUnquoted reports whether target occurs in s outside quoted
// segments.
func containsUnquoted(s string, target byte) bool {
	return firstUnquoted(s, target) >= 0
}
