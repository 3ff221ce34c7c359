package toon

import (
	"strings"
)

// scanLine is one raw input line reduced to its nesting depth and content.
type scanLine struct {
	depth   int
	content string
	blank   bool
}

// scanIndent computes the depth of a raw line and strips its indentation.
// Blank and whitespace-only lines have depth 0 unconditionally. In strict
// mode a tab inside the indentation and a leading-space run that is not a
// multiple of the indent size are errors; in lenient mode the tab is treated
// as the start of content.
func scanIndent(raw string, indentSize int, strict bool, lineNo int) (scanLine, error) {
	if strings.TrimSpace(raw) == "" {
		return scanLine{blank: true}, nil
	}

	spaces := 0
	for spaces < len(raw) {
		c := raw[spaces]
		if c == ' ' {
			spaces++
			continue
		}
		if c == '\t' {
			if strict {
				return scanLine{}, decodeErrorf(ErrTabInIndentation, lineNo, "tab found after %d spaces", spaces)
			}
		}
		break
	}

	if strict && indentSize > 0 && spaces%indentSize != 0 {
		return scanLine{}, decodeErrorf(ErrNonMultipleIndent, lineNo, "%d leading spaces with indent size %d", spaces, indentSize)
	}

	depth := spaces
	if indentSize > 0 {
		depth = spaces / indentSize
	}

	content := strings.TrimRight(raw[spaces:], " \r")
	return scanLine{depth: depth, content: content}, nil
}
