package toon

import (
	"strconv"
	"strings"
)

// headerField is one entry of a tabular field list. Quoted field names are
// not eligible for path expansion.
type headerField struct {
	name   string
	quoted bool
}

// arrayHeader is a parsed `key[#N<delim>]{fields}:` line.
type arrayHeader struct {
	key        string
	hasKey     bool
	keyQuoted  bool
	count      int
	lengthMark bool
	delim      Delimiter // effective delimiter for this array
	hasDelim   bool      // bracket carried an explicit delimiter
	fields     []headerField
	hasFields  bool
	inline     string // text after the colon, trimmed
}

// parseHeader attempts to read content as an array header. A nil header with
// a nil error means the line is not header-shaped and should be dispatched as
// a key/value pair or scalar. A non-nil error means the line is
// header-shaped but malformed.
func parseHeader(content string, fallback Delimiter, strict bool, lineNo int) (*arrayHeader, error) {
	h := &arrayHeader{delim: fallback}
	pos := 0

	if strings.HasPrefix(content, `"`) {
		end, err := scanQuoted(content, 0)
		if err != nil {
			return nil, nil
		}
		if end >= len(content) || content[end] != '[' {
			return nil, nil
		}
		key, err := unescapeString(content[1 : end-1])
		if err != nil {
			return nil, decodeErrorf(ErrInvalidQuotedLiteral, lineNo, "header key %s", content[:end])
		}
		h.key = key
		h.hasKey = true
		h.keyQuoted = true
		pos = end
	} else {
		bracket := firstUnquoted(content, '[')
		if bracket < 0 {
			return nil, nil
		}
		colon := firstUnquoted(content, ':')
		if colon >= 0 && colon < bracket {
			return nil, nil
		}
		if bracket > 0 {
			h.key = content[:bracket]
			h.hasKey = true
		}
		pos = bracket
	}

	// Bracket segment: [ "#"? digits delim? ]
	pos++ // consume '['
	if pos < len(content) && content[pos] == '#' {
		h.lengthMark = true
		pos++
	}
	digits := pos
	for pos < len(content) && content[pos] >= '0' && content[pos] <= '9' {
		pos++
	}
	if pos == digits {
		return h, decodeErrorf(ErrInvalidArrayHeader, lineNo, "missing length in %q", content)
	}
	count, err := strconv.Atoi(content[digits:pos])
	if err != nil {
		return h, decodeErrorf(ErrInvalidArrayHeader, lineNo, "bad length in %q", content)
	}
	h.count = count
	if pos < len(content) {
		if d, ok := delimiterFor(rune(content[pos])); ok {
			h.delim = d
			h.hasDelim = true
			pos++
		}
	}
	if pos >= len(content) || content[pos] != ']' {
		return h, decodeErrorf(ErrInvalidArrayHeader, lineNo, "unterminated bracket in %q", content)
	}
	pos++

	// Optional brace field list.
	var fieldsRaw string
	if pos < len(content) && content[pos] == '{' {
		closing := -1
		for i := pos + 1; i < len(content); i++ {
			if content[i] == '"' {
				end, err := scanQuoted(content, i)
				if err != nil {
					return h, decodeErrorf(ErrInvalidQuotedLiteral, lineNo, "field list in %q", content)
				}
				i = end - 1
				continue
			}
			if content[i] == '}' {
				closing = i
				break
			}
		}
		if closing < 0 {
			return h, decodeErrorf(ErrInvalidArrayHeader, lineNo, "unterminated field list in %q", content)
		}
		fieldsRaw = content[pos+1 : closing]
		h.hasFields = true
		pos = closing + 1
	}

	if pos >= len(content) || content[pos] != ':' {
		return h, decodeErrorf(ErrInvalidArrayHeader, lineNo, "missing colon in %q", content)
	}
	h.inline = strings.TrimSpace(content[pos+1:])

	if h.hasFields {
		if err := h.parseFields(fieldsRaw, strict, lineNo); err != nil {
			return h, err
		}
	}
	return h, nil
}

// parseFields splits the brace segment into field names. A separator other
// than the effective delimiter implies a conflicting delimiter declaration.
func (h *arrayHeader) parseFields(raw string, strict bool, lineNo int) error {
	sep := h.delim
	if !containsUnquoted(raw, byte(sep.Rune())) {
		for _, candidate := range []Delimiter{Comma, Tab, Pipe} {
			if candidate == sep {
				continue
			}
			if containsUnquoted(raw, byte(candidate.Rune())) {
				if strict {
					return decodeErrorf(ErrDelimiterMismatch, lineNo, "field list separated by %q, declared %q", candidate.String(), sep.String())
				}
				sep = candidate
				break
			}
		}
	}

	cells := splitDelimited(raw, sep.Rune())
	fields := make([]headerField, 0, len(cells))
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if strings.HasPrefix(cell, `"`) {
			name, err := parseQuoted(cell)
			if err != nil {
				return decodeErrorf(ErrInvalidQuotedLiteral, lineNo, "field name %q", cell)
			}
			fields = append(fields, headerField{name: name, quoted: true})
			continue
		}
		fields = append(fields, headerField{name: cell})
	}
	h.fields = fields
	return nil
}

// renderHeader writes the encode-side header form: key, bracket with
// optional length marker and non-comma delimiter, optional field list,
// trailing colon.
func renderHeader(b *strings.Builder, key string, hasKey bool, count int, fields []string, hasFields bool, opts *EncodeOptions) {
	if hasKey {
		b.WriteString(encodeKey(key))
	}
	b.WriteByte('[')
	if opts.LengthMarker {
		b.WriteByte('#')
	}
	b.WriteString(strconv.Itoa(count))
	if opts.Delimiter != Comma {
		b.WriteRune(opts.Delimiter.Rune())
	}
	b.WriteByte(']')
	if hasFields {
		b.WriteByte('{')
		for i, field := range fields {
			if i > 0 {
				b.WriteRune(opts.Delimiter.Rune())
			}
			b.WriteString(encodeKey(field))
		}
		b.WriteByte('}')
	}
	b.WriteByte(':')
}
