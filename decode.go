package toon

import (
	"math"
	"strconv"
	"strings"
)

// decoder is the mutable parse cursor: the raw lines, the current position
// and the active options. It is owned by a single decode call and never
// shared.
type decoder struct {
	lines []string
	pos   int
	opts  *DecodeOptions
}

func newDecoder(data string, opts *DecodeOptions) *decoder {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	return &decoder{
		lines: strings.Split(data, "\n"),
		opts:  opts,
	}
}

func (d *decoder) strict() bool { return d.opts.Strict }

// scan reduces the line at index i to depth and content.
func (d *decoder) scan(i int) (scanLine, error) {
	return scanIndent(d.lines[i], d.opts.Indent, d.opts.Strict, i+1)
}

// nextNonBlank returns the index and scan of the first non-blank line at or
// after from, or -1 when none remains.
func (d *decoder) nextNonBlank(from int) (int, scanLine, error) {
	for i := from; i < len(d.lines); i++ {
		ln, err := d.scan(i)
		if err != nil {
			return 0, scanLine{}, err
		}
		if !ln.blank {
			return i, ln, nil
		}
	}
	return -1, scanLine{}, nil
}

// decode parses the whole document from the root value position.
func (d *decoder) decode() (Value, error) {
	idx, ln, err := d.nextNonBlank(0)
	if err != nil {
		return Value{}, err
	}
	if idx < 0 {
		return ObjectValue(NewObject()), nil
	}
	if ln.depth > 0 {
		if d.strict() {
			return Value{}, decodeErrorf(ErrUnexpectedIndentation, idx+1, "document root at depth %d", ln.depth)
		}
		return ObjectValue(NewObject()), nil
	}
	d.pos = idx
	content := ln.content

	// Standalone array header: the document is a single array.
	if content[0] == '[' {
		h, herr := parseHeader(content, d.opts.Delimiter, d.strict(), idx+1)
		if herr != nil || h == nil {
			if herr == nil {
				herr = decodeErrorf(ErrInvalidArrayHeader, idx+1, "%q", content)
			}
			if d.strict() {
				return Value{}, herr
			}
			return Array(), nil
		}
		return d.parseArrayBody(h, ln.depth)
	}

	// Keyed array header or key/value pair: the document is an object.
	h, herr := parseHeader(content, d.opts.Delimiter, d.strict(), idx+1)
	if h != nil || herr != nil || containsUnquoted(content, ':') {
		obj, err := d.parseObjectBlock(0)
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(obj), nil
	}

	// Bare scalar document.
	v, err := d.parseScalar(content, idx+1)
	if err != nil {
		return Value{}, err
	}
	if d.strict() {
		if next, _, err := d.nextNonBlank(idx + 1); err != nil {
			return Value{}, err
		} else if next >= 0 {
			return Value{}, decodeErrorf(ErrMultipleRootPrimitives, next+1, "value after root scalar")
		}
	}
	return v, nil
}

// parseObjectBlock reads consecutive entries at blockDepth into an ordered
// object, stopping at the first shallower line.
func (d *decoder) parseObjectBlock(blockDepth int) (*Object, error) {
	obj := NewObject()
	for d.pos < len(d.lines) {
		ln, err := d.scan(d.pos)
		if err != nil {
			return nil, err
		}
		if ln.blank {
			d.pos++
			continue
		}
		if ln.depth < blockDepth {
			break
		}
		if ln.depth > blockDepth {
			if d.strict() {
				return nil, decodeErrorf(ErrUnexpectedIndentation, d.pos+1, "expected depth %d, found %d", blockDepth, ln.depth)
			}
			d.pos++
			continue
		}
		if err := d.parseEntry(obj, ln); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// parseEntry consumes one object entry (keyed array, key/value pair or
// nested object) starting at the current line.
func (d *decoder) parseEntry(obj *Object, ln scanLine) error {
	content := ln.content
	lineNo := d.pos + 1

	h, herr := parseHeader(content, d.opts.Delimiter, d.strict(), lineNo)
	if herr != nil {
		if d.strict() {
			return herr
		}
		d.pos++
		return nil
	}
	if h != nil {
		if !h.hasKey {
			if d.strict() {
				return decodeErrorf(ErrInvalidArrayHeader, lineNo, "array header without key")
			}
			d.pos++
			return nil
		}
		arr, err := d.parseArrayBody(h, ln.depth)
		if err != nil {
			return err
		}
		return d.setKey(obj, h.key, h.keyQuoted, arr, lineNo)
	}

	colon, qerr := indexUnquoted(content, ':')
	if qerr != nil {
		// Malformed quoted literals are fatal in both modes.
		return decodeErrorf(ErrInvalidQuotedLiteral, lineNo, "%q", content)
	}
	if colon < 0 {
		if d.strict() {
			return decodeErrorf(ErrMissingColon, lineNo, "%q", content)
		}
		d.pos++
		return nil
	}

	key, keyQuoted, err := d.parseKeyLiteral(strings.TrimSpace(content[:colon]), lineNo)
	if err != nil {
		return err
	}
	valueRaw := strings.TrimSpace(content[colon+1:])

	if valueRaw == "" {
		d.pos++
		next, nln, err := d.nextNonBlank(d.pos)
		if err != nil {
			return err
		}
		if next >= 0 && nln.depth > ln.depth {
			child, err := d.parseObjectBlock(ln.depth + 1)
			if err != nil {
				return err
			}
			return d.setKey(obj, key, keyQuoted, ObjectValue(child), lineNo)
		}
		return d.setKey(obj, key, keyQuoted, String(""), lineNo)
	}

	v, err := d.parseScalar(valueRaw, lineNo)
	if err != nil {
		return err
	}
	d.pos++
	return d.setKey(obj, key, keyQuoted, v, lineNo)
}

// parseArrayBody dispatches on the header shape. The cursor must be on the
// header line (or the list-item line carrying it); the body is consumed.
func (d *decoder) parseArrayBody(h *arrayHeader, headerDepth int) (Value, error) {
	headerLine := d.pos + 1
	d.pos++

	var items []Value
	var err error
	switch {
	case h.hasFields:
		items, err = d.parseTabularRows(h, headerDepth)
	case h.inline != "":
		items, err = d.parseInlineValues(h.inline, h.delim, headerLine)
	default:
		items, err = d.parseIndentedBody(h, headerDepth)
	}
	if err != nil {
		return Value{}, err
	}

	// Declared length is validated in both modes.
	if len(items) != h.count {
		return Value{}, decodeErrorf(ErrArrayLengthMismatch, headerLine, "declared %d, found %d", h.count, len(items))
	}
	return Array(items...), nil
}

// parseInlineValues splits a delimiter-joined line of scalars.
func (d *decoder) parseInlineValues(raw string, delim Delimiter, lineNo int) ([]Value, error) {
	cells := splitDelimited(raw, delim.Rune())
	items := make([]Value, 0, len(cells))
	for _, cell := range cells {
		v, err := d.parseScalar(strings.TrimSpace(cell), lineNo)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// parseIndentedBody handles headers with no field list and no inline
// payload: a list of "- " items, a single indented line of joined values, or
// an empty array.
func (d *decoder) parseIndentedBody(h *arrayHeader, headerDepth int) ([]Value, error) {
	idx, ln, err := d.nextNonBlank(d.pos)
	if err != nil {
		return nil, err
	}
	if idx < 0 || ln.depth <= headerDepth {
		return []Value{}, nil
	}
	if idx > d.pos {
		// Blank lines ahead of content that is still inside the array.
		if d.strict() {
			return nil, decodeErrorf(ErrBlankLineInsideArray, d.pos+1, "before first element")
		}
		d.pos = idx
	}
	if ln.content == "-" || strings.HasPrefix(ln.content, "- ") {
		return d.parseListItems(h, headerDepth)
	}

	// Single continuation line of delimiter-joined values.
	d.pos = idx + 1
	return d.parseInlineValues(ln.content, h.delim, idx+1)
}

// skipArrayBlank applies the blank-line policy inside an array body. It
// reports whether the array ends at this blank line. In strict mode a blank
// line that is still inside the array is an error.
func (d *decoder) skipArrayBlank(headerDepth int) (done bool, err error) {
	next, nln, err := d.nextNonBlank(d.pos + 1)
	if err != nil {
		return false, err
	}
	if next < 0 || nln.depth <= headerDepth {
		d.pos++
		return true, nil
	}
	if d.strict() {
		return false, decodeErrorf(ErrBlankLineInsideArray, d.pos+1, "blank line between elements")
	}
	d.pos++
	return false, nil
}

// parseTabularRows reads delimiter-separated rows into one object per row.
// The expected row depth is taken from the first non-blank line after the
// header rather than assumed to be headerDepth+1, to tolerate variable
// indentation from nested contexts.
func (d *decoder) parseTabularRows(h *arrayHeader, headerDepth int) ([]Value, error) {
	rows := []Value{}

	idx, first, err := d.nextNonBlank(d.pos)
	if err != nil {
		return nil, err
	}
	if idx < 0 || first.depth <= headerDepth {
		return rows, nil
	}
	rowDepth := first.depth

	for d.pos < len(d.lines) {
		ln, err := d.scan(d.pos)
		if err != nil {
			return nil, err
		}
		if ln.blank {
			done, err := d.skipArrayBlank(headerDepth)
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
			continue
		}
		if ln.depth < rowDepth {
			break
		}
		if ln.depth > rowDepth {
			break
		}
		// A line at row depth carrying a key/value pair is a sibling key,
		// not a row.
		if containsUnquoted(ln.content, ':') {
			break
		}

		lineNo := d.pos + 1
		cells := splitDelimited(ln.content, h.delim.Rune())
		if len(cells) != len(h.fields) {
			if d.strict() {
				return nil, decodeErrorf(ErrRowFieldCount, lineNo, "expected %d values, found %d", len(h.fields), len(cells))
			}
		}
		row := NewObject()
		for i, field := range h.fields {
			if i >= len(cells) {
				break
			}
			v, err := d.parseScalar(strings.TrimSpace(cells[i]), lineNo)
			if err != nil {
				return nil, err
			}
			if err := d.setKey(row, field.name, field.quoted, v, lineNo); err != nil {
				return nil, err
			}
		}
		rows = append(rows, ObjectValue(row))
		d.pos++
	}
	return rows, nil
}

// parseListItems reads "- "-prefixed items at headerDepth+1.
func (d *decoder) parseListItems(h *arrayHeader, headerDepth int) ([]Value, error) {
	itemDepth := headerDepth + 1
	items := []Value{}

	for d.pos < len(d.lines) {
		ln, err := d.scan(d.pos)
		if err != nil {
			return nil, err
		}
		if ln.blank {
			done, err := d.skipArrayBlank(headerDepth)
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
			continue
		}
		if ln.depth != itemDepth {
			break
		}
		if ln.content != "-" && !strings.HasPrefix(ln.content, "- ") {
			break
		}

		item, err := d.parseListItem(ln, itemDepth)
		if err != nil {
			return nil, err
		}
		items = append(items, item...)
	}
	return items, nil
}

// parseListItem consumes one list item and its indented continuation. It
// returns zero values when a malformed item is skipped in lenient mode.
func (d *decoder) parseListItem(ln scanLine, itemDepth int) ([]Value, error) {
	lineNo := d.pos + 1

	payload := ""
	if ln.content != "-" {
		payload = strings.TrimSpace(ln.content[2:])
	}
	if payload == "" {
		d.pos++
		return []Value{ObjectValue(NewObject())}, nil
	}

	h, herr := parseHeader(payload, d.opts.Delimiter, d.strict(), lineNo)
	if herr != nil {
		if d.strict() {
			return nil, herr
		}
		d.pos++
		return nil, nil
	}
	if h != nil && !h.hasKey {
		// The item is a nested standalone array.
		v, err := d.parseArrayBody(h, itemDepth)
		if err != nil {
			return nil, err
		}
		return []Value{v}, nil
	}
	if h != nil || containsUnquoted(payload, ':') {
		obj, err := d.parseListItemObject(payload, h, itemDepth)
		if err != nil {
			return nil, err
		}
		return []Value{ObjectValue(obj)}, nil
	}

	v, err := d.parseScalar(payload, lineNo)
	if err != nil {
		return nil, err
	}
	d.pos++
	return []Value{v}, nil
}

// parseListItemObject reads an object item: the first field comes from the
// dash line payload, the remaining fields from subsequent lines one level
// deeper than the dash.
func (d *decoder) parseListItemObject(payload string, firstHeader *arrayHeader, itemDepth int) (*Object, error) {
	obj := NewObject()
	fieldDepth := itemDepth + 1
	lineNo := d.pos + 1

	if firstHeader != nil {
		arr, err := d.parseArrayBody(firstHeader, itemDepth)
		if err != nil {
			return nil, err
		}
		if err := d.setKey(obj, firstHeader.key, firstHeader.keyQuoted, arr, lineNo); err != nil {
			return nil, err
		}
	} else {
		colon := firstUnquoted(payload, ':')
		key, keyQuoted, err := d.parseKeyLiteral(strings.TrimSpace(payload[:colon]), lineNo)
		if err != nil {
			return nil, err
		}
		valueRaw := strings.TrimSpace(payload[colon+1:])
		if valueRaw == "" {
			d.pos++
			next, nln, err := d.nextNonBlank(d.pos)
			if err != nil {
				return nil, err
			}
			if next >= 0 && nln.depth > fieldDepth {
				child, err := d.parseObjectBlock(fieldDepth + 1)
				if err != nil {
					return nil, err
				}
				if err := d.setKey(obj, key, keyQuoted, ObjectValue(child), lineNo); err != nil {
					return nil, err
				}
			} else if err := d.setKey(obj, key, keyQuoted, String(""), lineNo); err != nil {
				return nil, err
			}
		} else {
			v, err := d.parseScalar(valueRaw, lineNo)
			if err != nil {
				return nil, err
			}
			d.pos++
			if err := d.setKey(obj, key, keyQuoted, v, lineNo); err != nil {
				return nil, err
			}
		}
	}

	for d.pos < len(d.lines) {
		ln, err := d.scan(d.pos)
		if err != nil {
			return nil, err
		}
		if ln.blank {
			// Fields of a list item are still inside the containing array,
			// so its blank-line policy applies.
			done, err := d.skipArrayBlank(itemDepth - 1)
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
			continue
		}
		if ln.depth < fieldDepth {
			break
		}
		if ln.depth > fieldDepth {
			if d.strict() {
				return nil, decodeErrorf(ErrUnexpectedIndentation, d.pos+1, "expected depth %d, found %d", fieldDepth, ln.depth)
			}
			d.pos++
			continue
		}
		if err := d.parseEntry(obj, ln); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// parseKeyLiteral reads an object key, which is either a quoted literal or
// bare text.
func (d *decoder) parseKeyLiteral(raw string, lineNo int) (string, bool, error) {
	if strings.HasPrefix(raw, `"`) {
		key, err := parseQuoted(raw)
		if err != nil {
			return "", false, decodeErrorf(ErrInvalidQuotedLiteral, lineNo, "key %q", raw)
		}
		return key, true, nil
	}
	return raw, false, nil
}

// setKey stores a decoded key on obj, expanding eligible dotted keys when
// path expansion is enabled.
func (d *decoder) setKey(obj *Object, key string, quoted bool, v Value, lineNo int) error {
	if d.opts.ExpandPaths == ExpandSafe && !quoted && isExpandableKey(key) {
		return d.expandPath(obj, strings.Split(key, "."), v, lineNo)
	}
	obj.Set(key, v)
	return nil
}

// parseScalar reads one primitive value per the scalar grammar: empty
// string, null/true/false, quoted string, number, or the literal text
// itself.
func (d *decoder) parseScalar(raw string, lineNo int) (Value, error) {
	switch raw {
	case "":
		return String(""), nil
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if raw[0] == '"' {
		s, err := parseQuoted(raw)
		if err != nil {
			// Malformed quoted literals are fatal in both modes.
			return Value{}, decodeErrorf(ErrInvalidQuotedLiteral, lineNo, "%q", raw)
		}
		return String(s), nil
	}

	if c := raw[0]; c == '-' || (c >= '0' && c <= '9') {
		// Leading-zero forms stay strings to avoid octal-looking ambiguity.
		if leadingZeroRegex.MatchString(raw) {
			return String(raw), nil
		}
		if strings.ContainsAny(raw, ".eE") {
			if numericRegex.MatchString(raw) {
				if f, err := strconv.ParseFloat(raw, 64); err == nil {
					return normalizeFloat(f), nil
				}
			}
			return String(raw), nil
		}
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i), nil
		}
		// Integer text beyond the 64-bit range.
		if numericRegex.MatchString(raw) {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				return Float(f), nil
			}
		}
	}
	return String(raw), nil
}

// normalizeFloat canonicalizes parsed floating point text: signed zero
// collapses to integer zero and whole numbers within the signed 64-bit range
// become integers.
func normalizeFloat(f float64) Value {
	if f == 0 {
		return Int(0)
	}
	if f == math.Trunc(f) && f >= -9.223372036854775808e18 && f < 9.223372036854775808e18 {
		return Int(int64(f))
	}
	return Float(f)
}

// isExpandableKey reports whether a bare key qualifies for path expansion:
// it contains a dot and every segment is a bare identifier.
func isExpandableKey(key string) bool {
	if !strings.Contains(key, ".") {
		return false
	}
	for _, seg := range strings.Split(key, ".") {
		if !identifierRegex.MatchString(seg) {
			return false
		}
	}
	return true
}

// expandPath walks or creates intermediate objects for each dotted segment
// and sets the final segment, last write wins. A segment already holding a
// non-object value conflicts; strict mode reports it, lenient mode
// overwrites.
func (d *decoder) expandPath(obj *Object, segments []string, v Value, lineNo int) error {
	current := obj
	for _, seg := range segments[:len(segments)-1] {
		if existing, ok := current.Get(seg); ok {
			if existing.Kind() == KindObject {
				current = existing.Object()
				continue
			}
			if d.strict() {
				return decodeErrorf(ErrPathExpansionConflict, lineNo, "segment %q already holds a %s value", seg, existing.Kind())
			}
		}
		child := NewObject()
		current.Set(seg, ObjectValue(child))
		current = child
	}
	current.Set(segments[len(segments)-1], v)
	return nil
}
