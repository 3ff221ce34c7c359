package toon

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// bareKeyRegex matches keys that can be emitted without quotes, including
// the dotted keys produced by key folding.
var bareKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// lineWriter accumulates (depth, content) pairs and renders them with the
// configured indentation. Output has no trailing newline and no trailing
// spaces on any line.
type lineWriter struct {
	indentSize  int
	indentCache []string
	lines       []writtenLine
}

type writtenLine struct {
	depth   int
	content string
}

func (w *lineWriter) add(depth int, content string) {
	w.lines = append(w.lines, writtenLine{depth: depth, content: content})
}

func (w *lineWriter) indent(depth int) string {
	for len(w.indentCache) <= depth {
		level := len(w.indentCache)
		w.indentCache = append(w.indentCache, strings.Repeat(" ", level*w.indentSize))
	}
	return w.indentCache[depth]
}

func (w *lineWriter) render() string {
	var b strings.Builder
	for i, line := range w.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(w.indent(line.depth))
		b.WriteString(line.content)
	}
	return b.String()
}

type encoder struct {
	opts  *EncodeOptions
	delim rune
	w     lineWriter
}

func newEncoder(opts *EncodeOptions) *encoder {
	return &encoder{
		opts:  opts,
		delim: opts.Delimiter.Rune(),
		w:     lineWriter{indentSize: opts.Indent},
	}
}

// encode renders a Value tree to TOON text.
func (e *encoder) encode(v Value) (string, error) {
	switch v.Kind() {
	case KindObject:
		e.writeObject(v.Object(), 0)
		return e.w.render(), nil
	case KindArray:
		e.writeArray("", "", false, v.Items(), 0)
		return e.w.render(), nil
	default:
		return e.scalarText(v), nil
	}
}

// scalarText renders a primitive value on its own.
func (e *encoder) scalarText(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.BoolVal())
	case KindInt:
		return strconv.FormatInt(v.IntVal(), 10)
	case KindFloat:
		return formatFloat(v.FloatVal())
	default:
		return encodeString(v.StringVal(), e.delim)
	}
}

// formatFloat renders a float without exponent notation. Non-finite values
// have no TOON representation and collapse to null, matching JSON.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// encodeKey renders an object key, quoting anything that is not a bare
// dotted identifier.
func encodeKey(key string) string {
	if bareKeyRegex.MatchString(key) {
		return key
	}
	return escapeString(key)
}

// writeObject emits one line per entry at the given depth.
func (e *encoder) writeObject(obj *Object, depth int) {
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		e.writeEntry(key, v, depth)
	}
}

// writeEntry emits a single key and its value.
func (e *encoder) writeEntry(key string, v Value, depth int) {
	switch v.Kind() {
	case KindObject:
		e.w.add(depth, encodeKey(key)+":")
		e.writeObject(v.Object(), depth+1)
	case KindArray:
		e.writeArray("", key, true, v.Items(), depth)
	default:
		e.w.add(depth, encodeKey(key)+": "+e.scalarText(v))
	}
}

type arrayLayout int

const (
	layoutInline arrayLayout = iota
	layoutTabular
	layoutList
)

// classifyArray picks the encoded representation of an array: a single
// delimiter-joined line for all-primitive arrays, a tabular block for
// uniform objects with primitive fields, and a dashed list otherwise.
func classifyArray(items []Value) arrayLayout {
	allPrimitive := true
	allObjects := len(items) > 0
	for _, item := range items {
		if !item.IsPrimitive() {
			allPrimitive = false
		}
		if item.Kind() != KindObject {
			allObjects = false
		}
	}
	if allPrimitive {
		return layoutInline
	}
	if !allObjects {
		return layoutList
	}

	first := items[0].Object()
	if first.Len() == 0 {
		return layoutList
	}
	for _, item := range items {
		obj := item.Object()
		if obj.Len() != first.Len() {
			return layoutList
		}
		for _, key := range obj.Keys() {
			if !first.Has(key) {
				return layoutList
			}
			v, _ := obj.Get(key)
			if !v.IsPrimitive() {
				return layoutList
			}
		}
	}
	return layoutTabular
}

// writeArray emits an array introduced by a header line at the given depth.
// prefix carries the "- " marker when the header sits on a list-item line.
func (e *encoder) writeArray(prefix, key string, hasKey bool, items []Value, depth int) {
	switch classifyArray(items) {
	case layoutInline:
		e.writeInlineArray(prefix, key, hasKey, items, depth)
	case layoutTabular:
		e.writeTabularArray(prefix, key, hasKey, items, depth)
	default:
		e.writeListArray(prefix, key, hasKey, items, depth)
	}
}

func (e *encoder) writeInlineArray(prefix, key string, hasKey bool, items []Value, depth int) {
	var b strings.Builder
	b.WriteString(prefix)
	renderHeader(&b, key, hasKey, len(items), nil, false, e.opts)
	for i, item := range items {
		if i > 0 {
			b.WriteRune(e.delim)
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(e.scalarText(item))
	}
	e.w.add(depth, b.String())
}

func (e *encoder) writeTabularArray(prefix, key string, hasKey bool, items []Value, depth int) {
	fields := items[0].Object().Keys()

	var b strings.Builder
	b.WriteString(prefix)
	renderHeader(&b, key, hasKey, len(items), fields, true, e.opts)
	e.w.add(depth, b.String())

	for _, item := range items {
		obj := item.Object()
		var row strings.Builder
		for i, field := range fields {
			if i > 0 {
				row.WriteRune(e.delim)
			}
			v, _ := obj.Get(field)
			row.WriteString(e.scalarText(v))
		}
		e.w.add(depth+1, row.String())
	}
}

func (e *encoder) writeListArray(prefix, key string, hasKey bool, items []Value, depth int) {
	var b strings.Builder
	b.WriteString(prefix)
	renderHeader(&b, key, hasKey, len(items), nil, false, e.opts)
	e.w.add(depth, b.String())

	itemDepth := depth + 1
	for _, item := range items {
		switch item.Kind() {
		case KindObject:
			e.writeListItemObject(item.Object(), itemDepth)
		case KindArray:
			e.writeArray("- ", "", false, item.Items(), itemDepth)
		default:
			e.w.add(itemDepth, "- "+e.scalarText(item))
		}
	}
}

// writeListItemObject renders an object item: the first field rides on the
// dash line, the remaining fields follow one level deeper.
func (e *encoder) writeListItemObject(obj *Object, itemDepth int) {
	if obj.Len() == 0 {
		e.w.add(itemDepth, "-")
		return
	}

	fieldDepth := itemDepth + 1
	keys := obj.Keys()
	first, _ := obj.Get(keys[0])

	switch first.Kind() {
	case KindObject:
		e.w.add(itemDepth, "- "+encodeKey(keys[0])+":")
		e.writeObject(first.Object(), fieldDepth+1)
	case KindArray:
		e.writeArray("- ", keys[0], true, first.Items(), itemDepth)
	default:
		e.w.add(itemDepth, "- "+encodeKey(keys[0])+": "+e.scalarText(first))
	}

	for _, key := range keys[1:] {
		v, _ := obj.Get(key)
		e.writeEntry(key, v, fieldDepth)
	}
}
