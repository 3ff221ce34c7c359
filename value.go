package toon

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the canonical JSON-like value the codec operates on. A Value tree
// is built bottom-up during decode and treated as read-only input during
// encode. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Null returns the null Value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns a 64-bit integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a 64-bit floating point Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Array returns an array Value holding the given items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps an Object as a Value. A nil Object is treated as empty.
func ObjectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind reports which variant the Value holds.
func (v Value) Kind() Kind { return v.kind }

// BoolVal returns the boolean payload. It is only meaningful for KindBool.
func (v Value) BoolVal() bool { return v.b }

// IntVal returns the integer payload. It is only meaningful for KindInt.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload. It is only meaningful for KindFloat.
func (v Value) FloatVal() float64 { return v.f }

// StringVal returns the string payload. It is only meaningful for KindString.
func (v Value) StringVal() string { return v.s }

// Items returns the backing slice of an array Value, or nil for other kinds.
// The slice must not be mutated.
func (v Value) Items() []Value { return v.arr }

// Object returns the backing Object of an object Value, or nil for other
// kinds.
func (v Value) Object() *Object { return v.obj }

// IsPrimitive reports whether the Value is a scalar (not array or object).
func (v Value) IsPrimitive() bool {
	return v.kind != KindArray && v.kind != KindObject
}

// Equal reports deep equality. Objects compare key order as well as content,
// since the model is order-preserving.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == w.b
	case KindInt:
		return v.i == w.i
	case KindFloat:
		return v.f == w.f || (math.IsNaN(v.f) && math.IsNaN(w.f))
	case KindString:
		return v.s == w.s
	case KindArray:
		if len(v.arr) != len(w.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(w.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(w.obj)
	default:
		return false
	}
}

// Interface converts the Value to plain Go types: nil, bool, int64, float64,
// string, []any and map[string]any. Object key order is not representable in
// a Go map; use Object directly when order matters.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Interface()
		}
		return items
	case KindObject:
		m := make(map[string]any, v.obj.Len())
		for _, key := range v.obj.Keys() {
			item, _ := v.obj.Get(key)
			m[key] = item.Interface()
		}
		return m
	default:
		return nil
	}
}

// String renders a compact JSON-ish form for debugging and error messages.
func (v Value) String() string {
	var b strings.Builder
	v.writeDebug(&b)
	return b.String()
}

func (v Value) writeDebug(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			item.writeDebug(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, key := range v.obj.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(key))
			b.WriteByte(':')
			item := v.obj.values[key]
			item.writeDebug(b)
		}
		b.WriteByte('}')
	}
}

// Object is an insertion-ordered map of string keys to Values. Keys are
// unique; setting an existing key overwrites in place and keeps the original
// position.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or overwrites a key.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice must not be mutated.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Equal reports deep equality including key order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i, key := range o.Keys() {
		if other.keys[i] != key {
			return false
		}
		ov, _ := o.Get(key)
		wv, _ := other.Get(key)
		if !ov.Equal(wv) {
			return false
		}
	}
	return true
}
