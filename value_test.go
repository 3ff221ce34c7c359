package toon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectOrdering(t *testing.T) {
	o := NewObject()
	o.Set("z", Int(1))
	o.Set("a", Int(2))
	o.Set("m", Int(3))

	require.Equal(t, []string{"z", "a", "m"}, o.Keys())
	require.Equal(t, 3, o.Len())

	// Overwriting keeps the original position.
	o.Set("a", Int(9))
	require.Equal(t, []string{"z", "a", "m"}, o.Keys())
	v, ok := o.Get("a")
	require.True(t, ok)
	require.Equal(t, Int(9), v)

	require.True(t, o.Has("z"))
	require.False(t, o.Has("missing"))
	_, ok = o.Get("missing")
	require.False(t, ok)
}

func TestObjectNilReceiver(t *testing.T) {
	var o *Object
	require.Equal(t, 0, o.Len())
	require.Nil(t, o.Keys())
	require.False(t, o.Has("a"))
	_, ok := o.Get("a")
	require.False(t, ok)
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"nulls", Null(), Null(), true},
		{"different kinds", Null(), Bool(false), false},
		{"bools", Bool(true), Bool(true), true},
		{"ints", Int(5), Int(5), true},
		{"int vs float", Int(5), Float(5), false},
		{"floats", Float(2.5), Float(2.5), true},
		{"nan equals nan", Float(math.NaN()), Float(math.NaN()), true},
		{"strings", String("x"), String("x"), true},
		{"arrays", arr(Int(1), Int(2)), arr(Int(1), Int(2)), true},
		{"array length differs", arr(Int(1)), arr(Int(1), Int(2)), false},
		{"array item differs", arr(Int(1)), arr(Int(2)), false},
		{"objects", obj("a", Int(1)), obj("a", Int(1)), true},
		{"object value differs", obj("a", Int(1)), obj("a", Int(2)), false},
		{"object key order differs", obj("a", Int(1), "b", Int(2)), obj("b", Int(2), "a", Int(1)), false},
		{"empty objects", obj(), obj(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.a.Equal(tt.b))
			require.Equal(t, tt.expected, tt.b.Equal(tt.a))
		})
	}
}

func TestValueAccessors(t *testing.T) {
	require.Equal(t, KindNull, Value{}.Kind())
	require.Equal(t, KindBool, Bool(true).Kind())
	require.True(t, Bool(true).BoolVal())
	require.Equal(t, int64(42), Int(42).IntVal())
	require.Equal(t, 2.5, Float(2.5).FloatVal())
	require.Equal(t, "x", String("x").StringVal())
	require.Len(t, arr(Int(1)).Items(), 1)
	require.NotNil(t, ObjectValue(nil).Object())

	require.True(t, Null().IsPrimitive())
	require.True(t, String("x").IsPrimitive())
	require.False(t, arr().IsPrimitive())
	require.False(t, obj().IsPrimitive())
}

func TestValueInterface(t *testing.T) {
	v := obj("a", Int(1), "b", arr(String("x"), Null(), Float(2.5)), "ok", Bool(true))
	require.Equal(t, map[string]any{
		"a":  int64(1),
		"b":  []any{"x", nil, 2.5},
		"ok": true,
	}, v.Interface())

	require.Nil(t, Null().Interface())
}

func TestValueDebugString(t *testing.T) {
	v := obj("a", Int(1), "b", arr(String("x"), Null()))
	require.Equal(t, `{"a":1,"b":["x",null]}`, v.String())
}
