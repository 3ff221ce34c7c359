package toon

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int64", int64(-7), Int(-7)},
		{"int32", int32(9), Int(9)},
		{"uint", uint(5), Int(5)},
		{"uint64 beyond int64", uint64(math.MaxUint64), Float(float64(math.MaxUint64))},
		{"float", 2.5, Float(2.5)},
		{"whole float becomes int", 3.0, Int(3)},
		{"negative zero becomes int zero", math.Copysign(0, -1), Int(0)},
		{"float32", float32(1.5), Float(1.5)},
		{"string", "hello", String("hello")},
		{"json number int", json.Number("42"), Int(42)},
		{"json number float", json.Number("2.5"), Float(2.5)},
		{"value passthrough", Int(1), Int(1)},
		{"nil pointer", (*int)(nil), Null()},
		{"slice", []any{1, "a", nil}, arr(Int(1), String("a"), Null())},
		{"string slice", []string{"a", "b"}, arr(String("a"), String("b"))},
		{"empty slice", []int{}, arr()},
		{
			"map keys sorted",
			map[string]any{"b": 2, "a": 1},
			obj("a", Int(1), "b", Int(2)),
		},
		{
			"nested map",
			map[string]any{"outer": map[string]any{"inner": true}},
			obj("outer", obj("inner", Bool(true))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeStruct(t *testing.T) {
	type inner struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	type config struct {
		Name    string   `json:"name"`
		Server  inner    `json:"server"`
		Tags    []string `json:"tags"`
		Skipped string   `json:"-"`
	}

	got, err := Normalize(config{
		Name:    "app",
		Server:  inner{Host: "localhost", Port: 8080},
		Tags:    []string{"a", "b"},
		Skipped: "hidden",
	})
	require.NoError(t, err)

	expected := obj(
		"name", String("app"),
		"server", obj("host", String("localhost"), "port", Int(8080)),
		"tags", arr(String("a"), String("b")),
	)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	_, err := Normalize(map[int]string{1: "a"})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Normalize(make(chan int))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Normalize(func() {})
	require.ErrorIs(t, err, ErrUnsupportedType)
}
