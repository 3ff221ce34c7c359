package toon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// canonicalValues are trees the encoder can represent losslessly, used to
// exercise decode(encode(v)) == v and encoder idempotence.
var canonicalValues = []Value{
	Null(),
	Bool(true),
	Bool(false),
	Int(0),
	Int(-42),
	Int(9223372036854775807),
	Float(2.5),
	Float(-0.125),
	String(""),
	String("hello"),
	String("hello world"),
	String("true"),
	String("42"),
	String("0123"),
	String("a,b"),
	String("12:30"),
	String(" padded "),
	String("line1\nline2"),
	String(`quo"te\slash`),
	obj(),
	obj("id", Int(123), "name", String("Ada"), "active", Bool(true)),
	obj("a", obj("b", obj("c", String("deep")))),
	obj("", Int(1)),
	obj("my key", String("spaced")),
	obj("a.b", Int(1)),
	obj("empty", String("")),
	arr(),
	arr(Int(1), Int(2), Int(3)),
	arr(String("reading"), String("gaming"), String("coding")),
	arr(Null(), Bool(false), String("null")),
	arr(arr(Int(1)), arr()),
	arr(Int(1), String("a"), arr(Int(2)), obj("k", Int(3), "m", arr())),
	obj("users", arr(
		obj("id", Int(1), "name", String("Alice")),
		obj("id", Int(2), "name", String("Bob")),
	)),
	obj("rows", arr(obj("a", Int(1)), obj("b", Int(2)))),
	obj("items", arr(obj(), obj())),
	obj("items", arr(
		obj("tags", arr(String("x"), String("y")), "id", Int(1)),
		obj("meta", obj("k", String("v")), "id", Int(2)),
	)),
	obj("mixed", arr(
		Int(1),
		obj("nested", arr(obj("deep", arr(String("end"))))),
	)),
}

func TestRoundTrip(t *testing.T) {
	for _, v := range canonicalValues {
		t.Run(v.String(), func(t *testing.T) {
			encoded, err := Encode(v)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			if diff := cmp.Diff(v, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\nencoded:\n%s\n%s", encoded, diff)
			}

			// Re-encoding the decoded tree reproduces the text exactly.
			again, err := Encode(decoded)
			require.NoError(t, err)
			require.Equal(t, encoded, again)
		})
	}
}

func TestRoundTripDelimiters(t *testing.T) {
	values := []Value{
		arr(String("a"), String("b,c"), String("d")),
		obj("users", arr(
			obj("id", Int(1), "name", String("Alice")),
			obj("id", Int(2), "name", String("Bob")),
		)),
		obj("tags", arr(String("x"), String("y|z"))),
	}

	for _, delim := range []Delimiter{Comma, Tab, Pipe} {
		opts := &EncodeOptions{Delimiter: delim}
		for _, v := range values {
			encoded, err := EncodeWithOptions(v, opts)
			require.NoError(t, err)

			// Headers carry the delimiter, so decoding needs no matching
			// configuration.
			decoded, err := Decode(encoded)
			require.NoError(t, err)
			if diff := cmp.Diff(v, decoded); diff != "" {
				t.Errorf("round trip mismatch with delimiter %q (-want +got):\nencoded:\n%s\n%s",
					delim, encoded, diff)
			}
		}
	}
}

func TestRoundTripLengthMarker(t *testing.T) {
	v := obj("tags", arr(String("a"), String("b")), "rows", arr(obj("id", Int(1))))

	encoded, err := EncodeWithOptions(v, &EncodeOptions{LengthMarker: true})
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	if diff := cmp.Diff(v, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripCustomIndent(t *testing.T) {
	v := obj("a", obj("b", arr(obj("c", Int(1), "d", obj("e", Int(2))))))

	for _, indent := range []int{2, 3, 4, 8} {
		encoded, err := EncodeWithOptions(v, &EncodeOptions{Indent: indent})
		require.NoError(t, err)

		decoded, err := DecodeWithOptions(encoded, &DecodeOptions{Strict: true, Indent: indent})
		require.NoError(t, err)
		if diff := cmp.Diff(v, decoded); diff != "" {
			t.Errorf("round trip mismatch with indent %d (-want +got):\nencoded:\n%s\n%s",
				indent, encoded, diff)
		}
	}
}

func TestEncodedTextShape(t *testing.T) {
	for _, v := range canonicalValues {
		encoded, err := Encode(v)
		require.NoError(t, err)

		require.False(t, len(encoded) > 0 && encoded[len(encoded)-1] == '\n',
			"trailing newline in %q", encoded)
		for _, line := range splitLines(encoded) {
			require.False(t, len(line) > 0 && line[len(line)-1] == ' ',
				"trailing space in line %q", line)
		}
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
