package toon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeedsQuoting(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"hello", false},
		{"hello world", false},
		{"héllo", false},
		{"a-b_c", false},
		{"", true},
		{"true", true},
		{"false", true},
		{"null", true},
		{" x", true},
		{"x ", true},
		{"a,b", true},
		{"a:b", true},
		{`a"b`, true},
		{`a\b`, true},
		{"a[b", true},
		{"a]b", true},
		{"a{b", true},
		{"a}b", true},
		{"a\nb", true},
		{"42", true},
		{"-3.5", true},
		{"1e5", true},
		{"0123", true},
		{"-0123", true},
		{"1.2.3", false},
		{"+5", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, needsQuoting(tt.input, ','))
		})
	}

	t.Run("delimiter dependent", func(t *testing.T) {
		require.True(t, needsQuoting("a|b", '|'))
		require.False(t, needsQuoting("a|b", ','))
		require.False(t, needsQuoting("a,b", '|'))
	})
}

func TestEscapeUnescapeInverse(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"with spaces",
		`back\slash`,
		`quo"te`,
		"tab\there",
		"line1\nline2",
		"cr\rhere",
		`mix\n"of\\every"thing` + "\n\t\r",
		"héllo wörld",
	}

	for _, s := range inputs {
		escaped := escapeString(s)
		require.Equal(t, byte('"'), escaped[0])
		require.Equal(t, byte('"'), escaped[len(escaped)-1])

		got, err := unescapeString(escaped[1 : len(escaped)-1])
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestUnescapeInvalid(t *testing.T) {
	for _, s := range []string{`bad \x escape`, `trailing \`} {
		_, err := unescapeString(s)
		require.ErrorIs(t, err, ErrInvalidQuotedLiteral)
	}
}

func TestParseQuoted(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"simple", `"hello"`, "hello", false},
		{"empty", `""`, "", false},
		{"escapes", `"a\nb"`, "a\nb", false},
		{"embedded quote", `"say \"hi\""`, `say "hi"`, false},
		{"unterminated", `"oops`, "", true},
		{"trailing garbage", `"a" b`, "", true},
		{"not quoted", `hello`, "", true},
		{"bad escape", `"\q"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseQuoted(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuotedLiteral)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestFirstUnquoted(t *testing.T) {
	tests := []struct {
		input    string
		target   byte
		expected int
	}{
		{"a: b", ':', 1},
		{`"a:b": c`, ':', 5},
		{`"a:b"`, ':', -1},
		{"no colon", ':', -1},
		{`"x" [1]`, '[', 4},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, firstUnquoted(tt.input, tt.target), "input %q", tt.input)
	}
}

func TestIndexUnquoted(t *testing.T) {
	i, err := indexUnquoted("a: b", ':')
	require.NoError(t, err)
	require.Equal(t, 1, i)

	i, err = indexUnquoted("no colon", ':')
	require.NoError(t, err)
	require.Equal(t, -1, i)

	// A malformed quoted segment is reported, not treated as absence.
	_, err = indexUnquoted(`"oops: 1`, ':')
	require.ErrorIs(t, err, ErrInvalidQuotedLiteral)
	require.Equal(t, -1, firstUnquoted(`"oops: 1`, ':'))
}

func TestSplitDelimited(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		delim    rune
		expected []string
	}{
		{"plain", "a,b,c", ',', []string{"a", "b", "c"}},
		{"quoted delimiter", `"a,b",c`, ',', []string{`"a,b"`, "c"}},
		{"empty cells", "a,,b", ',', []string{"a", "", "b"}},
		{"single cell", "a", ',', []string{"a"}},
		{"empty input", "", ',', []string{""}},
		{"pipe", "a|b", '|', []string{"a", "b"}},
		{"tab", "a\tb", '\t', []string{"a", "b"}},
		{"wrong delimiter kept whole", "a,b", '|', []string{"a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, splitDelimited(tt.input, tt.delim))
		})
	}
}
