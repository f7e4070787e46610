package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	input := `type X = A | B & C extends D ? E : F;`
	want := []TokenType{
		TYPE, IDENT, ASSIGN, IDENT, PIPE, IDENT, AMP, IDENT,
		EXTENDS, IDENT, QUESTION, IDENT, COLON, IDENT, SEMICOLON, EOF,
	}
	l := New(input, "x.ts")
	for i, wt := range want {
		tok := l.NextToken()
		require.Equalf(t, wt, tok.Type, "token %d: literal %q", i, tok.Literal)
	}
}

func TestNextTokenOffsetsAreByteAccurate(t *testing.T) {
	input := "interface Foo {}"
	l := New(input, "x.ts")

	tok := l.NextToken()
	require.Equal(t, INTERFACE, tok.Type)
	require.Equal(t, 0, tok.StartOffset)
	require.Equal(t, len("interface"), tok.EndOffset)
	require.Equal(t, "interface", input[tok.StartOffset:tok.EndOffset])

	tok = l.NextToken()
	require.Equal(t, IDENT, tok.Type)
	require.Equal(t, "Foo", input[tok.StartOffset:tok.EndOffset])
}

func TestNextTokenKeywords(t *testing.T) {
	cases := map[string]TokenType{
		"interface": INTERFACE,
		"type":      TYPE,
		"enum":      ENUM,
		"keyof":     KEYOF,
		"typeof":    TYPEOF,
		"readonly":  READONLY,
		"infer":     INFER,
		"extends":   EXTENDS,
		"import":    IMPORT,
		"export":    EXPORT,
		"from":      FROM,
		"as":        AS,
		"declare":   DECLARE,
		"namespace": NAMESPACE,
		"somename":  IDENT,
	}
	for literal, want := range cases {
		l := New(literal, "x.ts")
		tok := l.NextToken()
		require.Equalf(t, want, tok.Type, "literal %q", literal)
		require.Equal(t, literal, tok.Literal)
	}
}

func TestNextTokenStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`, "x.ts")
	tok := l.NextToken()
	require.Equal(t, STRING, tok.Type)
	require.Equal(t, "hello\nworld", tok.Literal)
}

func TestNextTokenTemplateStringWithInterpolation(t *testing.T) {
	l := New("`prefix-${foo}-suffix`", "x.ts")
	tok := l.NextToken()
	require.Equal(t, TEMPLATE_STRING, tok.Type)
	require.Equal(t, "prefix-${foo}-suffix", tok.Literal)
}

func TestNextTokenNumbers(t *testing.T) {
	l := New("42 3.14 1e10", "x.ts")

	tok := l.NextToken()
	require.Equal(t, INT, tok.Type)
	require.Equal(t, "42", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, FLOAT, tok.Type)
	require.Equal(t, "3.14", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, FLOAT, tok.Type)
	require.Equal(t, "1e10", tok.Literal)
}

func TestNextTokenVueIgnoreComment(t *testing.T) {
	l := New("interface Foo extends @vue-ignore Bar {}", "x.ts")
	var found bool
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == IGNORE_COMMENT {
			found = true
			require.Equal(t, "@vue-ignore", tok.Literal)
		}
	}
	require.True(t, found, "expected an IGNORE_COMMENT token")
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	input := "// leading comment\ntype /* inline */ X = string"
	want := []TokenType{TYPE, IDENT, ASSIGN, IDENT, EOF}
	l := New(input, "x.ts")
	for _, wt := range want {
		tok := l.NextToken()
		require.Equal(t, wt, tok.Type)
	}
}

func TestNextTokenSpreadVsDot(t *testing.T) {
	l := New("a.b ...c", "x.ts")
	tok := l.NextToken()
	require.Equal(t, IDENT, tok.Type)
	tok = l.NextToken()
	require.Equal(t, DOT, tok.Type)
	tok = l.NextToken()
	require.Equal(t, IDENT, tok.Type)
	tok = l.NextToken()
	require.Equal(t, SPREAD, tok.Type)
	require.Equal(t, "...", tok.Literal)
}

func TestNextTokenArrowAndDoubleEquals(t *testing.T) {
	l := New("(x) => x == 1", "x.ts")
	want := []TokenType{LPAREN, IDENT, RPAREN, ARROW, IDENT, EQ, INT, EOF}
	for _, wt := range want {
		tok := l.NextToken()
		require.Equal(t, wt, tok.Type)
	}
}

func TestTokenizeReturnsTrailingEOF(t *testing.T) {
	toks := Tokenize("let x: number = 1", "x.ts")
	require.NotEmpty(t, toks)
	require.Equal(t, EOF, toks[len(toks)-1].Type)
}

func TestPrecedenceOrdering(t *testing.T) {
	require.Less(t, Token{Type: OR}.Precedence(), Token{Type: AND}.Precedence())
	require.Less(t, Token{Type: AND}.Precedence(), Token{Type: EQ}.Precedence())
	require.Less(t, Token{Type: PLUS}.Precedence(), Token{Type: STAR}.Precedence())
	require.Less(t, Token{Type: STAR}.Precedence(), Token{Type: DOT}.Precedence())
}
