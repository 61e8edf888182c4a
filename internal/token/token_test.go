package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexBasics(t *testing.T) {
	toks, err := Lex("func add(a, b) { a + b; } # trailing comment\n")
	require.NoError(t, err)

	var kinds []Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []Kind{
		KwFunc, Ident, LParen, Ident, Comma, Ident, RParen,
		LBrace, Ident, Operator, Ident, Semi, RBrace, EOF,
	}, kinds)
}

func TestLexOperators(t *testing.T) {
	toks, err := Lex("<= >= == != && || ! - + * / % =")
	require.NoError(t, err)
	var texts []string
	var kinds []Kind
	for _, tk := range toks {
		if tk.Kind == EOF {
			break
		}
		texts = append(texts, tk.Text)
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []string{"<=", ">=", "==", "!=", "&&", "||", "!", "-", "+", "*", "/", "%", "="}, texts)
	require.Equal(t, Assign, kinds[len(kinds)-1])
	for _, k := range kinds[:len(kinds)-1] {
		require.Equal(t, Operator, k)
	}
}

func TestLexIntOverflow(t *testing.T) {
	_, err := Lex("99999999999999999999")
	require.Error(t, err)
}

func TestLexUnrecognisedChar(t *testing.T) {
	_, err := Lex("a ~ b")
	require.Error(t, err)
}

func TestLexReservedWords(t *testing.T) {
	toks, err := Lex("if else while var func in")
	require.NoError(t, err)
	want := []Kind{KwIf, KwElse, KwWhile, KwVar, KwFunc, KwIn, EOF}
	for i, k := range want {
		require.Equal(t, k, toks[i].Kind)
	}
}

func TestLexIdentifierNotReserved(t *testing.T) {
	toks, err := Lex("iffy")
	require.NoError(t, err)
	require.Equal(t, Ident, toks[0].Kind)
	require.Equal(t, "iffy", toks[0].Text)
}
