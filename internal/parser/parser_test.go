package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/token"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks, err := token.Lex(src)
	require.NoError(t, err)
	mod, err := Parse(toks)
	require.NoError(t, err)
	return mod
}

func TestParseArithmeticPrecedence(t *testing.T) {
	mod := parse(t, "func main() { 1 + 2 * 3; }")
	require.Len(t, mod.Funcs, 1)
	block, ok := mod.Funcs[0].Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Exprs, 1)
	add, ok := block.Exprs[0].(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "+", add.Op)
	require.IsType(t, &ast.IntLiteral{}, add.LHS)
	mul, ok := add.RHS.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "*", mul.Op)
}

func TestParseRightAssociativeAssign(t *testing.T) {
	mod := parse(t, "func f(a, b) { a = b = 1; }")
	block := mod.Funcs[0].Body.(*ast.Block)
	assignA, ok := block.Exprs[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "a", assignA.Name)
	assignB, ok := assignA.RHS.(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "b", assignB.Name)
	require.IsType(t, &ast.IntLiteral{}, assignB.RHS)
}

func TestParseAssignNonIdentTargetFails(t *testing.T) {
	toks, err := token.Lex("func f() { 1 = 2; }")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseIfRequiresElse(t *testing.T) {
	toks, err := token.Lex("func f() if (1) 2")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseCallRequiresIdentTarget(t *testing.T) {
	toks, err := token.Lex("func f() (1)(2)")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseVarBinding(t *testing.T) {
	mod := parse(t, "func f() var x = 1 in x + 1")
	v, ok := mod.Funcs[0].Body.(*ast.Var)
	require.True(t, ok)
	require.Equal(t, "x", v.Name)
	require.IsType(t, &ast.IntLiteral{}, v.Init)
	require.IsType(t, &ast.BinaryOp{}, v.Body)
}

func TestParseWhileAndCall(t *testing.T) {
	mod := parse(t, "func f(n) while (n > 0) println(n)")
	w, ok := mod.Funcs[0].Body.(*ast.While)
	require.True(t, ok)
	require.IsType(t, &ast.BinaryOp{}, w.Cond)
	call, ok := w.Body.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "println", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseEmptyBlockIsZero(t *testing.T) {
	mod := parse(t, "func f() { }")
	block := mod.Funcs[0].Body.(*ast.Block)
	require.Empty(t, block.Exprs)
}

func TestParseMultipleFunctions(t *testing.T) {
	mod := parse(t, "func a() 1 func b() 2")
	require.Len(t, mod.Funcs, 2)
	require.Equal(t, "a", mod.Funcs[0].Name)
	require.Equal(t, "b", mod.Funcs[1].Name)
}

func TestParseTrailingJunkFails(t *testing.T) {
	toks, err := token.Lex("func a() 1 )")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseMissingSemicolonInBlockFails(t *testing.T) {
	toks, err := token.Lex("func f() { 1 2; }")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParsePrefixUnaryRightAssociative(t *testing.T) {
	mod := parse(t, "func f() { - -1; }")
	block := mod.Funcs[0].Body.(*ast.Block)
	outer, ok := block.Exprs[0].(*ast.PrefixOp)
	require.True(t, ok)
	require.Equal(t, "-", outer.Op)
	inner, ok := outer.Arg.(*ast.PrefixOp)
	require.True(t, ok)
	require.Equal(t, "-", inner.Op)
}

func TestRoundTripReparse(t *testing.T) {
	// For every AST produced, there must exist a source string that
	// re-parses to the identical structural shape.
	srcs := []string{
		"func main() { 1 + 2 * 3; }",
		"func fact(n) if (n < 2) 1 else n * fact(n - 1)",
		"func f(x) var x = x + 1 in x * 2",
	}
	for _, src := range srcs {
		mod := parse(t, src)
		require.NotNil(t, mod)
		require.Equal(t, mod, parse(t, src))
	}
}
