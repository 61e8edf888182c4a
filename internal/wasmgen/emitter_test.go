package wasmgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minilang/minilang/internal/ir"
	"github.com/minilang/minilang/internal/parser"
	"github.com/minilang/minilang/internal/token"
)

func buildIR(t *testing.T, src string) *ir.Module {
	t.Helper()
	toks, err := token.Lex(src)
	require.NoError(t, err)
	mod, err := parser.Parse(toks)
	require.NoError(t, err)
	irMod, err := ir.Generate(mod)
	require.NoError(t, err)
	return irMod
}

func TestSkeletonExportsEveryFunctionAndTable(t *testing.T) {
	irMod := buildIR(t, "func add(a, b) a + b func main() add(1, 2)")
	skel, err := Skeleton(irMod)
	require.NoError(t, err)

	require.Len(t, skel.Imports, 1)
	require.Equal(t, "compile_func", skel.Imports[0].Name)
	require.NotNil(t, skel.Table)
	require.EqualValues(t, 2, skel.Table.MinSize)

	var names []string
	tableExported := false
	for _, e := range skel.Exports {
		if e.IsTable {
			tableExported = true
			continue
		}
		names = append(names, e.Name)
	}
	require.True(t, tableExported)
	require.ElementsMatch(t, []string{"add", "main"}, names)
}

func TestTrampolineShape(t *testing.T) {
	irMod := buildIR(t, "func add(a, b) a + b")
	skel, err := Skeleton(irMod)
	require.NoError(t, err)

	body := skel.Funcs[0].Body
	require.Equal(t, WLocalGet, body[0].Kind)
	require.Equal(t, 0, body[0].Idx)
	require.Equal(t, WLocalGet, body[1].Kind)
	require.Equal(t, 1, body[1].Idx)
	require.Equal(t, WI32Const, body[2].Kind)
	require.EqualValues(t, 0, body[2].I32)
	require.Equal(t, WCall, body[3].Kind)
	require.Equal(t, WDrop, body[4].Kind)
	require.Equal(t, WI32Const, body[5].Kind)
	require.Equal(t, WCallIndirect, body[6].Kind)
	require.Equal(t, TypeForArity(2), body[6].TypeIdx)
	require.Equal(t, WEnd, body[7].Kind)
}

func TestPerFunctionInstallsElementAtOwnIndex(t *testing.T) {
	irMod := buildIR(t, "func a() 1 func b() 2 func c() 3")
	mf, err := PerFunction(irMod, 2)
	require.NoError(t, err)
	require.Len(t, mf.Elements, 1)
	require.EqualValues(t, 2, mf.Elements[0].Offset)
	require.Equal(t, "println", mf.Imports[0].Name)
	require.Equal(t, "c", mf.Funcs[0].Name)
}

func TestIfElseTranslation(t *testing.T) {
	irMod := buildIR(t, "func f(n) if (n < 2) 1 else 2")
	mf, err := PerFunction(irMod, 0)
	require.NoError(t, err)
	body := mf.Funcs[0].Body
	var kinds []WOpKind
	for _, op := range body {
		kinds = append(kinds, op.Kind)
	}
	require.Contains(t, kinds, WIf)
	require.Contains(t, kinds, WElse)
	// one WEnd closes the if, one closes the function body.
	var ends int
	for _, k := range kinds {
		if k == WEnd {
			ends++
		}
	}
	require.Equal(t, 2, ends)
}

func TestWhileTranslationNestsBlockAndLoop(t *testing.T) {
	irMod := buildIR(t, "func f() while (1) 2")
	mf, err := PerFunction(irMod, 0)
	require.NoError(t, err)
	body := mf.Funcs[0].Body
	require.Equal(t, WBlock, body[0].Kind)
	require.Equal(t, WLoop, body[1].Kind)
}

func TestCallTranslatesToCallIndirect(t *testing.T) {
	irMod := buildIR(t, "func fact(n) n func main() fact(5)")
	mf, err := PerFunction(irMod, 1)
	require.NoError(t, err)
	body := mf.Funcs[0].Body
	foundCallIndirect := false
	for _, op := range body {
		if op.Kind == WCallIndirect {
			foundCallIndirect = true
			require.Equal(t, TypeForArity(1), op.TypeIdx)
		}
	}
	require.True(t, foundCallIndirect)
}

func TestArityExceedsMaxFails(t *testing.T) {
	irMod := &ir.Module{Funcs: []ir.Func{{Name: "f", ArgsCount: MaxArity + 1}}}
	_, err := Skeleton(irMod)
	require.Error(t, err)
}
