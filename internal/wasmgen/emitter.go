package wasmgen

import (
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/ir"
)

// compileFuncImportIdx is the function index of the skeleton's one host
// import, env.compile_func, always index 0.
const compileFuncImportIdx = 0

// printlnImportIdx is the function index of a per-function module's one
// host import, env.println, always index 0.
const printlnImportIdx = 0

// tableIdx is the shared call table's index, always 0.
const tableIdx = 0

// Skeleton builds the trampoline module described in the specification:
// one function per entry in mod.Funcs, each a three-step trampoline that
// asks the host to JIT-compile itself on first call and then dispatches
// through the shared table.
func Skeleton(mod *ir.Module) (*Module, error) {
	out := &Module{
		Types: BuildTypeTable(),
		Imports: []Import{
			{Module: "env", Name: "compile_func", TypeIdx: TypeForArity(1)},
		},
		Table: &Table{MinSize: uint32(len(mod.Funcs))},
	}

	for i, f := range mod.Funcs {
		if f.ArgsCount > MaxArity {
			return nil, diag.New(diag.StageRuntime, diag.Pos{}, "function %q has arity %d, exceeding MaxArity %d", f.Name, f.ArgsCount, MaxArity)
		}
		out.Funcs = append(out.Funcs, Func{
			Name:    f.Name,
			TypeIdx: TypeForArity(f.ArgsCount),
			Body:    trampoline(i, f.ArgsCount),
		})
		// +1 because import occupies function index 0.
		out.Exports = append(out.Exports, Export{Name: f.Name, Index: i + 1})
	}
	out.Exports = append(out.Exports, Export{Name: "_table", IsTable: true, Index: tableIdx})

	return out, nil
}

// trampoline builds the body installed for user function funcIdx in the
// skeleton module: push args, request compilation, then dispatch
// indirectly through the now-populated table slot.
func trampoline(funcIdx, argsCount int) []WOp {
	body := make([]WOp, 0, argsCount+6)
	for j := 0; j < argsCount; j++ {
		body = append(body, WOp{Kind: WLocalGet, Idx: j})
	}
	body = append(body,
		WOp{Kind: WI32Const, I32: int32(funcIdx)},
		WOp{Kind: WCall, Idx: compileFuncImportIdx},
		WOp{Kind: WDrop},
		WOp{Kind: WI32Const, I32: int32(funcIdx)},
		WOp{Kind: WCallIndirect, TypeIdx: TypeForArity(argsCount)},
		WOp{Kind: WEnd},
	)
	return body
}

// PerFunction builds the compiled module for exactly one user function,
// suitable for installation into the skeleton's shared table at index
// funcIdx via an element segment.
func PerFunction(mod *ir.Module, funcIdx int) (*Module, error) {
	if funcIdx < 0 || funcIdx >= len(mod.Funcs) {
		return nil, diag.New(diag.StageRuntime, diag.Pos{}, "no such function index %d", funcIdx)
	}
	f := &mod.Funcs[funcIdx]

	body, err := translateBody(f)
	if err != nil {
		return nil, err
	}

	const definedFuncIdx = 1 // index 0 is the println import
	out := &Module{
		Types: BuildTypeTable(),
		Imports: []Import{
			{Module: "env", Name: "println", TypeIdx: TypeForArity(1)},
		},
		Table: &Table{MinSize: uint32(len(mod.Funcs))},
		Funcs: []Func{{
			Name:      f.Name,
			TypeIdx:   TypeForArity(f.ArgsCount),
			NumLocals: f.LocalsCount - f.ArgsCount,
			Body:      body,
		}},
		Elements: []Element{{Offset: int32(funcIdx), FuncIdx: definedFuncIdx}},
	}
	return out, nil
}

// translateBody walks f's flat IR once, emitting the corresponding
// structured Wasm instructions. Because the IR's control ops are produced
// in strict nested order by the generator, the Block/Loop/If pairs this
// function opens and closes are always balanced.
func translateBody(f *ir.Func) ([]WOp, error) {
	var body []WOp
	emit := func(op WOp) { body = append(body, op) }

	for _, in := range f.Instrs {
		switch in.Kind {
		case ir.OpIntConst:
			emit(WOp{Kind: WI32Const, I32: in.Const})
		case ir.OpVarRef:
			emit(WOp{Kind: WLocalGet, Idx: in.Slot})
		case ir.OpAssign:
			emit(WOp{Kind: WLocalSet, Idx: in.Slot})
		case ir.OpAdd:
			emit(WOp{Kind: WI32Add})
		case ir.OpSub:
			emit(WOp{Kind: WI32Sub})
		case ir.OpMul:
			emit(WOp{Kind: WI32Mul})
		case ir.OpDiv:
			emit(WOp{Kind: WI32DivS})
		case ir.OpMod:
			emit(WOp{Kind: WI32RemS})
		case ir.OpLt:
			emit(WOp{Kind: WI32LtS})
		case ir.OpGt:
			emit(WOp{Kind: WI32GtS})
		case ir.OpLe:
			emit(WOp{Kind: WI32LeS})
		case ir.OpGe:
			emit(WOp{Kind: WI32GeS})
		case ir.OpEq:
			emit(WOp{Kind: WI32Eq})
		case ir.OpNe:
			emit(WOp{Kind: WI32Ne})
		case ir.OpAnd:
			emit(WOp{Kind: WI32And})
		case ir.OpOr:
			emit(WOp{Kind: WI32Or})
		case ir.OpNot:
			emit(WOp{Kind: WI32Eqz})
		case ir.OpMinus:
			emit(WOp{Kind: WI32Const, I32: 0})
			emit(WOp{Kind: WI32Sub})
		case ir.OpPrintln:
			emit(WOp{Kind: WCall, Idx: printlnImportIdx})
		case ir.OpDrop:
			emit(WOp{Kind: WDrop})
		case ir.OpReturn:
			emit(WOp{Kind: WReturn})
		case ir.OpCall:
			emit(WOp{Kind: WI32Const, I32: int32(in.FuncIdx)})
			emit(WOp{Kind: WCallIndirect, TypeIdx: TypeForArity(in.ArgsCount)})

		case ir.OpLoop:
			emit(WOp{Kind: WBlock, BlockType: BlockTypeEmpty})
			emit(WOp{Kind: WLoop, BlockType: BlockTypeEmpty})
		case ir.OpLoopThen:
			emit(WOp{Kind: WI32Eqz})
			emit(WOp{Kind: WBrIf, Depth: 1})
		case ir.OpLoopEnd:
			emit(WOp{Kind: WBr, Depth: 0})
			emit(WOp{Kind: WEnd})
			emit(WOp{Kind: WEnd})

		case ir.OpIf:
			emit(WOp{Kind: WIf, BlockType: BlockTypeI32})
		case ir.OpElse:
			emit(WOp{Kind: WElse})
		case ir.OpIfEnd:
			emit(WOp{Kind: WEnd})

		default:
			return nil, diag.New(diag.StageRuntime, diag.Pos{}, "unhandled IR opcode %v in wasm emitter", in.Kind)
		}
	}

	emit(WOp{Kind: WEnd})
	return body, nil
}
