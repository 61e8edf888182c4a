// Package interpreter implements the stack-machine interpreter over
// ir.Module, grounded on wazero's internal/engine/interpreter: a flat value
// stack, an explicit call-frame stack, and a PC-driven switch over
// instruction kind.
package interpreter

import (
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/ir"
)

// Println is the narrow capability the interpreter calls for the builtin
// println instruction. Production code binds this to a decimal-plus-
// newline stdout writer; tests bind it to a slice-capturing closure.
type Println func(v int32)

// maxStackDepth is a safety headroom against runaway recursion; an
// interpreter call whose value stack or call-frame stack exceeds it fails
// cleanly instead of growing without bound.
const maxStackDepth = 1 << 16

// frame is one call-stack entry: the caller's resume point and the
// value-stack index at which this frame's slot 0 lives.
type frame struct {
	returnFunc  int
	returnInstr int
	base        int
}

// Interp runs one ir.Module's functions on its own value stack and call
// stack. Any number of Interp instances may share the same *ir.Module
// concurrently, each with its own stacks.
type Interp struct {
	mod     *ir.Module
	println Println

	stack  []int32
	frames []frame
}

// New builds an interpreter over mod. println is the host capability
// invoked by the println builtin.
func New(mod *ir.Module, println Println) *Interp {
	return &Interp{mod: mod, println: println}
}

// Call runs funcName with args and returns its single i32 result. The
// interpreter drives its own step loop to completion before returning;
// there are no suspension points.
func (it *Interp) Call(funcName string, args []int32) (int32, error) {
	idx := -1
	for i, f := range it.mod.Funcs {
		if f.Name == funcName {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, diag.New(diag.StageRuntime, diag.Pos{}, "no such function %q", funcName)
	}
	f := &it.mod.Funcs[idx]
	if len(args) != f.ArgsCount {
		return 0, diag.New(diag.StageRuntime, diag.Pos{}, "function %q expects %d arguments, got %d", funcName, f.ArgsCount, len(args))
	}

	it.stack = it.stack[:0]
	it.frames = it.frames[:0]

	// Sentinel frame: its returnFunc equals len(mod.Funcs), a value no
	// real Call instruction ever targets, so the step loop can detect
	// "the top-level call has returned" by comparing pc.fn against it.
	dummy := len(it.mod.Funcs)
	it.frames = append(it.frames, frame{returnFunc: dummy, returnInstr: 0, base: 0})

	for _, a := range args {
		it.stack = append(it.stack, a)
	}
	// The callee's own locals beyond its arguments must exist before its
	// first instruction runs.
	for i := f.ArgsCount; i < f.LocalsCount; i++ {
		it.stack = append(it.stack, 0)
	}

	pcFn, pcInstr := idx, 0
	for {
		if pcFn == dummy {
			if len(it.stack) != 1 {
				return 0, diag.New(diag.StageRuntime, diag.Pos{}, "program terminated with stack depth %d, expected 1", len(it.stack))
			}
			return it.stack[0], nil
		}
		if len(it.stack) > maxStackDepth || len(it.frames) > maxStackDepth {
			return 0, diag.New(diag.StageRuntime, diag.Pos{}, "stack exhausted")
		}

		fn := &it.mod.Funcs[pcFn]
		next, err := it.step(fn, pcFn, pcInstr)
		if err != nil {
			return 0, err
		}
		pcFn, pcInstr = next.fn, next.instr
	}
}

type pc struct{ fn, instr int }

func (it *Interp) push(v int32) { it.stack = append(it.stack, v) }

func (it *Interp) pop() int32 {
	v := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	return v
}

func (it *Interp) base() int { return it.frames[len(it.frames)-1].base }

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// step executes exactly one instruction at (fnIdx, instrIdx) and returns
// the next PC.
func (it *Interp) step(fn *ir.Func, fnIdx, instrIdx int) (pc, error) {
	in := fn.Instrs[instrIdx]
	base := it.base()

	switch in.Kind {
	case ir.OpIntConst:
		it.push(in.Const)
	case ir.OpVarRef:
		it.push(it.stack[base+in.Slot])
	case ir.OpAssign:
		it.stack[base+in.Slot] = it.pop()
	case ir.OpAdd:
		r, l := it.pop(), it.pop()
		it.push(l + r)
	case ir.OpSub:
		r, l := it.pop(), it.pop()
		it.push(l - r)
	case ir.OpMul:
		r, l := it.pop(), it.pop()
		it.push(l * r)
	case ir.OpDiv:
		r, l := it.pop(), it.pop()
		it.push(l / r)
	case ir.OpMod:
		r, l := it.pop(), it.pop()
		it.push(l % r)
	case ir.OpLt:
		r, l := it.pop(), it.pop()
		it.push(b2i(l < r))
	case ir.OpGt:
		r, l := it.pop(), it.pop()
		it.push(b2i(l > r))
	case ir.OpLe:
		r, l := it.pop(), it.pop()
		it.push(b2i(l <= r))
	case ir.OpGe:
		r, l := it.pop(), it.pop()
		it.push(b2i(l >= r))
	case ir.OpEq:
		r, l := it.pop(), it.pop()
		it.push(b2i(l == r))
	case ir.OpNe:
		r, l := it.pop(), it.pop()
		it.push(b2i(l != r))
	case ir.OpAnd:
		r, l := it.pop(), it.pop()
		it.push(b2i(l != 0 && r != 0))
	case ir.OpOr:
		r, l := it.pop(), it.pop()
		it.push(b2i(l != 0 || r != 0))
	case ir.OpNot:
		v := it.pop()
		it.push(b2i(v == 0))
	case ir.OpMinus:
		it.push(-it.pop())
	case ir.OpDrop:
		it.pop()
	case ir.OpPrintln:
		v := it.pop()
		it.println(v)
		it.push(0)

	case ir.OpIf:
		c := it.pop()
		if c != 0 {
			return pc{fnIdx, instrIdx + 1}, nil
		}
		info := fn.IfInfos[in.ID]
		return pc{fnIdx, info.ElsePos + 1}, nil
	case ir.OpElse:
		info := fn.IfInfos[in.ID]
		return pc{fnIdx, info.EndPos + 1}, nil
	case ir.OpIfEnd:
		// fallthrough to instrIdx+1 below

	case ir.OpLoop:
		// marker only; fallthrough to instrIdx+1 below
	case ir.OpLoopThen:
		c := it.pop()
		if c == 0 {
			info := fn.LoopInfos[in.ID]
			return pc{fnIdx, info.EndPos + 1}, nil
		}
	case ir.OpLoopEnd:
		info := fn.LoopInfos[in.ID]
		return pc{fnIdx, info.LoopPos}, nil

	case ir.OpCall:
		return it.call(fn, fnIdx, instrIdx, in)

	case ir.OpReturn:
		return it.ret()

	default:
		return pc{}, diag.New(diag.StageRuntime, diag.Pos{}, "unhandled instruction kind %v", in.Kind)
	}

	return pc{fnIdx, instrIdx + 1}, nil
}

func (it *Interp) call(caller *ir.Func, fnIdx, instrIdx int, in ir.Instr) (pc, error) {
	if in.FuncIdx < 0 || in.FuncIdx >= len(it.mod.Funcs) {
		return pc{}, diag.New(diag.StageRuntime, diag.Pos{}, "call to invalid function index %d", in.FuncIdx)
	}
	callee := &it.mod.Funcs[in.FuncIdx]
	newBase := len(it.stack) - in.ArgsCount
	if newBase < 0 {
		return pc{}, diag.New(diag.StageRuntime, diag.Pos{}, "call argument underflow for %q", callee.Name)
	}
	it.frames = append(it.frames, frame{returnFunc: fnIdx, returnInstr: instrIdx + 1, base: newBase})
	for i := in.ArgsCount; i < callee.LocalsCount; i++ {
		it.push(0)
	}
	return pc{in.FuncIdx, 0}, nil
}

func (it *Interp) ret() (pc, error) {
	result := it.pop()
	f := it.frames[len(it.frames)-1]
	it.stack = it.stack[:f.base]
	it.frames = it.frames[:len(it.frames)-1]
	it.push(result)
	return pc{f.returnFunc, f.returnInstr}, nil
}
