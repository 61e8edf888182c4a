package ir

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
)

// builtinPrintlnName is the name the generator resolves to the println
// builtin; it never gets a function index in Instr.FuncIdx because
// Println has its own OpKind.
const builtinPrintlnName = "println"

// Generate lowers an ast.Module into an ir.Module, resolving identifiers
// to function indices and slots and pre-computing every If/Loop jump
// target. It fails on a duplicate function name or an unresolved
// identifier.
func Generate(mod *ast.Module) (*Module, error) {
	funcIdx := map[string]int{}
	for i, f := range mod.Funcs {
		if f.Name == builtinPrintlnName {
			return nil, diag.New(diag.StageResolve, diag.Pos{}, "function %q shadows the builtin", f.Name)
		}
		if _, dup := funcIdx[f.Name]; dup {
			return nil, diag.New(diag.StageResolve, diag.Pos{}, "duplicate function name %q", f.Name)
		}
		funcIdx[f.Name] = i
	}

	out := &Module{Funcs: make([]Func, len(mod.Funcs))}
	for i, f := range mod.Funcs {
		lowered, err := lowerFunc(f, funcIdx)
		if err != nil {
			return nil, err
		}
		out.Funcs[i] = *lowered
	}
	return out, nil
}

// funcGen holds the per-function lowering state: the slot environment and
// the accumulating instruction stream.
type funcGen struct {
	funcIdx     map[string]int
	slots       map[string]int
	localsCount int
	instrs      []Instr
	ifInfos     []IfInfo
	loopInfos   []LoopInfo
}

func lowerFunc(f *ast.Func, funcIdx map[string]int) (*Func, error) {
	g := &funcGen{
		funcIdx: funcIdx,
		slots:   map[string]int{},
	}
	for _, a := range f.Args {
		g.bindNewSlot(a)
	}
	argsCount := len(f.Args)

	if err := g.lower(f.Body); err != nil {
		return nil, err
	}
	g.emit(Instr{Kind: OpReturn})

	return &Func{
		Name:        f.Name,
		ArgsCount:   argsCount,
		LocalsCount: g.localsCount,
		Instrs:      g.instrs,
		IfInfos:     g.ifInfos,
		LoopInfos:   g.loopInfos,
	}, nil
}

func (g *funcGen) emit(in Instr) int {
	g.instrs = append(g.instrs, in)
	return len(g.instrs) - 1
}

func (g *funcGen) pos() int { return len(g.instrs) }

// bindNewSlot allocates a fresh slot for name, monotonically, and returns
// it. LocalsCount only ever grows.
func (g *funcGen) bindNewSlot(name string) int {
	slot := g.localsCount
	g.localsCount++
	g.slots[name] = slot
	return slot
}

// lower lowers e, appending its instructions. Every call has net stack
// effect +1 by construction.
func (g *funcGen) lower(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.IntLiteral:
		g.emit(Instr{Kind: OpIntConst, Const: e.Value})
		return nil

	case *ast.Ident:
		slot, ok := g.slots[e.Name]
		if !ok {
			return diag.New(diag.StageResolve, diag.Pos{}, "unresolved variable %q", e.Name)
		}
		g.emit(Instr{Kind: OpVarRef, Slot: slot})
		return nil

	case *ast.BinaryOp:
		if err := g.lower(e.LHS); err != nil {
			return err
		}
		if err := g.lower(e.RHS); err != nil {
			return err
		}
		kind, err := binOpKind(e.Op)
		if err != nil {
			return err
		}
		g.emit(Instr{Kind: kind})
		return nil

	case *ast.PrefixOp:
		if err := g.lower(e.Arg); err != nil {
			return err
		}
		switch e.Op {
		case "!":
			g.emit(Instr{Kind: OpNot})
		case "-":
			g.emit(Instr{Kind: OpMinus})
		default:
			return diag.New(diag.StageResolve, diag.Pos{}, "unknown prefix operator %q", e.Op)
		}
		return nil

	case *ast.Assign:
		slot, ok := g.slots[e.Name]
		if !ok {
			return diag.New(diag.StageResolve, diag.Pos{}, "unresolved variable %q", e.Name)
		}
		if err := g.lower(e.RHS); err != nil {
			return err
		}
		g.emit(Instr{Kind: OpAssign, Slot: slot})
		g.emit(Instr{Kind: OpIntConst, Const: 0})
		return nil

	case *ast.Call:
		for _, a := range e.Args {
			if err := g.lower(a); err != nil {
				return err
			}
		}
		if e.Name == builtinPrintlnName {
			g.emit(Instr{Kind: OpPrintln})
			return nil
		}
		idx, ok := g.funcIdx[e.Name]
		if !ok {
			return diag.New(diag.StageResolve, diag.Pos{}, "unresolved function %q", e.Name)
		}
		g.emit(Instr{Kind: OpCall, FuncIdx: idx, ArgsCount: len(e.Args)})
		return nil

	case *ast.While:
		return g.lowerWhile(e)

	case *ast.If:
		return g.lowerIf(e)

	case *ast.Block:
		return g.lowerBlock(e)

	case *ast.Var:
		return g.lowerVar(e)

	default:
		return diag.New(diag.StageResolve, diag.Pos{}, "unhandled expression node %T", e)
	}
}

func binOpKind(op string) (OpKind, error) {
	switch op {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSub, nil
	case "*":
		return OpMul, nil
	case "/":
		return OpDiv, nil
	case "%":
		return OpMod, nil
	case "<":
		return OpLt, nil
	case ">":
		return OpGt, nil
	case "<=":
		return OpLe, nil
	case ">=":
		return OpGe, nil
	case "==":
		return OpEq, nil
	case "!=":
		return OpNe, nil
	case "&&":
		return OpAnd, nil
	case "||":
		return OpOr, nil
	default:
		return 0, diag.New(diag.StageResolve, diag.Pos{}, "unknown binary operator %q", op)
	}
}

func (g *funcGen) lowerWhile(w *ast.While) error {
	id := len(g.loopInfos)
	g.loopInfos = append(g.loopInfos, LoopInfo{}) // placeholder; not yet readable as final

	loopPos := g.pos()
	g.emit(Instr{Kind: OpLoop, ID: id})

	if err := g.lower(w.Cond); err != nil {
		return err
	}

	thenPos := g.pos()
	g.emit(Instr{Kind: OpLoopThen, ID: id})

	if err := g.lower(w.Body); err != nil {
		return err
	}
	g.emit(Instr{Kind: OpDrop})

	endPos := g.pos()
	g.emit(Instr{Kind: OpLoopEnd, ID: id})

	// Lowering up to here was strictly sequential, so no reader could have
	// observed this LoopInfo before it is finalised.
	g.loopInfos[id] = LoopInfo{LoopPos: loopPos, ThenPos: thenPos, EndPos: endPos}

	g.emit(Instr{Kind: OpIntConst, Const: 0})
	return nil
}

func (g *funcGen) lowerIf(f *ast.If) error {
	id := len(g.ifInfos)
	g.ifInfos = append(g.ifInfos, IfInfo{}) // placeholder

	if err := g.lower(f.Cond); err != nil {
		return err
	}

	ifPos := g.pos()
	g.emit(Instr{Kind: OpIf, ID: id})

	if err := g.lower(f.Then); err != nil {
		return err
	}

	elsePos := g.pos()
	g.emit(Instr{Kind: OpElse, ID: id})

	if err := g.lower(f.Else); err != nil {
		return err
	}

	endPos := g.pos()
	g.emit(Instr{Kind: OpIfEnd, ID: id})

	g.ifInfos[id] = IfInfo{IfPos: ifPos, ElsePos: elsePos, EndPos: endPos}
	return nil
}

func (g *funcGen) lowerBlock(b *ast.Block) error {
	if len(b.Exprs) == 0 {
		g.emit(Instr{Kind: OpIntConst, Const: 0})
		return nil
	}
	for _, e := range b.Exprs[:len(b.Exprs)-1] {
		if err := g.lower(e); err != nil {
			return err
		}
		g.emit(Instr{Kind: OpDrop})
	}
	return g.lower(b.Exprs[len(b.Exprs)-1])
}

func (g *funcGen) lowerVar(v *ast.Var) error {
	if err := g.lower(v.Init); err != nil {
		return err
	}
	// Snapshot/restore rather than a scope stack: locals_count is
	// monotonic so sibling bindings never collide on slot index.
	snapshot := make(map[string]int, len(g.slots))
	for name, slot := range g.slots {
		snapshot[name] = slot
	}
	slot := g.bindNewSlot(v.Name)
	g.emit(Instr{Kind: OpAssign, Slot: slot})

	if err := g.lower(v.Body); err != nil {
		return err
	}

	g.slots = snapshot
	return nil
}
