package wasmbin

import (
	"github.com/minilang/minilang/internal/wasmgen"
)

var magic = []byte{0x00, 0x61, 0x73, 0x6d}
var version = []byte{0x01, 0x00, 0x00, 0x00}

// opcode byte values, core WebAssembly 1.0.
const (
	opBlock        = 0x02
	opLoop         = 0x03
	opIf           = 0x04
	opElse         = 0x05
	opEnd          = 0x0b
	opBr           = 0x0c
	opBrIf         = 0x0d
	opReturn       = 0x0f
	opCall         = 0x10
	opCallIndirect = 0x11
	opDrop         = 0x1a
	opLocalGet     = 0x20
	opLocalSet     = 0x21
	opI32Const     = 0x41
	opI32Eqz       = 0x45
	opI32Eq        = 0x46
	opI32Ne        = 0x47
	opI32LtS       = 0x48
	opI32GtS       = 0x4a
	opI32LeS       = 0x4c
	opI32GeS       = 0x4e
	opI32Add       = 0x6a
	opI32Sub       = 0x6b
	opI32Mul       = 0x6c
	opI32DivS      = 0x6d
	opI32RemS      = 0x6f
	opI32And       = 0x71
	opI32Or        = 0x72
)

const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secTable    = 4
	secExport   = 7
	secElement  = 9
	secCode     = 10
)

const (
	externKindFunc  = 0x00
	externKindTable = 0x01
)

const funcRefType = 0x70

// Encode serialises a wasmgen.Module into a byte-level WebAssembly module.
// It is a thin, direct consumer of wasmgen's data types: it never
// inspects the IR, AST or source that produced them.
func Encode(m *wasmgen.Module) []byte {
	var out []byte
	out = append(out, magic...)
	out = append(out, version...)

	if len(m.Types) > 0 {
		out = append(out, section(secType, encodeTypes(m.Types))...)
	}
	if len(m.Imports) > 0 {
		out = append(out, section(secImport, encodeImports(m.Imports))...)
	}
	if len(m.Funcs) > 0 {
		out = append(out, section(secFunction, encodeFunctionSection(m.Funcs))...)
	}
	if m.Table != nil {
		out = append(out, section(secTable, encodeTable(*m.Table))...)
	}
	if len(m.Exports) > 0 {
		out = append(out, section(secExport, encodeExports(m.Exports))...)
	}
	if len(m.Elements) > 0 {
		out = append(out, section(secElement, encodeElements(m.Elements))...)
	}
	if len(m.Funcs) > 0 {
		out = append(out, section(secCode, encodeCode(m.Funcs))...)
	}
	return out
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, EncodeUint32(uint32(len(body)))...)
	return append(out, body...)
}

func encodeVec(n int) []byte { return EncodeUint32(uint32(n)) }

func encodeName(s string) []byte {
	out := EncodeUint32(uint32(len(s)))
	return append(out, []byte(s)...)
}

func encodeTypes(types []wasmgen.FuncType) []byte {
	var out []byte
	out = append(out, encodeVec(len(types))...)
	for _, ft := range types {
		out = append(out, 0x60) // func type tag
		out = append(out, encodeVec(len(ft.Params))...)
		out = append(out, ft.Params...)
		out = append(out, encodeVec(len(ft.Results))...)
		out = append(out, ft.Results...)
	}
	return out
}

func encodeImports(imports []wasmgen.Import) []byte {
	var out []byte
	out = append(out, encodeVec(len(imports))...)
	for _, im := range imports {
		out = append(out, encodeName(im.Module)...)
		out = append(out, encodeName(im.Name)...)
		out = append(out, externKindFunc)
		out = append(out, EncodeUint32(uint32(im.TypeIdx))...)
	}
	return out
}

func encodeFunctionSection(funcs []wasmgen.Func) []byte {
	var out []byte
	out = append(out, encodeVec(len(funcs))...)
	for _, f := range funcs {
		out = append(out, EncodeUint32(uint32(f.TypeIdx))...)
	}
	return out
}

func encodeTable(tab wasmgen.Table) []byte {
	out := encodeVec(1)
	out = append(out, funcRefType)
	out = append(out, 0x00) // limits: min only, no max
	out = append(out, EncodeUint32(tab.MinSize)...)
	return out
}

func encodeExports(exports []wasmgen.Export) []byte {
	var out []byte
	out = append(out, encodeVec(len(exports))...)
	for _, e := range exports {
		out = append(out, encodeName(e.Name)...)
		if e.IsTable {
			out = append(out, externKindTable)
		} else {
			out = append(out, externKindFunc)
		}
		out = append(out, EncodeUint32(uint32(e.Index))...)
	}
	return out
}

func encodeElements(elems []wasmgen.Element) []byte {
	var out []byte
	out = append(out, encodeVec(len(elems))...)
	for _, el := range elems {
		out = append(out, 0x00) // active segment, table index 0
		out = append(out, opI32Const)
		out = append(out, EncodeInt32(el.Offset)...)
		out = append(out, opEnd)
		out = append(out, encodeVec(1)...)
		out = append(out, EncodeUint32(uint32(el.FuncIdx))...)
	}
	return out
}

func encodeCode(funcs []wasmgen.Func) []byte {
	var out []byte
	out = append(out, encodeVec(len(funcs))...)
	for _, f := range funcs {
		body := encodeFuncBody(f)
		out = append(out, EncodeUint32(uint32(len(body)))...)
		out = append(out, body...)
	}
	return out
}

func encodeFuncBody(f wasmgen.Func) []byte {
	var out []byte
	if f.NumLocals > 0 {
		out = append(out, encodeVec(1)...)
		out = append(out, EncodeUint32(uint32(f.NumLocals))...)
		out = append(out, wasmgen.ValueTypeI32)
	} else {
		out = append(out, encodeVec(0)...)
	}
	for _, op := range f.Body {
		out = append(out, encodeOp(op)...)
	}
	return out
}

func encodeOp(op wasmgen.WOp) []byte {
	switch op.Kind {
	case wasmgen.WI32Const:
		return append([]byte{opI32Const}, EncodeInt32(op.I32)...)
	case wasmgen.WLocalGet:
		return append([]byte{opLocalGet}, EncodeUint32(uint32(op.Idx))...)
	case wasmgen.WLocalSet:
		return append([]byte{opLocalSet}, EncodeUint32(uint32(op.Idx))...)
	case wasmgen.WI32Add:
		return []byte{opI32Add}
	case wasmgen.WI32Sub:
		return []byte{opI32Sub}
	case wasmgen.WI32Mul:
		return []byte{opI32Mul}
	case wasmgen.WI32DivS:
		return []byte{opI32DivS}
	case wasmgen.WI32RemS:
		return []byte{opI32RemS}
	case wasmgen.WI32LtS:
		return []byte{opI32LtS}
	case wasmgen.WI32GtS:
		return []byte{opI32GtS}
	case wasmgen.WI32LeS:
		return []byte{opI32LeS}
	case wasmgen.WI32GeS:
		return []byte{opI32GeS}
	case wasmgen.WI32Eq:
		return []byte{opI32Eq}
	case wasmgen.WI32Ne:
		return []byte{opI32Ne}
	case wasmgen.WI32And:
		return []byte{opI32And}
	case wasmgen.WI32Or:
		return []byte{opI32Or}
	case wasmgen.WI32Eqz:
		return []byte{opI32Eqz}
	case wasmgen.WDrop:
		return []byte{opDrop}
	case wasmgen.WReturn:
		return []byte{opReturn}
	case wasmgen.WCall:
		return append([]byte{opCall}, EncodeUint32(uint32(op.Idx))...)
	case wasmgen.WCallIndirect:
		out := append([]byte{opCallIndirect}, EncodeUint32(uint32(op.TypeIdx))...)
		return append(out, 0x00) // table index 0
	case wasmgen.WBlock:
		return []byte{opBlock, op.BlockType}
	case wasmgen.WLoop:
		return []byte{opLoop, op.BlockType}
	case wasmgen.WIf:
		return []byte{opIf, op.BlockType}
	case wasmgen.WElse:
		return []byte{opElse}
	case wasmgen.WEnd:
		return []byte{opEnd}
	case wasmgen.WBr:
		return append([]byte{opBr}, EncodeUint32(uint32(op.Depth))...)
	case wasmgen.WBrIf:
		return append([]byte{opBrIf}, EncodeUint32(uint32(op.Depth))...)
	default:
		return nil
	}
}
