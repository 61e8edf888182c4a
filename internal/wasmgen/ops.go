package wasmgen

// WOpKind enumerates the structured Wasm instructions this emitter
// produces. It is a small, closed subset of the full Wasm instruction set:
// exactly what the IR → Wasm mapping table in the specification requires.
type WOpKind int

const (
	WI32Const WOpKind = iota
	WLocalGet
	WLocalSet
	WI32Add
	WI32Sub
	WI32Mul
	WI32DivS
	WI32RemS
	WI32LtS
	WI32GtS
	WI32LeS
	WI32GeS
	WI32Eq
	WI32Ne
	WI32And
	WI32Or
	WI32Eqz
	WDrop
	WReturn
	WCall
	WCallIndirect
	WBlock
	WLoop
	WIf
	WElse
	WEnd
	WBr
	WBrIf
)

// BlockType is the Wasm block-type byte prefixing a Block/Loop/If
// instruction: either the empty type or a single i32 result.
type BlockType = byte

const (
	BlockTypeEmpty BlockType = 0x40
	BlockTypeI32   BlockType = ValueTypeI32
)

// WOp is one structured Wasm instruction. As with ir.Instr, only the
// fields relevant to Kind are populated.
type WOp struct {
	Kind WOpKind

	I32       int32     // WI32Const
	Idx       int       // WLocalGet/WLocalSet local index, WCall func index
	TypeIdx   int       // WCallIndirect function type index
	Depth     int       // WBr/WBrIf branch depth
	BlockType BlockType // WBlock/WLoop/WIf
}
