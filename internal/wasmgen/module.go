// Package wasmgen lowers ir.Module into WebAssembly module descriptions:
// a "skeleton" module containing one lazily-compiling trampoline per user
// function, and per-function modules emitted on demand once the host asks
// for them. Byte-level encoding of these descriptions is left to
// internal/wasmbin (or any other serialiser) — wasmgen only ever produces
// data, never bytes, mirroring how wazero's internal/wazeroir package
// produces an IR that is only later handed to an encoder.
package wasmgen

// ValueType enumerates Wasm value types. minilang only ever produces i32,
// but the type is kept general the way api.ValueType is in the teacher.
type ValueType = byte

const ValueTypeI32 ValueType = 0x7f

// MaxArity bounds the function-type table: one entry per arity in
// [0, MaxArity].
const MaxArity = 5

// FuncType is a Wasm function signature.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// TypeForArity returns the shared function type index for a function of
// the given argument count, built from the fixed [0..MaxArity] table.
func TypeForArity(argsCount int) int {
	return argsCount
}

// BuildTypeTable constructs the fixed set of function types indexed
// 0..MaxArity: argsCount i32 params, one i32 result.
func BuildTypeTable() []FuncType {
	types := make([]FuncType, MaxArity+1)
	for k := 0; k <= MaxArity; k++ {
		params := make([]ValueType, k)
		for i := range params {
			params[i] = ValueTypeI32
		}
		types[k] = FuncType{Params: params, Results: []ValueType{ValueTypeI32}}
	}
	return types
}

// Import is a single imported host function.
type Import struct {
	Module  string
	Name    string
	TypeIdx int
}

// Export names either a function or the shared table for the host.
type Export struct {
	Name    string
	IsTable bool
	Index   int
}

// Func is one defined Wasm function: its signature, extra locals beyond
// its parameters, and its instruction body.
type Func struct {
	Name      string
	TypeIdx   int
	NumLocals int
	Body      []WOp
}

// Table describes the shared call table, sized to the number of user
// functions so every trampoline's call_indirect can address any of them.
type Table struct {
	MinSize uint32
}

// Element installs FuncIdx into the shared table at the constant index
// Offset — the mechanism by which a per-function module's compiled
// function becomes reachable through the skeleton's call_indirect.
type Element struct {
	Offset  int32
	FuncIdx int
}

// Module is the full description of one WebAssembly module: its type
// table, imports, defined functions, table, element segments and
// exports. Byte-level serialisers consume exactly this shape.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []Func
	Table    *Table
	Elements []Element
	Exports  []Export
}
