// Package api is the small public facade over the pipeline: lex, parse,
// lower, and either interpret or emit Wasm. cmd/minilang is its only
// consumer, mirroring how wazero's own api package is the thin surface
// cmd/wazero drives.
package api

import (
	"io"

	"github.com/minilang/minilang/internal/host"
	"github.com/minilang/minilang/internal/interpreter"
	"github.com/minilang/minilang/internal/ir"
	"github.com/minilang/minilang/internal/parser"
	"github.com/minilang/minilang/internal/token"
	"github.com/minilang/minilang/internal/wasmgen"
)

// Compile runs the tokeniser, parser and IR generator over src in order,
// returning the first stage's failure if any.
func Compile(src string) (*ir.Module, error) {
	toks, err := token.Lex(src)
	if err != nil {
		return nil, err
	}
	mod, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	return ir.Generate(mod)
}

// Run compiles src and interprets entry with args, writing any println
// output to out.
func Run(src, entry string, args []int32, out io.Writer) (int32, error) {
	mod, err := Compile(src)
	if err != nil {
		return 0, err
	}
	it := interpreter.New(mod, host.Println(out))
	return it.Call(entry, args)
}

// BuildSkeleton compiles src and emits the skeleton Wasm module
// description (every user function as a lazily-compiling trampoline).
func BuildSkeleton(src string) (*wasmgen.Module, error) {
	mod, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return wasmgen.Skeleton(mod)
}

// BuildFunc compiles src and emits the per-function Wasm module for the
// function at funcIdx, ready for the host to install into the shared
// table.
func BuildFunc(src string, funcIdx int) (*wasmgen.Module, error) {
	mod, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return wasmgen.PerFunction(mod, funcIdx)
}
