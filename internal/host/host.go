// Package host models the two WebAssembly host imports the specification
// names but leaves external: env.compile_func, serviced by the trampoline
// JIT dispatch scheme, and env.println, called directly from a compiled
// function. Neither a real Wasm embedder nor the byte-level module loader
// is implemented here — that is the host shim's job, explicitly out of
// scope (§1) — but Shim lets the rest of the pipeline be exercised and
// tested as if one were present.
package host

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/minilang/minilang/internal/ir"
	"github.com/minilang/minilang/internal/wasmgen"
)

// Println is the production println capability: it writes a decimal
// integer and a newline to w.
func Println(w io.Writer) func(int32) {
	return func(v int32) {
		fmt.Fprintf(w, "%d\n", v)
	}
}

// Shim plays the role of the host embedder for the skeleton module's
// trampoline dispatch scheme. On the first simulated call to a given
// function index it compiles that function's per-function module and
// records it as "installed" into the shared table; subsequent calls are
// no-ops, mirroring how a real host only ever compiles a function once.
type Shim struct {
	mod *ir.Module
	log *logrus.Entry

	// table records, by function index, the per-function module a
	// compile_func request produced — the host's equivalent of
	// populating the shared call table's slot.
	table map[int]*wasmgen.Module
	// Requests is the ordered sequence of function indices for which
	// compile_func actually ran its compilation (not repeats).
	Requests []int
}

// NewShim builds a host shim over mod. log may be nil, in which case
// compilation events are not logged.
func NewShim(mod *ir.Module, log *logrus.Entry) *Shim {
	return &Shim{mod: mod, log: log, table: map[int]*wasmgen.Module{}}
}

// CompileFunc implements env.compile_func(i32) -> i32: the skeleton
// trampoline's JIT callback. It returns 0 unconditionally, matching the
// signature the trampoline expects to drop.
func (s *Shim) CompileFunc(funcIdx int32) (int32, error) {
	idx := int(funcIdx)
	if _, ok := s.table[idx]; ok {
		return 0, nil // already compiled; the host never recompiles.
	}
	mf, err := wasmgen.PerFunction(s.mod, idx)
	if err != nil {
		return 0, err
	}
	s.table[idx] = mf
	s.Requests = append(s.Requests, idx)
	if s.log != nil {
		s.log.WithField("func_idx", idx).WithField("func_name", s.mod.Funcs[idx].Name).
			Debug("compiled function into shared table slot")
	}
	return 0, nil
}

// Installed reports whether funcIdx's table slot has been populated by a
// prior CompileFunc call.
func (s *Shim) Installed(funcIdx int) bool {
	_, ok := s.table[funcIdx]
	return ok
}

// CompiledModule returns the per-function module installed at funcIdx's
// table slot, or nil if it has not been compiled yet.
func (s *Shim) CompiledModule(funcIdx int) *wasmgen.Module {
	return s.table[funcIdx]
}
