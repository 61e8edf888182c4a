// Package wasmbin is the byte-level WebAssembly module encoder: the
// "opaque serialiser" the specification treats as an external
// collaborator of the core lowering pipeline. It consumes only
// wasmgen.Module values and knows nothing about the source language, the
// AST, or the IR.
package wasmbin

// EncodeUint32 LEB128-encodes an unsigned 32-bit integer, grounded on
// wazero's internal/leb128 encode/decode pairs.
func EncodeUint32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

// EncodeInt32 LEB128-encodes a signed 32-bit integer.
func EncodeInt32(v int32) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}
