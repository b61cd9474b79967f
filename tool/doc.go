// Package tool drives external WebAssembly binary tools out of process.
//
// Assembly (.wat to .wasm) and disassembly (.wasm to .wat) are delegated
// to the wabt tools wat2wasm and wasm2wat. The Runner interface decouples
// command construction from process execution so that callers can test
// tool orchestration without the binaries installed.
package tool
