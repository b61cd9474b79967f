// Package wasm provides static decoding of WebAssembly binary modules
// and a small in-process rewriter.
//
// The decoder models only what introspection and rewriting need: the
// type, import, function, and export sections are parsed structurally,
// while every other section is carried as an opaque payload in original
// order. Export signatures are resolved against the module's function
// index space (imported functions first, then declared functions).
//
// Re-encoding a decoded module reproduces the original byte sequence
// except for sections the caller modified, which makes export surgery
// safe without understanding code bodies.
package wasm
