// Package runtime instantiates WebAssembly modules under the emulated
// WASI host and drives their execution.
//
// A Runtime owns one wazero virtual machine with the host import surface
// already registered: the wasi_snapshot_preview1 namespace and an
// auxiliary env namespace carrying the console bridge (log) and the
// abort hook. Instances are per-invocation objects; nothing about the
// current guest is held in package state.
//
// Entry-point execution (Run) calls _initialize for reactor-style
// modules or _start for command-style modules. Named exports are called
// through Invoke, which coerces string arguments to the export's
// parameter types and reports results on the guest's standard output.
package runtime
