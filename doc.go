// Package wasmtk is a developer toolkit for loading, executing, and
// inspecting WebAssembly modules, independent of the toolchain that
// produced them.
//
// The toolkit provides a WASI preview1 host runtime and a static
// module-introspection engine. Guest instruction execution is always
// delegated to wazero; wasmtk owns the import surface the guest sees,
// the marshaling of data across the host/guest memory boundary, and the
// reporting of a module's callable surface.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmtk/              Root package documentation
//	├── runtime/         Instantiation and invocation driver
//	├── wasi/            WASI preview1 syscall emulation layer
//	├── guestmem/        Typed marshaling over guest linear memory
//	├── wasm/            Static binary decoding, export model, rewriter
//	├── inspect/         Export/import introspection reporting
//	├── loader/          Module loading, WAT materialization
//	├── tool/            Out-of-process assembler/disassembler invocation
//	├── errors/          Structured error types
//	└── cmd/wasmtk/      Command-line interface
//
// # Quick Start
//
// Load and run a module:
//
//	bin, err := loader.New(nil).Load(ctx, "module.wasm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := runtime.New(ctx, wasi.NewEnvironment())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	inst, err := rt.Instantiate(ctx, bin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	_, err = inst.Invoke(ctx, "add", []string{"2", "3"}) // prints "Result: 5"
//
// # Sandbox Model
//
// The emulation layer reports zero arguments and zero environment
// variables to the guest by default; host process state never leaks into
// the sandbox unless explicitly configured on a wasi.Environment.
// Filesystem, socket, and polling syscalls return the WASI
// "not supported" error code to the guest rather than failing the host.
//
// # Concurrency
//
// Execution is single-threaded and synchronous: one instance runs to
// completion before the host proceeds. Instance state is scoped to the
// invocation that created it and is never shared through process-wide
// globals, so independent invocations may run concurrently on separate
// instances.
package wasmtk
