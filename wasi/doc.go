// Package wasi emulates the wasi_snapshot_preview1 system interface
// for sandboxed guest modules.
//
// The emulation operates directly on the current instance's linear
// memory through guestmem views and is deliberately narrow: standard
// I/O, clock, and random are meaningful; filesystem, polling, and
// socket calls return the "not supported" error code to the guest.
// By default the sandbox reports zero arguments and zero environment
// variables regardless of host process state.
//
// Syscall logic is implemented as methods over guestmem.Memory so it
// can be exercised without a running virtual machine; the wazero
// bindings in Instantiate only splice the call stack and re-acquire
// the memory view. No syscall may cache a view across calls, because
// guest memory growth invalidates prior views.
package wasi
