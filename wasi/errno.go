package wasi

// Errno is a WASI error code as seen by the guest. These are syscall
// return values, not host-level failures: a guest receiving ErrnoNotsup
// may handle or propagate it itself.
type Errno = uint32

const (
	// ErrnoSuccess indicates the syscall completed.
	ErrnoSuccess Errno = 0
	// ErrnoBadf rejects operations on descriptors the sandbox does not
	// serve, such as reads from anything but standard input.
	ErrnoBadf Errno = 8
	// ErrnoFault reports an address the guest passed that falls outside
	// its own linear memory.
	ErrnoFault Errno = 21
	// ErrnoNotsup is returned by every filesystem, polling, and socket
	// entry point; those capabilities are intentionally unimplemented.
	ErrnoNotsup Errno = 28
)

// File types reported by fd_fdstat_get.
const (
	filetypeCharacterDevice byte = 2
	filetypeRegularFile     byte = 4
)
