package wasi

import (
	"crypto/rand"
	"time"

	"github.com/tetratelabs/wazero/sys"

	"github.com/jrmarcum/wasmtk/guestmem"
)

// maxRandomBytes limits a single random_get fill to keep a hostile
// guest from forcing a huge host allocation (1MB).
const maxRandomBytes = 1 << 20

// Host implements the wasi_snapshot_preview1 function table against a
// guest memory view. One Host serves one invocation; it carries no
// process-wide state.
type Host struct {
	env *Environment
}

// NewHost creates a Host closing over env. A nil env behaves like
// NewEnvironment().
func NewHost(env *Environment) *Host {
	if env == nil {
		env = NewEnvironment()
	}
	return &Host{env: env}
}

// Environment returns the captured configuration.
func (h *Host) Environment() *Environment {
	return h.env
}

// ProcExit terminates guest execution, carrying the exit code out of
// the virtual machine as a sys.ExitError. The invocation driver treats
// code 0 as clean termination and anything else as a failure.
func (h *Host) ProcExit(code uint32) {
	panic(sys.NewExitError(code))
}

// FdWrite copies iovec-described byte ranges to standard output
// (fd 1) or standard error (any other descriptor), then stores the
// total byte count at nwrittenPtr.
func (h *Host) FdWrite(mem guestmem.Memory, fd, iovsPtr, iovsLen, nwrittenPtr uint32) Errno {
	w := h.env.stderr
	if fd == 1 {
		w = h.env.stdout
	}

	vecs, err := guestmem.ReadIOVecs(mem, iovsPtr, iovsLen)
	if err != nil {
		return ErrnoFault
	}

	var total uint32
	for _, v := range vecs {
		data, err := mem.Read(v.Ptr, v.Len)
		if err != nil {
			return ErrnoFault
		}
		n, err := w.Write(data)
		total += uint32(n)
		if err != nil {
			break
		}
	}

	if err := mem.WriteU32(nwrittenPtr, total); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

// FdRead fills iovec buffers from standard input. Only descriptor 0 is
// readable; anything else is a bad descriptor. Reading stops at the
// first short or zero-byte read.
func (h *Host) FdRead(mem guestmem.Memory, fd, iovsPtr, iovsLen, nreadPtr uint32) Errno {
	if fd != 0 {
		return ErrnoBadf
	}

	vecs, err := guestmem.ReadIOVecs(mem, iovsPtr, iovsLen)
	if err != nil {
		return ErrnoFault
	}

	var total uint32
	done := false
	for _, v := range vecs {
		if done || v.Len == 0 {
			continue
		}
		buf := make([]byte, v.Len)
		n, err := h.env.stdin.Read(buf)
		if n > 0 {
			if werr := mem.Write(v.Ptr, buf[:n]); werr != nil {
				return ErrnoFault
			}
			total += uint32(n)
		}
		if err != nil || uint32(n) < v.Len {
			done = true
		}
	}

	if err := mem.WriteU32(nreadPtr, total); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

// ClockTimeGet writes the current wall-clock time in nanoseconds since
// the epoch. The clock id and precision arguments are ignored; every
// clock reads as real time.
func (h *Host) ClockTimeGet(mem guestmem.Memory, resultPtr uint32) Errno {
	now := uint64(time.Now().UnixNano())
	if err := mem.WriteU64(resultPtr, now); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

// RandomGet fills the span [ptr, ptr+length) with cryptographically
// strong random bytes.
func (h *Host) RandomGet(mem guestmem.Memory, ptr, length uint32) Errno {
	if length > maxRandomBytes {
		return ErrnoFault
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return ErrnoFault
	}
	if err := mem.Write(ptr, buf); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

// ArgsSizesGet reports the argument count and serialized buffer size.
func (h *Host) ArgsSizesGet(mem guestmem.Memory, countPtr, sizePtr uint32) Errno {
	return writeSizes(mem, h.env.Args(), countPtr, sizePtr)
}

// ArgsGet serializes the argument list: one u32 offset per value at
// argvPtr, the NUL-terminated values themselves at bufPtr.
func (h *Host) ArgsGet(mem guestmem.Memory, argvPtr, bufPtr uint32) Errno {
	return writeStringTable(mem, h.env.Args(), argvPtr, bufPtr)
}

// EnvironSizesGet reports the environment entry count and serialized
// buffer size.
func (h *Host) EnvironSizesGet(mem guestmem.Memory, countPtr, sizePtr uint32) Errno {
	return writeSizes(mem, h.env.EnvPairs(), countPtr, sizePtr)
}

// EnvironGet serializes the KEY=VALUE environment entries.
func (h *Host) EnvironGet(mem guestmem.Memory, environPtr, bufPtr uint32) Errno {
	return writeStringTable(mem, h.env.EnvPairs(), environPtr, bufPtr)
}

func writeSizes(mem guestmem.Memory, values []string, countPtr, sizePtr uint32) Errno {
	if err := mem.WriteU32(countPtr, uint32(len(values))); err != nil {
		return ErrnoFault
	}
	if err := mem.WriteU32(sizePtr, byteSize(values)); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

func writeStringTable(mem guestmem.Memory, values []string, offsetsPtr, bufPtr uint32) Errno {
	offset := bufPtr
	for i, v := range values {
		if err := mem.WriteU32(offsetsPtr+uint32(i)*4, offset); err != nil {
			return ErrnoFault
		}
		n, err := guestmem.WriteCString(mem, offset, v)
		if err != nil {
			return ErrnoFault
		}
		offset += n
	}
	return ErrnoSuccess
}

// FdFdstatGet reports descriptors 0, 1, and 2 as character devices and
// everything else as regular files, with zero rights either way. The
// fdstat struct is 24 bytes: filetype u8, flags u16, rights u64 pair.
func (h *Host) FdFdstatGet(mem guestmem.Memory, fd, bufPtr uint32) Errno {
	filetype := filetypeRegularFile
	if fd <= 2 {
		filetype = filetypeCharacterDevice
	}

	stat := make([]byte, 24)
	stat[0] = filetype
	if err := mem.Write(bufPtr, stat); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

// FdSeek is a no-op that reports position zero; the sandbox has no
// seekable descriptors.
func (h *Host) FdSeek(mem guestmem.Memory, newOffsetPtr uint32) Errno {
	if err := mem.WriteU64(newOffsetPtr, 0); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}

// FdFilestatGet zeroes the 64-byte filestat struct and reports success.
func (h *Host) FdFilestatGet(mem guestmem.Memory, bufPtr uint32) Errno {
	if err := mem.Write(bufPtr, make([]byte, 64)); err != nil {
		return ErrnoFault
	}
	return ErrnoSuccess
}
