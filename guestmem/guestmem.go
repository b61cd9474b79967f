// Package guestmem marshals typed values across the host/guest
// boundary of a WebAssembly linear memory.
//
// All multi-byte integers use little-endian encoding; this is the wire
// format of the guest instruction set, not a host convenience. Every
// access is bounds-checked: exceeding the view is an error, never a
// silent truncation.
//
// A Memory is a window over a live instance's byte buffer. Views are
// invalidated when linear memory grows, so callers must obtain a fresh
// view per instance operation and must never cache one across calls.
package guestmem

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Memory represents guest linear memory.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// ErrOutOfBounds reports an access outside the memory view.
type ErrOutOfBounds struct {
	Offset uint32
	Length uint32
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("guest memory access out of bounds: offset=%d length=%d", e.Offset, e.Length)
}

// wazeroMemory adapts a live api.Memory to the Memory interface.
type wazeroMemory struct {
	mem api.Memory
}

// Wrap returns a view over the given wazero memory. The view is only
// valid until the guest next grows its memory, so wrap freshly inside
// every host call.
func Wrap(mem api.Memory) Memory {
	return &wazeroMemory{mem: mem}
}

func (m *wazeroMemory) Read(offset, length uint32) ([]byte, error) {
	b, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, &ErrOutOfBounds{Offset: offset, Length: length}
	}
	return b, nil
}

func (m *wazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return &ErrOutOfBounds{Offset: offset, Length: uint32(len(data))}
	}
	return nil
}

func (m *wazeroMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, &ErrOutOfBounds{Offset: offset, Length: 4}
	}
	return v, nil
}

func (m *wazeroMemory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, &ErrOutOfBounds{Offset: offset, Length: 8}
	}
	return v, nil
}

func (m *wazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return &ErrOutOfBounds{Offset: offset, Length: 4}
	}
	return nil
}

func (m *wazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return &ErrOutOfBounds{Offset: offset, Length: 8}
	}
	return nil
}
