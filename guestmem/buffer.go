package guestmem

import "encoding/binary"

// Buffer is a fixed-size in-host Memory implementation. It backs
// syscall-level tests and any caller that needs marshaling semantics
// without a live instance.
type Buffer struct {
	data []byte
}

// NewBuffer returns a zeroed Buffer of the given size.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Bytes exposes the underlying storage.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) in(offset, length uint32) bool {
	end := uint64(offset) + uint64(length)
	return end <= uint64(len(b.data))
}

func (b *Buffer) Read(offset, length uint32) ([]byte, error) {
	if !b.in(offset, length) {
		return nil, &ErrOutOfBounds{Offset: offset, Length: length}
	}
	return b.data[offset : offset+length], nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	if !b.in(offset, uint32(len(data))) {
		return &ErrOutOfBounds{Offset: offset, Length: uint32(len(data))}
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	if !b.in(offset, 4) {
		return 0, &ErrOutOfBounds{Offset: offset, Length: 4}
	}
	return binary.LittleEndian.Uint32(b.data[offset:]), nil
}

func (b *Buffer) ReadU64(offset uint32) (uint64, error) {
	if !b.in(offset, 8) {
		return 0, &ErrOutOfBounds{Offset: offset, Length: 8}
	}
	return binary.LittleEndian.Uint64(b.data[offset:]), nil
}

func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	if !b.in(offset, 4) {
		return &ErrOutOfBounds{Offset: offset, Length: 4}
	}
	binary.LittleEndian.PutUint32(b.data[offset:], value)
	return nil
}

func (b *Buffer) WriteU64(offset uint32, value uint64) error {
	if !b.in(offset, 8) {
		return &ErrOutOfBounds{Offset: offset, Length: 8}
	}
	binary.LittleEndian.PutUint64(b.data[offset:], value)
	return nil
}
