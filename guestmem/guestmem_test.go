package guestmem

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuffer_LittleEndian(t *testing.T) {
	b := NewBuffer(64)

	if err := b.WriteU32(0, 0x11223344); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	raw, _ := b.Read(0, 4)
	if !bytes.Equal(raw, []byte{0x44, 0x33, 0x22, 0x11}) {
		t.Errorf("u32 not little-endian: %x", raw)
	}

	if err := b.WriteU64(8, 0x1122334455667788); err != nil {
		t.Fatalf("WriteU64: %v", err)
	}
	raw, _ = b.Read(8, 8)
	if !bytes.Equal(raw, []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}) {
		t.Errorf("u64 not little-endian: %x", raw)
	}

	v32, err := b.ReadU32(0)
	if err != nil || v32 != 0x11223344 {
		t.Errorf("ReadU32 = %x, %v", v32, err)
	}
	v64, err := b.ReadU64(8)
	if err != nil || v64 != 0x1122334455667788 {
		t.Errorf("ReadU64 = %x, %v", v64, err)
	}
}

func TestBuffer_Bounds(t *testing.T) {
	b := NewBuffer(16)

	tests := []struct {
		name string
		op   func() error
	}{
		{"read past end", func() error { _, err := b.Read(10, 8); return err }},
		{"read at boundary plus one", func() error { _, err := b.Read(16, 1); return err }},
		{"write past end", func() error { return b.Write(14, []byte{1, 2, 3}) }},
		{"u32 straddling end", func() error { _, err := b.ReadU32(13); return err }},
		{"u64 write past end", func() error { return b.WriteU64(9, 0) }},
		{"offset overflow", func() error { _, err := b.Read(0xFFFFFFFF, 2); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			var oob *ErrOutOfBounds
			if !errors.As(err, &oob) {
				t.Errorf("got %v, want ErrOutOfBounds", err)
			}
		})
	}

	// Exact-fit accesses succeed.
	if err := b.Write(8, make([]byte, 8)); err != nil {
		t.Errorf("exact-fit write failed: %v", err)
	}
	if _, err := b.Read(0, 16); err != nil {
		t.Errorf("exact-fit read failed: %v", err)
	}
}

func TestReadIOVecs(t *testing.T) {
	b := NewBuffer(64)
	// Two iovecs: {ptr 32, len 3}, {ptr 40, len 5}.
	mustWriteU32(t, b, 0, 32)
	mustWriteU32(t, b, 4, 3)
	mustWriteU32(t, b, 8, 40)
	mustWriteU32(t, b, 12, 5)

	vecs, err := ReadIOVecs(b, 0, 2)
	if err != nil {
		t.Fatalf("ReadIOVecs: %v", err)
	}
	want := []IOVec{{Ptr: 32, Len: 3}, {Ptr: 40, Len: 5}}
	if len(vecs) != 2 || vecs[0] != want[0] || vecs[1] != want[1] {
		t.Errorf("got %+v, want %+v", vecs, want)
	}

	if _, err := ReadIOVecs(b, 60, 2); err == nil {
		t.Error("expected bounds error for iovec array past end")
	}
}

func TestStrings(t *testing.T) {
	b := NewBuffer(64)

	n, err := WriteCString(b, 10, "hello")
	if err != nil {
		t.Fatalf("WriteCString: %v", err)
	}
	if n != 6 {
		t.Errorf("WriteCString wrote %d bytes, want 6", n)
	}
	raw, _ := b.Read(10, 6)
	if !bytes.Equal(raw, []byte("hello\x00")) {
		t.Errorf("unexpected bytes: %q", raw)
	}

	s, err := ReadString(b, 10, 5)
	if err != nil || s != "hello" {
		t.Errorf("ReadString = %q, %v", s, err)
	}

	mustWriteU32(t, b, 20, 5)
	if err := b.Write(24, []byte("world")); err != nil {
		t.Fatal(err)
	}
	s, err = ReadPrefixedString(b, 20)
	if err != nil || s != "world" {
		t.Errorf("ReadPrefixedString = %q, %v", s, err)
	}

	if _, err := WriteCString(b, 60, "too long"); err == nil {
		t.Error("expected bounds error")
	}
	if _, err := ReadPrefixedString(b, 62); err == nil {
		t.Error("expected bounds error on prefix read")
	}
}

func mustWriteU32(t *testing.T, m Memory, offset, v uint32) {
	t.Helper()
	if err := m.WriteU32(offset, v); err != nil {
		t.Fatal(err)
	}
}
