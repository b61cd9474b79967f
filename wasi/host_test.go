package wasi

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jrmarcum/wasmtk/guestmem"
)

func newTestHost() (*Host, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := NewEnvironment().WithStdout(&stdout).WithStderr(&stderr)
	return NewHost(env), &stdout, &stderr
}

// writeIOVecs lays out the payload segments and their descriptor array
// in guest memory, returning the array pointer.
func writeIOVecs(t *testing.T, mem guestmem.Memory, arrayPtr, dataPtr uint32, segments [][]byte) {
	t.Helper()
	offset := dataPtr
	for i, seg := range segments {
		if err := mem.Write(offset, seg); err != nil {
			t.Fatal(err)
		}
		base := arrayPtr + uint32(i)*8
		if err := mem.WriteU32(base, offset); err != nil {
			t.Fatal(err)
		}
		if err := mem.WriteU32(base+4, uint32(len(seg))); err != nil {
			t.Fatal(err)
		}
		offset += uint32(len(seg))
	}
}

func TestFdWrite_IOVecPartitionings(t *testing.T) {
	payload := []byte("hello, guest world")

	partitionings := [][][]byte{
		{payload},
		{payload[:5], payload[5:]},
		{payload[:1], payload[1:2], payload[2:10], payload[10:]},
		{payload[:7], {}, payload[7:]},
	}

	for i, segments := range partitionings {
		h, stdout, stderr := newTestHost()
		mem := guestmem.NewBuffer(4096)
		writeIOVecs(t, mem, 0, 1024, segments)

		const nwrittenPtr = 512
		if errno := h.FdWrite(mem, 1, 0, uint32(len(segments)), nwrittenPtr); errno != ErrnoSuccess {
			t.Fatalf("partitioning %d: errno %d", i, errno)
		}

		n, _ := mem.ReadU32(nwrittenPtr)
		if n != uint32(len(payload)) {
			t.Errorf("partitioning %d: nwritten = %d, want %d", i, n, len(payload))
		}
		if got := stdout.String(); got != string(payload) {
			t.Errorf("partitioning %d: stdout = %q, want %q", i, got, payload)
		}
		if stderr.Len() != 0 {
			t.Errorf("partitioning %d: unexpected stderr %q", i, stderr.String())
		}
	}
}

func TestFdWrite_NonStdoutGoesToStderr(t *testing.T) {
	h, stdout, stderr := newTestHost()
	mem := guestmem.NewBuffer(1024)
	writeIOVecs(t, mem, 0, 256, [][]byte{[]byte("diagnostic")})

	if errno := h.FdWrite(mem, 2, 0, 1, 512); errno != ErrnoSuccess {
		t.Fatalf("errno %d", errno)
	}
	if stderr.String() != "diagnostic" {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}

func TestFdWrite_BadPointer(t *testing.T) {
	h, _, _ := newTestHost()
	mem := guestmem.NewBuffer(64)
	if errno := h.FdWrite(mem, 1, 4096, 1, 0); errno != ErrnoFault {
		t.Errorf("errno = %d, want %d", errno, ErrnoFault)
	}
}

func TestFdRead(t *testing.T) {
	h, _, _ := newTestHost()
	h.env.WithStdin(strings.NewReader("input data"))
	mem := guestmem.NewBuffer(1024)

	// One 6-byte buffer at 256, one 16-byte buffer at 300.
	mustU32(t, mem, 0, 256)
	mustU32(t, mem, 4, 6)
	mustU32(t, mem, 8, 300)
	mustU32(t, mem, 12, 16)

	const nreadPtr = 512
	if errno := h.FdRead(mem, 0, 0, 2, nreadPtr); errno != ErrnoSuccess {
		t.Fatalf("errno %d", errno)
	}

	n, _ := mem.ReadU32(nreadPtr)
	if n != 10 {
		t.Errorf("nread = %d, want 10", n)
	}
	first, _ := mem.Read(256, 6)
	if string(first) != "input " {
		t.Errorf("first buffer = %q", first)
	}
	second, _ := mem.Read(300, 4)
	if string(second) != "data" {
		t.Errorf("second buffer = %q", second)
	}
}

func TestFdRead_BadDescriptor(t *testing.T) {
	h, _, _ := newTestHost()
	mem := guestmem.NewBuffer(64)

	for _, fd := range []uint32{1, 2, 3, 99} {
		if errno := h.FdRead(mem, fd, 0, 0, 32); errno != ErrnoBadf {
			t.Errorf("fd %d: errno = %d, want %d", fd, errno, ErrnoBadf)
		}
	}
}

func TestClockTimeGet(t *testing.T) {
	h, _, _ := newTestHost()
	mem := guestmem.NewBuffer(64)

	before := uint64(time.Now().UnixNano())
	if errno := h.ClockTimeGet(mem, 8); errno != ErrnoSuccess {
		t.Fatalf("errno %d", errno)
	}
	after := uint64(time.Now().UnixNano())

	got, _ := mem.ReadU64(8)
	if got < before || got > after {
		t.Errorf("timestamp %d outside [%d, %d]", got, before, after)
	}
}

func TestRandomGet(t *testing.T) {
	h, _, _ := newTestHost()
	mem := guestmem.NewBuffer(256)

	if errno := h.RandomGet(mem, 0, 32); errno != ErrnoSuccess {
		t.Fatalf("first call errno %d", errno)
	}
	if errno := h.RandomGet(mem, 64, 32); errno != ErrnoSuccess {
		t.Fatalf("second call errno %d", errno)
	}

	a, _ := mem.Read(0, 32)
	b, _ := mem.Read(64, 32)
	if bytes.Equal(a, b) {
		t.Error("two 32-byte random fills are identical")
	}

	if errno := h.RandomGet(mem, 0, maxRandomBytes+1); errno != ErrnoFault {
		t.Errorf("oversized fill: errno = %d, want %d", errno, ErrnoFault)
	}
}

func TestArgsAndEnviron_DefaultZero(t *testing.T) {
	// The default sandbox must not leak host process state.
	h := NewHost(nil)
	mem := guestmem.NewBuffer(128)

	if errno := h.ArgsSizesGet(mem, 0, 4); errno != ErrnoSuccess {
		t.Fatalf("args_sizes_get errno %d", errno)
	}
	count, _ := mem.ReadU32(0)
	size, _ := mem.ReadU32(4)
	if count != 0 || size != 0 {
		t.Errorf("args count=%d size=%d, want 0, 0", count, size)
	}

	if errno := h.EnvironSizesGet(mem, 8, 12); errno != ErrnoSuccess {
		t.Fatalf("environ_sizes_get errno %d", errno)
	}
	count, _ = mem.ReadU32(8)
	size, _ = mem.ReadU32(12)
	if count != 0 || size != 0 {
		t.Errorf("environ count=%d size=%d, want 0, 0", count, size)
	}

	if errno := h.ArgsGet(mem, 16, 32); errno != ErrnoSuccess {
		t.Errorf("args_get errno %d", errno)
	}
	if errno := h.EnvironGet(mem, 16, 32); errno != ErrnoSuccess {
		t.Errorf("environ_get errno %d", errno)
	}
}

func TestArgsGet_Serialization(t *testing.T) {
	env := NewEnvironment().WithArgs("prog", "alpha", "bc")
	h := NewHost(env)
	mem := guestmem.NewBuffer(256)

	if errno := h.ArgsSizesGet(mem, 0, 4); errno != ErrnoSuccess {
		t.Fatal("args_sizes_get failed")
	}
	count, _ := mem.ReadU32(0)
	size, _ := mem.ReadU32(4)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if size != uint32(len("prog")+len("alpha")+len("bc")+3) {
		t.Errorf("size = %d", size)
	}

	const argvPtr, bufPtr = 16, 64
	if errno := h.ArgsGet(mem, argvPtr, bufPtr); errno != ErrnoSuccess {
		t.Fatal("args_get failed")
	}

	want := []string{"prog", "alpha", "bc"}
	for i, w := range want {
		off, _ := mem.ReadU32(argvPtr + uint32(i)*4)
		got, _ := mem.Read(off, uint32(len(w)+1))
		if string(got) != w+"\x00" {
			t.Errorf("arg %d at offset %d = %q, want %q", i, off, got, w+"\x00")
		}
	}
}

func TestEnvironGet_StableOrder(t *testing.T) {
	env := NewEnvironment().WithEnv(map[string]string{"B": "2", "A": "1"})
	h := NewHost(env)

	pairs := h.Environment().EnvPairs()
	if len(pairs) != 2 || pairs[0] != "A=1" || pairs[1] != "B=2" {
		t.Errorf("pairs = %v, want sorted [A=1 B=2]", pairs)
	}
}

func TestFdFdstatGet(t *testing.T) {
	h, _, _ := newTestHost()
	mem := guestmem.NewBuffer(128)

	tests := []struct {
		fd   uint32
		want byte
	}{
		{0, filetypeCharacterDevice},
		{1, filetypeCharacterDevice},
		{2, filetypeCharacterDevice},
		{3, filetypeRegularFile},
		{42, filetypeRegularFile},
	}

	for _, tt := range tests {
		if errno := h.FdFdstatGet(mem, tt.fd, 0); errno != ErrnoSuccess {
			t.Fatalf("fd %d: errno %d", tt.fd, errno)
		}
		stat, _ := mem.Read(0, 24)
		if stat[0] != tt.want {
			t.Errorf("fd %d: filetype = %d, want %d", tt.fd, stat[0], tt.want)
		}
		// Rights must be zero.
		rightsBase, _ := mem.ReadU64(8)
		rightsInh, _ := mem.ReadU64(16)
		if rightsBase != 0 || rightsInh != 0 {
			t.Errorf("fd %d: nonzero rights %d/%d", tt.fd, rightsBase, rightsInh)
		}
	}
}

func TestFdSeekAndFilestat(t *testing.T) {
	h, _, _ := newTestHost()
	mem := guestmem.NewBuffer(128)

	mustU64(t, mem, 0, 0xDEADBEEF)
	if errno := h.FdSeek(mem, 0); errno != ErrnoSuccess {
		t.Fatalf("fd_seek errno %d", errno)
	}
	if v, _ := mem.ReadU64(0); v != 0 {
		t.Errorf("fd_seek offset = %d, want 0", v)
	}

	if errno := h.FdFilestatGet(mem, 32); errno != ErrnoSuccess {
		t.Fatalf("fd_filestat_get errno %d", errno)
	}
	stat, _ := mem.Read(32, 64)
	for _, b := range stat {
		if b != 0 {
			t.Error("filestat not zeroed")
			break
		}
	}
}

func mustU32(t *testing.T, m guestmem.Memory, offset, v uint32) {
	t.Helper()
	if err := m.WriteU32(offset, v); err != nil {
		t.Fatal(err)
	}
}

func mustU64(t *testing.T, m guestmem.Memory, offset uint32, v uint64) {
	t.Helper()
	if err := m.WriteU64(offset, v); err != nil {
		t.Fatal(err)
	}
}
