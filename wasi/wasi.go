package wasi

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/jrmarcum/wasmtk/guestmem"
)

// Namespace is the canonical import module name for the system
// interface. A module importing nothing from it is a plain library.
const Namespace = "wasi_snapshot_preview1"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// hostFunc describes one entry of the emulated function table.
type hostFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
	fn      func(h *Host, mem guestmem.Memory, stack []uint64)
}

func errnoResult(stack []uint64, e Errno) {
	stack[0] = uint64(e)
}

// table is the full wasi_snapshot_preview1 surface the sandbox answers.
// Meaningful calls delegate to Host methods; filesystem, polling, and
// socket calls return ErrnoNotsup without touching guest memory.
func table() []hostFunc {
	funcs := []hostFunc{
		{"proc_exit", []api.ValueType{i32}, nil,
			func(h *Host, _ guestmem.Memory, stack []uint64) {
				h.ProcExit(uint32(stack[0]))
			}},
		{"fd_write", []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.FdWrite(mem, uint32(stack[0]), uint32(stack[1]), uint32(stack[2]), uint32(stack[3])))
			}},
		{"fd_read", []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.FdRead(mem, uint32(stack[0]), uint32(stack[1]), uint32(stack[2]), uint32(stack[3])))
			}},
		{"clock_time_get", []api.ValueType{i32, i64, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				// Clock id and precision are ignored; see ClockTimeGet.
				errnoResult(stack, h.ClockTimeGet(mem, uint32(stack[2])))
			}},
		{"random_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.RandomGet(mem, uint32(stack[0]), uint32(stack[1])))
			}},
		{"args_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.ArgsGet(mem, uint32(stack[0]), uint32(stack[1])))
			}},
		{"args_sizes_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.ArgsSizesGet(mem, uint32(stack[0]), uint32(stack[1])))
			}},
		{"environ_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.EnvironGet(mem, uint32(stack[0]), uint32(stack[1])))
			}},
		{"environ_sizes_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.EnvironSizesGet(mem, uint32(stack[0]), uint32(stack[1])))
			}},
		{"fd_fdstat_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.FdFdstatGet(mem, uint32(stack[0]), uint32(stack[1])))
			}},
		{"fd_seek", []api.ValueType{i32, i64, i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.FdSeek(mem, uint32(stack[3])))
			}},
		{"fd_filestat_get", []api.ValueType{i32, i32}, []api.ValueType{i32},
			func(h *Host, mem guestmem.Memory, stack []uint64) {
				errnoResult(stack, h.FdFilestatGet(mem, uint32(stack[1])))
			}},
	}

	// Descriptor no-ops: filesystem semantics are not emulated, but
	// these succeed so prologues of common toolchains run unmodified.
	for _, nop := range []struct {
		name   string
		params []api.ValueType
	}{
		{"fd_close", []api.ValueType{i32}},
		{"fd_allocate", []api.ValueType{i32, i64, i64}},
		{"fd_advise", []api.ValueType{i32, i64, i64, i32}},
		{"fd_datasync", []api.ValueType{i32}},
		{"fd_sync", []api.ValueType{i32}},
		{"sched_yield", nil},
	} {
		funcs = append(funcs, hostFunc{nop.name, nop.params, []api.ValueType{i32},
			func(_ *Host, _ guestmem.Memory, stack []uint64) {
				errnoResult(stack, ErrnoSuccess)
			}})
	}

	// Unsupported surface: preopens, polling, paths, and sockets.
	for _, stub := range []struct {
		name   string
		params []api.ValueType
	}{
		{"fd_prestat_get", []api.ValueType{i32, i32}},
		{"fd_prestat_dir_name", []api.ValueType{i32, i32, i32}},
		{"poll_oneoff", []api.ValueType{i32, i32, i32, i32}},
		{"path_open", []api.ValueType{i32, i32, i32, i32, i32, i64, i64, i32, i32}},
		{"path_filestat_get", []api.ValueType{i32, i32, i32, i32, i32}},
		{"path_create_directory", []api.ValueType{i32, i32, i32}},
		{"path_remove_directory", []api.ValueType{i32, i32, i32}},
		{"path_unlink_file", []api.ValueType{i32, i32, i32}},
		{"path_readlink", []api.ValueType{i32, i32, i32, i32, i32, i32}},
		{"path_rename", []api.ValueType{i32, i32, i32, i32, i32, i32}},
		{"path_symlink", []api.ValueType{i32, i32, i32, i32, i32}},
		{"path_link", []api.ValueType{i32, i32, i32, i32, i32, i32, i32}},
		{"sock_accept", []api.ValueType{i32, i32, i32}},
		{"sock_recv", []api.ValueType{i32, i32, i32, i32, i32, i32}},
		{"sock_send", []api.ValueType{i32, i32, i32, i32, i32}},
		{"sock_shutdown", []api.ValueType{i32, i32}},
	} {
		funcs = append(funcs, hostFunc{stub.name, stub.params, []api.ValueType{i32},
			func(_ *Host, _ guestmem.Memory, stack []uint64) {
				errnoResult(stack, ErrnoNotsup)
			}})
	}

	return funcs
}

// Instantiate registers the emulated wasi_snapshot_preview1 module on
// r, closing over h. Each binding re-acquires the caller's memory view
// on entry; nothing is cached between calls.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(Namespace)

	for _, f := range table() {
		impl := f.fn
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
				impl(h, guestmem.Wrap(mod.Memory()), stack)
			}), f.params, f.results).
			Export(f.name)
	}

	return builder.Instantiate(ctx)
}
