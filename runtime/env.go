package runtime

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/jrmarcum/wasmtk/guestmem"
)

// envNamespace is the auxiliary import namespace carrying the console
// bridge and the abort hook.
const envNamespace = "env"

// abortExitCode is the exit code carried by the signal raised from the
// abort hook.
const abortExitCode = 255

// instantiateEnv registers the env namespace:
//
//	log(ptr i32)                      console bridge
//	abort(msg, file, line, col i32)   guest abort hook
//
// log reads a length-prefixed string (u32 length, then bytes) and prints
// it through the host's configured stdout writer. abort records the
// message, if readable, and raises the exit signal.
func (r *Runtime) instantiateEnv(ctx context.Context) error {
	_, err := r.wazero.NewHostModuleBuilder(envNamespace).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.envLog),
			[]api.ValueType{api.ValueTypeI32}, nil).
		Export("log").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.envAbort),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("abort").
		Instantiate(ctx)
	return err
}

func (r *Runtime) envLog(_ context.Context, mod api.Module, stack []uint64) {
	mem := guestmem.Wrap(mod.Memory())
	msg, err := guestmem.ReadPrefixedString(mem, uint32(stack[0]))
	if err != nil {
		Logger().Warn("log: unreadable message", zap.Error(err))
		return
	}
	fmt.Fprintln(r.host.Environment().Stdout(), msg)
}

func (r *Runtime) envAbort(_ context.Context, mod api.Module, stack []uint64) {
	mem := guestmem.Wrap(mod.Memory())
	msg, err := guestmem.ReadPrefixedString(mem, uint32(stack[0]))
	if err != nil {
		msg = ""
	}
	r.abort.record(msg)
	panic(sys.NewExitError(abortExitCode))
}
