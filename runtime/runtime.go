package runtime

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/jrmarcum/wasmtk/errors"
	"github.com/jrmarcum/wasmtk/wasi"
)

// Runtime owns a wazero virtual machine with the WASI emulation and the
// auxiliary env namespace registered. One Runtime can instantiate any
// number of modules; all share the same host environment.
type Runtime struct {
	wazero wazero.Runtime
	host   *wasi.Host
	abort  *abortState
}

// New creates a Runtime with the host import surface registered.
// A nil environment selects the default sandbox: empty arguments and
// environment, process stdio.
func New(ctx context.Context, env *wasi.Environment) (*Runtime, error) {
	vm := wazero.NewRuntime(ctx)
	host := wasi.NewHost(env)

	if _, err := host.Instantiate(ctx, vm); err != nil {
		vm.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "register WASI host module")
	}

	r := &Runtime{
		wazero: vm,
		host:   host,
		abort:  &abortState{},
	}
	if err := r.instantiateEnv(ctx); err != nil {
		vm.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "register env host module")
	}
	return r, nil
}

// Host returns the WASI host backing this runtime.
func (r *Runtime) Host() *wasi.Host {
	return r.host
}

// Close releases all runtime resources, including any live instances.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wazero.Close(ctx)
}

// Instantiate compiles and instantiates a binary module without running
// its entry point.
func (r *Runtime) Instantiate(ctx context.Context, bin []byte) (*Instance, error) {
	compiled, err := r.wazero.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "compile module")
	}

	mod, err := r.wazero.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	Logger().Debug("module instantiated", zap.String("name", mod.Name()))
	return &Instance{mod: mod, runtime: r}, nil
}

// abortState records the most recent guest abort so the exit signal can
// carry its message across the VM boundary.
type abortState struct {
	mu      sync.Mutex
	aborted bool
	message string
}

func (a *abortState) record(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.aborted = true
	a.message = message
}

// take returns and clears the abort marker.
func (a *abortState) take() (bool, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	aborted, message := a.aborted, a.message
	a.aborted, a.message = false, ""
	return aborted, message
}
