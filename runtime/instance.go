package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/jrmarcum/wasmtk/errors"
)

// Entry point names recognized by Run. WASI reactors export
// _initialize; commands export _start.
const (
	entryInitialize = "_initialize"
	entryStart      = "_start"
)

// Instance is one instantiated module.
type Instance struct {
	mod     api.Module
	runtime *Runtime
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.CloseWithExitCode(ctx, 0)
}

// Run executes the module's default entry point: _initialize when
// exported, otherwise _start. A module exporting neither yields a
// not-found error.
//
// A guest exit with code 0 is normal termination and returns nil. Any
// other exit, and any abort, returns *errors.ExitError.
func (i *Instance) Run(ctx context.Context) error {
	name := entryInitialize
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		name = entryStart
		fn = i.mod.ExportedFunction(name)
	}
	if fn == nil {
		return errors.FunctionNotFound(entryStart)
	}

	Logger().Debug("running entry point", zap.String("name", name))
	_, err := fn.Call(ctx)
	return i.translate(err)
}

// Invoke calls the named export with string arguments coerced to the
// export's parameter types. Unparsable and missing arguments become
// zero; surplus arguments are ignored. When the export returns values,
// a "Result: <v>" line is printed to the guest's standard output, and
// the raw values are returned for programmatic use.
func (i *Instance) Invoke(ctx context.Context, name string, args []string) ([]uint64, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.FunctionNotFound(name)
	}

	def := fn.Definition()
	params := make([]uint64, len(def.ParamTypes()))
	for n, t := range def.ParamTypes() {
		if n < len(args) {
			params[n] = coerce(args[n], t)
		}
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, i.translate(err)
	}

	if len(results) > 0 {
		fmt.Fprintf(i.runtime.host.Environment().Stdout(), "Result: %s\n",
			formatValues(def.ResultTypes(), results))
	}
	return results, nil
}

// translate maps a wazero call error onto the toolkit's error taxonomy.
func (i *Instance) translate(err error) error {
	if err == nil {
		return nil
	}

	var exit *sys.ExitError
	if errors.As(err, &exit) {
		if aborted, msg := i.runtime.abort.take(); aborted {
			return &errors.ExitError{Code: exit.ExitCode(), Aborted: true, Message: msg}
		}
		if exit.ExitCode() == 0 {
			return nil
		}
		return &errors.ExitError{Code: exit.ExitCode()}
	}
	return errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call guest function")
}

func formatValues(types []api.ValueType, values []uint64) string {
	parts := make([]string, len(values))
	for n, v := range values {
		t := api.ValueTypeI64
		if n < len(types) {
			t = types[n]
		}
		parts[n] = formatValue(t, v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(t api.ValueType, raw uint64) string {
	switch t {
	case api.ValueTypeI32:
		return fmt.Sprintf("%d", api.DecodeI32(raw))
	case api.ValueTypeI64:
		return fmt.Sprintf("%d", int64(raw))
	case api.ValueTypeF32:
		return fmt.Sprintf("%g", api.DecodeF32(raw))
	case api.ValueTypeF64:
		return fmt.Sprintf("%g", api.DecodeF64(raw))
	}
	return fmt.Sprintf("%d", raw)
}
