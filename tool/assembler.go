package tool

import (
	"context"
	"fmt"

	"github.com/jrmarcum/wasmtk/errors"
)

// DefaultWat2Wasm and DefaultWasm2Wat are the binaries used when no
// override is configured.
const (
	DefaultWat2Wasm = "wat2wasm"
	DefaultWasm2Wat = "wasm2wat"
)

// Assembler converts WebAssembly text source into binary modules.
type Assembler struct {
	runner Runner
	binary string
}

// NewAssembler builds an Assembler. An empty binary selects
// DefaultWat2Wasm; a nil runner selects ExecRunner.
func NewAssembler(runner Runner, binary string) *Assembler {
	if runner == nil {
		runner = ExecRunner{}
	}
	if binary == "" {
		binary = DefaultWat2Wasm
	}
	return &Assembler{runner: runner, binary: binary}
}

// Assemble translates the text module at watPath into a binary module at
// wasmPath. Tool diagnostics are preserved verbatim in the returned error.
func (a *Assembler) Assemble(ctx context.Context, watPath, wasmPath string) error {
	res, err := a.runner.Run(ctx, a.binary, watPath, "-o", wasmPath)
	if err != nil {
		return errors.IO(errors.PhaseAssemble, fmt.Sprintf("run %s", a.binary), err)
	}
	if res.ExitCode != 0 {
		return errors.Compilation(a.binary, string(res.Stderr))
	}
	return nil
}

// Disassembler converts binary modules back into WebAssembly text.
type Disassembler struct {
	runner Runner
	binary string
}

// NewDisassembler builds a Disassembler. An empty binary selects
// DefaultWasm2Wat; a nil runner selects ExecRunner.
func NewDisassembler(runner Runner, binary string) *Disassembler {
	if runner == nil {
		runner = ExecRunner{}
	}
	if binary == "" {
		binary = DefaultWasm2Wat
	}
	return &Disassembler{runner: runner, binary: binary}
}

// Disassemble renders the binary module at wasmPath as text.
func (d *Disassembler) Disassemble(ctx context.Context, wasmPath string) (string, error) {
	res, err := d.runner.Run(ctx, d.binary, wasmPath)
	if err != nil {
		return "", errors.IO(errors.PhaseConvert, fmt.Sprintf("run %s", d.binary), err)
	}
	if res.ExitCode != 0 {
		return "", errors.Compilation(d.binary, string(res.Stderr))
	}
	return string(res.Stdout), nil
}
