// Package loader turns module paths into WebAssembly binaries.
//
// Binary modules are read directly. Text modules (.wat, .wast) are
// assembled through an external assembler into a temporary file that is
// always removed before Load returns, on success and failure alike.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrmarcum/wasmtk/errors"
	"github.com/jrmarcum/wasmtk/tool"
)

// Loader reads module files and assembles text format on demand.
type Loader struct {
	assembler *tool.Assembler
}

// New builds a Loader. A nil assembler selects the default wat2wasm
// configuration.
func New(assembler *tool.Assembler) *Loader {
	if assembler == nil {
		assembler = tool.NewAssembler(nil, "")
	}
	return &Loader{assembler: assembler}
}

// IsText reports whether path names a text-format module by extension.
func IsText(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wat", ".wast":
		return true
	}
	return false
}

// Load returns the binary encoding of the module at path, assembling
// text format transparently.
func (l *Loader) Load(ctx context.Context, path string) ([]byte, error) {
	if !IsText(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.IO(errors.PhaseLoad, "read module", err)
		}
		return data, nil
	}
	return l.assemble(ctx, path)
}

// removeFile is swapped out in tests to exercise cleanup failures.
var removeFile = os.Remove

func (l *Loader) assemble(ctx context.Context, watPath string) (data []byte, err error) {
	tmp, err := os.CreateTemp("", "wasmtk-*.wasm")
	if err != nil {
		return nil, errors.IO(errors.PhaseAssemble, "create temp output", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer func() {
		// The temp artifact never outlives Load. A failed removal is
		// reported unless an earlier error is already pending.
		if rmErr := removeFile(tmpPath); rmErr != nil && err == nil {
			data = nil
			err = errors.IO(errors.PhaseAssemble, "remove temp output", rmErr)
		}
	}()

	if err := l.assembler.Assemble(ctx, watPath, tmpPath); err != nil {
		return nil, err
	}

	data, err = os.ReadFile(tmpPath)
	if err != nil {
		return nil, errors.IO(errors.PhaseAssemble, "read assembled output", err)
	}
	return data, nil
}
