package wasm

import (
	"github.com/jrmarcum/wasmtk/errors"
)

// Options controls Rewrite.
type Options struct {
	// DropExports names export entries to remove, typically a transient
	// start export left behind by a compiler toolchain.
	DropExports []string

	// OptLevel selects how aggressively the module is shrunk. Level 0
	// performs export surgery only; level 1 and above also removes
	// custom sections (name, producers, and similar metadata).
	OptLevel int
}

// Rewrite decodes bin, applies opts, and re-encodes the module. The
// result is a fresh byte slice; bin is never modified.
func Rewrite(bin []byte, opts Options) ([]byte, error) {
	m, err := ParseModule(bin)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRewrite, errors.KindInvalidData, err, "parse module")
	}

	if len(opts.DropExports) > 0 {
		drop := make(map[string]bool, len(opts.DropExports))
		for _, name := range opts.DropExports {
			drop[name] = true
		}
		kept := m.Exports[:0]
		for _, e := range m.Exports {
			if !drop[e.Name] {
				kept = append(kept, e)
			}
		}
		m.Exports = kept
	}

	if opts.OptLevel >= 1 {
		kept := m.Sections[:0]
		for _, sec := range m.Sections {
			if sec.ID != SectionCustom {
				kept = append(kept, sec)
			}
		}
		m.Sections = kept
	}

	return m.Encode(), nil
}
