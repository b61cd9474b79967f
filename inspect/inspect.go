// Package inspect reports the public surface of a WebAssembly module.
//
// The report is built from the static decoder alone; the module is never
// instantiated. Function-kind exports are filtered through a name-pattern
// list separating genuine API surface from compiler-generated glue, and
// each retained export carries its typed signature.
package inspect

import (
	"fmt"
	"strings"

	"github.com/jrmarcum/wasmtk/wasi"
	"github.com/jrmarcum/wasmtk/wasm"
)

// Filter classifies export names as internal. A name is internal when it
// matches any entry; the three pattern classes are checked in order.
type Filter struct {
	Exact      []string
	Prefixes   []string
	Substrings []string
}

// DefaultFilter hides entry points, the abort hook, double-underscore
// internals, canonical-ABI glue, and configuration-schema markers.
func DefaultFilter() *Filter {
	return &Filter{
		Exact:      []string{"_start", "_initialize", "abort"},
		Prefixes:   []string{"__", "cabi_"},
		Substrings: []string{"config_schema"},
	}
}

// Internal reports whether name matches the filter.
func (f *Filter) Internal(name string) bool {
	for _, e := range f.Exact {
		if name == e {
			return true
		}
	}
	for _, p := range f.Prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, s := range f.Substrings {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// Function is one public callable in the report.
type Function struct {
	Name    string
	Params  []wasm.ValType
	Results []wasm.ValType
}

// Signature renders the function as "name(i32, i32) -> i32", with void
// standing in for an empty result list.
func (f Function) Signature() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}

	result := "void"
	switch len(f.Results) {
	case 0:
	case 1:
		result = f.Results[0].String()
	default:
		rs := make([]string, len(f.Results))
		for i, r := range f.Results {
			rs[i] = r.String()
		}
		result = "(" + strings.Join(rs, ", ") + ")"
	}

	return fmt.Sprintf("%s(%s) -> %s", f.Name, strings.Join(params, ", "), result)
}

// Report describes a module's public surface.
type Report struct {
	Functions []Function
	WASI      bool
}

// Analyze builds a report from a decoded module. A nil filter selects
// DefaultFilter.
func Analyze(m *wasm.Module, filter *Filter) *Report {
	if filter == nil {
		filter = DefaultFilter()
	}

	r := &Report{WASI: m.ImportsModule(wasi.Namespace)}
	for _, exp := range m.Exports {
		if exp.Kind != wasm.KindFunc || exp.Type == nil {
			continue
		}
		if filter.Internal(exp.Name) {
			continue
		}
		r.Functions = append(r.Functions, Function{
			Name:    exp.Name,
			Params:  exp.Type.Params,
			Results: exp.Type.Results,
		})
	}
	return r
}

// Render formats the report for display. A module with no qualifying
// exports states so explicitly, distinct from a failed inspection.
func (r *Report) Render() string {
	var b strings.Builder

	if len(r.Functions) == 0 {
		b.WriteString("No public functions found.\n")
	} else {
		b.WriteString("Exported functions:\n")
		for _, f := range r.Functions {
			b.WriteString("  ")
			b.WriteString(f.Signature())
			b.WriteByte('\n')
		}
	}

	b.WriteString("WASI Support: ")
	if r.WASI {
		b.WriteString("Yes\n")
	} else {
		b.WriteString("No\n")
	}
	return b.String()
}
