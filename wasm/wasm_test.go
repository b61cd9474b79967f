package wasm

import (
	"bytes"
	"testing"

	"github.com/jrmarcum/wasmtk/internal/testmod"
)

func TestParseModule_Add(t *testing.T) {
	m, err := ParseModule(testmod.AddModule())
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}

	if len(m.Exports) != 2 {
		t.Fatalf("got %d exports, want 2", len(m.Exports))
	}

	add := m.Exports[0]
	if add.Name != "add" || add.Kind != KindFunc {
		t.Fatalf("unexpected first export: %+v", add)
	}
	if add.Type == nil {
		t.Fatal("add export has no resolved signature")
	}
	if len(add.Type.Params) != 2 || add.Type.Params[0] != ValI32 || add.Type.Params[1] != ValI32 {
		t.Errorf("unexpected params: %v", add.Type.Params)
	}
	if len(add.Type.Results) != 1 || add.Type.Results[0] != ValI32 {
		t.Errorf("unexpected results: %v", add.Type.Results)
	}

	if mem := m.Exports[1]; mem.Name != "memory" || mem.Kind != KindMemory || mem.Type != nil {
		t.Errorf("unexpected memory export: %+v", mem)
	}
}

func TestParseModule_ImportedFunctionIndexSpace(t *testing.T) {
	m, err := ParseModule(testmod.ExitModule(0))
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}

	if len(m.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(m.Imports))
	}
	imp := m.Imports[0]
	if imp.Module != "wasi_snapshot_preview1" || imp.Name != "proc_exit" || imp.Kind != KindFunc {
		t.Fatalf("unexpected import: %+v", imp)
	}
	if !m.ImportsModule("wasi_snapshot_preview1") {
		t.Error("ImportsModule did not find WASI namespace")
	}

	// _start is declared function 0 but lives at index 1 because the
	// imported proc_exit occupies index 0.
	start := m.Exports[0]
	if start.Name != "_start" || start.Index != 1 {
		t.Fatalf("unexpected start export: %+v", start)
	}
	if start.Type == nil || len(start.Type.Params) != 0 || len(start.Type.Results) != 0 {
		t.Errorf("unexpected start signature: %+v", start.Type)
	}

	// The imported function resolves through its import type index.
	if ft := m.FuncTypeAt(0); ft == nil || len(ft.Params) != 1 || ft.Params[0] != ValI32 {
		t.Errorf("unexpected proc_exit signature: %+v", ft)
	}
}

func TestParseModule_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"bad version", []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}},
		{"truncated section", append(testmod.AddModule()[:12], 0xFF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseModule(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, bin := range [][]byte{testmod.AddModule(), testmod.ExitModule(1), testmod.GlueModule()} {
		m, err := ParseModule(bin)
		if err != nil {
			t.Fatalf("ParseModule: %v", err)
		}
		if got := m.Encode(); !bytes.Equal(got, bin) {
			t.Errorf("re-encoded module differs from original\n got: %x\nwant: %x", got, bin)
		}
	}
}

func TestRewrite_DropExport(t *testing.T) {
	out, err := Rewrite(testmod.ExitModule(0), Options{DropExports: []string{"_start"}})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	m, err := ParseModule(out)
	if err != nil {
		t.Fatalf("ParseModule after rewrite: %v", err)
	}
	for _, e := range m.Exports {
		if e.Name == "_start" {
			t.Error("_start export survived rewrite")
		}
	}
}

func TestRewrite_OptLevelDropsCustomSections(t *testing.T) {
	bin := testmod.GlueModule()

	kept, err := Rewrite(bin, Options{OptLevel: 0})
	if err != nil {
		t.Fatalf("Rewrite O0: %v", err)
	}
	stripped, err := Rewrite(bin, Options{OptLevel: 1})
	if err != nil {
		t.Fatalf("Rewrite O1: %v", err)
	}

	if len(stripped) >= len(kept) {
		t.Errorf("O1 output (%d bytes) not smaller than O0 output (%d bytes)", len(stripped), len(kept))
	}

	m, err := ParseModule(stripped)
	if err != nil {
		t.Fatalf("ParseModule after rewrite: %v", err)
	}
	for _, sec := range m.Sections {
		if sec.ID == SectionCustom {
			t.Error("custom section survived O1 rewrite")
		}
	}
	// The callable surface is untouched by shrinking.
	if len(m.Exports) != 4 {
		t.Errorf("got %d exports after O1, want 4", len(m.Exports))
	}
}

func TestRewrite_PreservesExportTable(t *testing.T) {
	bin := testmod.AddModule()
	out, err := Rewrite(bin, Options{OptLevel: 1})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	orig, _ := ParseModule(bin)
	got, err := ParseModule(out)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}

	if len(got.Exports) != len(orig.Exports) {
		t.Fatalf("export count changed: %d -> %d", len(orig.Exports), len(got.Exports))
	}
	for i := range got.Exports {
		if got.Exports[i].Name != orig.Exports[i].Name || got.Exports[i].Kind != orig.Exports[i].Kind {
			t.Errorf("export %d changed: %+v -> %+v", i, orig.Exports[i], got.Exports[i])
		}
	}
}

func TestValTypeString(t *testing.T) {
	tests := []struct {
		vt   ValType
		want string
	}{
		{ValI32, "i32"},
		{ValI64, "i64"},
		{ValF32, "f32"},
		{ValF64, "f64"},
		{ValV128, "v128"},
		{ValFuncRef, "funcref"},
		{ValExternRef, "externref"},
		{ValType(0x00), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.vt.String(); got != tt.want {
			t.Errorf("ValType(0x%02x).String() = %q, want %q", byte(tt.vt), got, tt.want)
		}
	}
}
