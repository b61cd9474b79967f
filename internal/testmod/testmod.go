// Package testmod builds minimal WebAssembly binaries used by tests
// across the toolkit. The modules are assembled byte-by-byte so tests
// do not depend on an external assembler.
package testmod

import "bytes"

func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
}

func section(id byte, payload []byte) []byte {
	// Single-byte LEB length; all test sections are well under 128 bytes.
	out := []byte{id, byte(len(payload))}
	return append(out, payload...)
}

func name(s string) []byte {
	out := []byte{byte(len(s))}
	return append(out, s...)
}

// AddModule exports add(i32, i32) -> i32 and a one-page memory. It has
// no imports, so it reads as a plain library with no WASI surface.
func AddModule() []byte {
	var b bytes.Buffer
	b.Write(header())
	// (i32, i32) -> (i32)
	b.Write(section(1, []byte{0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F}))
	b.Write(section(3, []byte{0x01, 0x00}))
	b.Write(section(5, []byte{0x01, 0x00, 0x01}))

	var exp bytes.Buffer
	exp.WriteByte(0x02)
	exp.Write(name("add"))
	exp.Write([]byte{0x00, 0x00})
	exp.Write(name("memory"))
	exp.Write([]byte{0x02, 0x00})
	b.Write(section(7, exp.Bytes()))

	// local.get 0, local.get 1, i32.add
	b.Write(section(10, []byte{0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}))
	return b.Bytes()
}

// ExitModule exports _start, which calls
// wasi_snapshot_preview1.proc_exit with the given code.
func ExitModule(code byte) []byte {
	var b bytes.Buffer
	b.Write(header())
	// type 0: (i32) -> (), type 1: () -> ()
	b.Write(section(1, []byte{0x02, 0x60, 0x01, 0x7F, 0x00, 0x60, 0x00, 0x00}))

	var imp bytes.Buffer
	imp.WriteByte(0x01)
	imp.Write(name("wasi_snapshot_preview1"))
	imp.Write(name("proc_exit"))
	imp.Write([]byte{0x00, 0x00})
	b.Write(section(2, imp.Bytes()))

	b.Write(section(3, []byte{0x01, 0x01}))

	var exp bytes.Buffer
	exp.WriteByte(0x01)
	exp.Write(name("_start"))
	exp.Write([]byte{0x00, 0x01})
	b.Write(section(7, exp.Bytes()))

	// i32.const code, call 0
	b.Write(section(10, []byte{0x01, 0x06, 0x00, 0x41, code, 0x10, 0x00, 0x0B}))
	return b.Bytes()
}

// NoExportsModule declares one private function and exports nothing.
func NoExportsModule() []byte {
	var b bytes.Buffer
	b.Write(header())
	b.Write(section(1, []byte{0x01, 0x60, 0x00, 0x00}))
	b.Write(section(3, []byte{0x01, 0x00}))
	b.Write(section(7, []byte{0x00}))
	b.Write(section(10, []byte{0x01, 0x03, 0x00, 0x01, 0x0B})) // nop
	return b.Bytes()
}

// GlueModule exports a public function alongside compiler glue names
// that introspection is expected to hide, plus a named custom section.
func GlueModule() []byte {
	var b bytes.Buffer
	b.Write(header())
	// type 0: () -> (i64)
	b.Write(section(1, []byte{0x01, 0x60, 0x00, 0x01, 0x7E}))
	b.Write(section(3, []byte{0x04, 0x00, 0x00, 0x00, 0x00}))

	var exp bytes.Buffer
	exp.WriteByte(0x04)
	exp.Write(name("ticks"))
	exp.Write([]byte{0x00, 0x00})
	exp.Write(name("__data_end"))
	exp.Write([]byte{0x00, 0x01})
	exp.Write(name("cabi_realloc"))
	exp.Write([]byte{0x00, 0x02})
	exp.Write(name("ticks_config_schema"))
	exp.Write([]byte{0x00, 0x03})
	b.Write(section(7, exp.Bytes()))

	body := []byte{0x04, 0x00, 0x42, 0x2A, 0x0B} // i64.const 42
	var code bytes.Buffer
	code.WriteByte(0x04)
	for i := 0; i < 4; i++ {
		code.Write(body)
	}
	b.Write(section(10, code.Bytes()))

	var custom bytes.Buffer
	custom.Write(name("producers"))
	custom.WriteString("test")
	b.Write(section(0, custom.Bytes()))
	return b.Bytes()
}
