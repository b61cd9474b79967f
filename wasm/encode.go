package wasm

import (
	"github.com/jrmarcum/wasmtk/wasm/internal/binary"
)

// Encode re-emits the module in WebAssembly binary format. Sections are
// written in their original order; the export section is regenerated
// from the parsed table so rewrites take effect, all other payloads are
// copied verbatim.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	for _, sec := range m.Sections {
		if sec.ID == SectionExport {
			writeSection(w, SectionExport, encodeExportSection(m.Exports))
			continue
		}
		writeSection(w, sec.ID, sec.Data)
	}

	return w.Bytes()
}

func writeSection(w *binary.Writer, id byte, payload []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
}

func encodeExportSection(exports []Export) []byte {
	sec := binary.NewWriter()
	sec.WriteU32(uint32(len(exports)))
	for _, e := range exports {
		sec.WriteName(e.Name)
		sec.Byte(byte(e.Kind))
		sec.WriteU32(e.Index)
	}
	return sec.Bytes()
}
