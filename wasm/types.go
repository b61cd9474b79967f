package wasm

// Binary format constants.
const (
	Magic   uint32 = 0x6D736100 // "\0asm"
	Version uint32 = 1
)

// Section IDs.
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionTable    byte = 4
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionStart    byte = 8
	SectionElement  byte = 9
	SectionCode     byte = 10
	SectionData     byte = 11
)

// FuncTypeByte prefixes each function type in the type section.
const FuncTypeByte byte = 0x60

// ValType is a WebAssembly value type.
type ValType byte

const (
	ValI32       ValType = 0x7F
	ValI64       ValType = 0x7E
	ValF32       ValType = 0x7D
	ValF64       ValType = 0x7C
	ValV128      ValType = 0x7B
	ValFuncRef   ValType = 0x70
	ValExternRef ValType = 0x6F
)

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExternRef:
		return "externref"
	default:
		return "unknown"
	}
}

// ExportKind identifies what an export or import descriptor refers to.
type ExportKind byte

const (
	KindFunc   ExportKind = 0
	KindTable  ExportKind = 1
	KindMemory ExportKind = 2
	KindGlobal ExportKind = 3
)

func (k ExportKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is one entry of the import section. TypeIdx is valid only for
// function-kind imports; other descriptors keep their raw bytes since
// only the kind matters for introspection.
type Import struct {
	Module  string
	Name    string
	Kind    ExportKind
	TypeIdx uint32
	Desc    []byte
}

// Export is one entry of the export table. Type is resolved for
// function-kind exports and nil otherwise.
type Export struct {
	Name  string
	Kind  ExportKind
	Index uint32
	Type  *FuncType
}

// Section is one raw section in original binary order.
type Section struct {
	ID   byte
	Name string // custom sections only
	Data []byte
}

// Module is a statically decoded WebAssembly module. It is immutable
// after decoding except through the rewriter.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type indices of declared functions
	Exports  []Export
	Sections []Section // every section, in original order
}

// FuncTypeAt resolves a function index against the index space formed
// by imported functions followed by declared functions.
func (m *Module) FuncTypeAt(index uint32) *FuncType {
	var imported uint32
	for i := range m.Imports {
		if m.Imports[i].Kind != KindFunc {
			continue
		}
		if imported == index {
			if ti := m.Imports[i].TypeIdx; int(ti) < len(m.Types) {
				return &m.Types[ti]
			}
			return nil
		}
		imported++
	}

	declared := index - imported
	if int(declared) < len(m.Funcs) {
		ti := m.Funcs[declared]
		if int(ti) < len(m.Types) {
			return &m.Types[ti]
		}
	}
	return nil
}

// ImportsModule reports whether any import names the given module.
func (m *Module) ImportsModule(name string) bool {
	for i := range m.Imports {
		if m.Imports[i].Module == name {
			return true
		}
	}
	return false
}
