package wasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/jrmarcum/wasmtk/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ParseModule parses a WebAssembly binary module. Only the sections
// needed for introspection and export surgery are decoded structurally;
// everything else is retained as opaque payload.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	m := &Module{}

	for {
		sectionID, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, r.WrapError("section header", err)
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}

		sectionData, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, r.WrapError("section data", err)
		}

		sec := Section{ID: sectionID, Data: sectionData}
		sr := binary.NewReader(sectionData)

		switch sectionID {
		case SectionCustom:
			name, err := sr.ReadName()
			if err != nil {
				return nil, fmt.Errorf("custom section name: %w", err)
			}
			sec.Name = name
		case SectionType:
			if err := parseTypeSection(sr, m); err != nil {
				return nil, fmt.Errorf("type section: %w", err)
			}
		case SectionImport:
			if err := parseImportSection(sr, m); err != nil {
				return nil, fmt.Errorf("import section: %w", err)
			}
		case SectionFunction:
			if err := parseFunctionSection(sr, m); err != nil {
				return nil, fmt.Errorf("function section: %w", err)
			}
		case SectionExport:
			if err := parseExportSection(sr, m); err != nil {
				return nil, fmt.Errorf("export section: %w", err)
			}
		}

		m.Sections = append(m.Sections, sec)
	}

	// Signatures resolve only once the function section is known.
	for i := range m.Exports {
		if m.Exports[i].Kind == KindFunc {
			m.Exports[i].Type = m.FuncTypeAt(m.Exports[i].Index)
		}
	}

	return m, nil
}

func parseTypeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}

	m.Types = make([]FuncType, 0, count)
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return err
		}
		if form != FuncTypeByte {
			return fmt.Errorf("type %d: unsupported form 0x%02x", i, form)
		}

		params, err := readValTypes(r)
		if err != nil {
			return fmt.Errorf("type %d params: %w", i, err)
		}
		results, err := readValTypes(r)
		if err != nil {
			return fmt.Errorf("type %d results: %w", i, err)
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func readValTypes(r *binary.Reader) ([]ValType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	types := make([]ValType, count)
	for i := uint32(0); i < count; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		types[i] = ValType(b)
	}
	return types, nil
}

func parseImportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}

	m.Imports = make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return fmt.Errorf("import %d module: %w", i, err)
		}
		name, err := r.ReadName()
		if err != nil {
			return fmt.Errorf("import %d name: %w", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}

		imp := Import{Module: module, Name: name, Kind: ExportKind(kind)}
		descStart := r.Position()

		switch ExportKind(kind) {
		case KindFunc:
			imp.TypeIdx, err = r.ReadU32()
		case KindTable:
			if _, err = r.ReadByte(); err == nil { // reftype
				err = skipLimits(r)
			}
		case KindMemory:
			err = skipLimits(r)
		case KindGlobal:
			if _, err = r.ReadByte(); err == nil { // valtype
				_, err = r.ReadByte() // mutability
			}
		default:
			return fmt.Errorf("import %d: unknown kind 0x%02x", i, kind)
		}
		if err != nil {
			return fmt.Errorf("import %d descriptor: %w", i, err)
		}

		if imp.Kind != KindFunc {
			imp.Desc = append([]byte(nil), r.Slice(descStart, r.Position())...)
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func skipLimits(r *binary.Reader) error {
	flags, err := r.ReadByte()
	if err != nil {
		return err
	}
	if _, err := r.ReadU32(); err != nil { // min
		return err
	}
	if flags&0x01 != 0 {
		if _, err := r.ReadU32(); err != nil { // max
			return err
		}
	}
	return nil
}

func parseFunctionSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Funcs = make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		if m.Funcs[i], err = r.ReadU32(); err != nil {
			return fmt.Errorf("func %d: %w", i, err)
		}
	}
	return nil
}

func parseExportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}

	m.Exports = make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return fmt.Errorf("export %d name: %w", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		index, err := r.ReadU32()
		if err != nil {
			return fmt.Errorf("export %d index: %w", i, err)
		}
		m.Exports = append(m.Exports, Export{
			Name:  name,
			Kind:  ExportKind(kind),
			Index: index,
		})
	}
	return nil
}
