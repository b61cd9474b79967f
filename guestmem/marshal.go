package guestmem

// IOVec is one guest scatter/gather descriptor: a pointer into linear
// memory and a byte count.
type IOVec struct {
	Ptr uint32
	Len uint32
}

const iovecStride = 8

// ReadIOVecs reads count descriptor pairs starting at arrayPtr. Each
// pair is two little-endian u32 fields, 8 bytes per entry.
func ReadIOVecs(m Memory, arrayPtr, count uint32) ([]IOVec, error) {
	vecs := make([]IOVec, 0, count)
	for i := uint32(0); i < count; i++ {
		base := arrayPtr + i*iovecStride
		ptr, err := m.ReadU32(base)
		if err != nil {
			return nil, err
		}
		length, err := m.ReadU32(base + 4)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, IOVec{Ptr: ptr, Len: length})
	}
	return vecs, nil
}

// ReadString reads a pointer+length string from guest memory.
func ReadString(m Memory, ptr, length uint32) (string, error) {
	b, err := m.Read(ptr, length)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadPrefixedString reads a string stored as a u32 byte length
// followed by the bytes, the wire format of the console bridge.
func ReadPrefixedString(m Memory, ptr uint32) (string, error) {
	length, err := m.ReadU32(ptr)
	if err != nil {
		return "", err
	}
	return ReadString(m, ptr+4, length)
}

// WriteCString writes s plus a trailing NUL at ptr and returns the
// number of bytes written, as needed when serializing argument and
// environment blocks into guest memory.
func WriteCString(m Memory, ptr uint32, s string) (uint32, error) {
	data := make([]byte, len(s)+1)
	copy(data, s)
	if err := m.Write(ptr, data); err != nil {
		return 0, err
	}
	return uint32(len(data)), nil
}
