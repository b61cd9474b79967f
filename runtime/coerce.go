package runtime

import (
	"strconv"

	"github.com/tetratelabs/wazero/api"
)

// coerce converts one string argument to the raw stack encoding of the
// target value type. The policy is parse-or-default: anything that does
// not parse as a number becomes zero. Integer targets also accept
// floating-point text, truncated toward zero.
func coerce(s string, t api.ValueType) uint64 {
	switch t {
	case api.ValueTypeI32:
		return api.EncodeI32(int32(parseInteger(s)))
	case api.ValueTypeI64:
		return api.EncodeI64(parseInteger(s))
	case api.ValueTypeF32:
		return api.EncodeF32(float32(parseFloat(s)))
	case api.ValueTypeF64:
		return api.EncodeF64(parseFloat(s))
	}
	return 0
}

func parseInteger(s string) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// Large unsigned values still fit the 64-bit stack slot.
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return int64(v)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}

func parseFloat(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return 0
}
