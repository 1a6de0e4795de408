package schema

import (
	"math"

	"github.com/riverdb/recordstore/internal/alias/bx"
)

// Little-endian is the native encoding for fixed-width attribute
// values; cross-platform compatibility is not a goal here, only a
// consistent read/write encoding within one file.
func le32(b []byte) uint32       { return bx.U32(b) }
func putLE32(b []byte, v uint32) { bx.PutU32(b, v) }
func le64(b []byte) uint64       { return bx.U64(b) }
func putLE64(b []byte, v uint64) { bx.PutU64(b, v) }

func floatToBits64(f float64) uint64 { return math.Float64bits(f) }
func bitsToFloat64(b uint64) float64 { return math.Float64frombits(b) }

func asInt32(v any) (int32, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		return int32(x), true
	case int64:
		return int32(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}
