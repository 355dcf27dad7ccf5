// internal/registry/value.go
package registry

import "math"

// Value is the decoded form of one register, tagged by DataType.
// Exactly one concrete type exists per DataType.
type Value interface {
	Type() DataType
}

type U16 uint16

func (U16) Type() DataType { return UInt16 }

type U32 uint32

func (U32) Type() DataType { return UInt32 }

type U64 uint64

func (U64) Type() DataType { return UInt64 }

// U128 is a 128-bit unsigned integer in two 64-bit halves.
type U128 struct {
	Hi, Lo uint64
}

func (U128) Type() DataType { return UInt128 }

type S32 int32

func (S32) Type() DataType { return Int32 }

type Enum uint16

func (Enum) Type() DataType { return Enum16 }

type F32 float32

func (F32) Type() DataType { return Float32 }

type Bool bool

func (Bool) Type() DataType { return Boolean }

// Blob is the fixed 66-byte payload of a Sized register.
type Blob [66]byte

func (Blob) Type() DataType { return Sized }

// AsFloat coerces a Value to float64 for gauge-style consumers.
// Blobs are not coercible; 128-bit values lose precision above 2^53.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case U16:
		return float64(x), true
	case U32:
		return float64(x), true
	case U64:
		return float64(x), true
	case U128:
		return float64(x.Hi)*math.Exp2(64) + float64(x.Lo), true
	case S32:
		return float64(x), true
	case Enum:
		return float64(x), true
	case F32:
		return float64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
