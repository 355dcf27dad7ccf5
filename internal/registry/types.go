// internal/registry/types.go
package registry

import "fmt"

// Group names one register table on the device.
type Group string

const (
	GroupInput   Group = "input"   // FC 4
	GroupHolding Group = "holding" // FC 3
)

// DataType is the closed set of register encodings the device exposes.
type DataType int

const (
	UInt16 DataType = iota
	UInt32
	UInt64
	UInt128
	Int32
	Enum16
	Sized // fixed 66-byte blob
	Float32
	Boolean
)

// Type strings as they appear in the device's register definition dumps.
// These are wire format: do not normalise them.
const (
	typeNameUInt16  = "UInt16"
	typeNameUInt32  = "UInt32"
	typeNameUInt64  = "UInt64"
	typeNameUInt128 = "UInt128"
	typeNameInt32   = "Int32"
	typeNameEnum16  = "Enum16"
	typeNameSized   = "Sized+Uint16[31]"
	typeNameFloat32 = "IEEE-754 float32"
	typeNameBoolean = "boolean"
)

// ParseDataType maps a definition-file type string to its DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case typeNameUInt16:
		return UInt16, nil
	case typeNameUInt32:
		return UInt32, nil
	case typeNameUInt64:
		return UInt64, nil
	case typeNameUInt128:
		return UInt128, nil
	case typeNameInt32:
		return Int32, nil
	case typeNameEnum16:
		return Enum16, nil
	case typeNameSized:
		return Sized, nil
	case typeNameFloat32:
		return Float32, nil
	case typeNameBoolean:
		return Boolean, nil
	default:
		return 0, fmt.Errorf("registry: unknown data type %q", s)
	}
}

// String returns the definition-file spelling of the type.
func (t DataType) String() string {
	switch t {
	case UInt16:
		return typeNameUInt16
	case UInt32:
		return typeNameUInt32
	case UInt64:
		return typeNameUInt64
	case UInt128:
		return typeNameUInt128
	case Int32:
		return typeNameInt32
	case Enum16:
		return typeNameEnum16
	case Sized:
		return typeNameSized
	case Float32:
		return typeNameFloat32
	case Boolean:
		return typeNameBoolean
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Words is the exact word count the decoder expects for the type.
func (t DataType) Words() uint16 {
	switch t {
	case UInt16, Enum16, Boolean:
		return 1
	case UInt32, Int32, Float32:
		return 2
	case UInt64:
		return 4
	case UInt128:
		return 8
	case Sized:
		return 33 // 66 bytes
	default:
		return 0
	}
}

// Register is one named, addressed unit of device state.
// Words is derived from the definition file's bit length (len/16, truncating).
type Register struct {
	Name  string
	Addr  uint16
	Words uint16
	Type  DataType
}
