// internal/registry/decode.go
package registry

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeError reports a word-count mismatch between a raw read and the
// register's declared type. Recoverable: drop the register, keep the batch.
type DecodeError struct {
	Type DataType
	Want uint16
	Got  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("registry: decoding %s: want %d words, got %d", e.Type, e.Want, e.Got)
}

// Decode converts a raw word range into a typed value.
//
// One-word integer types take the first word verbatim. All wider types use
// the device's canonical byte rule: each word contributes its two bytes
// big-endian, words concatenate in input order, the whole buffer is then
// reversed and reinterpreted as a little-endian value (or, for Sized, kept
// as the reversed 66-byte blob). The reversal is part of the wire format.
//
// Boolean is true exactly when the word is the all-ones pattern, i.e.
// ^words[0] == 0. The device firmware encodes it that way; a plain
// "nonzero means true" decode is not equivalent.
func Decode(words []uint16, t DataType) (Value, error) {
	if want := t.Words(); len(words) != int(want) {
		return nil, &DecodeError{Type: t, Want: want, Got: len(words)}
	}

	switch t {
	case UInt16:
		return U16(words[0]), nil
	case Enum16:
		return Enum(words[0]), nil
	case Boolean:
		return Bool(^words[0] == 0), nil
	}

	buf := assemble(words)

	switch t {
	case UInt32:
		return U32(binary.LittleEndian.Uint32(buf)), nil
	case Int32:
		return S32(int32(binary.LittleEndian.Uint32(buf))), nil
	case UInt64:
		return U64(binary.LittleEndian.Uint64(buf)), nil
	case UInt128:
		return U128{
			Lo: binary.LittleEndian.Uint64(buf[0:8]),
			Hi: binary.LittleEndian.Uint64(buf[8:16]),
		}, nil
	case Float32:
		return F32(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
	case Sized:
		var b Blob
		copy(b[:], buf)
		return b, nil
	default:
		return nil, &DecodeError{Type: t, Want: t.Words(), Got: len(words)}
	}
}

// assemble flattens words to big-endian bytes and reverses the whole buffer.
func assemble(words []uint16) []byte {
	buf := make([]byte, 0, 2*len(words))
	for _, w := range words {
		buf = append(buf, byte(w>>8), byte(w))
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
