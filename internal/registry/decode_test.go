// internal/registry/decode_test.go
package registry

import (
	"errors"
	"math"
	"testing"
)

// wordsForLE builds the wire words for a little-endian byte image by
// inverting the decoder's byte rule: reverse the buffer, then pack
// big-endian word pairs.
func wordsForLE(le []byte) []uint16 {
	n := len(le)
	rev := make([]byte, n)
	for i, b := range le {
		rev[n-1-i] = b
	}
	out := make([]uint16, n/2)
	for i := range out {
		out[i] = uint16(rev[2*i])<<8 | uint16(rev[2*i+1])
	}
	return out
}

func TestDecode_UInt16(t *testing.T) {
	v, err := Decode([]uint16{0xBEEF}, UInt16)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if v.(U16) != 0xBEEF {
		t.Errorf("got %#x, want 0xBEEF", v)
	}
}

func TestDecode_Enum16(t *testing.T) {
	v, err := Decode([]uint16{7}, Enum16)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if v.(Enum) != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestDecode_UInt32RoundTrip(t *testing.T) {
	const want = uint32(0x01020304)
	le := []byte{0x04, 0x03, 0x02, 0x01}

	words := wordsForLE(le)
	// Sanity: the canonical rule yields plain big-endian words here.
	if words[0] != 0x0102 || words[1] != 0x0304 {
		t.Fatalf("words=%#v", words)
	}

	v, err := Decode(words, UInt32)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if uint32(v.(U32)) != want {
		t.Errorf("got %#x, want %#x", v, want)
	}
}

func TestDecode_Int32(t *testing.T) {
	const want = int32(-1234567)
	le := make([]byte, 4)
	w := want
	u := uint32(w)
	le[0], le[1], le[2], le[3] = byte(u), byte(u>>8), byte(u>>16), byte(u>>24)

	v, err := Decode(wordsForLE(le), Int32)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if int32(v.(S32)) != want {
		t.Errorf("got %d, want %d", v, want)
	}
}

func TestDecode_UInt64(t *testing.T) {
	const want = uint64(0x1122334455667788)
	le := make([]byte, 8)
	for i := 0; i < 8; i++ {
		le[i] = byte(want >> (8 * i))
	}

	v, err := Decode(wordsForLE(le), UInt64)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if uint64(v.(U64)) != want {
		t.Errorf("got %#x, want %#x", v, want)
	}
}

func TestDecode_UInt128(t *testing.T) {
	const hi = uint64(0x0102030405060708)
	const lo = uint64(0x090A0B0C0D0E0F10)
	le := make([]byte, 16)
	for i := 0; i < 8; i++ {
		le[i] = byte(lo >> (8 * i))
		le[8+i] = byte(hi >> (8 * i))
	}

	v, err := Decode(wordsForLE(le), UInt128)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	got := v.(U128)
	if got.Hi != hi || got.Lo != lo {
		t.Errorf("got hi=%#x lo=%#x, want hi=%#x lo=%#x", got.Hi, got.Lo, hi, lo)
	}
}

func TestDecode_Float32RoundTrip(t *testing.T) {
	const want = float32(3.14)
	bits := math.Float32bits(want)
	le := []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}

	v, err := Decode(wordsForLE(le), Float32)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if float32(v.(F32)) != want {
		t.Errorf("got %v, want %v", v, want)
	}
}

// The firmware's boolean encoding: only the all-ones word is true.
// A nonzero word like 0x0001 decodes to false. Observed device behaviour,
// kept bit-for-bit.
func TestDecode_Boolean(t *testing.T) {
	cases := []struct {
		word uint16
		want bool
	}{
		{0x0000, false},
		{0xFFFF, true},
		{0x0001, false},
		{0xFFFE, false},
	}

	for _, tc := range cases {
		v, err := Decode([]uint16{tc.word}, Boolean)
		if err != nil {
			t.Fatalf("Decode(%#x) err=%v", tc.word, err)
		}
		if bool(v.(Bool)) != tc.want {
			t.Errorf("Decode(%#x) = %v, want %v", tc.word, v, tc.want)
		}
	}
}

func TestDecode_SizedRoundTrip(t *testing.T) {
	var want Blob
	for i := range want {
		want[i] = byte(i * 3)
	}

	v, err := Decode(wordsForLE(want[:]), Sized)
	if err != nil {
		t.Fatalf("Decode() err=%v", err)
	}
	if v.(Blob) != want {
		t.Errorf("blob mismatch")
	}
}

func TestDecode_WordCountMismatch(t *testing.T) {
	cases := []struct {
		typ   DataType
		words int
	}{
		{UInt32, 1},
		{UInt64, 2},
		{Sized, 32},
		{UInt16, 2},
		{Boolean, 0},
	}

	for _, tc := range cases {
		_, err := Decode(make([]uint16, tc.words), tc.typ)
		if err == nil {
			t.Fatalf("Decode(%s, %d words): expected error", tc.typ, tc.words)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("Decode(%s, %d words): err=%T, want *DecodeError", tc.typ, tc.words, err)
		}
		if de.Got != tc.words {
			t.Errorf("DecodeError.Got=%d, want %d", de.Got, tc.words)
		}
	}
}

func TestAsFloat(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
		ok   bool
	}{
		{U16(42), 42, true},
		{U32(100000), 100000, true},
		{U64(1 << 40), float64(uint64(1) << 40), true},
		{S32(-5), -5, true},
		{Enum(3), 3, true},
		{F32(1.5), 1.5, true},
		{Bool(true), 1, true},
		{Bool(false), 0, true},
		{Blob{}, 0, false},
	}

	for _, tc := range cases {
		got, ok := AsFloat(tc.v)
		if ok != tc.ok || got != tc.want {
			t.Errorf("AsFloat(%v) = (%v, %v), want (%v, %v)", tc.v, got, ok, tc.want, tc.ok)
		}
	}
}
