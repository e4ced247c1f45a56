/*
DESCRIPTION
  field_test.go provides testing for field.go.
*/
package field

import (
	"testing"

	"github.com/jxlcore/jxlcore/bits"
)

// writeBits packs a sequence of (value, width) pairs MSB-first into bytes,
// for use as fixture input to a field.Reader under test.
func writeBits(pairs ...[2]int) []byte {
	var total int
	for _, p := range pairs {
		total += p[1]
	}
	out := make([]byte, (total+7)/8)
	pos := 0
	for _, p := range pairs {
		v, w := p[0], p[1]
		for i := w - 1; i >= 0; i-- {
			bit := (v >> uint(i)) & 1
			if bit == 1 {
				out[pos/8] |= 1 << uint(7-pos%8)
			}
			pos++
		}
	}
	return out
}

func TestU32RoundTrip(t *testing.T) {
	// Selector 2 -> BitsOffset(12, 4097); raw bits encode 5000-4097=903.
	buf := writeBits([2]int{2, 2}, [2]int{903, 12})
	r := NewReader(bits.NewReader(buf))
	got := r.U32(Val(0), BitsOffset(4, 1), BitsOffset(12, 4097), BitsOffset(30, 0))
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5000 {
		t.Fatalf("U32() = %d, want 5000", got)
	}
}

func TestU32ConstSelector(t *testing.T) {
	buf := writeBits([2]int{0, 2})
	r := NewReader(bits.NewReader(buf))
	got := r.U32(Val(0), BitsOffset(4, 1), BitsOffset(12, 4097), BitsOffset(30, 0))
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("U32() = %d, want 0", got)
	}
}

func TestU64Selectors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want uint64
	}{
		{"zero", writeBits([2]int{0, 2}), 0},
		{"small", writeBits([2]int{1, 2}, [2]int{5, 4}), 6},
		{"medium", writeBits([2]int{2, 2}, [2]int{10, 8}), 27},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewReader(bits.NewReader(test.buf))
			got := r.U64()
			if err := r.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("U64() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestPackedSignedRoundTrip(t *testing.T) {
	for v := int32(-50); v <= 50; v++ {
		u := PackSigned(v)
		got := PackedSigned(u)
		if got != v {
			t.Errorf("PackedSigned(PackSigned(%d)) = %d", v, got)
		}
	}
}

func TestF16Denormal(t *testing.T) {
	// sign=0, exp=0, mantissa=1 -> 1/2^24.
	buf := writeBits([2]int{0, 1}, [2]int{0, 5}, [2]int{1, 10})
	r := NewReader(bits.NewReader(buf))
	got := r.F16()
	want := float32(1.0 / (1 << 24))
	if got != want {
		t.Fatalf("F16() = %v, want %v", got, want)
	}
}

func TestF16InfNaNFails(t *testing.T) {
	buf := writeBits([2]int{0, 1}, [2]int{31, 5}, [2]int{0, 10})
	r := NewReader(bits.NewReader(buf))
	_ = r.F16()
	if r.Err() == nil {
		t.Fatalf("expected error for exponent 31")
	}
}

func TestEnumOutOfRange(t *testing.T) {
	values := []uint32{10, 20, 30}
	// 2 bits needed; encode 3 (out of range).
	buf := writeBits([2]int{3, 2})
	r := NewReader(bits.NewReader(buf))
	_ = r.Enum(values)
	if r.Err() == nil {
		t.Fatalf("expected error for out-of-range enum index")
	}
}

func TestAllDefaultShortCircuits(t *testing.T) {
	buf := writeBits([2]int{1, 1})
	r := NewReader(bits.NewReader(buf))
	if !r.AllDefault() {
		t.Fatalf("expected allDefault bit to be true")
	}
}
