/*
DESCRIPTION
  reader_test.go provides testing for reader.go.
*/
package bits

import "testing"

func TestReadBits(t *testing.T) {
	// 0x8f, 0xe3 == 1000 1111, 1110 0011
	buf := []byte{0x8f, 0xe3}
	tests := []struct {
		n    int
		want uint64
	}{
		{4, 0x8},
		{2, 0x3},
		{4, 0xf},
		{6, 0x23},
	}

	r := NewReader(buf)
	for i, test := range tests {
		got := r.ReadBits(test.n)
		if got != test.want {
			t.Errorf("test %d: ReadBits(%d) = %#x, want %#x", i, test.n, got, test.want)
		}
	}
	if !r.AllReadsWithinBounds() {
		t.Errorf("unexpected overread")
	}
}

func TestPeekBitsDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0x8f, 0xe3})
	got := r.PeekBits(8)
	if got != 0x8f {
		t.Fatalf("PeekBits(8) = %#x, want 0x8f", got)
	}
	if off, bit := r.BytePosition(); off != 0 || bit != 0 {
		t.Fatalf("PeekBits advanced cursor to (%d,%d)", off, bit)
	}
	r.Consume(8)
	got = r.ReadBits(8)
	if got != 0xe3 {
		t.Fatalf("ReadBits(8) after consume = %#x, want 0xe3", got)
	}
}

func TestOverreadLatches(t *testing.T) {
	r := NewReader([]byte{0xff})
	_ = r.ReadBits(8)
	if !r.AllReadsWithinBounds() {
		t.Fatalf("unexpected overread after exact consumption")
	}
	_ = r.PeekBits(8)
	if r.AllReadsWithinBounds() {
		t.Fatalf("expected overread to be latched after read past buffer end")
	}
	// A single read wider than the whole buffer also latches the flag.
	r2 := NewReader([]byte{0xff})
	_ = r2.ReadBits(16) // 16 bits from an 8-bit buffer: no panic, the flag latches.
	if r2.AllReadsWithinBounds() {
		t.Fatalf("expected overread after reading more bits than available")
	}
}

func TestJumpToByteBoundary(t *testing.T) {
	r := NewReader([]byte{0b10100000, 0xff})
	_ = r.ReadBits(3) // consumes "101"
	if !r.JumpToByteBoundary() {
		t.Fatalf("expected clean jump to byte boundary (trailing bits are zero)")
	}
	if off, bit := r.BytePosition(); off != 1 || bit != 0 {
		t.Fatalf("got (%d,%d), want (1,0)", off, bit)
	}

	r = NewReader([]byte{0b10100001, 0xff})
	_ = r.ReadBits(3)
	if r.JumpToByteBoundary() {
		t.Fatalf("expected malformed jump (trailing bit set)")
	}
}
