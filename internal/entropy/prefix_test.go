/*
DESCRIPTION
  prefix_test.go provides testing for prefix.go.
*/
package entropy

import (
	"testing"

	"github.com/jxlcore/jxlcore/bits"
)

func TestBuildPrefixTableSingleSymbol(t *testing.T) {
	lengths := []uint8{1}
	tbl, err := BuildPrefixTable(lengths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	br := bits.NewReader([]byte{0xff, 0xff})
	for i := 0; i < 4; i++ {
		sym, err := tbl.Decode(br)
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if sym != 0 {
			t.Fatalf("Decode() = %d, want 0", sym)
		}
	}
	if off, bit := br.BytePosition(); off != 0 || bit != 0 {
		t.Fatalf("single-symbol decode consumed bits: (%d,%d)", off, bit)
	}
}

func TestBuildPrefixTableRoundTrip(t *testing.T) {
	// Symbols 0,1,2,3 with lengths 1,2,3,3 (a valid Kraft-closing code:
	// 2^14+2^13+2^12+2^12 = 2^15).
	lengths := []uint8{1, 2, 3, 3}
	tbl, err := BuildPrefixTable(lengths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Canonical codes: sym0=0 (1 bit "0"), sym1=10 (2 bits), sym2=110 (3
	// bits), sym3=111 (3 bits).
	buf := []byte{0b0_10_110_1, 0b11_000000}
	br := bits.NewReader(buf)
	want := []uint16{0, 1, 2, 3}
	for _, w := range want {
		got, err := tbl.Decode(br)
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if got != w {
			t.Errorf("Decode() = %d, want %d", got, w)
		}
	}
}

func TestBuildPrefixTableBadKraftSum(t *testing.T) {
	// Three symbols of length 1 over-fill the Kraft sum past 2^15.
	_, err := BuildPrefixTable([]uint8{1, 0, 0, 1, 1})
	if err == nil {
		t.Fatalf("expected error for non-closing Kraft sum")
	}
}
