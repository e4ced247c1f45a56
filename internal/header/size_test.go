/*
DESCRIPTION
  size_test.go provides testing for size.go.
*/
package header

import (
	"testing"

	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/field"
)

func TestReadSizeHeaderSmallSquare(t *testing.T) {
	// spec.md §8 scenario 1: bits 1|00000|001 -> small=1, ysize=8,
	// ratio=1 (1:1) -> xsize=8.
	buf := []byte{0b1_00000_00, 0b1_0000000}
	br := bits.NewReader(buf)
	fr := field.NewReader(br)
	h, err := ReadSizeHeader(fr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Xsize != 8 || h.Ysize != 8 {
		t.Fatalf("ReadSizeHeader() = %+v, want 8x8", h)
	}
}
