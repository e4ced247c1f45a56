/*
DESCRIPTION
  toc_test.go provides testing for toc.go.
*/
package header

import (
	"testing"

	"github.com/jxlcore/jxlcore/bits"
)

func TestReadTOCSingleSectionShortcut(t *testing.T) {
	var w bitWriterTest
	w.put(0, 2)   // U32 selector 0 -> BitsOffset(10, 0)
	w.put(5, 10)  // size = 5
	br := bits.NewReader(w.bytes())

	entries, err := ReadTOC(br, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Size != 5 || entries[0].ID != 0 {
		t.Fatalf("ReadTOC() = %+v, want [{Size:5 ID:0}]", entries)
	}
}

func TestReadTOCMultiSectionNoPermutation(t *testing.T) {
	var w bitWriterTest
	w.put(0, 1)  // hasPermutation = false
	w.put(0, 2)  // size[0] selector 0
	w.put(3, 10) // size[0] = 3
	w.put(0, 2)  // size[1] selector 0
	w.put(7, 10) // size[1] = 7
	br := bits.NewReader(w.bytes())

	entries, err := ReadTOC(br, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Size != 3 || entries[0].ID != 0 {
		t.Fatalf("entries[0] = %+v, want {3 0}", entries[0])
	}
	if entries[1].Size != 7 || entries[1].ID != 1 {
		t.Fatalf("entries[1] = %+v, want {7 1}", entries[1])
	}
}
