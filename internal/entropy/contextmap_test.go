/*
DESCRIPTION
  contextmap_test.go provides testing for contextmap.go.
*/
package entropy

import (
	"testing"

	"github.com/jxlcore/jxlcore/bits"
)

func TestReadContextMapTrivial(t *testing.T) {
	cm, err := ReadContextMap(bits.NewReader(nil), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm.NumHistograms != 1 || len(cm.Clusters) != 1 || cm.Clusters[0] != 0 {
		t.Fatalf("ReadContextMap(1) = %+v, want single zero cluster", cm)
	}
}

func TestReadContextMapSimple(t *testing.T) {
	buf := writeBits(
		[2]int{1, 1}, // isSimple
		[2]int{2, 2}, // width = 2 bits per context
		[2]int{0, 2}, // context 0 -> cluster 0
		[2]int{1, 2}, // context 1 -> cluster 1
		[2]int{1, 2}, // context 2 -> cluster 1
	)
	cm, err := ReadContextMap(bits.NewReader(buf), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0, 1, 1}
	if cm.NumHistograms != 2 {
		t.Fatalf("NumHistograms = %d, want 2", cm.NumHistograms)
	}
	for i, w := range want {
		if cm.Clusters[i] != w {
			t.Errorf("Clusters[%d] = %d, want %d", i, cm.Clusters[i], w)
		}
	}
}

func TestReadContextMapComplexSingleValue(t *testing.T) {
	// Complex branch, no MTF, every context maps to cluster 0 via a
	// single-value (shortcut-tag-1) distribution: no LZ77, no ANS state.
	buf := writeBits(
		[2]int{0, 1}, // isSimple = false
		[2]int{0, 1}, // useMTF = false
		[2]int{1, 2}, // distribution tag 1: single non-zero bin
		[2]int{0, 2}, // single-bin index 0 (alphabet size = numRawContexts+1 = 3, bitsFor(3)=2)
	)
	cm, err := ReadContextMap(bits.NewReader(buf), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm.NumHistograms != 1 {
		t.Fatalf("NumHistograms = %d, want 1", cm.NumHistograms)
	}
	for i, c := range cm.Clusters {
		if c != 0 {
			t.Errorf("Clusters[%d] = %d, want 0", i, c)
		}
	}
}

func TestReadContextMapRejectsNonOntoMap(t *testing.T) {
	// width=2 with context values {0,2}: cluster 1 is never used, so the
	// map is not onto [0, numHistograms) and must be rejected.
	buf := writeBits(
		[2]int{1, 1}, // isSimple
		[2]int{2, 2}, // width
		[2]int{0, 2},
		[2]int{2, 2},
	)
	_, err := ReadContextMap(bits.NewReader(buf), 2)
	if err == nil {
		t.Fatalf("expected error for non-onto cluster map")
	}
}
