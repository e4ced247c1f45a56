/*
DESCRIPTION
  ans_test.go provides testing for ans.go.
*/
package entropy

import "testing"

func TestBuildAliasTableCoversDistribution(t *testing.T) {
	dist := []uint32{2048, 1024, 512, 512}
	logAlphaSize := 2
	entries, err := BuildAliasTable(dist, logAlphaSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := make([]uint32, len(dist))
	for slot := uint32(0); slot < TabSize; slot++ {
		sym, freq, _ := Lookup(entries, logAlphaSize, slot)
		if freq == 0 {
			t.Fatalf("slot %d resolved to zero-frequency symbol %d", slot, sym)
		}
		counts[sym]++
	}
	for i, want := range dist {
		if counts[i] != want {
			t.Errorf("symbol %d: got %d slots, want %d", i, counts[i], want)
		}
	}
}

func TestBuildAliasTableRejectsBadSum(t *testing.T) {
	_, err := BuildAliasTable([]uint32{1, 2, 3}, 2)
	if err == nil {
		t.Fatalf("expected error for distribution not summing to 2^12")
	}
}

func TestANSReaderFinalState(t *testing.T) {
	r := NewANSReaderFromState(ansSignature << 16)
	if err := r.CheckFinalState(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r2 := NewANSReaderFromState(0xdead)
	if err := r2.CheckFinalState(); err == nil {
		t.Fatalf("expected error for wrong final state")
	}
}
