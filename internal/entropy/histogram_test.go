/*
DESCRIPTION
  histogram_test.go provides testing for histogram.go.
*/
package entropy

import (
	"testing"

	"github.com/jxlcore/jxlcore/bits"
)

// writeBits packs a sequence of (value, width) pairs MSB-first into bytes,
// for use as fixture input to a bits.Reader under test.
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

func TestReadHistogramSetSingleValueCluster(t *testing.T) {
	buf := writeBits(
		[2]int{0, 1}, // LZ77 disabled
		[2]int{0, 1}, // usePrefixCode = false
		[2]int{0, 2}, // logAlphaSize selector 0 -> 5
		[2]int{5, 3}, // HybridUintConfig split == logAlphaSize (5)
		[2]int{1, 2}, // distribution tag 1: single non-zero bin
		[2]int{0, 5}, // single-bin index 0
		[2]int{0, 32}, // 32 bits of shared rANS state (unused by an all-single-value set)
	)
	br := bits.NewReader(buf)
	hs, err := ReadHistogramSet(br, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hs.ContextMap.NumHistograms != 1 {
		t.Fatalf("NumHistograms = %d, want 1", hs.ContextMap.NumHistograms)
	}
	if hs.LogAlphaSize != 5 {
		t.Fatalf("LogAlphaSize = %d, want 5", hs.LogAlphaSize)
	}
	if !hs.Decoders[0].singleValue || hs.Decoders[0].value != 0 {
		t.Fatalf("Decoders[0] = %+v, want singleValue=true value=0", hs.Decoders[0])
	}

	window := NewWindow()
	v, err := hs.ReadValue(br, 0, window)
	if err != nil {
		t.Fatalf("ReadValue: unexpected error: %v", err)
	}
	if v != 0 {
		t.Errorf("ReadValue() = %d, want 0", v)
	}
	if window.NumDecoded() != 1 {
		t.Errorf("window.NumDecoded() = %d, want 1", window.NumDecoded())
	}
}

func TestReadHybridUintConfigSplitShortcut(t *testing.T) {
	// logAlphaSize=5: splitBits=bitsFor(6)=3, split==5 takes the early
	// return without reading msb/lsb fields.
	buf := writeBits([2]int{5, 3})
	br := bits.NewReader(buf)
	cfg := readHybridUintConfig(br, 5)
	want := HybridUintConfig{SplitExponent: 5}
	if cfg != want {
		t.Fatalf("readHybridUintConfig() = %+v, want %+v", cfg, want)
	}
}

func TestReadDistributionFlatShortcut(t *testing.T) {
	// tag=0, n-1=1 (2 used symbols) over an 8-symbol alphabet.
	buf := writeBits([2]int{0, 2}, [2]int{1, 3})
	br := bits.NewReader(buf)
	dist, single, _, err := readDistribution(br, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single {
		t.Fatalf("flat shortcut reported single=true")
	}
	var sum uint32
	for _, v := range dist {
		sum += v
	}
	if sum != TabSize {
		t.Fatalf("distribution sum = %d, want %d", sum, TabSize)
	}
	if dist[2] != 0 {
		t.Errorf("dist[2] = %d, want 0 (only first 2 symbols used)", dist[2])
	}
}
