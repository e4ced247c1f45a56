/*
DESCRIPTION
  metadata_test.go provides testing for metadata.go.
*/
package header

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/field"
)

func TestReadImageMetadataAllDefault(t *testing.T) {
	br := bits.NewReader([]byte{0b1_0000000})
	fr := field.NewReader(br)
	m, err := ReadImageMetadata(fr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(defaultMetadata, m); diff != "" {
		t.Fatalf("ReadImageMetadata() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadImageMetadataIntegerBitDepth(t *testing.T) {
	var w bitWriterTest
	w.put(0, 1)        // allDefault = false
	w.put(0, 1)        // BitDepth.Float = false
	w.put(1, 2)         // U32 selector 1 -> BitsOffset(6,1)
	w.put(9, 6)          // 9 + 1 = 10 bits per sample
	w.put(0, 2)          // numExtra U32 selector 0 -> const 0
	w.put(0, 1)          // HasAnimation = false
	w.put(0, 1)          // HasPreview = false
	w.put(0, 3)          // orientation raw 0 -> +1 = 1
	w.put(1, 1)          // XYBEncoded = true
	w.put(1, 1)          // UsesICC = true

	br := bits.NewReader(w.bytes())
	fr := field.NewReader(br)
	m, err := ReadImageMetadata(fr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.BitDepth.BitsPerSample != 10 {
		t.Fatalf("BitsPerSample = %d, want 10", m.BitDepth.BitsPerSample)
	}
	if len(m.ExtraChannels) != 0 {
		t.Fatalf("ExtraChannels = %v, want none", m.ExtraChannels)
	}
	if !m.XYBEncoded || !m.ColorEncoding.UsesICC {
		t.Fatalf("m = %+v, want XYBEncoded and UsesICC set", m)
	}
}
