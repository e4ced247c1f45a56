/*
DESCRIPTION
  frameheader_test.go provides testing for frameheader.go.
*/
package header

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/field"
)

func TestReadFrameHeaderAllDefault(t *testing.T) {
	br := bits.NewReader([]byte{0b1_0000000})
	fr := field.NewReader(br)
	h, err := ReadFrameHeader(fr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(defaultFrameHeader, h); diff != "" {
		t.Fatalf("ReadFrameHeader() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFrameHeaderRejectsUnknownExtensions(t *testing.T) {
	var w bitWriterTest
	w.put(0, 1)          // allDefault = false
	w.put(0, 2)          // Type enum idx 0 -> FrameRegular
	w.put(0, 1)          // Encoding = VarDCT
	w.put(0, 2)          // Flags U32 selector 0 -> const 0
	w.put(0, 2)          // ColorTransform enum idx 0 -> XYB
	w.put(0, 2)          // ChromaSubsampling raw
	w.put(0, 2)          // Upsampling enum idx 0 -> 1
	w.put(0, 2)          // Passes U32 selector 0 -> const 1
	w.put(0, 2)          // OriginX U32 selector 0 -> const 0
	w.put(0, 2)          // OriginY U32 selector 0 -> const 0
	w.put(0, 3)          // Blending.Mode enum idx 0 -> 0 (no source bits follow)
	w.put(0, 2)          // SaveAsReference raw
	w.put(0, 1)          // Gaborish = false
	w.put(0, 2)          // EpfIterations raw
	w.put(0, 1)          // has name = false
	w.put(3, 2)          // extensionBits U64 selector 3 -> 12-bit chain start
	w.put(1, 12)          // nonzero value -> triggers UnsupportedFeature
	w.put(0, 1)          // terminate the U64 continuation chain

	br := bits.NewReader(w.bytes())
	fr := field.NewReader(br)
	_, err := ReadFrameHeader(fr)
	if err == nil {
		t.Fatalf("expected error for nonzero frame extensions, got nil")
	}
}
