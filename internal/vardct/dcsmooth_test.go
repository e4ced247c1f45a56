/*
DESCRIPTION
  dcsmooth_test.go provides testing for dcsmooth.go.
*/
package vardct

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func constPlane(w, h int, v float64) *DcPlane {
	data := make([]float64, w*h)
	for i := range data {
		data[i] = v
	}
	return &DcPlane{W: w, H: h, Data: data}
}

func TestSmoothDCConstantInputUnchanged(t *testing.T) {
	// spec.md §8 scenario 5: constant 0.5 input across all three
	// channels with unit dcFactors stays at 0.5 to within 1e-3.
	planes := [3]*DcPlane{constPlane(8, 8, 0.5), constPlane(8, 8, 0.5), constPlane(8, 8, 0.5)}
	SmoothDC(planes, [3]float64{1, 1, 1}, false)
	want := make([]float64, 8*8)
	for i := range want {
		want[i] = 0.5
	}
	for c, p := range planes {
		if !floats.EqualApprox(p.Data, want, 1e-3) {
			t.Fatalf("channel %d = %v, want every sample 0.5 +/- 1e-3", c, p.Data)
		}
	}
}

func TestSmoothDCSkipLeavesInputUntouched(t *testing.T) {
	planes := [3]*DcPlane{constPlane(8, 8, 1), constPlane(8, 8, 2), constPlane(8, 8, 3)}
	before := append([]float64(nil), planes[0].Data...)
	SmoothDC(planes, [3]float64{1, 1, 1}, true)
	for i, v := range planes[0].Data {
		if v != before[i] {
			t.Fatalf("skip=true modified data at %d: %v != %v", i, v, before[i])
		}
	}
}
