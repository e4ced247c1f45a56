/*
DESCRIPTION
  color_test.go provides testing for xyb.go, srgb.go, and ycbcr.go.
*/
package color

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestLinearToSRGBThreshold(t *testing.T) {
	below := LinearToSRGB(0.001)
	if !floats.EqualWithinAbs(below, 12.92*0.001, 1e-9) {
		t.Errorf("LinearToSRGB(0.001) = %v, want linear segment", below)
	}
	above := LinearToSRGB(0.5)
	want := 1.055*math.Pow(0.5, 1.0/2.4) - 0.055
	if !floats.EqualWithinAbs(above, want, 1e-9) {
		t.Errorf("LinearToSRGB(0.5) = %v, want %v", above, want)
	}
}

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float64{0.0, 0.001, 0.2, 0.5, 0.9, 1.0} {
		got := SRGBToLinear(LinearToSRGB(v))
		if !floats.EqualWithinAbs(got, v, 1e-6) {
			t.Errorf("round trip %v -> %v", v, got)
		}
	}
}

func TestYCbCrToRGBGray(t *testing.T) {
	r, g, b := YCbCrToRGB(0.5, 0.5, 0.5)
	if !floats.EqualWithinAbs(r, 0.5, 1e-9) || !floats.EqualWithinAbs(g, 0.5, 1e-9) || !floats.EqualWithinAbs(b, 0.5, 1e-9) {
		t.Errorf("neutral chroma should reproduce luma: got (%v,%v,%v)", r, g, b)
	}
}

func TestXYBZeroIsBiasCube(t *testing.T) {
	r, g, b := XYBToLinearSRGB(0, 0, 0)
	// With x=y=b=0, gamma values are all zero, so every channel equals
	// -bias (a small positive constant).
	if r <= 0 || g <= 0 || b <= 0 {
		t.Errorf("XYBToLinearSRGB(0,0,0) = (%v,%v,%v), want all positive (bias-only)", r, g, b)
	}
}
