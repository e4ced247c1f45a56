/*
DESCRIPTION
  srgb.go implements the Linear->sRGB transfer function of spec.md
  §4.12's stage catalogue: piecewise, linear below 0.0031308 and
  1.055*x^(1/2.4) - 0.055 above.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package color

import "math"

const srgbLinearThreshold = 0.0031308

// LinearToSRGB applies the sRGB transfer function to one linear-light
// sample in [0, 1].
func LinearToSRGB(v float64) float64 {
	if v <= srgbLinearThreshold {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// SRGBToLinear inverts LinearToSRGB; used by reference frames that must
// round-trip through sRGB-space storage.
func SRGBToLinear(v float64) float64 {
	const srgbThreshold = 0.04045
	if v <= srgbThreshold {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
