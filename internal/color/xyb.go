/*
DESCRIPTION
  xyb.go implements the XYB opsin inverse transform of spec.md §4.12's
  render-pipeline stage catalogue: per-pixel application of the 3x3
  opsin inverse matrix followed by cubing the mixed luma and subtracting
  the opsin bias.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package color

// opsinInverseMatrix and opsinBias are the fixed constants of the XYB
// color space's inverse transform.
var opsinInverseMatrix = [3][3]float64{
	{11.031566901960783, -9.866943921568629, -0.16462299647058826},
	{-3.254147380392156, 4.418770392156863, -0.16462299647058826},
	{-3.6588512862745097, 2.7129230470588235, 1.9465085294117644},
}

var opsinBias = [3]float64{-0.0037930732552754493, -0.0037930732552754493, -0.0037930732552754493}

// XYBToLinearSRGB converts one XYB-encoded pixel (x, y, b) to linear RGB.
func XYBToLinearSRGB(x, y, b float64) (r, g, bOut float64) {
	lx := x + y
	ly := y - x
	lb := b

	gammaR := lx*opsinInverseMatrix[0][0] + ly*opsinInverseMatrix[0][1] + lb*opsinInverseMatrix[0][2]
	gammaG := lx*opsinInverseMatrix[1][0] + ly*opsinInverseMatrix[1][1] + lb*opsinInverseMatrix[1][2]
	gammaB := lx*opsinInverseMatrix[2][0] + ly*opsinInverseMatrix[2][1] + lb*opsinInverseMatrix[2][2]

	r = cubeMinusBias(gammaR, opsinBias[0])
	g = cubeMinusBias(gammaG, opsinBias[1])
	bOut = cubeMinusBias(gammaB, opsinBias[2])
	return r, g, bOut
}

func cubeMinusBias(v, bias float64) float64 {
	return v*v*v - bias
}
