/*
DESCRIPTION
  ycbcr.go implements the YCbCr->RGB stage of spec.md §4.12's catalogue:
  BT.601 inverse with full-range offsets, used for frames whose
  FrameHeader.colorTransform is YCbCr rather than XYB.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package color

// YCbCrToRGB converts one full-range BT.601-encoded sample, with y, cb,
// cr each already normalised to [0, 1] (cb/cr centred at 0.5), to RGB.
func YCbCrToRGB(y, cb, cr float64) (r, g, b float64) {
	cbC := cb - 0.5
	crC := cr - 0.5
	r = y + 1.402*crC
	g = y - 0.344136*cbC - 0.714136*crC
	b = y + 1.772*cbC
	return r, g, b
}
