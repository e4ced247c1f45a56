/*
DESCRIPTION
  size.go implements SizeHeader decoding of spec.md §3/§6: the image's
  base dimensions, either given directly or in a compact small-image
  form, with an optional fixed aspect-ratio table for deriving width
  from height.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package header

import (
	"github.com/jxlcore/jxlcore/internal/decodeerr"
	"github.com/jxlcore/jxlcore/internal/field"
)

// ratioTable is the fixed aspect-ratio table of spec.md §3: index 0
// means "no fixed ratio" (xsize read directly); indices 1..7 give
// width = height * num / den.
var ratioTable = [8][2]int{
	{0, 0},
	{1, 1},
	{12, 10},
	{4, 3},
	{3, 2},
	{16, 9},
	{5, 4},
	{2, 1},
}

// SizeHeader is spec.md §3's {small, ratio, ysize, xsize} bundle.
type SizeHeader struct {
	Small bool
	Ratio int
	Ysize int
	Xsize int
}

// ReadSizeHeader decodes a SizeHeader per spec.md §3: when Small, both
// dimensions are encoded as multiples of 8 in [8, 256]; when Ratio != 0,
// Xsize is derived from the table above instead of read directly.
func ReadSizeHeader(fr *field.Reader) (SizeHeader, error) {
	var h SizeHeader
	h.Small = fr.Bool()
	if h.Small {
		ydiv8 := int(fr.Bits(5)) + 1
		h.Ysize = ydiv8 * 8
	} else {
		h.Ysize = int(fr.U32(
			field.BitsOffset(9, 1),
			field.BitsOffset(13, 1),
			field.BitsOffset(18, 1),
			field.BitsOffset(30, 1),
		))
	}

	h.Ratio = int(fr.Bits(3))
	if h.Ratio == 0 {
		if h.Small {
			xdiv8 := int(fr.Bits(5)) + 1
			h.Xsize = xdiv8 * 8
		} else {
			h.Xsize = int(fr.U32(
				field.BitsOffset(9, 1),
				field.BitsOffset(13, 1),
				field.BitsOffset(18, 1),
				field.BitsOffset(30, 1),
			))
		}
	} else {
		num, den := ratioTable[h.Ratio][0], ratioTable[h.Ratio][1]
		h.Xsize = h.Ysize * num / den
	}

	if err := fr.Err(); err != nil {
		return SizeHeader{}, err
	}
	if h.Xsize < 1 || h.Ysize < 1 {
		return SizeHeader{}, decodeerr.New(decodeerr.MalformedBitstream, "header.ReadSizeHeader: non-positive dimension", nil)
	}
	return h, nil
}
