/*
DESCRIPTION
  metadata.go implements ImageMetadata decoding of spec.md §3: bit
  depth, extra channels, animation, preview, color encoding,
  orientation, and the XYB-encoded flag. Holds no pixel data.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package header

import "github.com/jxlcore/jxlcore/internal/field"

// BitDepth is either integer or floating-point sample encoding.
type BitDepth struct {
	Float        bool
	BitsPerSample int
	ExpBits      int // only meaningful when Float.
}

// ExtraChannel describes one non-color channel (alpha, depth, etc).
type ExtraChannel struct {
	Type     int
	BitDepth BitDepth
	Name     string
}

// ColorEncoding records whether a frame is XYB-internal and, if not,
// which transfer/primaries/whitepoint triple applies; ICC profile bytes
// themselves are opaque to this core per spec.md §1.
type ColorEncoding struct {
	UsesICC    bool
	ColorSpace int
	WhitePoint int
	Primaries  int
	TransferFn int
	RenderingIntent int
}

// ImageMetadata is spec.md §3's metadata bundle.
type ImageMetadata struct {
	BitDepth       BitDepth
	ExtraChannels  []ExtraChannel
	HasAnimation   bool
	HasPreview     bool
	Orientation    int
	XYBEncoded     bool
	ColorEncoding  ColorEncoding
}

var defaultMetadata = ImageMetadata{
	BitDepth:    BitDepth{BitsPerSample: 8},
	Orientation: 1,
	XYBEncoded:  true,
}

// ReadImageMetadata decodes ImageMetadata, guarded by an allDefault bit
// per spec.md §4.2.
func ReadImageMetadata(fr *field.Reader) (ImageMetadata, error) {
	if fr.Bool() { // allDefault
		return defaultMetadata, fr.Err()
	}

	var m ImageMetadata
	m.BitDepth.Float = fr.Bool()
	if m.BitDepth.Float {
		m.BitDepth.BitsPerSample = int(fr.U32(field.Val(32), field.BitsOffset(6, 1), field.BitsOffset(8, 1), field.BitsOffset(10, 1)))
		m.BitDepth.ExpBits = int(fr.Bits(4)) + 1
	} else {
		m.BitDepth.BitsPerSample = int(fr.U32(field.Val(8), field.BitsOffset(6, 1), field.BitsOffset(10, 1), field.BitsOffset(13, 1)))
	}

	numExtra := int(fr.U32(field.Val(0), field.BitsOffset(4, 1), field.BitsOffset(8, 17), field.BitsOffset(12, 273)))
	m.ExtraChannels = make([]ExtraChannel, numExtra)
	for i := range m.ExtraChannels {
		m.ExtraChannels[i].Type = int(fr.Enum(defaultExtraChannelTypes))
	}

	m.HasAnimation = fr.Bool()
	m.HasPreview = fr.Bool()
	m.Orientation = int(fr.Bits(3)) + 1

	m.XYBEncoded = fr.Bool()
	m.ColorEncoding.UsesICC = fr.Bool()
	if !m.ColorEncoding.UsesICC {
		m.ColorEncoding.ColorSpace = int(fr.Bits(2))
		m.ColorEncoding.WhitePoint = int(fr.Bits(2))
		m.ColorEncoding.Primaries = int(fr.Bits(2))
		m.ColorEncoding.TransferFn = int(fr.Bits(3))
		m.ColorEncoding.RenderingIntent = int(fr.Bits(2))
	}

	if err := fr.Err(); err != nil {
		return ImageMetadata{}, err
	}
	return m, nil
}

var defaultExtraChannelTypes = []uint32{0, 1, 2, 3, 4, 5}
