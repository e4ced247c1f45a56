/*
DESCRIPTION
  frameheader.go implements FrameHeader decoding of spec.md §3: frame
  type, encoding mode, color transform, chroma subsampling, upsampling,
  pass count, blending, loop filter, name, and extensions.

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

type FrameType int

const (
	FrameRegular FrameType = iota
	FrameDC
	FrameReferenceOnly
	FrameSkipProg
)

type Encoding int

const (
	EncodingVarDCT Encoding = iota
	EncodingModular
)

type ColorTransform int

const (
	ColorTransformXYB ColorTransform = iota
	ColorTransformYCbCr
	ColorTransformNone
)

const (
	FlagUseDcFrame            = 1 << 0
	FlagSkipAdaptiveDCSmoothing = 1 << 1
	FlagHasNoise              = 1 << 2
	FlagHasPatches            = 1 << 3
	FlagHasSplines            = 1 << 4
)

type LoopFilter struct {
	Gaborish bool
	EpfIterations int
}

type Blending struct {
	Mode     int
	Source   int
	Alpha    int
}

// FrameHeader is spec.md §3's FrameHeader bundle.
type FrameHeader struct {
	Type              FrameType
	Encoding          Encoding
	Flags             uint32
	ColorTransform    ColorTransform
	ChromaSubsampling int
	Upsampling        int
	Passes            int
	OriginX, OriginY  int
	Blending          Blending
	LoopFilter        LoopFilter
	Name              string
	SaveAsReference   int

	AllDefault bool
}

var defaultFrameHeader = FrameHeader{
	Encoding:       EncodingModular,
	ColorTransform: ColorTransformXYB,
	Upsampling:     1,
	Passes:         1,
	AllDefault:     true,
}

// ReadFrameHeader decodes a FrameHeader, per spec.md §3's invariants:
// FlagUseDcFrame excludes upsampling parsing; colorTransform=XYB forces
// linear transfer (enforced by the caller, not representable here); and
// passes is capped at 11.
func ReadFrameHeader(fr *field.Reader) (FrameHeader, error) {
	if fr.Bool() { // allDefault
		return defaultFrameHeader, fr.Err()
	}

	var h FrameHeader
	h.Type = FrameType(fr.Enum([]uint32{0, 1, 2, 3}))
	h.Encoding = Encoding(fr.Bits(1))
	h.Flags = uint32(fr.U32(field.Val(0), field.BitsOffset(2, 1), field.BitsOffset(8, 4), field.BitsOffset(32, 1)))
	h.ColorTransform = ColorTransform(fr.Enum([]uint32{0, 1, 2}))
	h.ChromaSubsampling = int(fr.Bits(2))

	if h.Flags&FlagUseDcFrame == 0 {
		h.Upsampling = int(fr.Enum([]uint32{1, 2, 4, 8}))
	} else {
		h.Upsampling = 1
	}

	h.Passes = int(fr.U32(field.Val(1), field.BitsOffset(2, 2), field.BitsOffset(3, 6), field.BitsOffset(4, 14))) + 0
	if h.Passes > 11 {
		return FrameHeader{}, decodeerr.New(decodeerr.MalformedBitstream, "header.ReadFrameHeader: passes exceeds 11", nil)
	}

	h.OriginX = int(field.PackedSigned(fr.U32(field.Val(0), field.BitsOffset(5, 0), field.BitsOffset(10, 32), field.BitsOffset(20, 1056))))
	h.OriginY = int(field.PackedSigned(fr.U32(field.Val(0), field.BitsOffset(5, 0), field.BitsOffset(10, 32), field.BitsOffset(20, 1056))))

	h.Blending.Mode = int(fr.Enum([]uint32{0, 1, 2, 3, 4, 5}))
	if h.Blending.Mode != 0 {
		h.Blending.Source = int(fr.Bits(2))
	}
	h.SaveAsReference = int(fr.Bits(2))

	h.LoopFilter.Gaborish = fr.Bool()
	h.LoopFilter.EpfIterations = int(fr.Bits(2))

	if fr.Bool() { // has name
		length := int(fr.U32(field.Val(0), field.BitsOffset(4, 0), field.BitsOffset(5, 16), field.BitsOffset(10, 48)))
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = byte(fr.Bits(8))
		}
		h.Name = string(buf)
	}

	// Ancillary extensions: per spec.md §9's Open Question, this decoder
	// takes the safe default (a) and aborts on any signalled extension
	// rather than guessing undocumented per-extension payload lengths.
	extensionBits := fr.U64()
	if extensionBits != 0 {
		return FrameHeader{}, decodeerr.New(decodeerr.UnsupportedFeature, "header.ReadFrameHeader: frame extensions", nil)
	}

	if err := fr.Err(); err != nil {
		return FrameHeader{}, err
	}
	return h, nil
}
