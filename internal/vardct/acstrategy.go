/*
DESCRIPTION
  acstrategy.go enumerates the 27 AC block-shape variants of spec.md
  §3/§4.11. Only the top-left index of a covered block carries
  coefficients; the strategy determines the transform size used by the
  IDCT dispatch and the coefficient order bucket.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package vardct

// AcStrategy identifies one of the 27 per-8x8-block shape variants.
type AcStrategy int

const (
	AcStrategyDCT8 AcStrategy = iota
	AcStrategyDCT8x4
	AcStrategyDCT4x8
	AcStrategyDCT4
	AcStrategyDCT2x2
	AcStrategyDCT16
	AcStrategyDCT16x8
	AcStrategyDCT8x16
	AcStrategyDCT32
	AcStrategyDCT32x8
	AcStrategyDCT8x32
	AcStrategyDCT32x16
	AcStrategyDCT16x32
	AcStrategyDCT64
	AcStrategyDCT64x32
	AcStrategyDCT32x64
	AcStrategyDCT128
	AcStrategyDCT128x64
	AcStrategyDCT64x128
	AcStrategyDCT256
	AcStrategyDCT256x128
	AcStrategyDCT128x256
	AcStrategyIdentity
	AcStrategyAFV0
	AcStrategyAFV1
	AcStrategyAFV2
	AcStrategyAFV3
	numAcStrategies
)

// blockShape gives (widthBlocks, heightBlocks) in units of 8x8 blocks for
// each strategy (so DCT8 is 1x1, DCT16 is 2x2, DCT8x4 is a sub-block
// shape handled specially via pixel dims below).
var blockShape = map[AcStrategy][2]int{
	AcStrategyDCT8:        {1, 1},
	AcStrategyDCT8x4:      {1, 1},
	AcStrategyDCT4x8:      {1, 1},
	AcStrategyDCT4:        {1, 1},
	AcStrategyDCT2x2:      {1, 1},
	AcStrategyDCT16:       {2, 2},
	AcStrategyDCT16x8:     {2, 1},
	AcStrategyDCT8x16:     {1, 2},
	AcStrategyDCT32:       {4, 4},
	AcStrategyDCT32x8:     {4, 1},
	AcStrategyDCT8x32:     {1, 4},
	AcStrategyDCT32x16:    {4, 2},
	AcStrategyDCT16x32:    {2, 4},
	AcStrategyDCT64:       {8, 8},
	AcStrategyDCT64x32:    {8, 4},
	AcStrategyDCT32x64:    {4, 8},
	AcStrategyDCT128:      {16, 16},
	AcStrategyDCT128x64:   {16, 8},
	AcStrategyDCT64x128:   {8, 16},
	AcStrategyDCT256:      {32, 32},
	AcStrategyDCT256x128:  {32, 16},
	AcStrategyDCT128x256:  {16, 32},
	AcStrategyIdentity:    {1, 1},
	AcStrategyAFV0:        {1, 1},
	AcStrategyAFV1:        {1, 1},
	AcStrategyAFV2:        {1, 1},
	AcStrategyAFV3:        {1, 1},
}

// PixelDims gives the exact transform size in pixels, which for the
// sub-8x8 shapes (DCT4, DCT2x2, DCT8x4, DCT4x8, Identity, AFV*) differs
// from the 8x8-block-multiple shapes above.
func (s AcStrategy) PixelDims() (w, h int) {
	switch s {
	case AcStrategyDCT8x4:
		return 8, 4
	case AcStrategyDCT4x8:
		return 4, 8
	case AcStrategyDCT4:
		return 4, 4
	case AcStrategyDCT2x2:
		return 2, 2
	case AcStrategyIdentity, AcStrategyAFV0, AcStrategyAFV1, AcStrategyAFV2, AcStrategyAFV3:
		return 8, 8
	default:
		bs, ok := blockShape[s]
		if !ok {
			return 8, 8
		}
		return bs[0] * 8, bs[1] * 8
	}
}

// BlockShape returns the strategy's footprint in 8x8-block units.
func (s AcStrategy) BlockShape() (wBlocks, hBlocks int) {
	bs, ok := blockShape[s]
	if !ok {
		return 1, 1
	}
	return bs[0], bs[1]
}

// IsTopLeft reports whether (blockX, blockY) is the top-left 8x8 block
// of a strategy instance starting at (originX, originY): only the
// top-left carries coefficients per spec.md §4.11.
func IsTopLeft(originX, originY, blockX, blockY int) bool {
	return blockX == originX && blockY == originY
}

// Valid reports whether s is a recognised strategy index.
func (s AcStrategy) Valid() bool {
	return s >= 0 && s < numAcStrategies
}
