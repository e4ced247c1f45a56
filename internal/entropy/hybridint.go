/*
DESCRIPTION
  hybridint.go implements the hybrid-integer token codec of spec.md §4.5:
  given a (splitExponent, msbInToken, lsbInToken) config and a decoded
  token, expand it into the signed/unsigned value it represents, pulling
  any extra bits directly from the bitstream outside of entropy coding.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package entropy

import "github.com/jxlcore/jxlcore/bits"

// HybridUintConfig is the token/extra-bits split contract described in
// spec.md §3 and §4.5. SplitExponent must be >= MsbInToken+LsbInToken.
type HybridUintConfig struct {
	SplitExponent int
	MsbInToken    int
	LsbInToken    int
}

// DefaultHybridUintConfig is used when a histogram doesn't override the
// split, matching the common (split=4, msb=2, lsb=0) baseline shape.
var DefaultHybridUintConfig = HybridUintConfig{SplitExponent: 4, MsbInToken: 2, LsbInToken: 0}

// Decode expands token t into its represented value, reading any extra
// raw bits from br per spec.md §4.5.
func (c HybridUintConfig) Decode(br *bits.Reader, t uint32) uint32 {
	split := uint32(1) << uint(c.SplitExponent)
	if t < split {
		return t
	}
	msb := c.MsbInToken
	lsb := c.LsbInToken
	shift := c.SplitExponent - msb - lsb + int((t-split)>>uint(msb+lsb))
	var extra uint32
	if shift > 0 {
		extra = uint32(br.ReadBits(shift))
	}
	top := (uint32(1) << uint(msb)) | (t & ((1 << uint(msb)) - 1))
	val := ((top << uint(shift)) | extra) << uint(lsb)
	val |= t & ((1 << uint(lsb)) - 1)
	return val
}
