/*
DESCRIPTION
  field.go provides the variable-length numeric field readers shared by
  every codestream header (spec.md §4.2), grounded on the sticky-error
  fieldReader wrapper of the teacher's h264dec/parse.go, generalized from
  Exp-Golomb ue(v)/se(v) descriptors to JPEG XL's U32/U64/F16/Bool/Enum
  selector-distribution scheme.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

// Package field provides JPEG XL's variable-length field codec: U32, U64,
// F16, Bool, Enum and PackedSigned readers, plus the allDefault bundle
// convention used by every multi-field header.
package field

import (
	"math"

	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
)

// Reader wraps a bits.Reader with a sticky error, so a header can be
// decoded as a straight-line sequence of reads and checked once at the
// end, the same shape as h264dec's fieldReader.
type Reader struct {
	br  *bits.Reader
	err error
}

// NewReader returns a Reader over br.
func NewReader(br *bits.Reader) *Reader {
	return &Reader{br: br}
}

// Err returns the first error encountered by any read on this Reader.
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	if !r.br.AllReadsWithinBounds() {
		return decodeerr.New(decodeerr.NeedMoreInput, "field.Reader", nil)
	}
	return nil
}

func (r *Reader) fail(kind decodeerr.Kind, op string) {
	if r.err == nil {
		r.err = decodeerr.New(kind, op, nil)
	}
}

// Bits reads n raw bits (0 <= n <= 32). Does nothing once a sticky error
// is set.
func (r *Reader) Bits(n int) uint64 {
	if r.err != nil || n == 0 {
		return 0
	}
	return r.br.ReadBits(n)
}

// Bool reads a single-bit boolean field.
func (r *Reader) Bool() bool {
	return r.Bits(1) == 1
}

// u32Dist is one of the four distributions a U32 selector may choose.
// Const is a direct literal value (no extra bits read); otherwise
// BitsN raw bits are read and Offset is added.
type u32Dist struct {
	Const     uint32
	IsConst   bool
	BitsN     int
	Offset    uint32
}

// Val returns a constant distribution, read with no extra bits.
func Val(v uint32) u32Dist { return u32Dist{Const: v, IsConst: true} }

// BitsOffset returns a distribution of n raw bits plus offset.
func BitsOffset(n int, offset uint32) u32Dist { return u32Dist{BitsN: n, Offset: offset} }

// U32 reads a 2-bit selector then decodes one of four caller-supplied
// distributions, per spec.md §4.2.
func (r *Reader) U32(d0, d1, d2, d3 u32Dist) uint32 {
	if r.err != nil {
		return 0
	}
	dists := [4]u32Dist{d0, d1, d2, d3}
	sel := r.Bits(2)
	d := dists[sel]
	if d.IsConst {
		return d.Const
	}
	return uint32(r.Bits(d.BitsN)) + d.Offset
}

// U64 reads a 2-bit selector encoding {0, 1..16 (4 bits), 17..272 (8 bits),
// or a self-delimited 12+8k-bit chain}, per spec.md §4.2.
func (r *Reader) U64() uint64 {
	if r.err != nil {
		return 0
	}
	switch r.Bits(2) {
	case 0:
		return 0
	case 1:
		return r.Bits(4) + 1
	case 2:
		return r.Bits(8) + 17
	default:
		v := r.Bits(12)
		shift := uint(12)
		for r.Bits(1) == 1 {
			if shift >= 60 {
				r.fail(decodeerr.MalformedBitstream, "field.U64")
				return 0
			}
			b := r.Bits(8)
			v |= b << shift
			shift += 8
		}
		return v
	}
}

// F16 reads a half-precision float: sign(1) + biasedExp(5) + mantissa(10).
// An exponent of 31 (Inf/NaN) is malformed.
func (r *Reader) F16() float32 {
	if r.err != nil {
		return 0
	}
	bits16 := r.Bits(16)
	sign := (bits16 >> 15) & 1
	exp := (bits16 >> 10) & 0x1f
	mant := bits16 & 0x3ff
	if exp == 31 {
		r.fail(decodeerr.MalformedBitstream, "field.F16")
		return 0
	}
	var v float64
	if exp == 0 {
		// Denormal: sign * mantissa / 2^24, per spec.md §9's Open Question
		// on F16 denormal handling (no implicit leading bit).
		v = float64(mant) / (1 << 24)
	} else {
		m := 1.0 + float64(mant)/1024.0
		v = m * math.Pow(2, float64(exp)-15)
	}
	if sign == 1 {
		v = -v
	}
	return float32(v)
}

// validList is a fixed valid-value list used by Enum.
type validList []uint32

// Enum reads ceil(log2(len(values))) bits as an index into values. An
// out-of-range index is malformed.
func (r *Reader) Enum(values []uint32) uint32 {
	if r.err != nil {
		return 0
	}
	n := bitsForN(len(values))
	idx := r.Bits(n)
	if int(idx) >= len(values) {
		r.fail(decodeerr.MalformedBitstream, "field.Enum")
		return 0
	}
	return values[idx]
}

// bitsForN returns ceil(log2(n)) for n >= 1.
func bitsForN(n int) int {
	if n <= 1 {
		return 0
	}
	b := 0
	for (1 << b) < n {
		b++
	}
	return b
}

// PackedSigned decodes u (as produced by the packed-signed encoding
// u = 2|v| if v>=0 else 2|v|-1) back into a signed value.
func PackedSigned(u uint32) int32 {
	if u&1 == 0 {
		return int32(u / 2)
	}
	return -int32((u + 1) / 2)
}

// PackSigned is the forward direction of PackedSigned, provided for tests
// and for the Lehmer/coefficient-order round-trip checks in spec.md §8.
func PackSigned(v int32) uint32 {
	if v >= 0 {
		return uint32(2 * v)
	}
	return uint32(2*(-v) - 1)
}

// AllDefault reads the allDefault bit that precedes every multi-field
// bundle. When true, the caller must apply canonical defaults and read no
// further fields of the bundle.
func (r *Reader) AllDefault() bool {
	return r.Bool()
}
