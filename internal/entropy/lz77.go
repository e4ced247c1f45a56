/*
DESCRIPTION
  lz77.go implements the LZ77-over-symbols back-reference layer of
  spec.md §4.6: a sliding window of recently decoded values, with a token
  value above a configurable threshold triggering a (length, distance)
  copy instead of a literal.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package entropy

import (
	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
)

// NumSpecialDistances is the size of the fixed (dy,dx) special-distance
// table referenced by spec.md §4.6.
const NumSpecialDistances = 120

// specialDistances is the fixed (dy, dx) table used for small, common
// back-reference distances; index order matches the canonical JPEG XL
// table (nearby rows/columns ordered by Euclidean proximity).
var specialDistances = [NumSpecialDistances][2]int{
	{0, 1}, {1, 0}, {1, 1}, {-1, 1}, {0, 2}, {2, 0}, {1, 2}, {-1, 2}, {2, 1}, {-2, 1},
	{2, 2}, {-2, 2}, {-1, -1}, {0, 3}, {3, 0}, {1, 3}, {-1, 3}, {3, 1}, {-3, 1}, {2, 3},
	{-2, 3}, {3, 2}, {-3, 2}, {0, 4}, {4, 0}, {1, 4}, {-1, 4}, {4, 1}, {-4, 1}, {3, 3},
	{-3, 3}, {2, 4}, {-2, 4}, {4, 2}, {-4, 2}, {0, 5}, {3, 4}, {-3, 4}, {4, 3}, {-4, 3},
	{5, 0}, {1, 5}, {-1, 5}, {5, 1}, {-5, 1}, {2, 5}, {-2, 5}, {5, 2}, {-5, 2}, {4, 4},
	{-4, 4}, {3, 5}, {-3, 5}, {5, 3}, {-5, 3}, {0, 6}, {6, 0}, {1, 6}, {-1, 6}, {6, 1},
	{-6, 1}, {2, 6}, {-2, 6}, {6, 2}, {-6, 2}, {4, 5}, {-4, 5}, {5, 4}, {-5, 4}, {3, 6},
	{-3, 6}, {6, 3}, {-6, 3}, {0, 7}, {7, 0}, {1, 7}, {-1, 7}, {5, 5}, {-5, 5}, {7, 1},
	{-7, 1}, {2, 7}, {-2, 7}, {7, 2}, {-7, 2}, {3, 7}, {-3, 7}, {7, 3}, {-7, 3}, {4, 6},
	{-4, 6}, {6, 4}, {-6, 4}, {0, 8}, {8, 0}, {1, 8}, {-1, 8}, {8, 1}, {-8, 1}, {5, 6},
	{-5, 6}, {6, 5}, {-6, 5}, {2, 8}, {-2, 8}, {8, 2}, {-8, 2}, {4, 7}, {-4, 7}, {7, 4},
	{-7, 4}, {3, 8}, {-3, 8}, {8, 3}, {-8, 3}, {0, 9}, {9, 0}, {1, 9}, {-1, 9}, {9, 1},
}

// Params is the set of LZ77 parameters of spec.md §3 (LZ77Params).
type Params struct {
	Enabled             bool
	MinSymbol           uint32
	MinLength           uint32
	LengthConfig        HybridUintConfig
	DistanceContextID   int
}

// DefaultParams holds the LZ77 defaults named in spec.md §3.
var DefaultParams = Params{MinSymbol: 224, MinLength: 3}

// Window is the sliding window of recently decoded symbol values used to
// resolve back-references, bounded to 2^20 entries per spec.md §4.6.
type Window struct {
	buf        []int32
	numDecoded int
}

const windowSize = 1 << 20
const windowMask = windowSize - 1

// NewWindow returns an empty Window.
func NewWindow() *Window {
	return &Window{buf: make([]int32, windowSize)}
}

// Append records v as the most recently decoded value.
func (w *Window) Append(v int32) {
	w.buf[w.numDecoded&windowMask] = v
	w.numDecoded++
}

// NumDecoded returns how many values have been appended.
func (w *Window) NumDecoded() int { return w.numDecoded }

// at returns the value numDecoded-distance values ago.
func (w *Window) at(distance int) int32 {
	idx := (w.numDecoded - distance) & windowMask
	return w.buf[idx]
}

// ResolveDistance maps a raw decoded distance value d (read from the
// designated distance context) to an actual back-reference distance,
// applying the special-distance table and distanceMultiplier for small
// values as described in spec.md §4.6, then clamping to the window.
func (w *Window) ResolveDistance(d uint32, distanceMultiplier int) int {
	var distance int
	if d < NumSpecialDistances {
		dy, dx := specialDistances[d][0], specialDistances[d][1]
		if dy == 0 {
			distance = dx
		} else if distanceMultiplier > 0 {
			if dy > 0 {
				distance = dy*distanceMultiplier + dx
			} else {
				distance = -dy*distanceMultiplier - dx
			}
		} else {
			distance = 1
		}
	} else {
		distance = int(d) + 1 - NumSpecialDistances
	}
	if distance < 1 {
		distance = 1
	}
	max := w.numDecoded
	if max > windowSize {
		max = windowSize
	}
	if distance > max {
		distance = max
	}
	if distance < 1 {
		distance = 1
	}
	return distance
}

// CopyRun emits length copies (or zeros, when distance==0 is signalled by
// the caller via a zero-distance sentinel) from the window, appending each
// to the window as it goes, and returns the copied values.
func (w *Window) CopyRun(length int, distance int) ([]int32, error) {
	if length < 0 {
		return nil, decodeerr.New(decodeerr.MalformedBitstream, "lz77.CopyRun", nil)
	}
	out := make([]int32, length)
	for i := 0; i < length; i++ {
		v := int32(0)
		if distance != 0 {
			v = w.at(distance)
		}
		out[i] = v
		w.Append(v)
	}
	return out, nil
}

// IsLengthToken reports whether token t (already expanded from its raw
// hybrid-int form to a symbol id, not yet a value) signals a
// back-reference under params.
func (p Params) IsLengthToken(symbol uint32) bool {
	return p.Enabled && symbol >= p.MinSymbol
}

// LengthFromToken turns a length-prefix token into the actual copy length,
// per spec.md §4.6 step 1.
func (p Params) LengthFromToken(br *bits.Reader, symbol uint32) uint32 {
	return p.LengthConfig.Decode(br, symbol-p.MinSymbol) + p.MinLength
}
