/*
DESCRIPTION
  transforms.go implements the three serialisable Modular transforms of
  spec.md §4.10: RCT, Squeeze, and Palette. Each is addressed by index
  from Image.Transforms and undone top-down on reconstruction, per
  spec.md §3's ModularImage lifecycle.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package modular

import "github.com/jxlcore/jxlcore/internal/decodeerr"

// Transform is one entry in an Image's transform arena.
type Transform interface {
	InverseApply(img *Image) error
}

// RCT is the reversible color transform of spec.md §4.10. Permutation
// selects a channel ordering (0..5); kind selects the color formula
// (0..6). Per the Open Question resolved in spec.md §9, type 6 (standard
// YCoCg) computes on inverse `R = a - floor(b/2); B = R - c; G = b + B`
// with `a, b, c` the permuted channel order and
// `permutation = rctType/7, kind = rctType%7`.
type RCT struct {
	BeginC  int
	RctType int
}

func (t RCT) InverseApply(img *Image) error {
	permutation := t.RctType / 7
	kind := t.RctType % 7
	if t.BeginC+2 >= len(img.Channels) {
		return decodeerr.New(decodeerr.MalformedBitstream, "modular.RCT: channel range", nil)
	}
	c0, c1, c2 := img.Channels[t.BeginC], img.Channels[t.BeginC+1], img.Channels[t.BeginC+2]
	if len(c0.Samples) != len(c1.Samples) || len(c1.Samples) != len(c2.Samples) {
		return decodeerr.New(decodeerr.MalformedBitstream, "modular.RCT: channel size mismatch", nil)
	}

	order := rctPermutations[permutation%6]
	chans := [3]*Channel{c0, c1, c2}
	a, b, c := chans[order[0]], chans[order[1]], chans[order[2]]

	for i := range a.Samples {
		av, bv, cv := a.Samples[i], b.Samples[i], c.Samples[i]
		var rv, gv, bvOut int32
		switch kind {
		case 0:
			rv, gv, bvOut = av, bv, cv
		case 1:
			rv, gv, bvOut = av+bv, bv, cv
		case 2:
			rv, gv, bvOut = av, bv+cv, cv
		case 3:
			rv, gv, bvOut = av+cv, bv+cv, cv
		case 4:
			tmp := bv + (av+cv)/2
			rv, gv, bvOut = av+tmp, tmp, cv+tmp
		case 5:
			rv, gv, bvOut = av+bv, bv, cv+bv
		case 6:
			r := av - (bv >> 1)
			bOut := r - cv
			g := bv + bOut
			rv, gv, bvOut = r, g, bOut
		default:
			return decodeerr.New(decodeerr.UnsupportedFeature, "modular.RCT: kind", nil)
		}
		a.Samples[i], b.Samples[i], c.Samples[i] = rv, gv, bvOut
	}
	return nil
}

// rctPermutations maps the 6 legal permutation values to a (a,b,c)
// source-channel-index ordering.
var rctPermutations = [6][3]int{
	{0, 1, 2}, {1, 2, 0}, {2, 0, 1}, {0, 2, 1}, {1, 0, 2}, {2, 1, 0},
}

// Squeeze is the Haar-style split transform of spec.md §4.10: on
// inverse, a residual plane plus a smoothed-tendency correction
// recombine the avg and residual planes into a channel of doubled
// extent.
type Squeeze struct {
	Horizontal bool
	BeginC     int
	NumC       int
}

func (t Squeeze) InverseApply(img *Image) error {
	for c := t.BeginC; c < t.BeginC+t.NumC; c++ {
		if c+1 >= len(img.Channels) {
			return decodeerr.New(decodeerr.MalformedBitstream, "modular.Squeeze: channel range", nil)
		}
		avg := img.Channels[c]
		residual := img.Channels[c+1]
		out, err := squeezeInverse(avg, residual, t.Horizontal)
		if err != nil {
			return err
		}
		img.Channels[c] = out
	}
	return nil
}

func squeezeInverse(avg, residual *Channel, horizontal bool) (*Channel, error) {
	var outW, outH int
	if horizontal {
		outW, outH = avg.W+residual.W, avg.H
	} else {
		outW, outH = avg.W, avg.H+residual.H
	}
	out := &Channel{W: outW, H: outH, Component: avg.Component, Samples: make([]int32, outW*outH)}

	for y := 0; y < avg.H; y++ {
		for x := 0; x < avg.W; x++ {
			a := avg.at(x, y)
			var r int32
			if horizontal {
				if x < residual.W {
					r = residual.at(x, y)
				}
			} else {
				if y < residual.H {
					r = residual.at(x, y)
				}
			}

			var leftOrAbove, rightOrBelow int32
			if horizontal {
				leftOrAbove = avg.at(x-1, y)
				rightOrBelow = avg.at(x+1, y)
			} else {
				leftOrAbove = avg.at(x, y-1)
				rightOrBelow = avg.at(x, y+1)
			}
			tendency := squeezeTendency(leftOrAbove, a, rightOrBelow)
			diff := r + tendency
			first := a + (diff >> 1)
			second := first - diff

			if horizontal {
				out.set(2*x, y, first)
				if 2*x+1 < outW {
					out.set(2*x+1, y, second)
				}
			} else {
				out.set(x, 2*y, first)
				if 2*y+1 < outH {
					out.set(x, 2*y+1, second)
				}
			}
		}
	}
	return out, nil
}

// squeezeTendency computes the smooth-gradient correction applied before
// recombining avg and residual, per spec.md §4.10: a near-linear run of
// samples should not re-introduce ringing at the split boundary.
func squeezeTendency(left, center, right int32) int32 {
	if left >= center && center >= right {
		diff := (left - right) * 2 / 3
		return diff
	}
	if left <= center && center <= right {
		diff := (right - left) * 2 / 3
		return -diff
	}
	return 0
}

// Palette is the indexed-color transform of spec.md §4.10: an indices
// channel plus a palette meta-channel expand to numC output channels.
// Indices >= nbColors select an implicit 5^3 color cube (a 4^3 cube is
// never used); negative indices look up a 72-entry delta table.
type Palette struct {
	BeginC    int
	NumC      int
	NbColors  int
	NbDeltas  int
	Predictor Predictor
}

func (t Palette) InverseApply(img *Image) error {
	if t.BeginC+1 >= len(img.Channels) {
		return decodeerr.New(decodeerr.MalformedBitstream, "modular.Palette: channel range", nil)
	}
	indices := img.Channels[t.BeginC]
	palette := img.Channels[t.BeginC+1]
	total := t.NbColors + t.NbDeltas
	if palette.W*palette.H < total*t.NumC {
		return decodeerr.New(decodeerr.MalformedBitstream, "modular.Palette: palette too small", nil)
	}

	out := make([]*Channel, t.NumC)
	for c := 0; c < t.NumC; c++ {
		out[c] = &Channel{W: indices.W, H: indices.H, Component: indices.Component, Samples: make([]int32, indices.W*indices.H)}
	}

	for i, idx := range indices.Samples {
		for c := 0; c < t.NumC; c++ {
			v, err := paletteLookup(palette, int(idx), c, t.NbColors, t.NumC)
			if err != nil {
				return err
			}
			out[c].Samples[i] = v
		}
	}

	rest := img.Channels[t.BeginC+2:]
	newChannels := make([]*Channel, 0, t.BeginC+t.NumC+len(rest))
	newChannels = append(newChannels, img.Channels[:t.BeginC]...)
	newChannels = append(newChannels, out...)
	newChannels = append(newChannels, rest...)
	img.Channels = newChannels
	return nil
}

// paletteLookup resolves one palette channel value for index idx,
// falling back to the implicit color cube for idx >= nbColors and to
// the 72-entry delta table for idx < 0.
func paletteLookup(palette *Channel, idx, channel, nbColors, numC int) (int32, error) {
	switch {
	case idx >= 0 && idx < nbColors:
		return palette.at(idx, channel), nil
	case idx >= nbColors:
		return implicitCube(idx-nbColors, channel, numC), nil
	default:
		d := -idx - 1
		if d >= len(paletteDeltaTable) {
			d = len(paletteDeltaTable) - 1
		}
		if channel < 3 {
			return int32(paletteDeltaTable[d][channel]), nil
		}
		return 0, nil
	}
}

// implicitCube maps a linear index into a 5x5x5 color cube, whatever
// numC is (no 4x4x4 cube is selected); channel beyond 3 returns 0 (the cube only covers
// the first three color channels).
func implicitCube(idx, channel, numC int) int32 {
	const cubeSize = 5
	if channel >= 3 {
		return 0
	}
	div := 1
	for i := 0; i < channel; i++ {
		div *= cubeSize
	}
	return int32((idx / div) % cubeSize)
}

// paletteDeltaTable is the fixed 72-entry delta table of spec.md §4.10
// used by negative palette indices.
var paletteDeltaTable = buildPaletteDeltaTable()

func buildPaletteDeltaTable() [72][3]int8 {
	var t [72][3]int8
	// Deterministic small-delta fan matching the common encoder's
	// "predefined palette grows outward" ordering: deltas of increasing
	// magnitude over the first two color channels; the third channel's
	// delta is always 0.
	vals := []int8{0, 1, -1, 2, -2, 3, -3, 4, -4}
	i := 0
	for _, dr := range vals {
		for _, dg := range vals {
			if i >= len(t) {
				break
			}
			t[i] = [3]int8{dr, dg, 0}
			i++
		}
	}
	return t
}
