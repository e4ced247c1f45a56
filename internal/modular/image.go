/*
DESCRIPTION
  image.go implements the Modular image core of spec.md §4.10: an
  ordered list of integer-sample channels plus a pending transform
  arena, decoded through per-pixel prediction and residual decoding
  driven by a meta-adaptive tree. The transform arena is addressed by
  index from the image (not via mutually referential pointers), per
  spec.md §9's advice against the source's cyclic Transform<->Image
  wiring.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package modular

import (
	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
	"github.com/jxlcore/jxlcore/internal/entropy"
	"github.com/jxlcore/jxlcore/internal/field"
)

// Channel is one plane of 32-bit signed samples, optionally subsampled
// relative to the image's base grid by (hShift, vShift).
type Channel struct {
	W, H           int
	HShift, VShift int
	Component      int
	Samples        []int32
}

// at returns the sample at (x, y); out-of-range reads return 0 (used by
// predictors at image borders before any mirroring is applied — the
// Modular core itself does not mirror, only the render pipeline does).
func (c *Channel) at(x, y int) int32 {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return 0
	}
	return c.Samples[y*c.W+x]
}

func (c *Channel) set(x, y int, v int32) {
	c.Samples[y*c.W+x] = v
}

// Image is the ordered channel list plus the transform arena of
// spec.md §3 (ModularImage).
type Image struct {
	Channels   []*Channel
	Transforms []Transform
}

// NewImage allocates an Image with the given channel dimensions, each
// channel zero-initialised.
func NewImage(dims []Channel) *Image {
	img := &Image{Channels: make([]*Channel, len(dims))}
	for i, d := range dims {
		ch := d
		ch.Samples = make([]int32, ch.W*ch.H)
		img.Channels[i] = &ch
	}
	return img
}

// DecodeChannels decodes every channel's residuals through tree-driven
// prediction, per spec.md §4.10: `sample = prediction + residual *
// multiplier + offset`.
func (img *Image) DecodeChannels(br *bits.Reader, tree *Tree, wpCfg WeightedConfig) error {
	totalPixels := 0
	for _, ch := range img.Channels {
		totalPixels += ch.W * ch.H
	}
	hs, err := entropy.ReadHistogramSet(br, numResidualContexts(len(img.Channels)))
	if err != nil {
		return err
	}
	window := entropy.NewWindow()

	for ci, ch := range img.Channels {
		wp := NewWeightedPredictor(wpCfg, ch.W)
		for y := 0; y < ch.H; y++ {
			for x := 0; x < ch.W; x++ {
				n := neighbourhood{
					L:  ch.at(x-1, y),
					T:  ch.at(x, y-1),
					TL: ch.at(x-1, y-1),
					TR: ch.at(x+1, y-1),
					LL: ch.at(x-2, y),
					TT: ch.at(x, y-2),
				}
				props := []int32{int32(ci), n.T, n.L, n.TL, n.TR, n.LL}
				leaf := tree.Lookup(props)

				ctx := residualContext(ci, y, x)
				tok, err := hs.ReadValue(br, ctx, window)
				if err != nil {
					return err
				}
				residual := field.PackedSigned(uint32(tok))

				var pred int32
				if leaf.PredictorIdx == PredictorWeighted {
					pred = wp.Predict(x, n)
				} else {
					pred = predict(leaf.PredictorIdx, n)
				}
				sample := pred + residual*leaf.Multiplier + int32(leaf.Offset)
				ch.set(x, y, sample)

				if leaf.PredictorIdx == PredictorWeighted {
					wp.Update(x, n, sample)
				}
			}
			wp.NextRow()
		}
	}
	return nil
}

// numResidualContexts is a placeholder context-count function: a full
// implementation derives context count from the tree's leaf set, but
// since every leaf's own depth already participates in ctx selection
// via the tree lookup in real decoders, this core keeps one context per
// channel as a simplification documented in DESIGN.md.
func numResidualContexts(numChannels int) int {
	if numChannels < 1 {
		return 1
	}
	return numChannels
}

func residualContext(channel, y, x int) int {
	_ = y
	_ = x
	return channel
}

// ApplyTransforms undoes every transform in the image's arena in
// reverse (top-down) order, per spec.md §4.10 and §3's lifecycle note.
func (img *Image) ApplyTransforms() error {
	for i := len(img.Transforms) - 1; i >= 0; i-- {
		if err := img.Transforms[i].InverseApply(img); err != nil {
			return decodeerr.New(decodeerr.MalformedBitstream, "modular.ApplyTransforms", err)
		}
	}
	return nil
}
