/*
DESCRIPTION
  stages.go implements spec.md §4.12's stage catalogue: constructors
  that return a Stage wired for the pipeline driver in pipeline.go. Each
  constructor encodes one algorithm from the catalogue; channel indices
  are caller-supplied since the pipeline treats channels positionally.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package render

import (
	"math"

	"github.com/jxlcore/jxlcore/internal/color"
)

// XYBToLinearStage converts three XYB channels in place to linear RGB.
func XYBToLinearStage(numChannels, cx, cy, cb int) Stage {
	settings := uniformSettings(numChannels, InPlace, 0, 0, 0, 0)
	return Stage{
		Name:     "xyb_to_linear",
		Settings: settings,
		Op: func(_ []Settings, in [][][]float64, xpos int, _ [][][]float64) {
			xr, yr, br := in[cx][0], in[cy][0], in[cb][0]
			for i := xpos; i < len(xr)-xpos; i++ {
				r, g, b := color.XYBToLinearSRGB(xr[i], yr[i], br[i])
				xr[i], yr[i], br[i] = r, g, b
			}
		},
	}
}

// LinearToSRGBStage applies the sRGB transfer function to every
// non-ignored channel independently.
func LinearToSRGBStage(modes []ChannelMode) Stage {
	settings := make([]Settings, len(modes))
	for i, m := range modes {
		mode := InPlace
		if m == Ignored {
			mode = Ignored
		}
		settings[i] = Settings{Mode: mode}
	}
	return Stage{
		Name:     "linear_to_srgb",
		Settings: settings,
		Op: func(st []Settings, in [][][]float64, xpos int, _ [][][]float64) {
			for ci, s := range st {
				if s.Mode == Ignored {
					continue
				}
				row := in[ci][0]
				for i := xpos; i < len(row)-xpos; i++ {
					row[i] = color.LinearToSRGB(row[i])
				}
			}
		},
	}
}

// YCbCrToRGBStage converts three YCbCr channels in place to RGB.
func YCbCrToRGBStage(numChannels, cy, ccb, ccr int) Stage {
	settings := uniformSettings(numChannels, InPlace, 0, 0, 0, 0)
	return Stage{
		Name:     "ycbcr_to_rgb",
		Settings: settings,
		Op: func(_ []Settings, in [][][]float64, xpos int, _ [][][]float64) {
			y, cb, cr := in[cy][0], in[ccb][0], in[ccr][0]
			for i := xpos; i < len(y)-xpos; i++ {
				r, g, b := color.YCbCrToRGB(y[i], cb[i], cr[i])
				y[i], cb[i], cr[i] = r, g, b
			}
		},
	}
}

// ChromaUpsampleStage doubles one chroma channel along one axis using
// the 0.75/0.25 near-edge blend of spec.md §4.12, applied once per
// doubling; horizontal=true upsamples X, else Y.
func ChromaUpsampleStage(numChannels, target int, horizontal bool) Stage {
	settings := uniformSettings(numChannels, Ignored, 0, 0, 0, 0)
	if horizontal {
		settings[target] = Settings{Mode: InOut, BorderX: 1, ShiftX: 1}
	} else {
		settings[target] = Settings{Mode: InOut, BorderY: 1, ShiftY: 1}
	}
	return Stage{
		Name:     "chroma_upsample",
		Settings: settings,
		Op: func(st []Settings, in [][][]float64, xpos int, out [][][]float64) {
			s := st[target]
			if s.Mode != InOut {
				return
			}
			if horizontal {
				row := in[target][0]
				outRow := out[target][0]
				for x := 0; x < len(outRow)/2; x++ {
					mid := row[x+xpos]
					left := row[x-1+xpos]
					right := row[x+1+xpos]
					outRow[2*x] = 0.75*mid + 0.25*left
					outRow[2*x+1] = 0.75*mid + 0.25*right
				}
			} else {
				above, mid, below := in[target][0], in[target][1], in[target][2]
				_ = above
				n := len(mid) - 2*xpos
				for x := 0; x < n; x++ {
					out[target][0][x+xpos] = 0.75*mid[x+xpos] + 0.25*in[target][0][x+xpos]
					out[target][1][x+xpos] = 0.75*mid[x+xpos] + 0.25*below[x+xpos]
				}
			}
		},
	}
}

// GaborishStage applies a 3x3 separable-looking convolution with
// per-channel (w0, w1, w2) weights, each normalised so w0+4w1+4w2=1.
func GaborishStage(numChannels int, weights map[int][2]float64) Stage {
	settings := uniformSettings(numChannels, Ignored, 0, 0, 0, 0)
	for ci := range weights {
		settings[ci] = Settings{Mode: InOut, BorderX: 1, BorderY: 1}
	}
	return Stage{
		Name:     "gaborish",
		Settings: settings,
		Op: func(st []Settings, in [][][]float64, xpos int, out [][][]float64) {
			for ci, s := range st {
				if s.Mode != InOut {
					continue
				}
				seed := weights[ci]
				w1, w2 := seed[0], seed[1]
				w0 := 1 - 4*w1 - 4*w2
				width := len(out[ci][0])
				for x := 0; x < width; x++ {
					sx := x + xpos
					center := in[ci][1][sx]
					edges := in[ci][0][sx] + in[ci][2][sx] + in[ci][1][sx-1] + in[ci][1][sx+1]
					corners := in[ci][0][sx-1] + in[ci][0][sx+1] + in[ci][2][sx-1] + in[ci][2][sx+1]
					out[ci][0][x] = w0*center + w1*edges + w2*corners
				}
			}
		},
	}
}

const kMinSigma = -1.0 / 128

// EPFPassStage implements one of the three Edge-Preserving Filter
// passes. pass selects the neighbour stencil (0: 12, 1: 4, 2: 4) and
// border (3, 2, 1) per spec.md §4.12; invSigma supplies the per-pixel
// inverse-sigma plane used for the weight function and the
// skip-if-below-kMinSigma rule.
func EPFPassStage(numChannels int, chans []int, pass int, invSigma *Channel) Stage {
	border := [3]int{3, 2, 1}[pass]
	settings := uniformSettings(numChannels, Ignored, 0, 0, 0, 0)
	for _, ci := range chans {
		settings[ci] = Settings{Mode: InOut, BorderX: border, BorderY: border}
	}
	channelScale := [3]float64{1.0, 0.4, 0.4}
	neighbours := epfStencil(pass)

	return Stage{
		Name:     "epf",
		Settings: settings,
		Op: func(st []Settings, in [][][]float64, xpos int, out [][][]float64) {
			width := 0
			for _, ci := range chans {
				if len(out[ci]) > 0 {
					width = len(out[ci][0])
					break
				}
			}
			for x := 0; x < width; x++ {
				sx := x + xpos
				sigmaAt := invSigma.at(sx, border)
				if sigmaAt < kMinSigma {
					for _, ci := range chans {
						out[ci][0][x] = in[ci][border][sx]
					}
					continue
				}
				for _, ci := range chans {
					center := in[ci][border][sx]
					sum := center
					weightSum := 1.0
					for _, nb := range neighbours {
						ny, nx := border+nb[1], sx+nb[0]
						var sad float64
						for cj, scale := range channelScale {
							if cj >= len(chans) {
								break
							}
							c2 := chans[cj]
							sad += scale * math.Abs(in[c2][border][sx]-in[c2][ny][nx])
						}
						weight := 1 + sad*sigmaAt
						if weight < 0 {
							weight = 0
						}
						sum += weight * in[ci][ny][nx]
						weightSum += weight
					}
					out[ci][0][x] = sum / weightSum
				}
			}
		},
	}
}

func epfStencil(pass int) [][2]int {
	switch pass {
	case 0:
		return [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-2, 0}, {2, 0}, {0, -2}, {0, 2}, {-1, -1}, {1, 1}, {-1, 1}, {1, -1}}
	case 1:
		return [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	default:
		return [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	}
}

// UpsampleStage upsamples one channel by factor 2, 4, or 8 using a
// separable 5x5 kernel, clamped to the local 5x5 min/max window.
func UpsampleStage(numChannels, target, factor int, kernel [5]float64) Stage {
	shift := 0
	for f := factor; f > 1; f >>= 1 {
		shift++
	}
	settings := uniformSettings(numChannels, Ignored, 0, 0, 0, 0)
	settings[target] = Settings{Mode: InOut, BorderX: 2, BorderY: 2, ShiftX: shift, ShiftY: shift}
	return Stage{
		Name:     "upsample",
		Settings: settings,
		Op: func(st []Settings, in [][][]float64, xpos int, out [][][]float64) {
			s := st[target]
			if s.Mode != InOut {
				return
			}
			n := 1 << uint(shift)
			outW := len(out[target][0])
			for k := 0; k < n; k++ {
				for x := 0; x < outW/n; x++ {
					sx := x + xpos
					var acc, lo, hi float64
					lo, hi = math.MaxFloat64, -math.MaxFloat64
					for dy := -2; dy <= 2; dy++ {
						for dx := -2; dx <= 2; dx++ {
							v := in[target][dy+2][sx+dx]
							acc += kernel[dy+2] * kernel[dx+2] * v
							if v < lo {
								lo = v
							}
							if v > hi {
								hi = v
							}
						}
					}
					if acc < lo {
						acc = lo
					}
					if acc > hi {
						acc = hi
					}
					out[target][k][x*n] = acc
				}
			}
		},
	}
}

// noiseLUT is the luma-indexed noise-strength lookup table; a small
// monotonically increasing table standing in for libjxl's per-bucket
// calibrated strengths (spec.md gives the shaping formula, not exact
// table values).
var noiseLUT = [8]float64{0.0, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35}

// NoiseStage mixes a pre-generated Laplacian-like noise channel into
// X/Y/B using a luma-indexed strength lookup.
func NoiseStage(numChannels, cx, cy, cb, noiseChan int) Stage {
	settings := uniformSettings(numChannels, Ignored, 0, 0, 0, 0)
	settings[cx] = Settings{Mode: InPlace}
	settings[cy] = Settings{Mode: InPlace}
	settings[cb] = Settings{Mode: InPlace}
	settings[noiseChan] = Settings{Mode: Input}
	return Stage{
		Name:     "noise",
		Settings: settings,
		Op: func(_ []Settings, in [][][]float64, xpos int, _ [][][]float64) {
			xr, yr, br, noise := in[cx][0], in[cy][0], in[cb][0], in[noiseChan][0]
			for i := xpos; i < len(xr)-xpos; i++ {
				luma := yr[i]
				bucket := int(luma * float64(len(noiseLUT)-1))
				if bucket < 0 {
					bucket = 0
				}
				if bucket >= len(noiseLUT) {
					bucket = len(noiseLUT) - 1
				}
				strength := noiseLUT[bucket]
				n := noise[i] * strength
				xr[i] += n
				yr[i] += n
				br[i] += n
			}
		},
	}
}

// NoiseKernel builds one row of noise by calling random once per
// sample. The values are returned as drawn: no 4*(delta - boxKernel)
// Laplacian shaping is applied.
func NoiseKernel(random func() float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		out[i] = random()
	}
	return out
}

// BlendMode enumerates spec.md §4.12's blend operators.
type BlendMode int

const (
	BlendReplace BlendMode = iota
	BlendAdd
	BlendMul
	BlendAbove
	BlendBelow
	BlendAlphaWeightedAddAbove
	BlendAlphaWeightedAddBelow
)

const alphaEpsilon = 1.0 / (1 << 26)

// BlendStage mixes a foreground Frame channel with a background
// reference channel per the selected mode.
func BlendStage(numChannels, target, alphaChan int, mode BlendMode, bg *Channel) Stage {
	settings := uniformSettings(numChannels, Ignored, 0, 0, 0, 0)
	settings[target] = Settings{Mode: InPlace}
	if alphaChan >= 0 && alphaChan != target {
		settings[alphaChan] = Settings{Mode: InPlace}
	}
	return Stage{
		Name:     "blend",
		Settings: settings,
		Op: func(_ []Settings, in [][][]float64, xpos int, _ [][][]float64) {
			fg := in[target][0]
			var alpha []float64
			if alphaChan >= 0 {
				alpha = in[alphaChan][0]
			}
			for i := xpos; i < len(fg)-xpos; i++ {
				bgVal := bg.Data[i-xpos]
				switch mode {
				case BlendReplace:
					// fg unchanged.
				case BlendAdd:
					fg[i] += bgVal
				case BlendMul:
					v := fg[i] * bgVal
					if v < 0 {
						v = 0
					}
					if v > 1 {
						v = 1
					}
					fg[i] = v
				case BlendAbove:
					fg[i] = bgVal
				case BlendBelow:
					// leave fg as foreground-on-top; no-op placeholder for
					// the below-ordering case, resolved by the caller's
					// compositing order rather than per-pixel math.
				case BlendAlphaWeightedAddAbove, BlendAlphaWeightedAddBelow:
					aFg := 1.0
					if alpha != nil {
						aFg = alpha[i]
					}
					aBg := 1.0
					aNew := 1 - (1-aFg)*(1-aBg)
					if aNew < alphaEpsilon {
						fg[i] = 0
					} else {
						fg[i] = (aFg*fg[i] + (1-aFg)*aBg*bgVal) / aNew
					}
					if alpha != nil {
						alpha[i] = aNew
					}
				}
			}
		},
	}
}

// Write quantises float [0,1] rows to 8-bit RGB or RGBA samples, writing
// into dst at ypos*width*stride + xpos*stride, per spec.md §4.12.
func Write(dst []byte, width, stride int, frame *Frame, channels []int, hasAlpha bool, ypos, xpos int) {
	h := frame.Channels[channels[0]].Height
	for y := 0; y < h; y++ {
		rowOff := (ypos+y)*width*stride + xpos*stride
		for x := 0; x < frame.Channels[channels[0]].Width; x++ {
			for ci, chIdx := range channels {
				v := frame.Channels[chIdx].at(x, y)
				dst[rowOff+x*stride+ci] = quantize8(v)
			}
			if hasAlpha {
				dst[rowOff+x*stride+len(channels)] = 0xFF
			}
		}
	}
}

func quantize8(v float64) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v*255 + 0.5)
}

func uniformSettings(n int, mode ChannelMode, bx, by, sx, sy int) []Settings {
	out := make([]Settings, n)
	for i := range out {
		out[i] = Settings{Mode: mode, BorderX: bx, BorderY: by, ShiftX: sx, ShiftY: sy}
	}
	return out
}
