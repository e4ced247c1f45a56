/*
DESCRIPTION
  dcsmooth.go implements adaptive DC smoothing of spec.md §4.11: a 3x3
  adaptive filter over the per-8x8-block DC image, blending toward a
  locally smoothed value unless doing so would cross an edge.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package vardct

// Smoothing kernel weights of spec.md §4.11: dcW0 + 4*dcW1 + 4*dcW2 = 1.
const (
	dcW0 = 0.052
	dcW1 = 0.2035
	dcW2 = 0.0335
)

// DcPlane is one channel's DC image, row-major at blockW x blockH
// (8x8-block) resolution.
type DcPlane struct {
	W, H int
	Data []float64
}

func (p *DcPlane) at(x, y int) float64 {
	if x < 0 {
		x = 0
	}
	if x >= p.W {
		x = p.W - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.H {
		y = p.H - 1
	}
	return p.Data[y*p.W+x]
}

// SmoothDC applies spec.md §4.11's adaptive DC smoothing to three
// channel planes in place, skipped entirely when skip is true.
// dcFactors are the per-channel normalisation divisors for the edge gap
// test.
func SmoothDC(planes [3]*DcPlane, dcFactors [3]float64, skip bool) {
	if skip {
		return
	}
	w, h := planes[0].W, planes[0].H
	if w < 3 || h < 3 {
		return // borders only; nothing interior to smooth.
	}

	outs := [3][]float64{
		append([]float64(nil), planes[0].Data...),
		append([]float64(nil), planes[1].Data...),
		append([]float64(nil), planes[2].Data...),
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var smoothed [3]float64
			var gap float64
			for c := 0; c < 3; c++ {
				p := planes[c]
				center := p.at(x, y)
				sm := dcW0*center +
					dcW1*(p.at(x-1, y)+p.at(x+1, y)+p.at(x, y-1)+p.at(x, y+1)) +
					dcW2*(p.at(x-1, y-1)+p.at(x+1, y-1)+p.at(x-1, y+1)+p.at(x+1, y+1))
				smoothed[c] = sm
				df := dcFactors[c]
				if df == 0 {
					df = 1
				}
				g := absf(center-sm) / df
				if g > gap {
					gap = g
				}
			}
			factor := 3 - 4*gap
			if factor < 0 {
				factor = 0
			}
			for c := 0; c < 3; c++ {
				center := planes[c].at(x, y)
				outs[c][y*w+x] = center + factor*(smoothed[c]-center)
			}
		}
	}

	for c := 0; c < 3; c++ {
		planes[c].Data = outs[c]
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
