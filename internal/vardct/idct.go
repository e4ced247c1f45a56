/*
DESCRIPTION
  idct.go implements the inverse DCT dispatch of spec.md §4.11: a
  strategy-sized inverse DCT-III, normalised so a single DC coefficient
  of value k*N always reproduces a flat block of value k (spec.md §8's
  testable property), shared across every block shape rather than one
  hand-specialised routine per size.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package vardct

import "math"

// alpha is the orthonormal DCT-III scale factor for frequency index k
// of an N-point transform.
func alpha(k, n int) float64 {
	if k == 0 {
		return math.Sqrt(1.0 / float64(n))
	}
	return math.Sqrt(2.0 / float64(n))
}

var cosCache = map[int][][]float64{}

// cosTable returns, and caches, the n*n table of cos(pi/n*(x+0.5)*u)
// values used by both dimensions of the separable inverse transform.
func cosTable(n int) [][]float64 {
	if t, ok := cosCache[n]; ok {
		return t
	}
	t := make([][]float64, n)
	for x := 0; x < n; x++ {
		t[x] = make([]float64, n)
		for u := 0; u < n; u++ {
			t[x][u] = math.Cos(math.Pi / float64(n) * (float64(x) + 0.5) * float64(u))
		}
	}
	cosCache[n] = t
	return t
}

// IDCT2D performs a direct (non-fast) 2D inverse DCT-III over an n*n
// coefficient block, row-major in both coef and the returned samples.
// This is a reference-shaped implementation: correctness over speed,
// since the hot-path fast butterfly variants are an optimisation this
// core does not need to reproduce.
func IDCT2D(coef []float64, n int) []float64 {
	cos := cosTable(n)
	out := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			var sum float64
			for v := 0; v < n; v++ {
				av := alpha(v, n)
				cy := cos[y][v]
				for u := 0; u < n; u++ {
					c := coef[v*n+u]
					if c == 0 {
						continue
					}
					sum += alpha(u, n) * av * c * cos[x][u] * cy
				}
			}
			out[y*n+x] = sum
		}
	}
	return out
}

// IDCTForStrategy dispatches to IDCT2D using the strategy's pixel
// dimensions; non-square strategies run a separable NxM transform by
// applying the 1D inverse along each axis with its own size.
func IDCTForStrategy(s AcStrategy, coef []float64) []float64 {
	w, h := s.PixelDims()
	if w == h {
		return IDCT2D(coef, w)
	}
	return idctRect(coef, w, h)
}

// idctRect performs a separable inverse DCT for a w*h (possibly
// non-square) block.
func idctRect(coef []float64, w, h int) []float64 {
	// First pass: inverse-transform each row (length w).
	rowOut := make([]float64, w*h)
	cosW := cosTable(w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for u := 0; u < w; u++ {
				c := coef[y*w+u]
				if c == 0 {
					continue
				}
				sum += alpha(u, w) * c * cosW[x][u]
			}
			rowOut[y*w+x] = sum
		}
	}
	// Second pass: inverse-transform each column (length h).
	out := make([]float64, w*h)
	cosH := cosTable(h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum float64
			for v := 0; v < h; v++ {
				sum += alpha(v, h) * rowOut[v*w+x] * cosH[y][v]
			}
			out[y*w+x] = sum
		}
	}
	return out
}
