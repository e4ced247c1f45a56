/*
DESCRIPTION
  dequant.go implements the dequant-matrix tables of spec.md §4.11: 17
  tables, each declared as Library, Identity, DCT2, DCT4, DCT4x8, AFV,
  DCT, or RAW, holding F16-coded distance-band weights scaled by 64 that
  expand into a per-coefficient weight matrix for a given transform size.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package vardct

import (
	"github.com/jxlcore/jxlcore/internal/decodeerr"
	"github.com/jxlcore/jxlcore/internal/field"
)

// NumDequantTables is the fixed table count of spec.md §4.11.
const NumDequantTables = 17

// MatrixKind is the declared encoding of one dequant table.
type MatrixKind int

const (
	MatrixLibrary MatrixKind = iota
	MatrixIdentity
	MatrixDCT2
	MatrixDCT4
	MatrixDCT4x8
	MatrixAFV
	MatrixDCT
	MatrixRaw
)

// Matrix is one dequant table: a declared kind plus its distance-band
// weights (already F16-decoded and scaled by 64).
type Matrix struct {
	Kind    MatrixKind
	Weights []float64
}

// DequantMatrices caches expanded per-(table,size) weight arrays lazily,
// per spec.md §3's PassesSharedState note ("cached lazily per used-
// strategy mask").
type DequantMatrices struct {
	Tables [NumDequantTables]Matrix

	cache map[[2]int][]float64
}

// libraryDefaults are the baseline distance-band weights used when a
// table's kind is Library; a short, channel-agnostic falloff that
// favours low frequencies, matching the shape (not the exact tuned
// values) of the standard encoder's built-in table.
var libraryDefaults = []float64{8, 4, 2, 1, 0.5}

// ReadMatrix reads one table's kind and, for non-Library/Identity kinds,
// its F16-coded distance-band weight list (scaled by 64), per spec.md
// §4.11. numBands is the number of weights this table's kind expects.
// A RAW table is rejected with UnsupportedFeature.
func ReadMatrix(fr *field.Reader, numBands int) (Matrix, error) {
	kindTok := fr.U32(field.Val(0), field.BitsOffset(1, 1), field.BitsOffset(2, 3), field.BitsOffset(3, 7))
	kind := MatrixKind(kindTok)
	switch kind {
	case MatrixLibrary, MatrixIdentity:
		return Matrix{Kind: kind, Weights: append([]float64(nil), libraryDefaults...)}, nil
	case MatrixRaw:
		return Matrix{}, decodeerr.New(decodeerr.UnsupportedFeature, "vardct.ReadMatrix: RAW matrices unsupported", nil)
	default:
		weights := make([]float64, numBands)
		for i := range weights {
			weights[i] = float64(fr.F16()) * 64
		}
		if weights[0] <= 1e-8 {
			return Matrix{}, decodeerr.New(decodeerr.MalformedBitstream, "vardct.ReadMatrix: band-0 weight too small", nil)
		}
		return Matrix{Kind: kind, Weights: weights}, nil
	}
}

// Expand produces an n*n per-coefficient weight matrix from table t's
// banded weights, radially bucketing each (u,v) frequency pair by
// distance from the origin into the available bands.
func (m Matrix) Expand(n int) []float64 {
	out := make([]float64, n*n)
	if len(m.Weights) == 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	maxDist := 0.0
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			d := dist2(u, v)
			if d > maxDist {
				maxDist = d
			}
		}
	}
	numBands := float64(len(m.Weights))
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			d := dist2(u, v)
			band := 0
			if maxDist > 0 {
				band = int(d / maxDist * (numBands - 1))
			}
			if band >= len(m.Weights) {
				band = len(m.Weights) - 1
			}
			out[v*n+u] = m.Weights[band]
		}
	}
	return out
}

func dist2(u, v int) float64 {
	fu, fv := float64(u), float64(v)
	return fu*fu + fv*fv
}

// Get returns (and lazily computes) the expanded n*n weight matrix for
// table index idx.
func (d *DequantMatrices) Get(idx, n int) []float64 {
	if d.cache == nil {
		d.cache = make(map[[2]int][]float64)
	}
	key := [2]int{idx, n}
	if w, ok := d.cache[key]; ok {
		return w
	}
	if idx < 0 || idx >= NumDequantTables {
		idx = 0
	}
	w := d.Tables[idx].Expand(n)
	d.cache[key] = w
	return w
}
