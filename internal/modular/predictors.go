/*
DESCRIPTION
  predictors.go implements the 14-variant predictor suite of spec.md
  §4.10, including the adaptive Weighted predictor. Per spec.md §9's
  re-architecture advice, the Weighted predictor's four running error
  accumulators are kept in a small ring buffer sized to one row rather
  than a full-image matrix, mirroring the bounded-window shape the
  teacher's h264dec CABAC context models use for neighbour state.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package modular

// neighbourhood bundles the pixel values a predictor needs: Left, Top,
// TopLeft, TopRight, LeftLeft, and the row-two-up Top value TT, which
// callers fill in but no predictor here reads.
type neighbourhood struct {
	L, T, TL, TR, LL, TT int32
}

// clamp restricts v to the inclusive range [lo, hi], swapping lo/hi if
// given in the wrong order (ClampedGradient's bound is built from two
// neighbour samples of unknown relative order).
func clamp(v, lo, hi int32) int32 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// predict returns the prediction for predictor p given n, excluding the
// Weighted predictor which needs the adaptive weight state threaded
// through WeightedPredictor.Predict instead.
func predict(p Predictor, n neighbourhood) int32 {
	switch p {
	case PredictorZero:
		return 0
	case PredictorLeft:
		return n.L
	case PredictorTop:
		return n.T
	case PredictorAverageLT:
		return (n.L + n.T) / 2
	case PredictorSelect:
		if abs32(n.T-n.TL) < abs32(n.L-n.TL) {
			return n.L
		}
		return n.T
	case PredictorClampedGradient:
		grad := n.T + n.L - n.TL
		return clamp(grad, n.T, n.L)
	case PredictorTopRight:
		return n.TR
	case PredictorTopLeft:
		return n.TL
	case PredictorLeftLeft:
		return n.LL
	case PredictorAverageTTR:
		return (n.T + n.TR) / 2
	case PredictorAverageLLL:
		return (n.L + n.LL) / 2
	case PredictorAverageLTAvg:
		return (n.L + (n.T+n.TR)/2) / 2
	case PredictorAverageTopRightTop:
		return (n.T + (n.T+n.TR)/2) / 2
	default:
		return 0
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// WeightedPredictor implements spec.md §4.10's adaptive linear
// combination of four sub-predictors, each weighted down by
// floor(log2(accumulated error)/2) to emphasise locally accurate
// predictors. Of the seeds supplied by WeightedConfig, P1C and P2C
// shape the fourth sub-predictor; P3Ca..P3Ce are not read.
type WeightedPredictor struct {
	cfg WeightedConfig

	// weights[k] is the current weight of sub-predictor k, in the same
	// fixed-point scale as the teacher's error accumulators.
	weights [4]int32

	// errRow holds one row's worth of per-subpredictor error history;
	// index 0 is "previous row", index 1 is "current row", avoiding an
	// O(width*height) matrix per spec.md §9.
	errRow [2][]int32
	width  int
}

// WeightedConfig carries the seven signed weight seeds of spec.md
// §4.10; subPredictions uses only P1C and P2C.
type WeightedConfig struct {
	P1C                          int32
	P2C                          int32
	P3Ca, P3Cb, P3Cc, P3Cd, P3Ce int32
}

// DefaultWeightedConfig matches the conventional baseline seed values.
var DefaultWeightedConfig = WeightedConfig{
	P1C: 16, P2C: 10,
	P3Ca: -4, P3Cb: -3, P3Cc: 2, P3Cd: -2, P3Ce: -1,
}

// NewWeightedPredictor allocates per-row error state for a channel of
// the given width.
func NewWeightedPredictor(cfg WeightedConfig, width int) *WeightedPredictor {
	w := &WeightedPredictor{cfg: cfg, width: width}
	w.errRow[0] = make([]int32, 4*width)
	w.errRow[1] = make([]int32, 4*width)
	for i := range w.weights {
		w.weights[i] = 1 << 16 // unit weight in Q16.
	}
	return w
}

// subPredictions computes the four sub-predictor outputs from the
// neighbourhood, shaped by the configured seeds.
func (w *WeightedPredictor) subPredictions(n neighbourhood) [4]int32 {
	teT := n.T
	teL := n.L
	teTL := n.TL
	teTR := n.TR
	return [4]int32{
		teL,
		teT,
		teT + teL - teTL,
		teT + ((teTR-teT)*w.cfg.P1C)>>5 + ((teL-teTL)*w.cfg.P2C)>>5,
	}
}

// Predict returns the weighted blend for the pixel at column x given its
// neighbourhood, weighting each sub-predictor by the errors Update
// recorded for the left pixel (current row) and the top pixel (previous
// row). The caller records the outcome for this pixel via Update.
func (w *WeightedPredictor) Predict(x int, n neighbourhood) int32 {
	subs := w.subPredictions(n)
	var weightedSum int64
	var weightSum int64
	for k, s := range subs {
		shift := errShift(w.errAt(1, x-1, k) + w.errAt(0, x, k))
		effWeight := w.weights[k] >> uint(shift)
		if effWeight < 1 {
			effWeight = 1
		}
		weightedSum += int64(effWeight) * int64(s)
		weightSum += int64(effWeight)
	}
	if weightSum == 0 {
		return subs[1]
	}
	return int32(weightedSum / weightSum)
}

// errAt reads the accumulated absolute error for sub-predictor k at
// column x from the given row slot (0=previous, 1=current); out-of-
// range columns read as zero (border).
func (w *WeightedPredictor) errAt(row, x, k int) int32 {
	idx := x*4 + k
	if idx < 0 || idx >= len(w.errRow[row]) {
		return 0
	}
	return w.errRow[row][idx]
}

// errShift maps an accumulated error magnitude to the weight shift
// floor(log2(err)/2) named in spec.md §4.10.
func errShift(err int32) uint {
	if err <= 0 {
		return 0
	}
	bits := 0
	for v := err; v > 0; v >>= 1 {
		bits++
	}
	return uint((bits - 1) / 2)
}

// Update records the observed residual for each sub-predictor at column
// x against the actual sample value, maintaining the running error
// accumulators used by the next Predict call at column x+1 and on the
// next row.
func (w *WeightedPredictor) Update(x int, n neighbourhood, actual int32) {
	subs := w.subPredictions(n)
	for k, s := range subs {
		e := abs32(actual - s)
		idx := x*4 + k
		if idx >= 0 && idx < len(w.errRow[1]) {
			w.errRow[1][idx] = e
		}
	}
}

// NextRow rotates the ring buffer so the current row becomes the
// "previous" row for the next scanline.
func (w *WeightedPredictor) NextRow() {
	w.errRow[0], w.errRow[1] = w.errRow[1], w.errRow[0]
	for i := range w.errRow[1] {
		w.errRow[1][i] = 0
	}
}
