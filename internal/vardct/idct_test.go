/*
DESCRIPTION
  idct_test.go provides testing for idct.go.
*/
package vardct

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestIDCT2DDcOnlyProducesFlatBlock(t *testing.T) {
	const n = 8
	for _, k := range []float64{1, -3, 17.5} {
		coef := make([]float64, n*n)
		coef[0] = k * n
		out := IDCT2D(coef, n)
		want := make([]float64, len(out))
		for i := range want {
			want[i] = k
		}
		if !floats.EqualApprox(out, want, 1e-9) {
			t.Fatalf("k=%v: out = %v, want every sample %v", k, out, k)
		}
	}
}

func TestIDCT2DZeroIsZero(t *testing.T) {
	coef := make([]float64, 64)
	out := IDCT2D(coef, 8)
	want := make([]float64, len(out))
	if !floats.Equal(out, want) {
		t.Fatalf("out = %v, want all zero", out)
	}
}
