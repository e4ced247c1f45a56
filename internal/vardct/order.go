/*
DESCRIPTION
  order.go implements the coefficient-order decoding of spec.md §4.11:
  for each of 13 order buckets times 3 channels, the default is natural
  order (zig-zag for 8x8, row-major beyond); a usedOrders mask chooses
  buckets whose order is instead read as a permutation via the
  cross-cutting Lehmer decoder of spec.md §4.14.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package vardct

import (
	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/perm"
)

// NumOrderBuckets and NumOrderChannels give the coefficient-order table
// shape of spec.md §4.11.
const (
	NumOrderBuckets  = 13
	NumOrderChannels = 3
)

// naturalOrder8x8 is the canonical zig-zag visiting order for an 8x8
// block, lowest frequency first.
var naturalOrder8x8 = buildZigZag8x8()

func buildZigZag8x8() []int {
	const n = 8
	order := make([]int, 0, n*n)
	for s := 0; s < 2*n-1; s++ {
		var coords [][2]int
		for v := 0; v < n; v++ {
			u := s - v
			if u >= 0 && u < n {
				coords = append(coords, [2]int{u, v})
			}
		}
		if s%2 == 0 {
			for i, j := 0, len(coords)-1; i < j; i, j = i+1, j-1 {
				coords[i], coords[j] = coords[j], coords[i]
			}
		}
		for _, c := range coords {
			order = append(order, c[1]*n+c[0])
		}
	}
	return order
}

// naturalOrder returns the default visiting order for an n*n block:
// zig-zag for 8x8, row-major for every other size, per spec.md §4.11.
func naturalOrder(n int) []int {
	if n == 8 {
		return naturalOrder8x8
	}
	order := make([]int, n*n)
	for i := range order {
		order[i] = i
	}
	return order
}

// CoefficientOrders holds the (bucket, channel) -> visiting-order table.
type CoefficientOrders struct {
	orders [NumOrderBuckets][NumOrderChannels][]int
}

// ReadCoefficientOrders reads the usedOrders mask and, for each flagged
// (bucket, channel), a permutation of the bucket's natural order via
// spec.md §4.14; unflagged buckets keep the natural order for size n.
func ReadCoefficientOrders(br *bits.Reader, bucketSize func(bucket int) int) (*CoefficientOrders, error) {
	co := &CoefficientOrders{}
	usedOrders := uint32(br.ReadBits(NumOrderBuckets))
	for bucket := 0; bucket < NumOrderBuckets; bucket++ {
		n := bucketSize(bucket)
		natural := naturalOrder(n)
		for ch := 0; ch < NumOrderChannels; ch++ {
			if usedOrders&(1<<uint(bucket)) == 0 {
				co.orders[bucket][ch] = natural
				continue
			}
			p, err := perm.ReadPermutation(br, len(natural))
			if err != nil {
				return nil, err
			}
			permuted := make([]int, len(natural))
			for i, idx := range p {
				permuted[i] = natural[idx]
			}
			co.orders[bucket][ch] = permuted
		}
	}
	return co, nil
}

// Order returns the coefficient visiting order for (bucket, channel).
func (co *CoefficientOrders) Order(bucket, channel int) []int {
	if bucket < 0 || bucket >= NumOrderBuckets || channel < 0 || channel >= NumOrderChannels {
		return nil
	}
	return co.orders[bucket][channel]
}
