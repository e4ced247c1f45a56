/*
DESCRIPTION
  lehmer.go implements the cross-cutting permutation decoder of spec.md
  §4.14: a one-histogram ANS code over 8 contexts feeding Lehmer-code
  entries, resolved against the next power-of-two order-statistics tree
  into an explicit permutation. Used by the Table-of-Contents logical-id
  permutation and by VarDCT coefficient orders.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package perm

import (
	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
	"github.com/jxlcore/jxlcore/internal/entropy"
)

// NumContexts is the fixed context count of the Lehmer-entry histogram
// set, per spec.md §4.14 step 1.
const NumContexts = 8

// fenwick is an implicit order-statistics (Fenwick / binary-indexed)
// tree over the half-open range [0, n), used to find and remove the
// k-th remaining unused position in O(log n).
type fenwick struct {
	tree []int32
	n    int
}

// newFenwick builds a tree over n positions, each initially present.
func newFenwick(n int) *fenwick {
	f := &fenwick{tree: make([]int32, n+1), n: n}
	for i := 0; i < n; i++ {
		f.add(i, 1)
	}
	return f
}

func (f *fenwick) add(i int, delta int32) {
	for i++; i <= f.n; i += i & (-i) {
		f.tree[i] += delta
	}
}

func (f *fenwick) prefixSum(i int) int32 {
	var s int32
	for i++; i > 0; i -= i & (-i) {
		s += f.tree[i]
	}
	return s
}

// selectKth finds the index of the k-th remaining position (0-based
// among those not yet removed) and removes it.
func (f *fenwick) selectKth(k int32) int {
	pos := 0
	logN := 0
	for (1 << logN) <= f.n {
		logN++
	}
	remaining := k + 1
	for bit := logN; bit >= 0; bit-- {
		next := pos + (1 << bit)
		if next <= f.n && f.tree[next] < remaining {
			pos = next
			remaining -= f.tree[next]
		}
	}
	f.add(pos, -1)
	return pos
}

// ReadLehmerEntries reads `end` Lehmer values via a single-histogram ANS
// code whose 8 contexts are selected by the previous Lehmer value,
// capped at NumContexts-1, per spec.md §4.14 step 2.
func ReadLehmerEntries(br *bits.Reader, end int) ([]uint32, error) {
	if end < 0 {
		return nil, decodeerr.New(decodeerr.MalformedBitstream, "perm.ReadLehmerEntries: negative length", nil)
	}
	hs, err := entropy.ReadHistogramSet(br, NumContexts)
	if err != nil {
		return nil, err
	}
	window := entropy.NewWindow()
	out := make([]uint32, end)
	ctx := 0
	for i := 0; i < end; i++ {
		v, err := hs.ReadValue(br, ctx, window)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, decodeerr.New(decodeerr.MalformedBitstream, "perm.ReadLehmerEntries: negative entry", nil)
		}
		out[i] = uint32(v)
		ctx = int(out[i])
		if ctx > NumContexts-1 {
			ctx = NumContexts - 1
		}
	}
	return out, nil
}

// DecodeLehmer turns a Lehmer code (one entry per output position) into
// the permutation it represents, per spec.md §4.14 step 3 and §8
// scenario 4. It verifies `lehmer[i]+i < n` for the padded tree size n
// (the next power of two ≥ len(lehmer)) and that each rank does not
// exceed the count of still-unused positions.
func DecodeLehmer(lehmer []uint32) ([]int, error) {
	count := len(lehmer)
	n := 1
	for n < count {
		n *= 2
	}
	if n == 0 {
		n = 1
	}
	tree := newFenwick(n)
	perm := make([]int, count)
	for i, code := range lehmer {
		if int(code)+i >= n {
			return nil, decodeerr.New(decodeerr.MalformedBitstream, "perm.DecodeLehmer: code out of range", nil)
		}
		idx := tree.selectKth(int32(code))
		if idx >= n {
			return nil, decodeerr.New(decodeerr.MalformedBitstream, "perm.DecodeLehmer: rank exceeds remaining", nil)
		}
		perm[i] = idx
	}
	return perm, nil
}

// ReadPermutation reads and decodes a permutation of `end` positions
// directly from the bitstream, combining ReadLehmerEntries and
// DecodeLehmer as spec.md §4.14 describes for both TOC and VarDCT
// coefficient-order use.
func ReadPermutation(br *bits.Reader, end int) ([]int, error) {
	lehmer, err := ReadLehmerEntries(br, end)
	if err != nil {
		return nil, err
	}
	return DecodeLehmer(lehmer)
}
