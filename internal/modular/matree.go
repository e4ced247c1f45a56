/*
DESCRIPTION
  matree.go implements the meta-adaptive decision tree of spec.md §4.9:
  a BFS-decoded tree of Split/Leaf nodes that, given a pixel's property
  vector, selects the predictor/context/multiplier used to decode that
  pixel's residual. Tree construction is an explicit FIFO over an arena
  of node indices rather than recursion, per spec.md §9's advice to
  survive depth-2048 trees without blowing the call stack — mirrored
  here the way the teacher's h264dec SPS/PPS parameter-set tables are
  built as flat, index-addressed arrays rather than linked structures.

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

// MaxTreeDepth and MaxTreeNodes bound tree construction per spec.md §4.9.
const (
	MaxTreeDepth    = 2048
	MaxTreeNodesAbs = 1 << 22
	MinTreeNodes    = 128
)

// Tree-payload context slots. Six fixed slots are reserved per spec.md
// §4.9 even though this decoder only populates five of them: the sixth
// is carried for symmetry with the upstream context-id numbering used
// by coefficient decoding, which allocates contexts contiguously after
// the tree's own range.
const (
	ctxProperty = iota
	ctxPredictor
	ctxValue // shared by splitVal and leaf offset, both signed fields
	ctxMulLog
	ctxMulBits
	ctxReserved
	numTreeContexts
)

// Predictor enumerates the 14 predictor variants of spec.md §4.10.
type Predictor int

const (
	PredictorZero Predictor = iota
	PredictorLeft
	PredictorTop
	PredictorAverageLT
	PredictorSelect
	PredictorClampedGradient
	PredictorWeighted
	PredictorTopRight
	PredictorTopLeft
	PredictorLeftLeft
	PredictorAverageTTR
	PredictorAverageLLL
	PredictorAverageLTAvg
	PredictorAverageTopRightTop
	numPredictors
)

// Node is one entry of the tree arena: either a Split (property test with
// two children) or a Leaf (predictor + offset + multiplier).
type Node struct {
	IsLeaf bool

	// Split fields.
	Property int
	SplitVal int32
	LeftIdx  int
	RightIdx int

	// Leaf fields.
	PredictorIdx Predictor
	Offset       int64
	Multiplier   int32
}

// Tree is the arena of decoded nodes, index-addressed from the root (0).
type Tree struct {
	Nodes []Node
}

// ReadTree decodes a meta-adaptive tree in BFS order per spec.md §4.9,
// bounding node count to
// min(2^22, 1024 + pixels*channels/16) clamped to at least 128.
func ReadTree(br *bits.Reader, pixels, channels int) (*Tree, error) {
	maxNodes := 1024 + pixels*channels/16
	if maxNodes > MaxTreeNodesAbs {
		maxNodes = MaxTreeNodesAbs
	}
	if maxNodes < MinTreeNodes {
		maxNodes = MinTreeNodes
	}

	hs, err := entropy.ReadHistogramSet(br, numTreeContexts)
	if err != nil {
		return nil, err
	}
	window := entropy.NewWindow()

	t := &Tree{}

	type queued struct {
		depth int
	}
	var queue []queued
	queue = append(queue, queued{depth: 0})
	t.Nodes = append(t.Nodes, Node{})

	for qi := 0; qi < len(queue); qi++ {
		depth := queue[qi].depth
		if depth > MaxTreeDepth {
			return nil, decodeerr.New(decodeerr.ResourceExceeded, "modular.ReadTree: depth", nil)
		}
		if len(t.Nodes) > maxNodes {
			return nil, decodeerr.New(decodeerr.ResourceExceeded, "modular.ReadTree: node count", nil)
		}

		propToken, err := hs.ReadValue(br, ctxProperty, window)
		if err != nil {
			return nil, err
		}

		nodeIdx := qi // BFS order: queue position qi was pushed in the same
		// order nodes were appended, so node qi corresponds to this entry.

		if propToken == 0 {
			predTok, err := hs.ReadValue(br, ctxPredictor, window)
			if err != nil {
				return nil, err
			}
			if predTok < 0 || int(predTok) >= int(numPredictors) {
				return nil, decodeerr.New(decodeerr.MalformedBitstream, "modular.ReadTree: predictor", nil)
			}
			offTok, err := hs.ReadValue(br, ctxValue, window)
			if err != nil {
				return nil, err
			}
			mulLogTok, err := hs.ReadValue(br, ctxMulLog, window)
			if err != nil {
				return nil, err
			}
			mulBitsTok, err := hs.ReadValue(br, ctxMulBits, window)
			if err != nil {
				return nil, err
			}
			multiplier := (mulBitsTok + 1) << uint(mulLogTok)
			if multiplier <= 0 {
				return nil, decodeerr.New(decodeerr.MalformedBitstream, "modular.ReadTree: multiplier", nil)
			}
			t.Nodes[nodeIdx] = Node{
				IsLeaf:       true,
				PredictorIdx: Predictor(predTok),
				Offset:       int64(field.PackedSigned(uint32(offTok))),
				Multiplier:   multiplier,
			}
			continue
		}

		property := int(propToken) - 1
		splitTok, err := hs.ReadValue(br, ctxValue, window)
		if err != nil {
			return nil, err
		}
		splitVal := field.PackedSigned(uint32(splitTok))

		leftIdx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{})
		queue = append(queue, queued{depth: depth + 1})
		rightIdx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{})
		queue = append(queue, queued{depth: depth + 1})

		t.Nodes[nodeIdx] = Node{
			Property: property,
			SplitVal: splitVal,
			LeftIdx:  leftIdx,
			RightIdx: rightIdx,
		}
	}

	return t, nil
}

// Lookup descends from the root given a pixel's property vector,
// returning the reached leaf. At a split, the left child is taken when
// properties[prop] <= splitVal, per spec.md §4.9.
func (t *Tree) Lookup(properties []int32) *Node {
	idx := 0
	for {
		n := &t.Nodes[idx]
		if n.IsLeaf {
			return n
		}
		var v int32
		if n.Property < len(properties) {
			v = properties[n.Property]
		}
		if v <= n.SplitVal {
			idx = n.LeftIdx
		} else {
			idx = n.RightIdx
		}
	}
}
