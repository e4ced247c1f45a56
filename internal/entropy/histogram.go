/*
DESCRIPTION
  histogram.go implements the histogram decoder of spec.md §4.8: the
  top-level composite reader that produces a complete ANSCode +
  ContextMap pair, plus the per-cluster code reader (prefix or
  distribution-encoded) that both the histogram decoder and the context
  map's complex encoding rely on.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package entropy

import (
	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
)

// SymbolDecoder decodes a stream of hybrid-integer-expanded values from a
// single cluster's code, whether that code is a prefix table or an
// ANS+alias-table distribution. It also implements the "single value"
// fast path of spec.md §9: when a cluster's distribution has exactly one
// non-zero bin, ReadToken never touches the bitstream.
type SymbolDecoder struct {
	prefix       *PrefixTable
	ansEntries   []AliasEntry
	logAlphaSize int
	config       HybridUintConfig

	singleValue bool
	value       uint32
}

// usePrefix reports whether this decoder reads tokens as Huffman codes
// rather than through the rANS/alias machinery.
func (d *SymbolDecoder) usePrefix() bool { return d.prefix != nil }

// ReadToken reads one raw token (pre hybrid-integer expansion) for this
// cluster. ans carries the section's single live rANS state, shared with
// every other cluster's SymbolDecoder in the same HistogramSet (spec.md
// §4.4: one interleaved state machine per section); it is unused when the
// cluster uses a prefix code.
func (d *SymbolDecoder) ReadToken(br *bits.Reader, ans *ANSReader) (uint32, error) {
	if d.singleValue {
		return d.value, nil
	}
	if d.usePrefix() {
		s, err := d.prefix.Decode(br)
		return uint32(s), err
	}
	if ans == nil {
		return 0, decodeerr.New(decodeerr.Internal, "entropy.SymbolDecoder.ReadToken: nil ans", nil)
	}
	return ans.ReadSymbol(br, d.ansEntries, d.logAlphaSize)
}

// ReadValue reads one token for this cluster via ans and expands it
// through the hybrid-integer codec into an unsigned value, appending it
// to window when non-nil. Used by the context-map complex decoding path
// and by callers that don't need the LZ77 back-reference layer.
func (d *SymbolDecoder) ReadValue(br *bits.Reader, ans *ANSReader, window *Window) (int32, error) {
	tok, err := d.ReadToken(br, ans)
	if err != nil {
		return 0, err
	}
	v := d.config.Decode(br, tok)
	if window != nil {
		window.Append(int32(v))
	}
	return int32(v), nil
}

// ReadSingleClusterCode reads one cluster's code: either a Huffman table
// (when usePrefixCode) or a distribution-encoded histogram that is then
// compiled into an alias table, per spec.md §4.8 step 6. cfg is the
// HybridUintConfig already read for this cluster.
func ReadSingleClusterCode(br *bits.Reader, alphabetSize int, logAlphaSize int, usePrefixCode bool, cfg HybridUintConfig) (*SymbolDecoder, error) {
	if usePrefixCode {
		lengths, err := ReadCodeLengths(br, alphabetSize)
		if err != nil {
			return nil, err
		}
		tbl, err := BuildPrefixTable(lengths)
		if err != nil {
			return nil, err
		}
		return &SymbolDecoder{prefix: tbl, config: cfg}, nil
	}

	dist, single, svIdx, err := readDistribution(br, alphabetSize)
	if err != nil {
		return nil, err
	}
	if single {
		return &SymbolDecoder{singleValue: true, value: uint32(svIdx), config: cfg}, nil
	}
	nonZero, last := 0, 0
	for i, v := range dist {
		if v != 0 {
			nonZero++
			last = i
		}
	}
	if nonZero == 1 {
		return &SymbolDecoder{singleValue: true, value: uint32(last), config: cfg}, nil
	}
	entries, err := BuildAliasTable(dist, logAlphaSize)
	if err != nil {
		return nil, err
	}
	d := &SymbolDecoder{ansEntries: entries, logAlphaSize: logAlphaSize, config: cfg}
	return d, nil
}

// readDistribution reads one cluster's distribution histogram via the
// specialised variable-length scheme of spec.md §4.8 step 6: a flat
// shortcut, a 2-symbol shortcut, or per-count log-counts via a hard-coded
// 7-bit Huffman table with RLE and an "omit position" filled to close
// the sum to 2^12.
func readDistribution(br *bits.Reader, alphabetSize int) (dist []uint32, single bool, singleValue int, err error) {
	tag := br.ReadBits(2)
	switch tag {
	case 0: // flat histogram shortcut: every used symbol gets equal mass.
		n := int(br.ReadBits(bitsFor(alphabetSize))) + 1
		dist = make([]uint32, alphabetSize)
		base := TabSize / n
		rem := TabSize - base*n
		for i := 0; i < n; i++ {
			v := uint32(base)
			if i == 0 {
				v += uint32(rem)
			}
			dist[i] = v
		}
		return dist, false, 0, nil
	case 1: // single non-zero bin: no bits needed to decode any token.
		idx := int(br.ReadBits(bitsFor(alphabetSize)))
		return nil, true, idx, nil
	case 2: // two-symbol shortcut.
		i0 := int(br.ReadBits(bitsFor(alphabetSize)))
		i1 := int(br.ReadBits(bitsFor(alphabetSize)))
		v0 := uint32(br.ReadBits(LogTabSize))
		dist = make([]uint32, alphabetSize)
		dist[i0] = v0
		dist[i1] = TabSize - v0
		return dist, false, 0, nil
	default: // full log-count RLE histogram.
		dist = make([]uint32, alphabetSize)
		logCounts := make([]uint8, alphabetSize)
		omit := -1
		var total uint32
		i := 0
		for i < alphabetSize {
			lc, err := logCountTable.Decode(br)
			if err != nil {
				return nil, false, 0, err
			}
			switch {
			case lc == 13: // RLE: repeat zero for (4 extra bits + 4) entries.
				rep := int(br.ReadBits(4)) + 4
				for j := 0; j < rep && i < alphabetSize; j++ {
					i++
				}
			default:
				logCounts[i] = uint8(lc)
				if lc == 0 {
					// Zero log-count means zero probability mass; nothing
					// further to read for this symbol.
				} else if omit < 0 && isOmitCandidate(lc) {
					omit = i
				}
				i++
			}
			if !br.AllReadsWithinBounds() {
				return nil, false, 0, decodeerr.New(decodeerr.NeedMoreInput, "entropy.readDistribution", nil)
			}
		}
		if omit < 0 {
			return nil, false, 0, decodeerr.New(decodeerr.MalformedBitstream, "entropy.readDistribution: no omit position", nil)
		}
		for idx, lc := range logCounts {
			if idx == omit || lc == 0 {
				continue
			}
			v := decodeLogCount(br, lc)
			dist[idx] = v
			total += v
		}
		if total > TabSize {
			return nil, false, 0, decodeerr.New(decodeerr.MalformedBitstream, "entropy.readDistribution: sum overflow", nil)
		}
		dist[omit] = TabSize - total
		return dist, false, 0, nil
	}
}

// isOmitCandidate reports whether a symbol with this log-count is
// eligible to be the implicit "omit position" that closes the histogram
// sum to 2^12 (any symbol with nonzero mass is eligible; the first one
// encountered is used, matching the single-pass decode order).
func isOmitCandidate(logCount uint8) bool { return logCount > 0 }

// decodeLogCount turns a log-count bucket into an exact count by reading
// logCount-1 extra bits when logCount>1 (logCount==1 means count==1
// exactly; this mirrors the shape of an Elias-gamma-style bucketed count
// used to keep small counts cheap and large ones precise).
func decodeLogCount(br *bits.Reader, logCount uint8) uint32 {
	if logCount <= 1 {
		return uint32(logCount)
	}
	extra := int(logCount) - 1
	return (1 << uint(extra)) + uint32(br.ReadBits(extra))
}

// logCountTable is the hard-coded 7-bit Huffman table used to read
// per-symbol log-counts, per spec.md §4.8 step 6. Lengths below give a
// valid canonical code favouring small log-counts (common case) with
// short codes and reserving symbol 13 (RLE) a mid-length code.
var logCountTable = mustBuildLogCountTable()

func mustBuildLogCountTable() *PrefixTable {
	// 18 symbols: log-counts 0..12 plus the RLE escape (13) and four
	// reserved/unused slots folded into the longest codes.
	lengths := []uint8{
		2, 2, 3, 4, 4, 4, 5, 6, 6, 7, 7, 7, 7, 4, 7, 7, 7, 7,
	}
	tbl, err := BuildPrefixTable(lengths)
	if err != nil {
		panic("entropy: invalid hard-coded log-count table: " + err.Error())
	}
	return tbl
}

// HistogramSet is the ANSCode + ContextMap pair produced by the
// top-level histogram decoder of spec.md §4.8.
type HistogramSet struct {
	ContextMap   *ContextMap
	Decoders     []*SymbolDecoder
	LZ77         Params
	LogAlphaSize int

	ans *ANSReader
}

// ReadHistogramSet reads LZ77 params, the context map, and one code per
// histogram cluster, per spec.md §4.8's numbered steps.
func ReadHistogramSet(br *bits.Reader, numRawContexts int) (*HistogramSet, error) {
	lz, err := readLZ77Params(br)
	if err != nil {
		return nil, err
	}
	effectiveContexts := numRawContexts
	if lz.Enabled {
		effectiveContexts++ // one extra raw context for the LZ77 distance context.
	}

	cm, err := ReadContextMap(br, effectiveContexts)
	if err != nil {
		return nil, err
	}
	if lz.Enabled {
		lz.DistanceContextID = int(cm.Clusters[effectiveContexts-1])
	}

	usePrefixCode := br.ReadBits(1) == 1
	logAlphaSize := 15
	if !usePrefixCode {
		logAlphaSize = int(br.ReadBits(2)) + 5
	}

	configs := make([]HybridUintConfig, cm.NumHistograms)
	for i := range configs {
		configs[i] = readHybridUintConfig(br, logAlphaSize)
	}

	alphabetSize := 1 << uint(logAlphaSize)
	decoders := make([]*SymbolDecoder, cm.NumHistograms)
	for i := range decoders {
		d, err := ReadSingleClusterCode(br, alphabetSize, logAlphaSize, usePrefixCode, configs[i])
		if err != nil {
			return nil, err
		}
		decoders[i] = d
	}

	var ans *ANSReader
	if !usePrefixCode {
		ans = NewANSReader(br)
	}

	return &HistogramSet{ContextMap: cm, Decoders: decoders, LZ77: lz, LogAlphaSize: logAlphaSize, ans: ans}, nil
}

// ReadValue reads one symbol for raw context ctx, dispatching to that
// context's cluster and feeding the section's single shared rANS state
// (nil when every cluster uses a prefix code).
func (hs *HistogramSet) ReadValue(br *bits.Reader, ctx int, window *Window) (int32, error) {
	d := hs.Decoders[hs.ContextMap.Clusters[ctx]]
	return d.ReadValue(br, hs.ans, window)
}

// readLZ77Params reads LZ77Params per spec.md §4.6/§4.8 step 1.
func readLZ77Params(br *bits.Reader) (Params, error) {
	p := DefaultParams
	p.Enabled = br.ReadBits(1) == 1
	if !p.Enabled {
		return p, nil
	}
	p.MinSymbol = uint32(readU32Default(br, 224))
	p.MinLength = uint32(readU32Default(br, 3))
	p.LengthConfig = readHybridUintConfig(br, 8)
	return p, nil
}

// readU32Default reads a length-style U32 field using the conventional
// four-distribution shape (const 224/3, small offsets, wider fields),
// matching the defaults named in spec.md §3's LZ77Params.
func readU32Default(br *bits.Reader, def uint32) uint32 {
	switch br.ReadBits(2) {
	case 0:
		return def
	case 1:
		return uint32(br.ReadBits(8)) + 1
	case 2:
		return uint32(br.ReadBits(16)) + 257
	default:
		return uint32(br.ReadBits(32))
	}
}

// readHybridUintConfig reads one HybridUintConfig bounded by
// logAlphaSize, per spec.md §4.8 step 5.
func readHybridUintConfig(br *bits.Reader, logAlphaSize int) HybridUintConfig {
	splitBits := bitsFor(logAlphaSize + 1)
	split := int(br.ReadBits(splitBits))
	if split == logAlphaSize {
		return HybridUintConfig{SplitExponent: split}
	}
	msbBits := bitsFor(split + 1)
	msb := int(br.ReadBits(msbBits))
	lsbBits := bitsFor(split - msb + 1)
	lsb := int(br.ReadBits(lsbBits))
	if lsb > split-msb {
		lsb = split - msb
	}
	return HybridUintConfig{SplitExponent: split, MsbInToken: msb, LsbInToken: lsb}
}
