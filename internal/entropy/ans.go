/*
DESCRIPTION
  ans.go implements the rANS / alias-table decoder of spec.md §4.4: a
  12-bit-precision rANS state machine driven by an alias table that turns
  each 12-bit slot lookup into O(1) work. The renormalization/final-state
  check loop is grounded on the state-machine shape of the teacher's
  cabac.go arithmetic-decoding engine (codIRange/codIOffset init and
  renormalize), generalized here to rANS's state/shift-in-16-bits loop.

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

// LogTabSize is the rANS table precision mandated by spec.md §4.4.
const LogTabSize = 12

// TabSize is 2^LogTabSize, the distribution sum every histogram must
// close to before an alias table can be built.
const TabSize = 1 << LogTabSize

// ansSignature is the expected scaled final rANS state, per spec.md §4.4.
const ansSignature = 0x13

// AliasEntry is the byte-layout alias-table bucket of spec.md §3.
type AliasEntry struct {
	Cutoff        uint16
	RightValue    uint16
	Freq0         uint16
	Offsets1      uint16
	Freq1XorFreq0 uint16
}

// BuildAliasTable builds one alias table from a distribution that must
// sum to exactly TabSize, per spec.md §4.4's build algorithm: repeatedly
// move overfull mass into underfull buckets, recording enough per-bucket
// state that a single lookup resolves any slot.
func BuildAliasTable(dist []uint32, logAlphaSize int) ([]AliasEntry, error) {
	n := 1 << logAlphaSize
	if len(dist) > n {
		return nil, decodeerr.New(decodeerr.ResourceExceeded, "entropy.BuildAliasTable: alphabet", nil)
	}
	full := make([]uint32, n)
	copy(full, dist)
	var sum uint64
	for _, f := range full {
		sum += uint64(f)
	}
	if sum != TabSize {
		return nil, decodeerr.New(decodeerr.MalformedBitstream, "entropy.BuildAliasTable: distribution sum", nil)
	}

	entrySize := TabSize / n
	entries := make([]AliasEntry, n)
	for i, f := range full {
		entries[i] = AliasEntry{Cutoff: uint16(f), RightValue: uint16(i), Freq0: uint16(f)}
	}

	type bucket struct {
		id   int
		freq uint32
	}
	var under, over []bucket
	for i, f := range full {
		switch {
		case f < uint32(entrySize):
			under = append(under, bucket{i, f})
		case f > uint32(entrySize):
			over = append(over, bucket{i, f})
		}
	}
	for len(under) > 0 && len(over) > 0 {
		u := under[len(under)-1]
		under = under[:len(under)-1]
		o := over[len(over)-1]
		over = over[:len(over)-1]

		needed := uint32(entrySize) - u.freq
		o.freq -= needed
		entries[u.id].RightValue = uint16(o.id)
		// Offset into bucket o's mass, less u's cutoff: Lookup adds intra
		// (>= cutoff) back, modulo 2^16.
		entries[u.id].Offsets1 = uint16(o.freq - u.freq)
		entries[u.id].Freq1XorFreq0 = uint16(full[o.id]) ^ entries[u.id].Freq0

		switch {
		case o.freq < uint32(entrySize):
			entries[o.id].Cutoff = uint16(o.freq)
			under = append(under, bucket{o.id, o.freq})
		case o.freq > uint32(entrySize):
			over = append(over, bucket{o.id, o.freq})
		default:
			entries[o.id].Cutoff = uint16(entrySize)
		}
	}
	for _, u := range under {
		// Leftover underfull buckets with no donor mean their distribution
		// value equals entrySize exactly (rounding edge case); treat as full.
		entries[u.id].Cutoff = uint16(entrySize)
	}
	for _, o := range over {
		entries[o.id].Cutoff = uint16(entrySize)
	}
	return entries, nil
}

// Lookup resolves a 12-bit slot to (symbol, freq, offset) per spec.md
// §4.4 step 2.
func Lookup(entries []AliasEntry, logAlphaSize int, slot uint32) (symbol uint32, freq uint32, offset uint32) {
	entrySize := uint32(TabSize) >> uint(logAlphaSize)
	// slot splits into (bucket index, intra-bucket offset) such that
	// bucket = slot / entrySize and intra = slot % entrySize.
	b := slot / entrySize
	intra := slot % entrySize
	e := entries[b]
	if intra < uint32(e.Cutoff) {
		return uint32(b), uint32(e.Freq0), intra
	}
	freq1 := uint32(e.Freq1XorFreq0) ^ uint32(e.Freq0)
	return uint32(e.RightValue), freq1, uint32(e.Offsets1 + uint16(intra))
}

// ANSReader carries the single live rANS state for an entire entropy-coded
// section (spec.md §4.4): every cluster's alias table feeds the same
// interleaved state machine, selected per symbol by whichever context the
// caller is currently decoding. Per spec.md §5, a reader's state must not
// be shared between concurrent group workers; each group owns its own.
type ANSReader struct {
	state uint32
}

// NewANSReader initialises the rANS state from the first 32 bits of br,
// per spec.md §4.4.
func NewANSReader(br *bits.Reader) *ANSReader {
	state := uint32(br.ReadBits(16)) | uint32(br.ReadBits(16))<<16
	return &ANSReader{state: state}
}

// NewANSReaderFromState constructs a reader with an explicit state,
// bypassing stream initialisation; used by tests that exercise the
// final-state check in isolation.
func NewANSReaderFromState(state uint32) *ANSReader {
	return &ANSReader{state: state}
}

// ReadSymbol decodes the next symbol using entries/logAlphaSize and
// renormalizes the shared state.
func (a *ANSReader) ReadSymbol(br *bits.Reader, entries []AliasEntry, logAlphaSize int) (uint32, error) {
	slot := a.state & (TabSize - 1)
	symbol, freq, offset := Lookup(entries, logAlphaSize, slot)
	a.state = freq*(a.state>>LogTabSize) + offset
	for a.state < (1<<16) && br.AllReadsWithinBounds() {
		a.state = (a.state << 16) | uint32(br.ReadBits(16))
	}
	if !br.AllReadsWithinBounds() {
		return 0, decodeerr.New(decodeerr.NeedMoreInput, "entropy.ANSReader.ReadSymbol", nil)
	}
	return symbol, nil
}

// CheckFinalState verifies the scaled final rANS state per spec.md §4.4
// and §8's testable property; a mismatch is always fatal.
func (a *ANSReader) CheckFinalState() error {
	if a.state != ansSignature<<16 {
		return decodeerr.New(decodeerr.MalformedBitstream, "entropy.ANSReader.CheckFinalState", nil)
	}
	return nil
}
