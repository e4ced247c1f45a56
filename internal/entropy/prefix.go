/*
DESCRIPTION
  prefix.go implements the canonical prefix (Huffman) decoder of
  spec.md §4.3: a two-level lookup table (8-bit root, secondary table for
  codes longer than 8 bits) built from an array of per-symbol code
  lengths, plus the three length-stream encodings (single symbol, simple
  code, complex code) used to transmit those lengths.

  The lookup-table build is grounded on the precomputed-table style of the
  teacher's rangetablps.go/statetransxtab.go (package-level arrays built
  once, read many times), generalized here to a table built per histogram
  at decode time rather than compiled in.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package entropy

import (
	"sort"

	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
)

const rootTableBits = 8

// tableEntry is one root- or secondary-table slot: either a direct symbol
// with its code length, or (root table only) a pointer to a secondary
// table plus the number of bits that index it.
type tableEntry struct {
	symbol    uint16
	length    uint8 // 0 means "go to secondary table"
	secondary []tableEntry
	secBits   uint8
}

// PrefixTable is a built canonical-Huffman decode table.
type PrefixTable struct {
	root  []tableEntry
	alSym uint16 // the sole symbol, when len(lengths)==1 with non-zero length.
	single bool
}

// BuildPrefixTable builds a two-level canonical prefix table from a
// per-symbol code-length array (0 meaning "symbol unused"), per spec.md
// §4.3's build algorithm: sort by (length, symbol), assign codes in that
// order, and verify the Kraft sum closes exactly.
func BuildPrefixTable(lengths []uint8) (*PrefixTable, error) {
	type sym struct {
		id  int
		len uint8
	}
	var syms []sym
	maxLen := uint8(0)
	nonZero := 0
	for i, l := range lengths {
		if l > 0 {
			syms = append(syms, sym{id: i, len: l})
			nonZero++
			if l > maxLen {
				maxLen = l
			}
		}
	}
	if nonZero == 0 {
		return nil, decodeerr.New(decodeerr.MalformedBitstream, "prefix.BuildPrefixTable", nil)
	}
	if nonZero == 1 {
		return &PrefixTable{single: true, alSym: uint16(syms[0].id)}, nil
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].len != syms[j].len {
			return syms[i].len < syms[j].len
		}
		return syms[i].id < syms[j].id
	})

	// Assign canonical codes and verify the Kraft sum is exactly 2^15, as
	// required for any JPEG XL prefix code of more than one symbol.
	code := uint32(0)
	const totalSpace = 1 << 15
	kraftSum := uint64(0)
	type assigned struct {
		id   int
		len  uint8
		code uint32
	}
	codes := make([]assigned, 0, len(syms))
	prevLen := uint8(0)
	for _, s := range syms {
		code <<= uint(s.len - prevLen)
		codes = append(codes, assigned{id: s.id, len: s.len, code: code})
		kraftSum += uint64(totalSpace) >> uint(s.len)
		code++
		prevLen = s.len
	}
	if kraftSum != totalSpace {
		return nil, decodeerr.New(decodeerr.MalformedBitstream, "prefix.BuildPrefixTable: kraft sum", nil)
	}

	t := &PrefixTable{root: make([]tableEntry, 1<<rootTableBits)}
	for _, a := range codes {
		if a.len <= rootTableBits {
			// Fill every root slot whose top a.len bits equal a.code.
			shift := uint(rootTableBits) - uint(a.len)
			base := a.code << shift
			for i := uint32(0); i < (1 << shift); i++ {
				t.root[base+i] = tableEntry{symbol: uint16(a.id), length: a.len}
			}
			continue
		}
	}
	// Group long codes by their root-table prefix (first rootTableBits
	// bits) and build one secondary table per group sized to the longest
	// code in that group, so a single further lookup always finishes.
	groups := map[uint32][]assigned{}
	for _, a := range codes {
		if a.len <= rootTableBits {
			continue
		}
		prefix := a.code >> uint(a.len-rootTableBits)
		groups[prefix] = append(groups[prefix], a)
	}
	for prefix, g := range groups {
		longest := uint8(0)
		for _, a := range g {
			if a.len > longest {
				longest = a.len
			}
		}
		secBits := longest - rootTableBits
		sec := make([]tableEntry, 1<<secBits)
		for _, a := range g {
			subLen := a.len - rootTableBits
			subCode := a.code & ((1 << uint(subLen)) - 1)
			shift := secBits - subLen
			base := subCode << shift
			for i := uint32(0); i < (1 << shift); i++ {
				sec[base+i] = tableEntry{symbol: uint16(a.id), length: a.len - rootTableBits}
			}
		}
		t.root[prefix] = tableEntry{secondary: sec, secBits: secBits}
	}
	return t, nil
}

// Decode reads one symbol from br using t.
func (t *PrefixTable) Decode(br *bits.Reader) (uint16, error) {
	if t.single {
		return t.alSym, nil
	}
	peek := br.PeekBits(rootTableBits)
	e := t.root[peek]
	if e.secondary != nil {
		br.Consume(rootTableBits)
		peek2 := br.PeekBits(int(e.secBits))
		e2 := e.secondary[peek2]
		br.Consume(int(e2.length))
		if !br.AllReadsWithinBounds() {
			return 0, decodeerr.New(decodeerr.NeedMoreInput, "prefix.Decode", nil)
		}
		return e2.symbol, nil
	}
	if e.length == 0 {
		return 0, decodeerr.New(decodeerr.MalformedBitstream, "prefix.Decode: unused code", nil)
	}
	br.Consume(int(e.length))
	if !br.AllReadsWithinBounds() {
		return 0, decodeerr.New(decodeerr.NeedMoreInput, "prefix.Decode", nil)
	}
	return e.symbol, nil
}

// complexCodeLengthOrder is the fixed permutation in which the 18 code-
// length alphabet lengths are transmitted for a complex code, per
// spec.md §4.3.
var complexCodeLengthOrder = [18]int{
	1, 2, 3, 4, 0, 5, 17, 6, 16, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// ReadCodeLengths reads the code-length array for an alphabet of size
// alphabetSize, dispatching on the single-symbol, simple, or complex
// encodings of spec.md §4.3.
func ReadCodeLengths(br *bits.Reader, alphabetSize int) ([]uint8, error) {
	lengths := make([]uint8, alphabetSize)
	hskip := br.ReadBits(2)
	if hskip == 1 {
		// Simple prefix code: 1..4 symbols.
		nsym := int(br.ReadBits(2)) + 1
		symBits := bitsFor(alphabetSize)
		syms := make([]int, nsym)
		for i := 0; i < nsym; i++ {
			syms[i] = int(br.ReadBits(symBits))
			if syms[i] >= alphabetSize {
				return nil, decodeerr.New(decodeerr.MalformedBitstream, "prefix.ReadCodeLengths: simple symbol", nil)
			}
		}
		switch nsym {
		case 1:
			// Single symbol: a 0-bit code that always yields this value;
			// BuildPrefixTable's single-symbol fast path is triggered by
			// exactly one nonzero length, any value works here.
			lengths[syms[0]] = 1
		case 2:
			lengths[syms[0]] = 1
			lengths[syms[1]] = 1
		case 3:
			lengths[syms[0]] = 1
			lengths[syms[1]] = 2
			lengths[syms[2]] = 2
		case 4:
			treeSelect := br.ReadBits(1)
			if treeSelect == 0 {
				lengths[syms[0]] = 2
				lengths[syms[1]] = 2
				lengths[syms[2]] = 2
				lengths[syms[3]] = 2
			} else {
				lengths[syms[0]] = 1
				lengths[syms[1]] = 2
				lengths[syms[2]] = 3
				lengths[syms[3]] = 3
			}
		}
		if !br.AllReadsWithinBounds() {
			return nil, decodeerr.New(decodeerr.NeedMoreInput, "prefix.ReadCodeLengths", nil)
		}
		return lengths, nil
	}

	// Complex code: read 18 code-length-code lengths in the fixed
	// permutation, build a decoder for them, then use it to read the
	// alphabet's lengths with RLE.
	clLengths := make([]uint8, 18)
	for i := 0; i < 18; i++ {
		l := br.ReadBits(4)
		clLengths[complexCodeLengthOrder[i]] = uint8(l)
	}
	clTable, err := BuildPrefixTable(clLengths)
	if err != nil {
		return nil, err
	}

	prev := uint8(8)
	total := 0
	for total < alphabetSize {
		sym, err := clTable.Decode(br)
		if err != nil {
			return nil, err
		}
		switch {
		case sym < 16:
			lengths[total] = uint8(sym)
			if sym != 0 {
				prev = uint8(sym)
			}
			total++
		case sym == 16:
			// Repeat previous nonzero length, 2 extra bits, 3 base reps.
			rep := int(br.ReadBits(2)) + 3
			for i := 0; i < rep && total < alphabetSize; i++ {
				lengths[total] = prev
				total++
			}
		case sym == 17:
			// Repeat zero, 3 extra bits, 3 base reps.
			rep := int(br.ReadBits(3)) + 3
			for i := 0; i < rep && total < alphabetSize; i++ {
				lengths[total] = 0
				total++
			}
		}
		if !br.AllReadsWithinBounds() {
			return nil, decodeerr.New(decodeerr.NeedMoreInput, "prefix.ReadCodeLengths: complex", nil)
		}
	}
	return lengths, nil
}

func bitsFor(n int) int {
	b := 0
	for (1 << b) < n {
		b++
	}
	if b == 0 {
		b = 1
	}
	return b
}
