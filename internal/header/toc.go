/*
DESCRIPTION
  toc.go implements Table-of-Contents decoding of spec.md §3/§6: an
  ordered sequence of section byte sizes, optionally permuted via the
  cross-cutting Lehmer-code decoder of spec.md §4.14, with a
  single-section shortcut that reads one U32 size, no permutation, and
  then byte-aligns.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package header

import (
	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
	"github.com/jxlcore/jxlcore/internal/field"
	"github.com/jxlcore/jxlcore/internal/perm"
)

// TocEntry is spec.md §3's {size, id} pair.
type TocEntry struct {
	Size int
	ID   int
}

// ReadTOC decodes the TOC for a frame with numEntries logical sections,
// using the U32 distributions named in spec.md §6 for each size, and an
// optional permutation mapping physical index to logical id.
func ReadTOC(br *bits.Reader, numEntries int) ([]TocEntry, error) {
	if numEntries == 1 {
		fr := field.NewReader(br)
		size := int(fr.U32(
			field.BitsOffset(10, 0),
			field.BitsOffset(14, 1024),
			field.BitsOffset(22, 17408),
			field.BitsOffset(30, 4211712),
		))
		if err := fr.Err(); err != nil {
			return nil, err
		}
		if !br.JumpToByteBoundary() {
			return nil, decodeerr.New(decodeerr.MalformedBitstream, "header.ReadTOC: non-zero padding", nil)
		}
		return []TocEntry{{Size: size, ID: 0}}, nil
	}

	fr := field.NewReader(br)
	hasPermutation := fr.Bool()
	var permutation []int
	if hasPermutation {
		p, err := perm.ReadPermutation(br, numEntries)
		if err != nil {
			return nil, err
		}
		permutation = p
	}

	sizes := make([]int, numEntries)
	for i := range sizes {
		sizes[i] = int(fr.U32(
			field.BitsOffset(10, 0),
			field.BitsOffset(14, 1024),
			field.BitsOffset(22, 17408),
			field.BitsOffset(30, 4211712),
		))
	}
	if err := fr.Err(); err != nil {
		return nil, err
	}

	entries := make([]TocEntry, numEntries)
	for physical, size := range sizes {
		id := physical
		if permutation != nil {
			id = permutation[physical]
		}
		entries[physical] = TocEntry{Size: size, ID: id}
	}

	if !br.JumpToByteBoundary() {
		return nil, decodeerr.New(decodeerr.MalformedBitstream, "header.ReadTOC: non-zero padding", nil)
	}
	return entries, nil
}
