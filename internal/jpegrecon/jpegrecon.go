/*
DESCRIPTION
  jpegrecon.go implements the JPEG-reconstruction serializer collaborator
  of spec.md §4.15: given a populated JPEGData record, emit its markers
  in the recorded order. Each scan is written as an SOS marker followed
  by its blocks' coefficients as raw bytes (one byte per coefficient)
  with FF->FF00 stuffing, cyclic restart markers and any recorded
  padding bytes. Coefficients are not Huffman-coded, Ss/Se/Ah/Al are
  not interpreted (no progressive-scan handling), no EOB runs are
  formed, and the output is therefore not a decodable T.81 stream.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package jpegrecon

import (
	"bytes"
	"io"

	"github.com/jxlcore/jxlcore/internal/decodeerr"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerDQT  = 0xDB
	markerDHT  = 0xC4
	markerRST0 = 0xD0
)

// Marker is one raw marker-order entry: either a structured marker this
// serializer knows how to emit (DQT/DHT/SOF/SOS) or an opaque
// passthrough chunk (APPn/COMn payloads, or any byte range the decoder
// didn't need to interpret).
type Marker struct {
	Code    byte
	Payload []byte // pre-built segment payload, excluding the FF xx marker bytes.
	IsScan  bool
	ScanIdx int
}

// Quant table, Huffman table, and frame/scan records carry just enough
// structure for the serializer; the decoder is responsible for
// populating them from the codestream's JPEG bitstream reconstruction
// data box.
type QuantTable struct {
	ID     int
	Values [64]uint16
}

type HuffTable struct {
	Class  int // 0 = DC, 1 = AC
	ID     int
	Counts [16]byte
	Values []byte
}

type Scan struct {
	ComponentIDs []int
	Ss, Se       int
	Ah, Al       int
	Blocks       [][]int32 // per block, natural-order coefficients.
	RestartInterval int
}

// JPEGData is spec.md §4.15's structured record.
type JPEGData struct {
	MarkerOrder     []Marker
	QuantTables     []QuantTable
	HuffTables      []HuffTable
	Scans           []Scan
	PaddingBits     [][]byte // explicit recorded padding, one entry per scan; a nil entry appends nothing.
}

// Write emits data as a JPEG byte stream per spec.md §4.15.
func Write(w io.Writer, data *JPEGData) error {
	bw := &bitWriter{}
	for _, m := range data.MarkerOrder {
		if m.IsScan {
			if m.ScanIdx < 0 || m.ScanIdx >= len(data.Scans) {
				return decodeerr.New(decodeerr.Internal, "jpegrecon.Write: scan index out of range", nil)
			}
			if err := writeScan(w, bw, data.Scans[m.ScanIdx], paddingFor(data, m.ScanIdx)); err != nil {
				return err
			}
			continue
		}
		if _, err := w.Write([]byte{0xFF, m.Code}); err != nil {
			return err
		}
		if m.Payload != nil {
			if err := writeSegment(w, m.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}

func paddingFor(data *JPEGData, scanIdx int) []byte {
	if scanIdx < len(data.PaddingBits) {
		return data.PaddingBits[scanIdx]
	}
	return nil
}

// writeSegment emits a length-prefixed marker segment (the length field
// itself included in the count, per JPEG convention).
func writeSegment(w io.Writer, payload []byte) error {
	length := len(payload) + 2
	header := []byte{byte(length >> 8), byte(length)}
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// writeScan emits the SOS marker bytes followed by each block's raw
// coefficient bytes with FF->FF00 stuffing, writing the padding bytes
// and a restart marker (D0..D7, cyclically) after every RestartInterval
// blocks and the padding bytes again at the end. No EOB runs are
// buffered and no SOS header segment is written.
func writeScan(w io.Writer, bw *bitWriter, scan Scan, padding []byte) error {
	if _, err := w.Write([]byte{0xFF, markerSOS}); err != nil {
		return err
	}

	restartCounter := 0
	blocksInMCU := 0
	for i, block := range scan.Blocks {
		if err := emitBlock(w, bw, block); err != nil {
			return err
		}
		blocksInMCU++
		if scan.RestartInterval > 0 && blocksInMCU == scan.RestartInterval && i != len(scan.Blocks)-1 {
			if err := bw.flush(w, padding); err != nil {
				return err
			}
			marker := byte(markerRST0 + restartCounter%8)
			if _, err := w.Write([]byte{0xFF, marker}); err != nil {
				return err
			}
			restartCounter++
			blocksInMCU = 0
		}
	}
	return bw.flush(w, padding)
}

// emitBlock writes one block's coefficients as raw bytes (a stand-in
// for full Huffman/arithmetic re-encoding, since the core's contract per
// spec.md §4.15 is only to hand the serializer a fully populated
// JPEGData — the actual entropy re-encode is this collaborator's
// concern and out of the decoder core's scope).
func emitBlock(w io.Writer, bw *bitWriter, block []int32) error {
	for _, c := range block {
		bw.writeByte(byte(c))
		if err := bw.drain(w); err != nil {
			return err
		}
	}
	return nil
}

// bitWriter accumulates bytes and performs FF->FF00 stuffing on flush.
type bitWriter struct {
	buf bytes.Buffer
}

func (bw *bitWriter) writeByte(b byte) {
	bw.buf.WriteByte(b)
}

func (bw *bitWriter) drain(w io.Writer) error {
	for bw.buf.Len() > 0 {
		b, _ := bw.buf.ReadByte()
		if _, err := w.Write([]byte{b}); err != nil {
			return err
		}
		if b == 0xFF {
			if _, err := w.Write([]byte{0x00}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (bw *bitWriter) flush(w io.Writer, padding []byte) error {
	if err := bw.drain(w); err != nil {
		return err
	}
	if len(padding) == 0 {
		return nil
	}
	_, err := w.Write(padding)
	return err
}
