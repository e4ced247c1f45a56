/*
DESCRIPTION
  decoder.go implements the Decoder session type: signature check,
  SizeHeader/ImageMetadata decode, and the per-frame loop, grounded on
  h264dec.H264Reader's Start()/NAL-loop shape generalized to the TOC
  section loop of spec.md §6.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

// Package jxlcore implements a JPEG XL still-image codestream decoder:
// signature and header parsing, the per-frame TOC dispatch loop, and
// the Modular/VarDCT/entropy cores that fill in pixel data.
package jxlcore

import (
	"github.com/ausocean/utils/logging"

	"github.com/jxlcore/jxlcore/bits"
	"github.com/jxlcore/jxlcore/internal/decodeerr"
	"github.com/jxlcore/jxlcore/internal/field"
	"github.com/jxlcore/jxlcore/internal/frame"
	"github.com/jxlcore/jxlcore/internal/header"
	"github.com/jxlcore/jxlcore/internal/modular"
	"github.com/jxlcore/jxlcore/internal/render"
	"github.com/jxlcore/jxlcore/internal/vardct"
)

// SessionState is the decoder's top-level progress state.
type SessionState int

const (
	StateInit SessionState = iota
	StateHeaderRead
	StateDecodingFrames
	StateCodestreamFinished
	StateError
)

const defaultMaxTocEntries = 1 << 20

var codestreamSignature = [2]byte{0xFF, 0x0A}

// FrameResult summarises one decoded frame for the session's caller.
// Pixels holds the render pipeline's 8-bit RGB output, row-major with a
// 3-byte stride; it is only populated for the single-section Modular
// path (spec.md §8 scenarios 1/2) that this decoder fully wires end to
// end, and is nil otherwise.
type FrameResult struct {
	Header     header.FrameHeader
	Dimensions header.FrameDimensions
	Pixels     []byte
}

// Decoder drives one codestream's decode session from raw bytes to a
// sequence of frame results. It is not safe for concurrent use.
type Decoder struct {
	logger        logging.Logger
	maxTocEntries int
	cancelled     func() bool

	state    SessionState
	err      error
	size     header.SizeHeader
	metadata header.ImageMetadata
	frames   []FrameResult
}

// New constructs a Decoder with the given options applied.
func New(opts ...Option) *Decoder {
	d := &Decoder{maxTocEntries: defaultMaxTocEntries}
	for _, o := range opts {
		o(d)
	}
	return d
}

// State returns the session's current state.
func (d *Decoder) State() SessionState { return d.state }

// Size returns the decoded SizeHeader; valid once State() is at least
// StateHeaderRead.
func (d *Decoder) Size() header.SizeHeader { return d.size }

// Frames returns the frame results decoded so far.
func (d *Decoder) Frames() []FrameResult { return d.frames }

// Decode runs the full codestream decode over buf: signature check,
// SizeHeader, ImageMetadata, then the per-frame loop. decodeOneFrame
// never reports a following frame, so the loop ends after the first
// frame (or earlier on cancellation or an overread); later frames in
// buf are not decoded. On a fatal error the session moves to StateError and
// the error is both returned and sticky (further Decode calls are
// no-ops re-emitting it), per spec.md §7.
func (d *Decoder) Decode(buf []byte) error {
	if d.state == StateError {
		return d.err
	}
	if d.state == StateCodestreamFinished {
		return nil
	}

	br := bits.NewReader(buf)
	if err := d.readSignature(br); err != nil {
		return d.fail(err)
	}

	fr := field.NewReader(br)
	size, err := header.ReadSizeHeader(fr)
	if err != nil {
		return d.fail(err)
	}
	d.size = size
	d.logDebug("decoded size header", "width", size.Xsize, "height", size.Ysize)

	metadata, err := header.ReadImageMetadata(fr)
	if err != nil {
		return d.fail(err)
	}
	d.metadata = metadata
	d.state = StateHeaderRead

	d.state = StateDecodingFrames
	for {
		if d.cancelled != nil && d.cancelled() {
			break
		}
		if !br.AllReadsWithinBounds() {
			break
		}
		result, more, err := d.decodeOneFrame(buf, br)
		if err != nil {
			return d.fail(err)
		}
		d.frames = append(d.frames, result)
		if !more {
			break
		}
	}

	d.state = StateCodestreamFinished
	return nil
}

func (d *Decoder) readSignature(br *bits.Reader) error {
	b0 := br.ReadBits(8)
	b1 := br.ReadBits(8)
	if !br.AllReadsWithinBounds() {
		return decodeerr.New(decodeerr.NeedMoreInput, "jxlcore.Decode: short signature", nil)
	}
	if byte(b0) != codestreamSignature[0] || byte(b1) != codestreamSignature[1] {
		return decodeerr.New(decodeerr.MalformedBitstream, "jxlcore.Decode: bad signature", nil)
	}
	return nil
}

// decodeOneFrame reads one FrameHeader, its FrameDimensions, its TOC,
// and dispatches every logical section through frame.Decoder, per
// spec.md §4.13. The bool return reports whether another frame may
// follow; it is always false, as this decoder does not detect further
// frames. buf
// is the whole codestream, needed alongside br so a section's payload
// can be decoded from its own byte range rather than just skipped.
func (d *Decoder) decodeOneFrame(buf []byte, br *bits.Reader) (FrameResult, bool, error) {
	fr := field.NewReader(br)
	fh, err := header.ReadFrameHeader(fr)
	if err != nil {
		return FrameResult{}, false, err
	}

	maxChromaShift := 0
	dims := header.ComputeFrameDimensions(d.size, fh, maxChromaShift)

	// A frame whose tiling has exactly one DC group, one group and one
	// pass fits entirely in a single physical TOC entry rather than the
	// usual DCGlobal+DCGroups+ACGlobal+ACGroups logical layout, per
	// spec.md §8 scenario 2.
	singleSection := dims.NumDcGroups == 1 && dims.NumGroups == 1 && fh.Passes == 1
	numTocEntries := 1
	if !singleSection {
		numTocEntries = dims.NumDcGroups + 2 + fh.Passes*dims.NumGroups
	}
	if numTocEntries > d.maxTocEntries {
		return FrameResult{}, false, decodeerr.New(decodeerr.ResourceExceeded, "jxlcore.decodeOneFrame: TOC entry count", nil)
	}

	entries, err := header.ReadTOC(br, numTocEntries)
	if err != nil {
		return FrameResult{}, false, err
	}

	result := FrameResult{Header: fh, Dimensions: dims}

	fd := frame.New(dims.NumDcGroups, dims.NumGroups, fh.Passes, singleSection)
	for _, e := range entries {
		byteOff, bitOff := br.BytePosition()
		if bitOff != 0 {
			return FrameResult{}, false, decodeerr.New(decodeerr.Internal, "jxlcore.decodeOneFrame: section not byte-aligned", nil)
		}
		end := byteOff + e.Size
		if end > len(buf) {
			end = len(buf)
		}
		sectionBuf := buf[byteOff:end]

		br.Consume(e.Size * 8)
		if !br.AllReadsWithinBounds() {
			return FrameResult{}, false, decodeerr.New(decodeerr.NeedMoreInput, "jxlcore.decodeOneFrame: short section", nil)
		}

		if _, err := fd.Submit(e.ID, func(role frame.Role) error {
			// Only the single-section Modular path (scenario 1/2) is
			// wired through to real channel grids and the render
			// pipeline; multi-section DC/AC group decode and VarDCT
			// coefficient decode remain TOC-dispatch-only.
			if role != frame.RoleSingleSection || fh.Encoding != header.EncodingModular {
				return nil
			}
			pixels, err := d.decodeModularSection(sectionBuf, fh, dims)
			if err != nil {
				return err
			}
			result.Pixels = pixels
			return nil
		}); err != nil {
			return FrameResult{}, false, err
		}
	}

	return result, false, nil
}

// decodeModularSection decodes a single-section frame's Modular channel
// grid, applies adaptive DC smoothing, and runs the render pipeline,
// exercising the Frame Decoder -> Modular -> Render Pipeline dataflow
// of spec.md §2/§4.13 on real section bytes. A frame this small (one
// DC group, one group) has its native pixel grid coincide with a
// single DC block, so the decoded channels double as the DC plane
// SmoothDC operates over.
func (d *Decoder) decodeModularSection(sectionBuf []byte, fh header.FrameHeader, dims header.FrameDimensions) ([]byte, error) {
	sr := bits.NewReader(sectionBuf)

	const numChannels = 3
	w, h := dims.Xsize, dims.Ysize
	chanDims := make([]modular.Channel, numChannels)
	for i := range chanDims {
		chanDims[i] = modular.Channel{W: w, H: h, Component: i}
	}
	img := modular.NewImage(chanDims)

	tree, err := modular.ReadTree(sr, w*h, numChannels)
	if err != nil {
		return nil, err
	}
	if err := img.DecodeChannels(sr, tree, modular.DefaultWeightedConfig); err != nil {
		return nil, err
	}
	if err := img.ApplyTransforms(); err != nil {
		return nil, err
	}

	rgFrame := &render.Frame{Channels: make([]*render.Channel, len(img.Channels))}
	var planes [3]*vardct.DcPlane
	for i, ch := range img.Channels {
		data := make([]float64, ch.W*ch.H)
		for idx, v := range ch.Samples {
			data[idx] = float64(v) / 255
		}
		rgFrame.Channels[i] = &render.Channel{Width: ch.W, Height: ch.H, Data: data}
		if i < len(planes) {
			planes[i] = &vardct.DcPlane{W: ch.W, H: ch.H, Data: data}
		}
	}
	skipSmoothing := fh.Flags&header.FlagSkipAdaptiveDCSmoothing != 0
	vardct.SmoothDC(planes, [3]float64{1, 1, 1}, skipSmoothing)
	for i := 0; i < len(planes) && i < len(rgFrame.Channels); i++ {
		rgFrame.Channels[i].Data = planes[i].Data
	}

	var stages []render.Stage
	switch fh.ColorTransform {
	case header.ColorTransformXYB:
		stages = append(stages,
			render.XYBToLinearStage(numChannels, 0, 1, 2),
			render.LinearToSRGBStage([]render.ChannelMode{render.InPlace, render.InPlace, render.InPlace}),
		)
	case header.ColorTransformYCbCr:
		stages = append(stages, render.YCbCrToRGBStage(numChannels, 0, 1, 2))
	}
	if err := render.Run(rgFrame, stages); err != nil {
		return nil, err
	}

	out := make([]byte, w*h*3)
	render.Write(out, w, 3, rgFrame, []int{0, 1, 2}, false, 0, 0)
	return out, nil
}

func (d *Decoder) fail(err error) error {
	d.state = StateError
	d.err = err
	return err
}

func (d *Decoder) logDebug(msg string, kv ...interface{}) {
	if d.logger == nil {
		return
	}
	d.logger.Debug(msg, kv...)
}
