/*
DESCRIPTION
  frame.go implements the per-frame TOC-dispatch state machine of
  spec.md §4.13: a FrameDecoder advances Init -> HeaderRead -> TocRead
  -> DCGlobal -> DCGroups* -> DCFinalized -> ACGlobal -> ACGroups* ->
  Finalized as logical sections are submitted, tracking per-group pass
  counts and duplicate/unmet-dependency section submissions, grounded
  on the teacher's h264dec.SliceContext, which carries an analogous
  per-unit decode-progress state machine driven by incoming NAL data.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

// Package frame implements the JPEG XL frame decoder: the state machine
// that dispatches TOC sections to DC/AC group decode in dependency
// order.
package frame

import "github.com/jxlcore/jxlcore/internal/decodeerr"

// State is one of the frame decoder's progress states.
type State int

const (
	Init State = iota
	HeaderRead
	TocRead
	DCGlobal
	DCGroups
	DCFinalized
	ACGlobal
	ACGroups
	Finalized
)

// SubmitResult reports the outcome of submitting one logical section.
type SubmitResult int

const (
	Processed SubmitResult = iota
	Duplicate
	Skipped
)

// Decoder drives one frame's section dispatch. NumDcGroups/NumGroups
// and NumPasses must be set (via New) before Submit is called.
type Decoder struct {
	State State

	numDcGroups int
	numGroups   int
	numPasses   int

	dcGlobalDone   bool
	dcGroupDone    []bool
	acGlobalDone   bool
	acGroupPasses  []int // decodedPassesPerAcGroup, indexed by group.

	singleSection bool
}

// New constructs a Decoder for a frame with the given dimensions.
// singleSection marks a frame whose TOC has exactly one entry, in which
// case that entry carries all four concatenated sub-sections at once.
func New(numDcGroups, numGroups, numPasses int, singleSection bool) *Decoder {
	return &Decoder{
		State:         TocRead,
		numDcGroups:   numDcGroups,
		numGroups:     numGroups,
		numPasses:     numPasses,
		dcGroupDone:   make([]bool, numDcGroups),
		acGroupPasses: make([]int, numGroups),
		singleSection: singleSection,
	}
}

// acGroupLogicalID returns the logical id of pass p of AC group g, per
// spec.md §4.13.
func (d *Decoder) acGroupLogicalID(p, g int) int {
	return d.numDcGroups + 2 + p*d.numGroups + g
}

// acGlobalLogicalID returns AC-global's logical id.
func (d *Decoder) acGlobalLogicalID() int {
	return d.numDcGroups + 1
}

// Submit dispatches one logical section. handler is invoked with the
// section's role only when the section is actually processed;
// it returns an error if decoding that section's payload fails.
func (d *Decoder) Submit(logicalID int, handler func(role Role) error) (SubmitResult, error) {
	if d.singleSection {
		return d.submitSingleSection(handler)
	}

	if d.State == TocRead {
		d.State = DCGlobal
	}

	switch {
	case logicalID == 0:
		if d.dcGlobalDone {
			return Duplicate, nil
		}
		if err := handler(RoleDCGlobal); err != nil {
			return Processed, err
		}
		d.dcGlobalDone = true
		if d.State == DCGlobal {
			d.State = DCGroups
		}
		return Processed, nil

	case logicalID >= 1 && logicalID <= d.numDcGroups:
		g := logicalID - 1
		if !d.dcGlobalDone {
			return Skipped, nil
		}
		if d.dcGroupDone[g] {
			return Duplicate, nil
		}
		if err := handler(RoleDCGroup); err != nil {
			return Processed, err
		}
		d.dcGroupDone[g] = true
		d.maybeFinalizeDC()
		return Processed, nil

	case logicalID == d.acGlobalLogicalID():
		if d.acGlobalDone {
			return Duplicate, nil
		}
		if !d.allDCDone() {
			return Skipped, nil
		}
		if err := handler(RoleACGlobal); err != nil {
			return Processed, err
		}
		d.acGlobalDone = true
		if d.State == ACGlobal {
			d.State = ACGroups
		}
		return Processed, nil

	default:
		p, g, ok := d.decodeACGroupID(logicalID)
		if !ok {
			return Skipped, decodeerr.New(decodeerr.MalformedBitstream, "frame.Submit: unknown logical id", nil)
		}
		if !d.allDCDone() || !d.acGlobalDone {
			return Skipped, nil
		}
		if p != d.acGroupPasses[g] {
			if p < d.acGroupPasses[g] {
				return Duplicate, nil
			}
			return Skipped, nil
		}
		if err := handler(RoleACGroup); err != nil {
			return Processed, err
		}
		d.acGroupPasses[g]++
		d.maybeFinalize()
		return Processed, nil
	}
}

// submitSingleSection handles the single-TOC-entry shortcut: one
// section id 0 carries DC-global + DC-group(0) + AC-global +
// AC-group[0,0] concatenated, per spec.md §4.13.
func (d *Decoder) submitSingleSection(handler func(role Role) error) (SubmitResult, error) {
	if d.State == Finalized {
		return Duplicate, nil
	}
	if err := handler(RoleSingleSection); err != nil {
		return Processed, err
	}
	d.dcGlobalDone = true
	for i := range d.dcGroupDone {
		d.dcGroupDone[i] = true
	}
	d.acGlobalDone = true
	for g := range d.acGroupPasses {
		d.acGroupPasses[g] = d.numPasses
	}
	d.State = Finalized
	return Processed, nil
}

func (d *Decoder) decodeACGroupID(logicalID int) (p, g int, ok bool) {
	base := logicalID - (d.numDcGroups + 2)
	if base < 0 || d.numGroups == 0 {
		return 0, 0, false
	}
	p = base / d.numGroups
	g = base % d.numGroups
	if p >= d.numPasses {
		return 0, 0, false
	}
	return p, g, true
}

func (d *Decoder) allDCDone() bool {
	if !d.dcGlobalDone {
		return false
	}
	for _, done := range d.dcGroupDone {
		if !done {
			return false
		}
	}
	return true
}

func (d *Decoder) maybeFinalizeDC() {
	if d.allDCDone() && d.State == DCGroups {
		d.State = DCFinalized
		if d.acGlobalDone {
			d.State = ACGroups
		} else {
			d.State = ACGlobal
		}
	}
}

func (d *Decoder) maybeFinalize() {
	for _, passes := range d.acGroupPasses {
		if passes < d.numPasses {
			return
		}
	}
	d.State = Finalized
}

// Role identifies which part of the frame a processed section
// represents, used by the caller's decode dispatch.
type Role int

const (
	RoleDCGlobal Role = iota
	RoleDCGroup
	RoleACGlobal
	RoleACGroup
	RoleSingleSection
)

// References computes the reference-slot dependency set for a frame:
// the blend-source slot when blendMode is not Replace, plus a reserved
// DC-frame slot when useDcFrame is set, per spec.md §4.13.
func References(blendMode int, blendSource int, useDcFrame bool, dcFrameSlot int) []int {
	const blendReplace = 0
	var refs []int
	if blendMode != blendReplace {
		refs = append(refs, blendSource)
	}
	if useDcFrame {
		refs = append(refs, dcFrameSlot)
	}
	return refs
}
