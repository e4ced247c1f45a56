/*
DESCRIPTION
  dimensions.go derives FrameDimensions from SizeHeader + FrameHeader per
  spec.md §3: block-rounded dimensions, group sizing, and group/DC-group
  counts.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package header

// GroupDim is the fixed group tile size in pixels, a power of two >=
// 128 per spec.md §3.
const GroupDim = 256

// FrameDimensions is spec.md §3's derived-dimensions bundle.
type FrameDimensions struct {
	Xsize, Ysize               int
	XsizeBlocks, YsizeBlocks    int
	NumGroups                  int
	NumDcGroups                int
}

// ComputeFrameDimensions derives FrameDimensions. For Modular encoding,
// no block rounding is applied per spec.md §3; for VarDCT, dimensions
// are rounded up to 8px block multiples shifted by maxChromaShift.
func ComputeFrameDimensions(size SizeHeader, fh FrameHeader, maxChromaShift int) FrameDimensions {
	d := FrameDimensions{Xsize: size.Xsize, Ysize: size.Ysize}

	if fh.Encoding == EncodingModular {
		d.XsizeBlocks = (d.Xsize + 7) / 8
		d.YsizeBlocks = (d.Ysize + 7) / 8
	} else {
		shiftMul := 1 << uint(maxChromaShift)
		roundTo := 8 * shiftMul
		d.XsizeBlocks = ((d.Xsize + roundTo - 1) / roundTo) * (roundTo / 8)
		d.YsizeBlocks = ((d.Ysize + roundTo - 1) / roundTo) * (roundTo / 8)
	}

	groupDimBlocks := GroupDim / 8
	groupsX := (d.XsizeBlocks + groupDimBlocks - 1) / groupDimBlocks
	groupsY := (d.YsizeBlocks + groupDimBlocks - 1) / groupDimBlocks
	if groupsX < 1 {
		groupsX = 1
	}
	if groupsY < 1 {
		groupsY = 1
	}
	d.NumGroups = groupsX * groupsY

	dcGroupDimBlocks := groupDimBlocks * 8
	dcGroupsX := (d.XsizeBlocks + dcGroupDimBlocks - 1) / dcGroupDimBlocks
	dcGroupsY := (d.YsizeBlocks + dcGroupDimBlocks - 1) / dcGroupDimBlocks
	if dcGroupsX < 1 {
		dcGroupsX = 1
	}
	if dcGroupsY < 1 {
		dcGroupsY = 1
	}
	d.NumDcGroups = dcGroupsX * dcGroupsY

	return d
}
