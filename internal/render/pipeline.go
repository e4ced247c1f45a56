/*
DESCRIPTION
  pipeline.go implements the staged row-processing driver of spec.md
  §4.12: a fixed ordered list of Stage values is applied to a Frame,
  each stage declaring per-channel modes and border/shift settings, with
  mirror-extension border handling applied uniformly by the driver
  rather than by each stage, grounded on the teacher's
  container/mts payload assembly driver (payload.go) which also
  dispatches a fixed small set of stage kinds over buffered chunks.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

// Package render implements the JPEG XL render pipeline: the ordered
// sequence of per-row stages that turns decoded Modular/VarDCT channel
// planes into final display-ready samples.
package render

import "github.com/jxlcore/jxlcore/internal/decodeerr"

// ChannelMode describes how a stage treats one channel.
type ChannelMode int

const (
	Ignored ChannelMode = iota
	InPlace
	InOut
	Input
)

// Settings is a stage's per-channel border/shift declaration.
type Settings struct {
	Mode    ChannelMode
	BorderX int
	BorderY int
	ShiftX  int
	ShiftY  int
}

// Channel is one plane of samples, row-major, width*height floats.
type Channel struct {
	Width, Height int
	Data          []float64
}

func (c *Channel) at(x, y int) float64 {
	return c.Data[y*c.Width+x]
}

func (c *Channel) set(x, y int, v float64) {
	c.Data[y*c.Width+x] = v
}

// Frame is the render pipeline's working set: one Channel per declared
// image channel (X/Y/B or R/G/B, plus any extra channels), processed in
// place as stages run.
type Frame struct {
	Channels []*Channel
}

// RowOp is a stage's per-output-row operation. inputRows holds
// 2*BorderY+1 mirror-extended input rows per channel (or fewer for
// Ignored channels, which are nil); xpos is the horizontal border
// offset into each row. outRows receives 1<<ShiftY output rows per
// InOut channel.
type RowOp func(settings []Settings, inputRows [][][]float64, xpos int, outRows [][][]float64)

// Stage is one render-pipeline stage: its catalogue entry plus the
// per-channel settings it declares.
type Stage struct {
	Name     string
	Settings []Settings
	Op       RowOp
}

// Run applies stages in order to frame, per spec.md §4.12's four-step
// per-stage recipe.
func Run(frame *Frame, stages []Stage) error {
	for _, st := range stages {
		if len(st.Settings) != len(frame.Channels) {
			return decodeerr.New(decodeerr.Internal, "render.Run: stage/channel count mismatch", nil)
		}
		if err := runStage(frame, st); err != nil {
			return err
		}
	}
	return nil
}

func runStage(frame *Frame, st Stage) error {
	// Determine this stage's canonical extent from the first non-Ignored
	// channel's pre-shift dimensions.
	var inW, inH int
	for i, s := range st.Settings {
		if s.Mode == Ignored {
			continue
		}
		inW, inH = frame.Channels[i].Width, frame.Channels[i].Height
		break
	}
	if inW == 0 || inH == 0 {
		return nil
	}

	outChannels := make([]*Channel, len(frame.Channels))
	for i, s := range st.Settings {
		switch s.Mode {
		case InOut:
			outChannels[i] = &Channel{Width: inW << uint(s.ShiftX), Height: inH << uint(s.ShiftY), Data: make([]float64, (inW<<uint(s.ShiftX))*(inH<<uint(s.ShiftY)))}
		default:
			outChannels[i] = frame.Channels[i]
		}
	}

	maxShiftY := 0
	for _, s := range st.Settings {
		if s.Mode == InOut && s.ShiftY > maxShiftY {
			maxShiftY = s.ShiftY
		}
	}

	for y := 0; y < inH; y++ {
		inputRows := make([][][]float64, len(frame.Channels))
		for i, s := range st.Settings {
			if s.Mode == Ignored {
				continue
			}
			inputRows[i] = gatherRows(frame.Channels[i], y, s.BorderX, s.BorderY)
		}

		numOut := 1 << uint(maxShiftY)
		outRows := make([][][]float64, len(frame.Channels))
		for i, s := range st.Settings {
			if s.Mode == InOut {
				rows := make([][]float64, numOut)
				for k := range rows {
					rows[k] = make([]float64, outChannels[i].Width)
				}
				outRows[i] = rows
			}
		}

		st.Op(st.Settings, inputRows, borderXOf(st.Settings), outRows)

		for i, s := range st.Settings {
			switch s.Mode {
			case InOut:
				for k := 0; k < numOut; k++ {
					destY := y<<uint(maxShiftY) + k
					if destY >= outChannels[i].Height {
						continue
					}
					copy(outChannels[i].Data[destY*outChannels[i].Width:(destY+1)*outChannels[i].Width], outRows[i][k])
				}
			case InPlace:
				row := inputRows[i][s.BorderY]
				copy(frame.Channels[i].Data[y*frame.Channels[i].Width:(y+1)*frame.Channels[i].Width], row[s.BorderX:s.BorderX+frame.Channels[i].Width])
			}
		}
	}

	for i, s := range st.Settings {
		if s.Mode == InOut {
			frame.Channels[i] = outChannels[i]
		}
	}
	return nil
}

func borderXOf(settings []Settings) int {
	for _, s := range settings {
		if s.Mode != Ignored {
			return s.BorderX
		}
	}
	return 0
}

// gatherRows extends channel horizontally by borderX and vertically by
// borderY using mirror extension, returning 2*borderY+1 rows each of
// length width+2*borderX.
func gatherRows(ch *Channel, y, borderX, borderY int) [][]float64 {
	rows := make([][]float64, 2*borderY+1)
	for i := range rows {
		srcY := mirrorIndex(y-borderY+i, ch.Height)
		row := make([]float64, ch.Width+2*borderX)
		for x := -borderX; x < ch.Width+borderX; x++ {
			srcX := mirrorIndex(x, ch.Width)
			row[x+borderX] = ch.at(srcX, srcY)
		}
		rows[i] = row
	}
	return rows
}

// mirrorIndex reflects i into [0, size) per spec.md §4.12 step 1/2: size
// 1 always maps to index 0.
func mirrorIndex(i, size int) int {
	if size <= 1 {
		return 0
	}
	period := 2 * size
	i %= period
	if i < 0 {
		i += period
	}
	if i >= size {
		return period - 1 - i
	}
	return i
}
