/*
DESCRIPTION
  pipeline_test.go provides testing for pipeline.go and stages.go.
*/
package render

import "testing"

func flatChannel(w, h int, v float64) *Channel {
	data := make([]float64, w*h)
	for i := range data {
		data[i] = v
	}
	return &Channel{Width: w, Height: h, Data: data}
}

func TestRunNoShiftStagesPreservesWidth(t *testing.T) {
	frame := &Frame{Channels: []*Channel{flatChannel(4, 4, 0.5), flatChannel(4, 4, 0.5), flatChannel(4, 4, 0.5)}}
	stage := LinearToSRGBStage([]ChannelMode{InPlace, InPlace, InPlace})
	if err := Run(frame, []Stage{stage}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, ch := range frame.Channels {
		if ch.Width != 4 || ch.Height != 4 {
			t.Fatalf("channel %d size = %dx%d, want 4x4 (no shift stage should not change width)", i, ch.Width, ch.Height)
		}
	}
}

func TestMirrorIndexReflectsAtBoundaries(t *testing.T) {
	cases := []struct{ i, size, want int }{
		{-1, 4, 0},
		{0, 4, 0},
		{4, 4, 3},
		{5, 4, 2},
		{0, 1, 0},
		{7, 1, 0},
	}
	for _, c := range cases {
		if got := mirrorIndex(c.i, c.size); got != c.want {
			t.Errorf("mirrorIndex(%d, %d) = %d, want %d", c.i, c.size, got, c.want)
		}
	}
}

func TestChromaUpsampleDoublesWidth(t *testing.T) {
	frame := &Frame{Channels: []*Channel{flatChannel(4, 1, 0.2)}}
	stage := ChromaUpsampleStage(1, 0, true)
	if err := Run(frame, []Stage{stage}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Channels[0].Width != 8 {
		t.Fatalf("Width = %d, want 8", frame.Channels[0].Width)
	}
}
