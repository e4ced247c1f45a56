/*
DESCRIPTION
  transforms_test.go provides testing for transforms.go.
*/
package modular

import "testing"

func chanOf(vals []int32, w, h int) *Channel {
	return &Channel{W: w, H: h, Samples: append([]int32(nil), vals...)}
}

func TestRCTIdentity(t *testing.T) {
	img := &Image{Channels: []*Channel{
		chanOf([]int32{1, 2, 3, 4}, 2, 2),
		chanOf([]int32{5, 6, 7, 8}, 2, 2),
		chanOf([]int32{9, 10, 11, 12}, 2, 2),
	}}
	rct := RCT{BeginC: 0, RctType: 0} // permutation 0, kind 0: identity.
	if err := rct.InverseApply(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]int32{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}
	for c, ch := range img.Channels {
		for i, v := range ch.Samples {
			if v != want[c][i] {
				t.Errorf("channel %d[%d] = %d, want %d", c, i, v, want[c][i])
			}
		}
	}
}

func TestRCTType6RoundTrip(t *testing.T) {
	// Forward encode is the algebraic inverse of kind 6's own decode
	// formula (R = a - floor(b/2); B = R - c; G = b + B), solved for
	// (a, b, c) given (R, G, B): b = G-B, c = R-B, a = R + floor(b/2).
	// Stored channel order is [a, b, c] = [Y, Cg, Co], matching kind 6's
	// permutation-0 identity ordering (spec.md §8).
	r, g, b := int32(200), int32(40), int32(90)
	co := r - b
	cg := g - b
	y := r + (cg >> 1)

	img := &Image{Channels: []*Channel{
		chanOf([]int32{y}, 1, 1),
		chanOf([]int32{cg}, 1, 1),
		chanOf([]int32{co}, 1, 1),
	}}
	rct := RCT{BeginC: 0, RctType: 6}
	if err := rct.InverseApply(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotR, gotG, gotB := img.Channels[0].Samples[0], img.Channels[1].Samples[0], img.Channels[2].Samples[0]
	if gotR != r || gotG != g || gotB != b {
		t.Fatalf("RCT(type=6) round trip = (%d,%d,%d), want (%d,%d,%d)", gotR, gotG, gotB, r, g, b)
	}
}

func TestSqueezeInverseDoublesExtent(t *testing.T) {
	avg := chanOf([]int32{10, 20}, 2, 1)
	residual := chanOf([]int32{0, 0}, 2, 1)
	img := &Image{Channels: []*Channel{avg, residual}}
	sq := Squeeze{Horizontal: true, BeginC: 0, NumC: 1}
	if err := sq.InverseApply(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := img.Channels[0]
	if out.W != 4 || out.H != 1 {
		t.Fatalf("squeezed channel size = %dx%d, want 4x1", out.W, out.H)
	}
}

func TestPaletteExpandsChannels(t *testing.T) {
	indices := chanOf([]int32{0, 1, 0, 1}, 2, 2)
	// 2-color palette (W=nbColors) x 3 channels (H=numC), row y is
	// channel y's values across both colors.
	palette := &Channel{W: 2, H: 3, Samples: []int32{10, 20, 30, 40, 50, 60}}
	img := &Image{Channels: []*Channel{indices, palette}}
	pal := Palette{BeginC: 0, NumC: 3, NbColors: 2}
	if err := pal.InverseApply(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(img.Channels) != 3 {
		t.Fatalf("len(Channels) = %d, want 3", len(img.Channels))
	}
	if img.Channels[0].Samples[0] != 10 || img.Channels[1].Samples[0] != 30 || img.Channels[2].Samples[0] != 50 {
		t.Errorf("color 0 channels = (%d,%d,%d), want (10,30,50)",
			img.Channels[0].Samples[0], img.Channels[1].Samples[0], img.Channels[2].Samples[0])
	}
	if img.Channels[0].Samples[1] != 20 {
		t.Errorf("color 1 channel 0 = %d, want 20", img.Channels[0].Samples[1])
	}
}
