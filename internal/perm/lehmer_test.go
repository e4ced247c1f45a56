/*
DESCRIPTION
  lehmer_test.go provides testing for lehmer.go.
*/
package perm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeLehmerScenarios(t *testing.T) {
	tests := []struct {
		name    string
		lehmer  []uint32
		want    []int
		wantErr bool
	}{
		{"reverse four", []uint32{3, 2, 1, 0}, []int{3, 2, 1, 0}, false},
		{"three with padding", []uint32{1, 0, 0}, []int{1, 0, 2}, false},
		{"out of range code", []uint32{4, 0, 0, 0}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLehmer(tt.lehmer)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeLehmer(%v) mismatch (-want +got):\n%s", tt.lehmer, diff)
			}
		})
	}
}

func TestDecodeLehmerIsPermutation(t *testing.T) {
	// Identity Lehmer code (all zeros) must decode to the identity
	// permutation for any length.
	lehmer := make([]uint32, 9)
	got, err := DecodeLehmer(lehmer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make([]bool, len(lehmer))
	for i, v := range got {
		if v != i {
			t.Fatalf("identity code produced non-identity permutation: %v", got)
		}
		seen[v] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("permutation missing index %d: %v", i, got)
		}
	}
}
