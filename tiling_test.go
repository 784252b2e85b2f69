package yeecore

import "testing"

func TestDiamondShrinkDegeneratesAtHEqualsOne(t *testing.T) {
	for tau := 0; tau < 2; tau++ {
		if got := diamondShrink(tau, 1); got != 0 {
			t.Fatalf("diamondShrink(%d, 1) = %d, want 0", tau, got)
		}
	}
}

func TestDiamondShrinkTriangularProfile(t *testing.T) {
	h := 3
	want := []int{0, 1, 2, 2, 1, 0}
	for tau, w := range want {
		if got := diamondShrink(tau, h); got != w {
			t.Fatalf("diamondShrink(%d, %d) = %d, want %d", tau, h, got, w)
		}
	}
}

func TestMountainTilingPinsDomainEdges(t *testing.T) {
	tiles := mountainTiling(10, 4)
	if len(tiles) == 0 {
		t.Fatal("expected at least one tile")
	}
	if tiles[0].leftShrinks {
		t.Fatal("first tile's left edge touches the domain boundary and must be pinned")
	}
	last := tiles[len(tiles)-1]
	if last.rightShrinks {
		t.Fatal("last tile's right edge touches the domain boundary and must be pinned")
	}
	for i, tl := range tiles {
		if i > 0 && !tl.leftShrinks {
			t.Fatalf("tile %d's left edge is an internal seam and must shrink", i)
		}
		if i < len(tiles)-1 && !tl.rightShrinks {
			t.Fatalf("tile %d's right edge is an internal seam and must shrink", i)
		}
	}
}

// TestRectangularScheduleCoversEveryCellExactlyOnce checks the h=1
// fallback: the union of every phase's tile footprints, restricted to
// the voltage phase's tau (even), partitions the domain with no gaps
// and no overlaps.
func TestRectangularScheduleCoversEveryCellExactlyOnce(t *testing.T) {
	dims := [3]int{10, 10, 6}
	b := [3]int{4, 4, 6}
	sched := buildSchedule(dims, b, 1)

	coverage := make([][][]int, dims[0])
	for i := range coverage {
		coverage[i] = make([][]int, dims[1])
		for j := range coverage[i] {
			coverage[i][j] = make([]int, dims[2])
		}
	}

	for _, phase := range sched.Phases {
		for _, seq := range phase.Tiles {
			for _, w := range seq {
				if w.TOffset%2 != 0 {
					continue // current-phase half-step; voltage footprint already counted
				}
				for i := w.VoltStart[0]; i <= w.VoltStop[0]; i++ {
					for j := w.VoltStart[1]; j <= w.VoltStop[1]; j++ {
						for k := w.VoltStart[2]; k <= w.VoltStop[2]; k++ {
							coverage[i][j][k]++
						}
					}
				}
			}
		}
	}

	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				if coverage[i][j][k] != 1 {
					t.Fatalf("cell (%d,%d,%d) covered %d times by the voltage phase, want exactly 1", i, j, k, coverage[i][j][k])
				}
			}
		}
	}
}

func TestValidateBlockWidthsRejectsPartialZAxis(t *testing.T) {
	dims := [3]int{8, 8, 8}
	if err := validateBlockWidths(dims, [3]int{4, 4, 8}); err != nil {
		t.Fatalf("full-depth Z block width should be accepted: %v", err)
	}
	if err := validateBlockWidths(dims, [3]int{4, 4, 0}); err != nil {
		t.Fatalf("zero Z block width (full extent) should be accepted: %v", err)
	}
	err := validateBlockWidths(dims, [3]int{4, 4, 4})
	if err == nil {
		t.Fatal("expected an error for a partial Z-axis block width")
	}
	if !IsKind(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
