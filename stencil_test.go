package yeecore

import "testing"

func fullWindow(dims [3]int) TileWindow {
	w := TileWindow{
		VoltStart: [3]int{0, 0, 0},
		VoltStop:  [3]int{dims[0] - 1, dims[1] - 1, dims[2] - 1},
		CurrStart: [3]int{0, 0, 0},
		CurrStop:  [3]int{dims[0] - 1, dims[1] - 1, dims[2] - 1},
	}
	return w.clampToDomain(dims)
}

func TestVoltageUpdateZeroFieldStaysZero(t *testing.T) {
	dims := [3]int{5, 5, 5}
	f := newField(dims[0], dims[1], dims[2], lane4)
	if err := f.loadCoefficients(flatCoefficients(dims[0], dims[1], dims[2], 1, 1, 1, 1)); err != nil {
		t.Fatalf("loadCoefficients: %v", err)
	}
	VoltageUpdate(f, fullWindow(dims))
	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				for c := 0; c < 3; c++ {
					if got := f.GetVolt(c, i, j, k); got != 0 {
						t.Fatalf("GetVolt(%d,%d,%d,%d) = %v, want 0 from an all-zero field", c, i, j, k, got)
					}
				}
			}
		}
	}
}

// A spatially uniform current field has zero curl everywhere, including
// at the low-edge (PEC self-subtract) and high-edge cells, since the
// boundary substitution reads back the same constant the neighbour read
// would have. This exercises the PEC boundary path without a panic and
// without needing a hand-derived non-zero expected value.
func TestVoltageUpdatePECBoundaryUniformFieldIsZeroCurl(t *testing.T) {
	dims := [3]int{4, 4, 4}
	f := newField(dims[0], dims[1], dims[2], lane4)
	if err := f.loadCoefficients(flatCoefficients(dims[0], dims[1], dims[2], 1, 1, 1, 1)); err != nil {
		t.Fatalf("loadCoefficients: %v", err)
	}
	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				for c := 0; c < 3; c++ {
					f.setCurr(component(c), i, j, k, 7)
				}
			}
		}
	}
	VoltageUpdate(f, fullWindow(dims))
	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				for c := 0; c < 3; c++ {
					if got := f.GetVolt(c, i, j, k); got != 0 {
						t.Fatalf("GetVolt(%d,%d,%d,%d) = %v, want 0 for a uniform current field", c, i, j, k, got)
					}
				}
			}
		}
	}
}

func TestCurrentUpdatePMCBoundaryUniformFieldIsZeroCurl(t *testing.T) {
	dims := [3]int{4, 4, 4}
	f := newField(dims[0], dims[1], dims[2], lane4)
	if err := f.loadCoefficients(flatCoefficients(dims[0], dims[1], dims[2], 1, 1, 1, 1)); err != nil {
		t.Fatalf("loadCoefficients: %v", err)
	}
	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				for c := 0; c < 3; c++ {
					f.setVolt(component(c), i, j, k, 3)
				}
			}
		}
	}
	w := fullWindow(dims)
	CurrentUpdate(f, w)
	for i := w.CurrStart[0]; i <= w.CurrStop[0]; i++ {
		for j := w.CurrStart[1]; j <= w.CurrStop[1]; j++ {
			for k := w.CurrStart[2]; k <= w.CurrStop[2]; k++ {
				for c := 0; c < 3; c++ {
					if got := f.GetCurr(c, i, j, k); got != 0 {
						t.Fatalf("GetCurr(%d,%d,%d,%d) = %v, want 0 for a uniform voltage field", c, i, j, k, got)
					}
				}
			}
		}
	}
}

func TestVoltageUpdateAppliesCoefficientDecay(t *testing.T) {
	dims := [3]int{3, 3, 3}
	f := newField(dims[0], dims[1], dims[2], lane4)
	if err := f.loadCoefficients(flatCoefficients(dims[0], dims[1], dims[2], 0.5, 0, 0, 0)); err != nil {
		t.Fatalf("loadCoefficients: %v", err)
	}
	f.setVolt(compX, 1, 1, 1, 10)
	VoltageUpdate(f, fullWindow(dims))
	if got, want := f.GetVolt(int(compX), 1, 1, 1), float32(5); got != want {
		t.Fatalf("GetVolt(x,1,1,1) = %v, want %v (vv=0.5 decay, vi=0 curl)", got, want)
	}
}
