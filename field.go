package yeecore

import "unsafe"

// component indexes into the 3-polarization axis of every field.
type component int

const (
	compX component = 0
	compY component = 1
	compZ component = 2
)

// layout is the concrete, non-virtual-dispatched description of how
// cell (c,i,j,k) maps to a flat array offset (spec.md §4.1, Design
// Notes "virtual-dispatched field accessors"). Every field and every
// extension's auxiliary array built through a Field's allocator shares
// one layout value, chosen once at Init.
type layout struct {
	nx, ny, nz int
	stride     int // lane width: 3 components + padding, floats per cell
}

// cellIndex returns the flat cell index (before the per-cell stride
// multiply) for (i,j,k). k is unit stride, matching §4.1(b); i is the
// slowest-varying axis.
func (l layout) cellIndex(i, j, k int) int {
	return (i*l.ny+j)*l.nz + k
}

// offset returns the flat float32 index of component c of cell (i,j,k).
func (l layout) offset(c component, i, j, k int) int {
	return l.cellIndex(i, j, k)*l.stride + int(c)
}

func (l layout) size() int { return l.nx * l.ny * l.nz * l.stride }

// alignedFloat32 allocates a []float32 whose backing array's address is
// a multiple of align bytes, by over-allocating and slicing forward to
// the first aligned element. This is the concrete mechanism behind
// §4.1(c) ("the base pointer plus any per-cell offset is 16-byte
// aligned"); the teacher never needed this (its triple-buffered scalar
// grid had no alignment contract), so it is new, grounded directly in
// spec.md rather than in teacher code.
func alignedFloat32(n, alignBytes int) []float32 {
	const elemBytes = 4
	pad := alignBytes/elemBytes - 1
	if pad < 0 {
		pad = 0
	}
	raw := make([]float32, n+pad)
	if len(raw) == 0 {
		return raw
	}
	addr := uintptr(unsafe.Pointer(&raw[0]))
	misalign := addr % uintptr(alignBytes)
	if misalign == 0 {
		return raw[:n:n]
	}
	skip := (uintptr(alignBytes) - misalign) / elemBytes
	return raw[skip : skip+uintptr(n) : skip+uintptr(n)]
}

// Field owns the six arrays spec.md §3 describes: the two primary
// fields (volt, curr) and the four precomputed update coefficients.
// Lifecycle: allocated at Init, zero-filled, mutated only by the
// worker pool during iteration, released at Shutdown. Generalizes the
// teacher's waveField (curr/prev/next triple buffer over one scalar
// per cell) to six arrays over three polarizations per cell.
type Field struct {
	layout layout

	volt, curr     []float32
	vv, vi, ii, iv []float32
}

// newField allocates and zero-fills a Field for the given mesh
// dimensions and lane width (spec.md §4.1 alloc).
func newField(nx, ny, nz int, lw laneWidth) *Field {
	l := layout{nx: nx, ny: ny, nz: nz, stride: int(lw)}
	alignBytes := int(lw) * 4
	n := l.size()
	return &Field{
		layout: l,
		volt:   alignedFloat32(n, alignBytes),
		curr:   alignedFloat32(n, alignBytes),
		vv:     alignedFloat32(n, alignBytes),
		vi:     alignedFloat32(n, alignBytes),
		ii:     alignedFloat32(n, alignBytes),
		iv:     alignedFloat32(n, alignBytes),
	}
}

// reset zeroes the primary fields and retains the coefficient arrays
// (spec.md §4.1 reset).
func (f *Field) reset() {
	for i := range f.volt {
		f.volt[i] = 0
	}
	for i := range f.curr {
		f.curr[i] = 0
	}
}

// GetVolt returns volt[c,i,j,k] (spec.md §6 probing surface; constant
// time, not on the hot path).
func (f *Field) GetVolt(c, i, j, k int) float32 {
	return f.volt[f.layout.offset(component(c), i, j, k)]
}

// GetCurr returns curr[c,i,j,k].
func (f *Field) GetCurr(c, i, j, k int) float32 {
	return f.curr[f.layout.offset(component(c), i, j, k)]
}

// setVolt and setCurr are the hot-path mutators used by the stencil
// kernel and extension hooks; unexported, since callers outside the
// package only ever probe (GetVolt/GetCurr), per spec.md §6.
func (f *Field) setVolt(c component, i, j, k int, v float32) {
	f.volt[f.layout.offset(c, i, j, k)] = v
}

func (f *Field) setCurr(c component, i, j, k int, v float32) {
	f.curr[f.layout.offset(c, i, j, k)] = v
}

// coeffVV, coeffVI, coeffII and coeffIV each return one coefficient of
// component c at (i,j,k), used by the stencil kernel's inner loop.
func (f *Field) coeffVV(c component, i, j, k int) float32 { return f.vv[f.layout.offset(c, i, j, k)] }
func (f *Field) coeffVI(c component, i, j, k int) float32 { return f.vi[f.layout.offset(c, i, j, k)] }
func (f *Field) coeffII(c component, i, j, k int) float32 { return f.ii[f.layout.offset(c, i, j, k)] }
func (f *Field) coeffIV(c component, i, j, k int) float32 { return f.iv[f.layout.offset(c, i, j, k)] }

// loadCoefficients copies caller-supplied (3,Nx,Ny,Nz)-shaped
// coefficient arrays (spec.md §6) into the Field's aligned internal
// layout. Returns a *Error(ErrConfiguration) if the shapes mismatch.
func (f *Field) loadCoefficients(coeffs Coefficients) error {
	want := f.layout.nx * f.layout.ny * f.layout.nz * 3
	for name, arr := range map[string][]float32{
		"vv": coeffs.VV, "vi": coeffs.VI, "ii": coeffs.II, "iv": coeffs.IV,
	} {
		if len(arr) != want {
			return newError(ErrConfiguration, "coefficient array "+name+" has wrong length", nil)
		}
	}
	copyComponentMajor(f.vv, coeffs.VV, f.layout)
	copyComponentMajor(f.vi, coeffs.VI, f.layout)
	copyComponentMajor(f.ii, coeffs.II, f.layout)
	copyComponentMajor(f.iv, coeffs.IV, f.layout)
	return nil
}

// copyComponentMajor copies a caller array laid out as [c][i][j][k]
// (component-major, the conventional external shape spec.md §6
// specifies) into dst's internal cell-major-with-padding layout.
func copyComponentMajor(dst []float32, src []float32, l layout) {
	n := l.nx * l.ny * l.nz
	for c := 0; c < 3; c++ {
		base := c * n
		idx := 0
		for i := 0; i < l.nx; i++ {
			for j := 0; j < l.ny; j++ {
				for k := 0; k < l.nz; k++ {
					dst[l.offset(component(c), i, j, k)] = src[base+idx]
					idx++
				}
			}
		}
	}
}
