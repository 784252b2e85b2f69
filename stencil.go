package yeecore

// dims returns the mesh extent the layout was built for.
func (l layout) dims() [3]int { return [3]int{l.nx, l.ny, l.nz} }

// pecTerm returns curr's value at the neighbour offset by exactly one
// of (di,dj,dk) being -1 (the rest zero), substituting the same-index
// value when the corresponding coordinate is 0 — the PEC self-subtract
// boundary rule of spec.md §4.2. Paired with the matching same-index
// read at the call site, the resulting difference is naturally zero at
// the boundary without any branch beyond this one.
func pecTerm(f *Field, c component, i, j, k, di, dj, dk int) float32 {
	coord := i
	switch {
	case dj != 0:
		coord = j
	case dk != 0:
		coord = k
	}
	if axisLowIsSelf(coord) {
		return f.GetCurr(int(c), i, j, k)
	}
	return f.GetCurr(int(c), i+di, j+dj, k+dk)
}

// pmcTerm is the current update's dual read: volt at the forward
// (di,dj,dk = +1 on one axis) neighbour. No boundary substitution is
// needed because CurrentUpdate's window is pre-clamped to N_a-2
// (clampCurrStop), so the forward neighbour never exceeds N_a-1 — PMC
// suppression is enforced by that clamp, not by a branch here.
func pmcTerm(f *Field, c component, i, j, k, di, dj, dk int) float32 {
	return f.GetVolt(int(c), i+di, j+dj, k+dk)
}

// VoltageUpdate applies the Yee voltage-from-curl-of-current update
// (spec.md §4.2) to every cell in w.VoltStart..=w.VoltStop. It reads
// only curr and the vv/vi coefficients and writes only volt within the
// window, mirroring the teacher's processMask contract (read
// neighbours, write only the row owned by the caller) generalized from
// one 2D Laplacian term to the three Yee curl components, with the
// teacher's by-4 k-loop unroll kept for the innermost axis.
func VoltageUpdate(f *Field, w TileWindow) {
	for i := w.VoltStart[0]; i <= w.VoltStop[0]; i++ {
		for j := w.VoltStart[1]; j <= w.VoltStop[1]; j++ {
			k0, k1 := w.VoltStart[2], w.VoltStop[2]
			k := k0
			for ; k+3 <= k1; k += 4 {
				voltageUpdateCell(f, i, j, k)
				voltageUpdateCell(f, i, j, k+1)
				voltageUpdateCell(f, i, j, k+2)
				voltageUpdateCell(f, i, j, k+3)
			}
			for ; k <= k1; k++ {
				voltageUpdateCell(f, i, j, k)
			}
		}
	}
}

func voltageUpdateCell(f *Field, i, j, k int) {
	curlX := f.GetCurr(int(compZ), i, j, k) - pecTerm(f, compZ, i, j, k, 0, -1, 0) -
		f.GetCurr(int(compY), i, j, k) + pecTerm(f, compY, i, j, k, 0, 0, -1)

	curlY := f.GetCurr(int(compX), i, j, k) - pecTerm(f, compX, i, j, k, 0, 0, -1) -
		f.GetCurr(int(compZ), i, j, k) + pecTerm(f, compZ, i, j, k, -1, 0, 0)

	curlZ := f.GetCurr(int(compY), i, j, k) - pecTerm(f, compY, i, j, k, -1, 0, 0) -
		f.GetCurr(int(compX), i, j, k) + pecTerm(f, compX, i, j, k, 0, -1, 0)

	applyVolt(f, compX, i, j, k, curlX)
	applyVolt(f, compY, i, j, k, curlY)
	applyVolt(f, compZ, i, j, k, curlZ)
}

func applyVolt(f *Field, c component, i, j, k int, curl float32) {
	vv := f.coeffVV(c, i, j, k)
	vi := f.coeffVI(c, i, j, k)
	old := f.GetVolt(int(c), i, j, k)
	f.setVolt(c, i, j, k, old*vv+vi*curl)
}

// CurrentUpdate applies the dual current-from-curl-of-voltage update to
// every cell in w.CurrStart..=w.CurrStop, using the ii/iv coefficients
// and forward (+1) neighbours in place of VoltageUpdate's backward
// (-1) ones (spec.md §4.2).
func CurrentUpdate(f *Field, w TileWindow) {
	for i := w.CurrStart[0]; i <= w.CurrStop[0]; i++ {
		for j := w.CurrStart[1]; j <= w.CurrStop[1]; j++ {
			k0, k1 := w.CurrStart[2], w.CurrStop[2]
			k := k0
			for ; k+3 <= k1; k += 4 {
				currentUpdateCell(f, i, j, k)
				currentUpdateCell(f, i, j, k+1)
				currentUpdateCell(f, i, j, k+2)
				currentUpdateCell(f, i, j, k+3)
			}
			for ; k <= k1; k++ {
				currentUpdateCell(f, i, j, k)
			}
		}
	}
}

func currentUpdateCell(f *Field, i, j, k int) {
	curlX := f.GetVolt(int(compZ), i, j, k) - pmcTerm(f, compZ, i, j, k, 0, 1, 0) -
		f.GetVolt(int(compY), i, j, k) + pmcTerm(f, compY, i, j, k, 0, 0, 1)

	curlY := f.GetVolt(int(compX), i, j, k) - pmcTerm(f, compX, i, j, k, 0, 0, 1) -
		f.GetVolt(int(compZ), i, j, k) + pmcTerm(f, compZ, i, j, k, 1, 0, 0)

	curlZ := f.GetVolt(int(compY), i, j, k) - pmcTerm(f, compY, i, j, k, 1, 0, 0) -
		f.GetVolt(int(compX), i, j, k) + pmcTerm(f, compX, i, j, k, 0, 1, 0)

	applyCurr(f, compX, i, j, k, curlX)
	applyCurr(f, compY, i, j, k, curlY)
	applyCurr(f, compZ, i, j, k, curlZ)
}

func applyCurr(f *Field, c component, i, j, k int, curl float32) {
	ii := f.coeffII(c, i, j, k)
	iv := f.coeffIV(c, i, j, k)
	old := f.GetCurr(int(c), i, j, k)
	f.setCurr(c, i, j, k, old*ii+iv*curl)
}
