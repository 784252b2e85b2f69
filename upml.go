package yeecore

// UPML is the absorbing-boundary extension of spec.md §4.5: a uniaxial
// perfectly matched layer implemented as flux auxiliary state over the
// box it claims, rather than as a stencil-level boundary condition.
// Grounded on the Pre/Post hook contract of spec.md §4.5 and the
// claim-box-plus-tile-intersection pattern of the Extension data model
// (§3); the exact per-cell recursion below is this implementation's own
// realization of that design-level description (recorded in DESIGN.md)
// since spec.md deliberately leaves the formula at "design level, not
// exact formula".
type UPML struct {
	noopExtension

	priority int
	start    [3]int
	n        [3]int
	field    *Field
	cache    *tileIndexCache

	fluxV, fluxI         []float32
	savedVolt, savedCurr []float32
	vvfo, vvfn           []float32
	iifo, iifn           []float32
}

// NewUPML constructs a UPML extension over the inclusive box
// [start, start+n). vvfo/vvfn/iifo/iifn must be shaped
// (3, n[0], n[1], n[2]) in the same component-major order Coefficients
// uses externally; the UPML owns this auxiliary state privately,
// sized to its claim region rather than the full domain (spec.md §3,
// Extension entity: "private per-extension state... sized by the
// bounding box of cells it claims").
func NewUPML(priority int, start, n [3]int, vvfo, vvfn, iifo, iifn []float32) (*UPML, error) {
	count := n[0] * n[1] * n[2] * 3
	for name, arr := range map[string][]float32{"vvfo": vvfo, "vvfn": vvfn, "iifo": iifo, "iifn": iifn} {
		if len(arr) != count {
			return nil, newError(ErrConfiguration, "UPML coefficient array "+name+" has wrong length", nil)
		}
	}
	return &UPML{
		priority:  priority,
		start:     start,
		n:         n,
		cache:     newTileIndexCache(0),
		fluxV:     make([]float32, count),
		fluxI:     make([]float32, count),
		savedVolt: make([]float32, count),
		savedCurr: make([]float32, count),
		vvfo:      vvfo,
		vvfn:      vvfn,
		iifo:      iifo,
		iifn:      iifn,
	}, nil
}

func (u *UPML) Priority() int        { return u.priority }
func (u *UPML) SupportsTiling() bool { return true }

// bindField attaches the live Field once Init has allocated it; driver.go
// calls this on every extension that implements the optional fieldBinder
// interface, since the Extension hook contract itself carries no Field
// argument (spec.md §4.5's hooks take only a timestep and a window).
func (u *UPML) bindField(f *Field) { u.field = f }

func (u *UPML) boxStop() [3]int {
	return [3]int{u.start[0] + u.n[0] - 1, u.start[1] + u.n[1] - 1, u.start[2] + u.n[2] - 1}
}

func (u *UPML) localIndex(c, i, j, k int) int {
	li, lj, lk := i-u.start[0], j-u.start[1], k-u.start[2]
	return ((li*u.n[1]+lj)*u.n[2]+lk)*3 + c
}

// claimedCells intersects w's voltage range with the PML box, calling
// fn once per claimed (component, cell) pair; a tile wholly outside the
// box calls fn zero times, the "no-op" contract of spec.md §4.5. The
// intersection and local-index list is computed once per distinct
// window and cached by tileKey, since Pre/Post/Apply all walk the same
// window within one timestep.
func (u *UPML) claimedCells(w TileWindow, fn func(c, i, j, k, local int)) {
	refs := u.cache.get(w, func() []cellRef {
		start, stop, ok := intersectVolt(w, u.start, u.boxStop())
		if !ok {
			return nil
		}
		var out []cellRef
		for i := start[0]; i <= stop[0]; i++ {
			for j := start[1]; j <= stop[1]; j++ {
				for k := start[2]; k <= stop[2]; k++ {
					for c := 0; c < 3; c++ {
						out = append(out, cellRef{c: c, i: i, j: j, k: k, local: u.localIndex(c, i, j, k)})
					}
				}
			}
		}
		return out
	})
	for _, r := range refs {
		fn(r.c, r.i, r.j, r.k, r.local)
	}
}

// DoPreVoltageUpdates implements "f_help = vv·volt − vvfo·flux; store
// old flux into volt; write f_help into flux": the true old volt is
// saved aside so DoPostVoltageUpdates can restore it once the stencil
// has consumed the swapped-in flux value as its own "old" term.
func (u *UPML) DoPreVoltageUpdates(_ int, w TileWindow) error {
	f := u.field
	u.claimedCells(w, func(c, i, j, k, local int) {
		old := f.GetVolt(c, i, j, k)
		u.savedVolt[local] = old
		fHelp := f.coeffVV(component(c), i, j, k)*old - u.vvfo[local]*u.fluxV[local]
		f.setVolt(component(c), i, j, k, u.fluxV[local])
		u.fluxV[local] = fHelp
	})
	return nil
}

// DoPostVoltageUpdates implements "store current flux; recover old
// volt; write flux + vvfn·flux'", where flux' is what the stencil wrote
// into volt while operating on the swapped-in old flux value. The
// restored volt is then damped by the updated flux in Apply2Voltages.
func (u *UPML) DoPostVoltageUpdates(_ int, w TileWindow) error {
	f := u.field
	u.claimedCells(w, func(c, i, j, k, local int) {
		fluxPrime := f.GetVolt(c, i, j, k)
		cur := u.fluxV[local]
		f.setVolt(component(c), i, j, k, u.savedVolt[local])
		u.fluxV[local] = cur + u.vvfn[local]*fluxPrime
	})
	return nil
}

// Apply2Voltages applies the absorbing correction to the restored field
// once the flux recursion above has settled for this half-step.
func (u *UPML) Apply2Voltages(_ int, w TileWindow) error {
	f := u.field
	u.claimedCells(w, func(c, i, j, k, local int) {
		v := f.GetVolt(c, i, j, k)
		f.setVolt(component(c), i, j, k, v-u.vvfn[local]*u.fluxV[local])
	})
	return nil
}

// DoPreCurrentUpdates mirrors DoPreVoltageUpdates on the dual lattice,
// using ii/iifo in place of vv/vvfo.
func (u *UPML) DoPreCurrentUpdates(_ int, w TileWindow) error {
	f := u.field
	u.claimedCells(w, func(c, i, j, k, local int) {
		old := f.GetCurr(c, i, j, k)
		u.savedCurr[local] = old
		fHelp := f.coeffII(component(c), i, j, k)*old - u.iifo[local]*u.fluxI[local]
		f.setCurr(component(c), i, j, k, u.fluxI[local])
		u.fluxI[local] = fHelp
	})
	return nil
}

// DoPostCurrentUpdates mirrors DoPostVoltageUpdates using iifn.
func (u *UPML) DoPostCurrentUpdates(_ int, w TileWindow) error {
	f := u.field
	u.claimedCells(w, func(c, i, j, k, local int) {
		fluxPrime := f.GetCurr(c, i, j, k)
		cur := u.fluxI[local]
		f.setCurr(component(c), i, j, k, u.savedCurr[local])
		u.fluxI[local] = cur + u.iifn[local]*fluxPrime
	})
	return nil
}

// Apply2Current mirrors Apply2Voltages using iifn.
func (u *UPML) Apply2Current(_ int, w TileWindow) error {
	f := u.field
	u.claimedCells(w, func(c, i, j, k, local int) {
		v := f.GetCurr(c, i, j, k)
		f.setCurr(component(c), i, j, k, v-u.iifn[local]*u.fluxI[local])
	})
	return nil
}
