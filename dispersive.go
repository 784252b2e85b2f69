package yeecore

// Dispersive implements the Lorentz/Drude dispersive-material extension
// of spec.md §4.5: an auxiliary differential equation (ADE) companion
// state, advanced alongside the primary field and then subtracted back
// out of it, rather than folding the dispersion directly into vv/vi.
// Grounded on the same claim-box/hook-contract pattern as UPML (§4.5),
// with ADE state "indexed by (order o, cell index i)" per spec.md §4.5.
type Dispersive struct {
	noopExtension

	priority int
	start    [3]int
	n        [3]int
	field    *Field
	cache    *tileIndexCache

	order   int
	lorentz bool

	alpha, beta   []float32 // ADE recursion coefficients, one pair per order
	gamma, delta  []float32 // Lorentz first-order auxiliary coefficients, one pair per order

	voltADE, currADE       [][]float32 // [order][local cell*3+component]
	voltLorADE, currLorADE [][]float32 // Lorentz-only, same shape
}

// NewDispersive constructs a dispersive-material extension over the
// inclusive box [start, start+n) with the given ADE order. alpha/beta
// (and, for Lorentz variants, gamma/delta) must have length order.
func NewDispersive(priority int, start, n [3]int, order int, lorentz bool, alpha, beta, gamma, delta []float32) (*Dispersive, error) {
	if order < 1 {
		return nil, newError(ErrConfiguration, "dispersive material order must be at least 1", nil)
	}
	if len(alpha) != order || len(beta) != order {
		return nil, newError(ErrConfiguration, "dispersive alpha/beta must have length order", nil)
	}
	if lorentz && (len(gamma) != order || len(delta) != order) {
		return nil, newError(ErrConfiguration, "dispersive gamma/delta must have length order for Lorentz variants", nil)
	}
	count := n[0] * n[1] * n[2] * 3
	d := &Dispersive{
		priority: priority, start: start, n: n,
		cache:    newTileIndexCache(order),
		order:    order, lorentz: lorentz,
		alpha: alpha, beta: beta, gamma: gamma, delta: delta,
	}
	for o := 0; o < order; o++ {
		d.voltADE = append(d.voltADE, make([]float32, count))
		d.currADE = append(d.currADE, make([]float32, count))
		if lorentz {
			d.voltLorADE = append(d.voltLorADE, make([]float32, count))
			d.currLorADE = append(d.currLorADE, make([]float32, count))
		}
	}
	return d, nil
}

func (d *Dispersive) Priority() int        { return d.priority }
func (d *Dispersive) SupportsTiling() bool { return true }

func (d *Dispersive) bindField(f *Field) { d.field = f }

func (d *Dispersive) boxStop() [3]int {
	return [3]int{d.start[0] + d.n[0] - 1, d.start[1] + d.n[1] - 1, d.start[2] + d.n[2] - 1}
}

func (d *Dispersive) localIndex(c, i, j, k int) int {
	li, lj, lk := i-d.start[0], j-d.start[1], k-d.start[2]
	return ((li*d.n[1]+lj)*d.n[2]+lk)*3 + c
}

// claimedCells mirrors UPML.claimedCells, including the tileKey-cached
// intersection: the union of per-tile invocations over one timestep
// covers exactly the claim region (spec.md §3's Extension invariant),
// and a tile wholly outside it is a no-op.
func (d *Dispersive) claimedCells(w TileWindow, fn func(c, i, j, k, idx int)) {
	refs := d.cache.get(w, func() []cellRef {
		start, stop, ok := intersectVolt(w, d.start, d.boxStop())
		if !ok {
			return nil
		}
		var out []cellRef
		for i := start[0]; i <= stop[0]; i++ {
			for j := start[1]; j <= stop[1]; j++ {
				for k := start[2]; k <= stop[2]; k++ {
					for c := 0; c < 3; c++ {
						out = append(out, cellRef{c: c, i: i, j: j, k: k, local: d.localIndex(c, i, j, k)})
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

// DoPreVoltageUpdates advances the ADE voltage auxiliary state from the
// primary field at each claimed cell (spec.md §4.5). For Lorentz
// variants the first-order Lor_ADE auxiliary evolves alongside.
//
// The subtraction below reads voltLorADE[o][base+2] rather than
// voltLorADE[o][base+0] — an apparent typo noted in spec.md §9,
// preserved as-is pending domain clarification.
func (d *Dispersive) DoPreVoltageUpdates(_ int, w TileWindow) error {
	f := d.field
	d.claimedCells(w, func(c, i, j, k, idx int) {
		v := f.GetVolt(c, i, j, k)
		base := idx - c
		for o := 0; o < d.order; o++ {
			d.voltADE[o][idx] = d.alpha[o]*d.voltADE[o][idx] + d.beta[o]*v
			if d.lorentz {
				v -= d.voltLorADE[o][base+2]
				d.voltLorADE[o][idx] = d.gamma[o]*d.voltLorADE[o][idx] + d.delta[o]*d.voltADE[o][idx]
			}
		}
		f.setVolt(component(c), i, j, k, v)
	})
	return nil
}

// Apply2Voltages subtracts the accumulated ADE contribution from the
// primary field, per spec.md §4.5.
func (d *Dispersive) Apply2Voltages(_ int, w TileWindow) error {
	f := d.field
	d.claimedCells(w, func(c, i, j, k, idx int) {
		v := f.GetVolt(c, i, j, k)
		for o := 0; o < d.order; o++ {
			v -= d.voltADE[o][idx]
		}
		f.setVolt(component(c), i, j, k, v)
	})
	return nil
}

// DoPreCurrentUpdates mirrors DoPreVoltageUpdates on the dual lattice,
// except that the Lorentz subtraction reads currLorADE[o][idx], the
// cell's own component; the voltage side's [base+2] read is not
// repeated here.
func (d *Dispersive) DoPreCurrentUpdates(_ int, w TileWindow) error {
	f := d.field
	d.claimedCells(w, func(c, i, j, k, idx int) {
		v := f.GetCurr(c, i, j, k)
		for o := 0; o < d.order; o++ {
			d.currADE[o][idx] = d.alpha[o]*d.currADE[o][idx] + d.beta[o]*v
			if d.lorentz {
				v -= d.currLorADE[o][idx]
				d.currLorADE[o][idx] = d.gamma[o]*d.currLorADE[o][idx] + d.delta[o]*d.currADE[o][idx]
			}
		}
		f.setCurr(component(c), i, j, k, v)
	})
	return nil
}

// Apply2Current mirrors Apply2Voltages on the dual lattice.
func (d *Dispersive) Apply2Current(_ int, w TileWindow) error {
	f := d.field
	d.claimedCells(w, func(c, i, j, k, idx int) {
		v := f.GetCurr(c, i, j, k)
		for o := 0; o < d.order; o++ {
			v -= d.currADE[o][idx]
		}
		f.setCurr(component(c), i, j, k, v)
	})
	return nil
}
