package yeecore

// TileWindow is the unit of work a worker executes: a pair of inclusive
// 3D cell ranges (one for the voltage update, one for the dual current
// update) plus the half-step time offset at which the tile must be
// applied relative to its batch's base timestep (spec.md §3).
//
// The teacher's rowMask{y, spans} played the same role for a single,
// untiled-in-time 2D row; TileWindow generalizes it to three dimensions
// and to the two Yee sub-lattices, which is why VoltStart/VoltStop and
// CurrStart/CurrStop differ (the current update's inclusive stop is
// clamped one cell short of the domain per axis — see clampCurrStop).
type TileWindow struct {
	VoltStart, VoltStop [3]int
	CurrStart, CurrStop [3]int

	// TOffset is the time offset, in half-steps, relative to the
	// batch's base timestep at which this tile must be applied.
	TOffset int
}

// valid reports whether the window satisfies spec.md §3's invariant:
// VoltStop[a] >= VoltStart[a] for every axis.
func (w TileWindow) valid() bool {
	for a := 0; a < 3; a++ {
		if w.VoltStop[a] < w.VoltStart[a] {
			return false
		}
	}
	return true
}

// clampCurrStop clamps each axis of CurrStop to N_a-2, the invariant
// spec.md §3 places on tile windows (the current sub-lattice never
// reaches the last line of a PMC-suppressed axis).
func clampCurrStop(stop [3]int, dims [3]int) [3]int {
	var out [3]int
	for a := 0; a < 3; a++ {
		max := dims[a] - 2
		if stop[a] > max {
			stop[a] = max
		}
		out[a] = stop[a]
	}
	return out
}

// clampToDomain clamps both bound triples of a tile window to the
// mesh's [0, N_a) extent on every axis, per spec.md §4.3 step 2 ("both
// clamped to domain limits").
func (w TileWindow) clampToDomain(dims [3]int) TileWindow {
	for a := 0; a < 3; a++ {
		w.VoltStart[a] = clampInt(w.VoltStart[a], 0, dims[a]-1)
		w.VoltStop[a] = clampInt(w.VoltStop[a], 0, dims[a]-1)
		w.CurrStart[a] = clampInt(w.CurrStart[a], 0, dims[a]-1)
		w.CurrStop[a] = clampInt(w.CurrStop[a], 0, dims[a]-1)
	}
	w.CurrStop = clampCurrStop(w.CurrStop, dims)
	return w
}

// intersectVolt returns the inclusive voltage-range intersection of w
// with an arbitrary bounding box, and whether that intersection is
// non-empty. Used by extensions (UPML, dispersive) to test whether a
// tile overlaps their claim region (spec.md §4.5).
func intersectVolt(w TileWindow, boxStart, boxStop [3]int) (start, stop [3]int, ok bool) {
	ok = true
	for a := 0; a < 3; a++ {
		start[a] = max(w.VoltStart[a], boxStart[a])
		stop[a] = min(w.VoltStop[a], boxStop[a])
		if stop[a] < start[a] {
			ok = false
		}
	}
	return
}
