package yeecore

// diamondLane identifies which of the two interleaved 1D tile sets a
// tile belongs to: the "mountain" tiles that start full-size and
// shrink away from internal seams, or the "valley" tiles that start
// empty at those seams and grow to fill the gap the mountains leave
// behind. Generalizes the teacher's single row-partitioning pass
// (masks.go's rebuildInteriorMask/assignRowMasks, one static mask per
// worker) to the time-skewed decomposition spec.md §4.3 describes.
type diamondLane int

const (
	laneMountain diamondLane = iota
	laneValley
)

// axisTile is one 1D tile of a single axis's diamond tiling: a base
// [lo,hi] extent plus, per edge, whether it shrinks inward, grows
// outward, or is pinned. An edge abutting the true domain boundary is
// pinned (no shrink needed — VoltageUpdate's PEC substitution and
// CurrentUpdate's PMC clamp already give the stencil a well-defined
// value there with no dependency on a tile that doesn't exist).
type axisTile struct {
	lo, hi                    int
	leftShrinks, rightShrinks bool
	leftGrows, rightGrows     bool
}

// diamondShrink is the triangular shrink-then-grow profile shared by
// every tile edge that isn't pinned: zero at the batch's first and
// last half-step, peaking near the middle. For h==1 (the rectangular
// fallback) it is identically zero, which collapses mountain tiles to
// a plain, non-overlapping block partition and valley tiles to empty —
// exactly the "same shape but H=1" schedule spec.md §4.3 step 4 asks
// for, with no separate code path needed.
func diamondShrink(tau, h int) int {
	rem := 2*h - 1 - tau
	if tau < rem {
		return tau
	}
	return rem
}

func (t axisTile) footprint(tau, h int) (lo, hi int, active bool) {
	s := diamondShrink(tau, h)
	lo, hi = t.lo, t.hi
	switch {
	case t.leftShrinks:
		lo += s
	case t.leftGrows:
		lo -= s
	}
	switch {
	case t.rightShrinks:
		hi -= s
	case t.rightGrows:
		hi += s
	}
	return lo, hi, lo <= hi
}

// mountainTiling partitions [0,N) into tiles of width b, pinning edges
// that touch the domain boundary and marking edges at an internal seam
// as free to shrink.
func mountainTiling(n, b int) []axisTile {
	if b < 1 {
		b = n
	}
	var tiles []axisTile
	for lo := 0; lo < n; lo += b {
		hi := lo + b - 1
		if hi > n-1 {
			hi = n - 1
		}
		tiles = append(tiles, axisTile{
			lo: lo, hi: hi,
			leftShrinks:  lo > 0,
			rightShrinks: hi < n-1,
		})
	}
	return tiles
}

// valleyTiling builds one tile per internal seam between consecutive
// mountain tiles. Its base [lo,hi] is empty by construction (lo ==
// hi+1): it grows outward from the seam as the neighbouring mountains
// shrink away from it.
func valleyTiling(mountains []axisTile) []axisTile {
	var tiles []axisTile
	for s := 0; s+1 < len(mountains); s++ {
		tiles = append(tiles, axisTile{
			lo: mountains[s].hi + 1,
			hi: mountains[s+1].lo - 1,
			leftGrows:  true,
			rightGrows: true,
		})
	}
	return tiles
}

func laneTiles(lane diamondLane, mountains, valleys []axisTile) []axisTile {
	if lane == laneValley {
		return valleys
	}
	return mountains
}

// laneCombos enumerates the eight (mountain/valley)^3 phase identities
// of spec.md §4.3 step 2, ordered by ascending number of valley axes.
// Every combo therefore comes after each combo that differs from it
// only by having a mountain in place of one or more of its valleys —
// the dependency order a valley tile needs (its neighbouring mountains
// must have already run). Combos that differ on other axes are not
// ordered by this rule: {m,v,v} runs after {v,m,m}.
func laneCombos() [][3]diamondLane {
	m, v := laneMountain, laneValley
	return [][3]diamondLane{
		{m, m, m},
		{v, m, m}, {m, v, m}, {m, m, v},
		{v, v, m}, {v, m, v}, {m, v, v},
		{v, v, v},
	}
}

// tileSequence is the tau-ordered run of TileWindows that make up one
// diamond tile's full lifetime within a batch: one entry per half-step
// at which the tile's 3D footprint is non-empty. A phase's tiles are
// write-disjoint from each other only at a shared tau (pool.go's
// runBatch locksteps every tile sequence in a phase tau by tau across a
// barrier), not across the whole sequence, since a tile's shrinking or
// growing boundary reads one cell into a neighbour tile still pinned to
// an earlier absolute half-step.
type tileSequence []TileWindow

// windowForTau returns the entry (if any) whose TOffset equals tau. seq
// is built in ascending TOffset order by buildTileSequence, with gaps
// where the tile's footprint was empty at that half-step.
func (seq tileSequence) windowForTau(tau int) (TileWindow, bool) {
	for _, w := range seq {
		if w.TOffset == tau {
			return w, true
		}
		if w.TOffset > tau {
			break
		}
	}
	return TileWindow{}, false
}

// Phase is one barrier-synchronized step of a schedule: every tile in
// every sequence here is write-disjoint from every other, for every
// half-step it runs. pool.go still synchronizes every tau within a
// phase with its own barrier round, since a tile's boundary read can
// reach into a neighbour tile's footprint that has not yet reached the
// same tau.
type Phase struct {
	Tiles []tileSequence
}

// Schedule is an ordered list of phases; diamond_S and rect_S of
// spec.md §3 are both values of this type, built by the same
// constructor with different h. H is that h, the whole timesteps per
// batch; pool.go locksteps tau across tiles over the 2*H half-steps of
// each phase.
type Schedule struct {
	Phases []Phase
	H      int
}

// buildSchedule constructs the tile schedule for a batch of h
// timesteps (2h half-steps) over a mesh of the given dims, with
// per-axis block width b. Calling it with h=1 produces the rectangular
// fallback schedule spec.md §4.3 step 4 describes; calling it with the
// operator's configured H produces the diamond schedule.
func buildSchedule(dims, b [3]int, h int) *Schedule {
	var mountains, valleys [3][]axisTile
	for a := 0; a < 3; a++ {
		mountains[a] = mountainTiling(dims[a], b[a])
		valleys[a] = valleyTiling(mountains[a])
	}

	sched := &Schedule{H: h}
	for _, combo := range laneCombos() {
		tilesX := laneTiles(combo[0], mountains[0], valleys[0])
		tilesY := laneTiles(combo[1], mountains[1], valleys[1])
		tilesZ := laneTiles(combo[2], mountains[2], valleys[2])

		var phaseTiles []tileSequence
		for _, tx := range tilesX {
			for _, ty := range tilesY {
				for _, tz := range tilesZ {
					if seq := buildTileSequence(tx, ty, tz, dims, h); len(seq) > 0 {
						phaseTiles = append(phaseTiles, seq)
					}
				}
			}
		}
		if len(phaseTiles) > 0 {
			sched.Phases = append(sched.Phases, Phase{Tiles: phaseTiles})
		}
	}
	return sched
}

func buildTileSequence(tx, ty, tz axisTile, dims [3]int, h int) tileSequence {
	var seq tileSequence
	for tau := 0; tau < 2*h; tau++ {
		loX, hiX, okX := tx.footprint(tau, h)
		loY, hiY, okY := ty.footprint(tau, h)
		loZ, hiZ, okZ := tz.footprint(tau, h)
		if !okX || !okY || !okZ {
			continue
		}
		w := TileWindow{
			VoltStart: [3]int{loX, loY, loZ},
			VoltStop:  [3]int{hiX, hiY, hiZ},
			CurrStart: [3]int{loX, loY, loZ},
			CurrStop:  [3]int{hiX, hiY, hiZ},
			TOffset:   tau,
		}
		w = w.clampToDomain(dims)
		if w.valid() {
			seq = append(seq, w)
		}
	}
	return seq
}

// validateBlockWidths rejects a Z-axis block width other than 0 or the
// full domain depth (spec.md §9 Design Notes: the source's early-termination
// path on partial Z-axis tiling is preserved here as an exact
// configuration error rather than a runtime abort). X and Y tolerate a
// short final tile; Z must be tiled in one single full-depth block.
func validateBlockWidths(dims, b [3]int) error {
	if b[2] != 0 && b[2] != dims[2] {
		return newError(ErrConfiguration, "block width on the z axis must span the full domain depth", nil)
	}
	return nil
}
