package yeecore

import "sync"

// tileKey is the structured, componentwise-equal key spec.md §3's
// "tile-keyed index maps" are built from: (order, voltStart, voltStop).
// Design Notes calls for replacing a compound hash key with exactly
// this — a plain struct is already comparable in Go, so no derived
// hash needs writing by hand; the compiler generates one for map use.
type tileKey struct {
	order               int
	voltStart, voltStop [3]int
}

func newTileKey(order int, w TileWindow) tileKey {
	return tileKey{order: order, voltStart: w.VoltStart, voltStop: w.VoltStop}
}

// cellRef is one claimed (component, cell, local-index) entry, the
// value a tile-keyed index map stores per claimed cell.
type cellRef struct {
	c, i, j, k, local int
}

// tileIndexCache memoizes the per-tile-window list of claimed cells an
// extension computes by intersecting a TileWindow against its claim
// box. A single timestep's Pre/Post/Apply hooks are all handed the same
// window and would otherwise recompute an identical intersection three
// times over; this builds the list once per distinct window (keyed by
// tileKey) and reuses it for the rest of that timestep's hooks and for
// later timesteps. Entries are built lazily, on a window's first
// request during iteration, and stored under the mutex; nothing is
// built at schedule time. Shared by UPML and Dispersive, which
// both claim a box and iterate it per hook the same way.
type tileIndexCache struct {
	mu    sync.Mutex
	order int
	byKey map[tileKey][]cellRef
}

func newTileIndexCache(order int) *tileIndexCache {
	return &tileIndexCache{order: order, byKey: make(map[tileKey][]cellRef)}
}

// get returns the cached claim list for w, building and storing it with
// build if this is the first request for w's exact window.
func (c *tileIndexCache) get(w TileWindow, build func() []cellRef) []cellRef {
	key := newTileKey(c.order, w)

	c.mu.Lock()
	if refs, ok := c.byKey[key]; ok {
		c.mu.Unlock()
		return refs
	}
	c.mu.Unlock()

	refs := build()

	c.mu.Lock()
	c.byKey[key] = refs
	c.mu.Unlock()
	return refs
}
