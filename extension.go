package yeecore

// Extension is a pluggable per-cell hook that runs in phase with the
// core stencil update (spec.md §4.5). Every hook receives the current
// global timestep and the tile window currently being processed; hooks
// for a tileable extension may be invoked many times per timestep, each
// restricted to one tile, and must together cover exactly the
// extension's claim region over one timestep.
type Extension interface {
	// Priority linearizes hook ordering across extensions: higher runs
	// first in the Pre hooks and last in the Post/Apply hooks.
	Priority() int

	// SupportsTiling reports whether this extension's state can be
	// partitioned per tile window. An extension that returns false
	// forces the rectangular fallback schedule for the whole driver
	// (spec.md §4.4).
	SupportsTiling() bool

	DoPreVoltageUpdates(timestep int, w TileWindow) error
	DoPostVoltageUpdates(timestep int, w TileWindow) error
	Apply2Voltages(timestep int, w TileWindow) error

	DoPreCurrentUpdates(timestep int, w TileWindow) error
	DoPostCurrentUpdates(timestep int, w TileWindow) error
	Apply2Current(timestep int, w TileWindow) error
}

// extensionRegistry holds every registered extension sorted by
// descending priority, so Pre hooks naturally run highest-priority
// first and a reverse pass gives Post/Apply hooks the highest-priority-
// last order spec.md §4.5 specifies.
type extensionRegistry struct {
	byPriorityDesc []Extension
}

func newExtensionRegistry(exts []Extension) *extensionRegistry {
	sorted := make([]Extension, len(exts))
	copy(sorted, exts)
	// Insertion sort: registries are small (single digits of
	// extensions per simulation) and this keeps the ordering stable for
	// extensions sharing a priority, unlike sort.Slice.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Priority() > sorted[j-1].Priority(); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return &extensionRegistry{byPriorityDesc: sorted}
}

func (r *extensionRegistry) anyNonTileable() bool {
	for _, e := range r.byPriorityDesc {
		if !e.SupportsTiling() {
			return true
		}
	}
	return false
}

// runVoltagePhase runs the full voltage-side hook contract of spec.md
// §4.5 steps 1-4 around the stencil kernel for one tile window.
func (r *extensionRegistry) runVoltagePhase(f *Field, timestep int, w TileWindow) error {
	for _, e := range r.byPriorityDesc {
		if err := e.DoPreVoltageUpdates(timestep, w); err != nil {
			return newError(ErrExtensionFault, "DoPreVoltageUpdates", err)
		}
	}
	VoltageUpdate(f, w)
	for i := len(r.byPriorityDesc) - 1; i >= 0; i-- {
		if err := r.byPriorityDesc[i].DoPostVoltageUpdates(timestep, w); err != nil {
			return newError(ErrExtensionFault, "DoPostVoltageUpdates", err)
		}
	}
	for i := len(r.byPriorityDesc) - 1; i >= 0; i-- {
		if err := r.byPriorityDesc[i].Apply2Voltages(timestep, w); err != nil {
			return newError(ErrExtensionFault, "Apply2Voltages", err)
		}
	}
	return nil
}

// runCurrentPhase mirrors runVoltagePhase for the current update.
func (r *extensionRegistry) runCurrentPhase(f *Field, timestep int, w TileWindow) error {
	for _, e := range r.byPriorityDesc {
		if err := e.DoPreCurrentUpdates(timestep, w); err != nil {
			return newError(ErrExtensionFault, "DoPreCurrentUpdates", err)
		}
	}
	CurrentUpdate(f, w)
	for i := len(r.byPriorityDesc) - 1; i >= 0; i-- {
		if err := r.byPriorityDesc[i].DoPostCurrentUpdates(timestep, w); err != nil {
			return newError(ErrExtensionFault, "DoPostCurrentUpdates", err)
		}
	}
	for i := len(r.byPriorityDesc) - 1; i >= 0; i-- {
		if err := r.byPriorityDesc[i].Apply2Current(timestep, w); err != nil {
			return newError(ErrExtensionFault, "Apply2Current", err)
		}
	}
	return nil
}

// fieldBinder is implemented by extensions that need a live reference
// to the Field once Init has allocated it. The Extension hook contract
// itself carries no Field argument (spec.md §4.5's hooks take only a
// timestep and a window), so Init binds it out-of-band.
type fieldBinder interface {
	bindField(*Field)
}

// noopExtension implements Extension with every hook a no-op; embedding
// it lets a concrete extension override only the hooks it needs.
type noopExtension struct{}

func (noopExtension) DoPreVoltageUpdates(int, TileWindow) error  { return nil }
func (noopExtension) DoPostVoltageUpdates(int, TileWindow) error { return nil }
func (noopExtension) Apply2Voltages(int, TileWindow) error       { return nil }
func (noopExtension) DoPreCurrentUpdates(int, TileWindow) error  { return nil }
func (noopExtension) DoPostCurrentUpdates(int, TileWindow) error { return nil }
func (noopExtension) Apply2Current(int, TileWindow) error        { return nil }
