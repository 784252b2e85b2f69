package yeecore

import (
	"log"
	"runtime"
	"time"
)

// Driver is the external handle spec.md §6 exposes: Init allocates and
// wires everything below it, IterateTS advances the simulation, and
// Shutdown tears the worker pool down. Generalizes the teacher's
// top-level Game/solver struct (one struct owning the field store, the
// schedule, and the worker pool) to this core's six-array Field plus
// extension registry plus dual (diamond/rectangular) schedule.
type Driver struct {
	mesh Mesh
	opts Options

	field    *Field
	registry *extensionRegistry
	pool     *pool

	h                         int
	b                         [3]int
	diamondSchedule, rectSchedule *Schedule

	tuner *autoTuner

	backendHandle string
	timestep      int
	batchSeq      int
}

// Init validates the mesh, coefficients and extensions, allocates the
// field store, builds both schedules, and starts the worker pool
// (spec.md §6). No partial state is retained on error.
func Init(mesh Mesh, coeffs Coefficients, extensions []Extension, opts Options) (*Driver, error) {
	dims := mesh.dims()

	if err := validateBlockWidths(dims, opts.B); err != nil {
		return nil, err
	}
	backendHandle, err := resolveBackend(opts.Backend)
	if err != nil {
		return nil, err
	}

	lw := detectLaneWidth()
	field := newField(mesh.Nx, mesh.Ny, mesh.Nz, lw)
	if err := field.loadCoefficients(coeffs); err != nil {
		return nil, err
	}

	for _, e := range extensions {
		if binder, ok := e.(fieldBinder); ok {
			binder.bindField(field)
		}
	}
	registry := newExtensionRegistry(extensions)

	h := opts.blockHalfSteps()
	b := opts.B

	d := &Driver{
		mesh: mesh, opts: opts,
		field: field, registry: registry,
		h: h, b: b,
		diamondSchedule: buildSchedule(dims, b, h),
		rectSchedule:    buildSchedule(dims, b, 1),
		backendHandle:   backendHandle,
	}

	p := opts.P
	if p <= 0 {
		d.tuner = newAutoTuner(runtime.NumCPU())
		// Seed the pool at the tuner's starting point (P=1) rather than
		// next()'s climb proposal, so the first batch is actually
		// measured at P=1 before any climb is considered.
		p = d.tuner.current()
	}
	d.pool = newPool(p, field, registry, &d.timestep)
	d.pool.spawn()

	return d, nil
}

// IterateTS advances the simulation by n full timesteps: q = n/H full
// diamond batches followed by r = n%H residual timesteps run against
// the rectangular schedule (spec.md §8 testable property 3), unless any
// registered extension is non-tileable, in which case every timestep
// runs against the rectangular schedule (spec.md §4.4/§4.5).
func (d *Driver) IterateTS(n int) error {
	if d.registry.anyNonTileable() {
		for i := 0; i < n; i++ {
			if err := d.runBatch(d.rectSchedule); err != nil {
				return err
			}
		}
		return nil
	}

	q, r := n/d.h, n%d.h
	for i := 0; i < q; i++ {
		if err := d.runBatch(d.diamondSchedule); err != nil {
			return err
		}
	}
	for i := 0; i < r; i++ {
		if err := d.runBatch(d.rectSchedule); err != nil {
			return err
		}
	}
	return nil
}

// runBatch drives one batch through the pool's three-barrier model at
// the pool's current size, then (when P==0 was requested) feeds the
// measured throughput to the auto-tuner for the size that just ran and
// resizes the pool to whatever the tuner proposes for the next batch.
// Measuring before resizing, rather than after, is what lets the very
// first batch be observed at P=1 instead of skipping straight to a
// climb.
func (d *Driver) runBatch(sched *Schedule) error {
	if d.opts.VerboseLevel >= 2 {
		for _, ph := range sched.Phases {
			log.Printf("yeecore: batch %d phase: %d tile sequences", d.batchSeq, len(ph.Tiles))
		}
	}

	base := d.timestep
	usedP := d.pool.p
	start := time.Now()
	plan := &batchPlan{schedule: sched, timestepBase: base}
	if err := d.pool.runIteration(plan); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if d.tuner != nil {
		if secs := elapsed.Seconds(); secs > 0 {
			advanced := float64(d.timestep - base)
			d.tuner.observe(usedP, advanced*float64(d.mesh.cells())/secs)
		}
		if want := d.tuner.next(); want != d.pool.p {
			d.resizePool(want)
		}
	}

	if d.opts.VerboseLevel >= 3 {
		log.Printf("yeecore: batch %d took %s for %d timestep(s) at P=%d", d.batchSeq, elapsed, d.timestep-base, usedP)
	} else if d.opts.VerboseLevel >= 1 {
		log.Printf("yeecore: batch %d advanced timestep to %d", d.batchSeq, d.timestep)
	}
	d.batchSeq++
	return nil
}

// resizePool tears down the current pool and starts a fresh one with a
// different worker count; only the auto-tune path ever calls this,
// since a fixed P never needs to change mid-run.
func (d *Driver) resizePool(p int) {
	d.pool.shutdown()
	d.pool = newPool(p, d.field, d.registry, &d.timestep)
	d.pool.spawn()
}

// GetVolt and GetCurr are the probing surface of spec.md §6: constant
// time, safe between IterateTS calls, never on the hot path.
func (d *Driver) GetVolt(c, i, j, k int) float32 { return d.field.GetVolt(c, i, j, k) }
func (d *Driver) GetCurr(c, i, j, k int) float32 { return d.field.GetCurr(c, i, j, k) }

// Timestep returns the current global timestep counter.
func (d *Driver) Timestep() int { return d.timestep }

// Backend returns the resolved backend handle chosen at Init.
func (d *Driver) Backend() string { return d.backendHandle }

// Reset zeroes the primary fields and the timestep counter, retaining
// the coefficient arrays and extension registrations (spec.md §4.1
// reset; spec.md §8's round-trip testable property: Init, run, Reset,
// run again must match a fresh Init run step for step).
func (d *Driver) Reset() {
	d.field.reset()
	d.timestep = 0
}

// Shutdown stops the worker pool and joins every worker thread. The
// Driver must not be used again afterward.
func (d *Driver) Shutdown() {
	d.pool.shutdown()
}
