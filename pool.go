package yeecore

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// cyclicBarrier is a reusable rendezvous point for a fixed number of
// parties (spec.md §4.4's start/iterate/stop barriers). Generalizes the
// teacher's single ad hoc step counter + sync.Cond pair (worker.go's
// workerStep/workerPending/workerCond) into a named, reusable primitive
// since this core needs three of them with different party counts.
type cyclicBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	count   int
	gen     int
}

func newCyclicBarrier(parties int) *cyclicBarrier {
	b := &cyclicBarrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until parties callers have all called wait on the same
// generation, then releases all of them together and advances to the
// next generation.
func (b *cyclicBarrier) wait() {
	b.mu.Lock()
	gen := b.gen
	b.count++
	if b.count == b.parties {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
	} else {
		for b.gen == gen {
			b.cond.Wait()
		}
	}
	b.mu.Unlock()
}

// batchPlan is the unit of work the driver hands to the pool across one
// start/stop barrier round-trip: a schedule to execute in full, and the
// simulation timestep number of the schedule's base (spec.md §2's
// "for each batch of H steps: for each phase: ...").
type batchPlan struct {
	schedule     *Schedule
	timestepBase int
}

// pool is the fixed worker pool of spec.md §4.4: p persistent
// goroutines synchronized by three barriers, executing whatever
// batchPlan the driver installs between a start/stop round-trip.
type pool struct {
	p        int
	field    *Field
	registry *extensionRegistry

	start, iterate, stop *cyclicBarrier

	mu       sync.Mutex
	batch    *batchPlan
	stopFlag bool

	timestep *int

	faultMu sync.Mutex
	fault   error

	eg     *errgroup.Group
	cancel context.CancelFunc
}

// newPool constructs a pool but does not start its workers.
func newPool(p int, field *Field, registry *extensionRegistry, timestep *int) *pool {
	if p < 1 {
		p = 1
	}
	return &pool{
		p:        p,
		field:    field,
		registry: registry,
		timestep: timestep,
		start:    newCyclicBarrier(p + 1),
		iterate:  newCyclicBarrier(p),
		stop:     newCyclicBarrier(p + 1),
	}
}

// spawn launches the pool's p persistent worker goroutines in a
// golang.org/x/sync/errgroup group, generalizing the teacher's bare
// `go g.waveWorkerLoop(i)` (worker.go's startWorkers) to the corpus's
// structured-concurrency idiom. The group is used to join the workers at
// shutdown; the group's context is not passed to the workers, and the
// first extension fault reaches the driver through reportFault and
// runIteration instead.
func (p *pool) spawn() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	eg, _ := errgroup.WithContext(ctx)
	p.eg = eg
	for i := 0; i < p.p; i++ {
		idx := i
		eg.Go(func() error {
			return p.workerLoop(idx)
		})
	}
}

// workerLoop is the body of one persistent worker thread: pin to an OS
// thread, configure denormal flush-to-zero once, then alternate between
// waiting at the start barrier, running the installed batch, and
// waiting at the stop barrier until shutdown sets the stop flag and
// clears the batch. Its return value is the fault (if any) recorded
// before shutdown; shutdown's errgroup.Wait joins the workers and
// discards it, since runIteration has already returned that fault.
func (p *pool) workerLoop(index int) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	setupDenormalFlushToZero()

	for {
		p.start.wait()

		// The stop flag alone also marks a fault reported by another
		// worker during this batch; only shutdown clears the batch, so
		// exit only when both are seen, or the other workers would wait
		// forever at the iterate and stop barriers.
		p.mu.Lock()
		plan := p.batch
		stopping := p.stopFlag
		p.mu.Unlock()

		if stopping && plan == nil {
			return p.currentFault()
		}

		if plan != nil {
			if err := p.runBatch(plan, index); err != nil {
				p.reportFault(err)
			}
		}

		if index == 0 && plan != nil && !p.observeStop() {
			*p.timestep += numFullTimesteps(plan.schedule)
		}
		p.stop.wait()
	}
}

// runBatch executes every phase of plan.schedule, processing this
// worker's round-robin share of each phase's tile sequences. Within a
// phase, every tile sequence is lockstepped tau by tau across the
// iterate barrier rather than run to completion independently: a
// shrinking or growing tile boundary reads one cell into a neighbour
// tile's footprint, and that neighbour may be a different tile sequence
// assigned to a different worker, so every worker must have finished
// the same absolute half-step before any of them starts the next one.
// A tile sequence's own internal tau ordering still needs no barrier —
// only cross-tile-sequence reads do.
//
// On an extension fault the error is recorded and remaining work for
// this phase (and this worker's share of later phases) is skipped, but
// every iterate.wait() call still runs so no other worker blocks
// forever on a barrier this one abandoned; the fault is returned only
// after every phase has been stepped through.
func (p *pool) runBatch(plan *batchPlan, index int) error {
	var faulted error
	for _, phase := range plan.schedule.Phases {
		for tau := 0; tau < 2*plan.schedule.H; tau++ {
			if faulted == nil && !p.observeStop() {
				for t := index; t < len(phase.Tiles); t += p.p {
					w, ok := phase.Tiles[t].windowForTau(tau)
					if !ok {
						continue
					}
					if err := p.runHalfStep(w, plan.timestepBase); err != nil {
						faulted = err
						p.reportFault(err)
						break
					}
				}
			}
			p.iterate.wait()
		}
	}
	return faulted
}

// runHalfStep runs the update for exactly one tau: even tau is the
// voltage phase, odd tau the dual current phase, alternating leapfrog-
// style — a tile loaded into cache once produces H advanced full
// timesteps (2H half-steps) of output (spec.md §4.3's purpose
// statement), not H independent full V+I cycles.
func (p *pool) runHalfStep(w TileWindow, timestepBase int) error {
	timestep := timestepBase + w.TOffset/2
	if w.TOffset%2 == 0 {
		return p.registry.runVoltagePhase(p.field, timestep, w)
	}
	return p.registry.runCurrentPhase(p.field, timestep, w)
}

func (p *pool) reportFault(err error) {
	p.faultMu.Lock()
	defer p.faultMu.Unlock()
	if p.fault == nil {
		p.fault = err
	}
	p.mu.Lock()
	p.stopFlag = true
	p.mu.Unlock()
}

func (p *pool) observeStop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopFlag
}

func (p *pool) currentFault() error {
	p.faultMu.Lock()
	defer p.faultMu.Unlock()
	return p.fault
}

// runIteration installs plan, releases the start barrier, and blocks
// until every worker has reached the stop barrier. Returns the first
// fault any worker (or extension hook) reported, if any.
func (p *pool) runIteration(plan *batchPlan) error {
	p.mu.Lock()
	p.batch = plan
	p.mu.Unlock()

	p.start.wait()
	p.stop.wait()

	p.faultMu.Lock()
	defer p.faultMu.Unlock()
	return p.fault
}

// shutdown sets the stop flag, releases the start barrier once more so
// every worker observes it and returns, then joins them.
func (p *pool) shutdown() {
	p.mu.Lock()
	p.stopFlag = true
	p.batch = nil
	p.mu.Unlock()

	p.start.wait()
	if p.cancel != nil {
		p.cancel()
	}
	if p.eg != nil {
		p.eg.Wait()
	}
}

// setupDenormalFlushToZero configures the calling OS thread's floating
// point environment to flush denormals to zero (spec.md §5: a per-
// thread side effect set once per thread lifetime, performance-critical
// for UPML tails). No portable stdlib or ecosystem API in this module's
// dependency set exposes MXCSR/FPCR control without cgo or assembly;
// left as a documented no-op hook so a platform-specific build can fill
// it in without touching the worker loop's structure.
func setupDenormalFlushToZero() {}

func numFullTimesteps(s *Schedule) int {
	max := 0
	for _, phase := range s.Phases {
		for _, seq := range phase.Tiles {
			for _, w := range seq {
				if half := w.TOffset + 1; half > max {
					max = half
				}
			}
		}
	}
	return max / 2
}
