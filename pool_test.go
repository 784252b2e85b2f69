package yeecore

import (
	"sync"
	"testing"
	"time"
)

func TestCyclicBarrierReleasesAllParties(t *testing.T) {
	const parties = 5
	b := newCyclicBarrier(parties)

	var wg sync.WaitGroup
	released := make(chan int, parties)
	wg.Add(parties)
	for i := 0; i < parties; i++ {
		go func(id int) {
			defer wg.Done()
			b.wait()
			released <- id
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("barrier did not release all parties in time")
	}
	close(released)
	count := 0
	for range released {
		count++
	}
	if count != parties {
		t.Fatalf("got %d released parties, want %d", count, parties)
	}
}

func TestCyclicBarrierIsReusable(t *testing.T) {
	const parties = 3
	b := newCyclicBarrier(parties)
	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		wg.Add(parties)
		for i := 0; i < parties; i++ {
			go func() {
				defer wg.Done()
				b.wait()
			}()
		}
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("barrier round %d did not release in time", round)
		}
	}
}

func TestPoolRunIterationAdvancesTimestep(t *testing.T) {
	dims := [3]int{4, 4, 4}
	f := newField(dims[0], dims[1], dims[2], lane4)
	if err := f.loadCoefficients(flatCoefficients(dims[0], dims[1], dims[2], 1, 1, 1, 1)); err != nil {
		t.Fatalf("loadCoefficients: %v", err)
	}
	registry := newExtensionRegistry(nil)
	timestep := 0
	p := newPool(2, f, registry, &timestep)
	p.spawn()
	defer p.shutdown()

	sched := buildSchedule(dims, [3]int{4, 4, 4}, 2)
	if err := p.runIteration(&batchPlan{schedule: sched, timestepBase: timestep}); err != nil {
		t.Fatalf("runIteration: %v", err)
	}
	if timestep != 2 {
		t.Fatalf("timestep = %d, want 2 after one H=2 batch", timestep)
	}
}

type faultyExtension struct {
	noopExtension
}

func (faultyExtension) Priority() int        { return 0 }
func (faultyExtension) SupportsTiling() bool { return true }
func (faultyExtension) DoPreVoltageUpdates(int, TileWindow) error {
	return newError(ErrExtensionFault, "boom", nil)
}

func TestPoolRunIterationSurfacesExtensionFault(t *testing.T) {
	dims := [3]int{4, 4, 4}
	f := newField(dims[0], dims[1], dims[2], lane4)
	if err := f.loadCoefficients(flatCoefficients(dims[0], dims[1], dims[2], 1, 1, 1, 1)); err != nil {
		t.Fatalf("loadCoefficients: %v", err)
	}
	registry := newExtensionRegistry([]Extension{faultyExtension{}})
	timestep := 0
	p := newPool(2, f, registry, &timestep)
	p.spawn()
	defer p.shutdown()

	sched := buildSchedule(dims, [3]int{4, 4, 4}, 1)
	err := p.runIteration(&batchPlan{schedule: sched, timestepBase: 0})
	if err == nil {
		t.Fatal("expected the extension fault to surface from runIteration")
	}
	if !IsKind(err, ErrExtensionFault) {
		t.Fatalf("expected ErrExtensionFault, got %v", err)
	}
}
