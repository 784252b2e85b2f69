package yeecore

import (
	"os"
	"runtime/pprof"
	"sync"
)

// StartCPUProfile begins writing a CPU profile to path, returning a
// stop function that flushes and closes it. Grounded on the teacher's
// startDefaultPGORecording (same create/profile/close shape), widened
// from a fixed PGO-recording path to a general-purpose profiling hook
// callers wrap around one or more IterateTS calls.
func StartCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	var once sync.Once
	stop := func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}
	return stop, nil
}
