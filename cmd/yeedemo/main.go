// Command yeedemo is a headless smoke-test harness over yeecore.Init and
// yeecore.IterateTS, replacing the teacher's ebiten-windowed entrypoint
// with a flag-driven CLI loop: there is no display surface in this
// core's scope (spec.md §1 excludes rendering), only the solver.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fdtd-go/yeecore"
)

func main() {
	nx := flag.Int("nx", 32, "grid cells on the x axis")
	ny := flag.Int("ny", 32, "grid cells on the y axis")
	nz := flag.Int("nz", 32, "grid cells on the z axis")
	steps := flag.Int("steps", 100, "timesteps to advance")
	p := flag.Int("p", 0, "worker count (0 auto-tunes)")
	h := flag.Int("h", 5, "diamond schedule block-half-timestep depth")
	profile := flag.String("cpuprofile", "", "write a CPU profile to this path")
	verbose := flag.Int("v", 0, "log volume, 0-3")
	flag.Parse()

	if *profile != "" {
		stop, err := yeecore.StartCPUProfile(*profile)
		if err != nil {
			log.Fatalf("yeedemo: starting CPU profile: %v", err)
		}
		defer stop()
	}

	mesh := yeecore.Mesh{Nx: *nx, Ny: *ny, Nz: *nz}
	coeffs := unitCoefficients(mesh)

	opts := yeecore.Options{P: *p, H: *h, B: [3]int{8, 8, *nz}, VerboseLevel: *verbose}
	driver, err := yeecore.Init(mesh, coeffs, nil, opts)
	if err != nil {
		log.Fatalf("yeedemo: init: %v", err)
	}
	defer driver.Shutdown()

	if err := driver.IterateTS(*steps); err != nil {
		log.Fatalf("yeedemo: iterate: %v", err)
	}

	fmt.Fprintf(os.Stdout, "backend=%s timestep=%d probe volt[0,%d,%d,%d]=%g\n",
		driver.Backend(), driver.Timestep(), *nx/2, *ny/2, *nz/2,
		driver.GetVolt(0, *nx/2, *ny/2, *nz/2))
}

// unitCoefficients builds the simplest lossless-medium coefficient set
// (vv=ii=1, vi=iv=dt/dx in normalized units) so the demo runs without an
// external material-property assembly step.
func unitCoefficients(mesh yeecore.Mesh) yeecore.Coefficients {
	n := mesh.Nx * mesh.Ny * mesh.Nz * 3
	vv := make([]float32, n)
	vi := make([]float32, n)
	ii := make([]float32, n)
	iv := make([]float32, n)
	for idx := range vv {
		vv[idx] = 1
		vi[idx] = 0.5
		ii[idx] = 1
		iv[idx] = 0.5
	}
	return yeecore.Coefficients{VV: vv, VI: vi, II: ii, IV: iv}
}
