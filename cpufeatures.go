package yeecore

import "golang.org/x/sys/cpu"

// laneWidth is the number of float32 slots reserved per cell in every
// field array: 3 used for the polarization components plus padding so
// the per-cell stride is always a power of two. This is the "SIMD lane
// grouping" spec.md §4.1 requires: whatever width Init picks, it is
// used identically for volt, curr, and all four coefficient arrays, and
// for every extension's auxiliary arrays, exactly as §4.1 demands.
type laneWidth int

const (
	// lane4 packs one cell (3 components + 1 pad) into 16 bytes —
	// satisfies the base alignment rule on every architecture without
	// requiring any detected vector extension.
	lane4 laneWidth = 4
	// lane8 pads each cell to 8 floats (32 bytes), so every cell's base
	// is 32-byte aligned and one 256-bit load covers a whole cell.
	lane8 laneWidth = 8
)

// detectLaneWidth probes the host's SIMD capability once, at Init, and
// returns the lane width the field store should use. This promotes
// golang.org/x/sys/cpu from the teacher's indirect dependency (pulled
// in transitively by ebiten) to a direct one: the teacher never needed
// to branch on detected features, this core does (spec.md §9 Design
// Notes: backend selection is a sum type decided at Init, not a
// per-call virtual dispatch).
func detectLaneWidth() laneWidth {
	switch {
	case cpu.X86.HasAVX2:
		return lane8
	case cpu.ARM64.HasASIMD:
		return lane8
	default:
		return lane4
	}
}
