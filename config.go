package yeecore

// Package-level defaults mirroring the teacher's config.go constant block:
// one const group holding every tunable the simulation needs, rather than
// scattering magic numbers through the implementation.
const (
	// defaultBlockHalfSteps is H, the block-half-timestep depth of the
	// diamond schedule (spec.md §6): each batch runs 2*H = 10
	// half-steps, i.e. 5 whole timesteps.
	defaultBlockHalfSteps = 5

	// defaultVerbose is the default log volume (spec.md §6).
	defaultVerbose = 0
)

// BoundaryCode names the boundary condition applied at one end of one axis.
type BoundaryCode int

const (
	// BoundaryPEC is the perfect-electric-conductor boundary: the
	// voltage update's "-1" neighbour term is replaced by a self-term
	// (spec.md §4.2).
	BoundaryPEC BoundaryCode = iota
	// BoundaryPMC is the perfect-magnetic-conductor boundary: the
	// current update is suppressed at the high edge of the axis.
	BoundaryPMC
	// BoundaryUPML marks an axis end as absorbed by a uniaxial
	// perfectly matched layer of the given thickness; the actual
	// absorption is performed by the UPML extension (§4.5), not by the
	// stencil kernel itself.
	BoundaryUPML
)

// AxisBoundary describes the boundary condition at the low and high end
// of a single axis, and the UPML thickness/profile when applicable.
type AxisBoundary struct {
	Low, High BoundaryCode

	// UPMLThickness is the number of cells the UPML region occupies at
	// whichever end(s) of the axis are marked BoundaryUPML. Ignored
	// otherwise.
	UPMLThickness int

	// UPMLProfile selects the grading profile used to derive the UPML
	// auxiliary coefficients (vvfo/vvfn/iifo/iifn); an opaque caller-
	// supplied label, since the core consumes precomputed coefficient
	// arrays (spec.md §6) rather than deriving them itself.
	UPMLProfile string
}

// Mesh describes the domain size and per-axis boundary treatment
// (spec.md §6 "mesh descriptor").
type Mesh struct {
	Nx, Ny, Nz int
	Boundary   [3]AxisBoundary
}

// cells returns the total number of grid cells in the mesh.
func (m Mesh) cells() int { return m.Nx * m.Ny * m.Nz }

func (m Mesh) dims() [3]int { return [3]int{m.Nx, m.Ny, m.Nz} }

// Coefficients bundles the precomputed update-coefficient arrays
// spec.md §6 requires the core's external collaborator (material-
// property assembly) to hand in. Each array is shaped (3, Nx, Ny, Nz)
// in component-major [c][i][j][k] order; loadCoefficients (field.go)
// converts VV/VI/II/IV into Field's cell-major layout.
type Coefficients struct {
	VV, VI, II, IV []float32

	// UPML auxiliary coefficients, same shape as VV/II. Init does not
	// read these; a UPML extension takes its own box-sized arrays through
	// NewUPML.
	VVfo, VVfn, IIfo, IIfn []float32
}

// Options configures a driver at Init (spec.md §6).
type Options struct {
	// P is the worker-thread count. 0 means "auto-tune" (see
	// autotune.go): start at 1 and increase while throughput improves,
	// stabilizing after the first regression.
	P int

	// H is the block-half-timestep depth for the diamond schedule.
	// Zero selects defaultBlockHalfSteps.
	H int

	// B is the per-axis block width in cells; 0 means one block spanning
	// the whole axis. B[2] (the Z axis) must be 0 or equal Mesh.Nz:
	// partial Z-axis tiling is rejected at Init with
	// ErrConfiguration (spec.md §9 Open Question, resolved by
	// preserving the restriction rather than silently generalizing it).
	B [3]int

	// VerboseLevel is the log volume, 0-3 (spec.md §6).
	VerboseLevel int

	// Backend selects the execution backend. Zero value is
	// BackendScalar. See backend.go.
	Backend backendKind
}

func (o Options) blockHalfSteps() int {
	if o.H <= 0 {
		return defaultBlockHalfSteps
	}
	return o.H
}
