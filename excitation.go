package yeecore

// Excitation is the soft-excitation extension of spec.md §4.5: a sparse
// list of driven cells, each adding a precomputed signal sample scaled
// by a per-cell amplitude, rather than a hard (Dirichlet) source.
// Grounded on the same Extension hook contract as UPML/Dispersive, but
// its claim region is a point list rather than a box, since spec.md
// §4.5 describes it as "arrays of excitation cell indices" rather than
// a bounding region.
type Excitation struct {
	noopExtension

	priority int
	field    *Field

	cells     [][3]int
	comp      []component
	amplitude []float32
	delay     []int

	signal []float32 // precomputed signal table, one sample per timestep
	period int
}

// NewExcitation constructs a soft-excitation extension. cells, comp,
// amplitude and delay must all have the same length, one entry per
// driven cell.
func NewExcitation(priority int, cells [][3]int, comp []component, amplitude []float32, delay []int, signal []float32) (*Excitation, error) {
	n := len(cells)
	if len(comp) != n || len(amplitude) != n || len(delay) != n {
		return nil, newError(ErrConfiguration, "excitation cell/direction/amplitude/delay arrays must have equal length", nil)
	}
	if len(signal) == 0 {
		return nil, newError(ErrConfiguration, "excitation signal table must be non-empty", nil)
	}
	return &Excitation{
		priority: priority, cells: cells, comp: comp,
		amplitude: amplitude, delay: delay,
		signal: signal, period: len(signal),
	}, nil
}

func (e *Excitation) Priority() int        { return e.priority }
func (e *Excitation) SupportsTiling() bool { return true }

func (e *Excitation) bindField(f *Field) { e.field = f }

func inBounds(pt, start, stop [3]int) bool {
	for a := 0; a < 3; a++ {
		if pt[a] < start[a] || pt[a] > stop[a] {
			return false
		}
	}
	return true
}

// sample returns signal[(t-delay) mod period] for the given cell's
// delay, per spec.md §4.5. Negative (t-delay) wraps to a valid index
// rather than going quiet before the delay elapses.
func (e *Excitation) sample(t, delay int) float32 {
	offset := (t - delay) % e.period
	if offset < 0 {
		offset += e.period
	}
	return e.signal[offset]
}

func (e *Excitation) Apply2Voltages(timestep int, w TileWindow) error {
	f := e.field
	for idx, cell := range e.cells {
		if !inBounds(cell, w.VoltStart, w.VoltStop) {
			continue
		}
		c, i, j, k := int(e.comp[idx]), cell[0], cell[1], cell[2]
		v := f.GetVolt(c, i, j, k)
		f.setVolt(e.comp[idx], i, j, k, v+e.amplitude[idx]*e.sample(timestep, e.delay[idx]))
	}
	return nil
}

func (e *Excitation) Apply2Current(timestep int, w TileWindow) error {
	f := e.field
	for idx, cell := range e.cells {
		if !inBounds(cell, w.CurrStart, w.CurrStop) {
			continue
		}
		c, i, j, k := int(e.comp[idx]), cell[0], cell[1], cell[2]
		v := f.GetCurr(c, i, j, k)
		f.setCurr(e.comp[idx], i, j, k, v+e.amplitude[idx]*e.sample(timestep, e.delay[idx]))
	}
	return nil
}
