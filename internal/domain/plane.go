package domain

import (
	"fmt"
	"math"
)

// MaxSampleGridPoints caps the grid any single computation may allocate (512 MiB of samples).
// Services usually configure a much lower limit.
const MaxSampleGridPoints = 1 << 26

// PlaneSpec is the rectangular canopy footprint spanning [0,Width]×[0,Length] at z = 0.
// Resolution is the target grid spacing in metres.
type PlaneSpec struct {
	Width      float64 `json:"width" bson:"width"`
	Length     float64 `json:"length" bson:"length"`
	Resolution float64 `json:"resolution" bson:"resolution"`
}

// Validate rejects zero-area planes and resolutions that would not fit one cell.
func (p PlaneSpec) Validate() error {
	if !isFinite(p.Width) || !isFinite(p.Length) || !isFinite(p.Resolution) {
		return invalid("plane", "dimensions must be finite numbers")
	}
	if p.Width <= 0 {
		return invalid("plane.width", "must be greater than 0, got %g", p.Width)
	}
	if p.Length <= 0 {
		return invalid("plane.length", "must be greater than 0, got %g", p.Length)
	}
	if p.Resolution <= 0 {
		return invalid("plane.resolution", "must be greater than 0, got %g", p.Resolution)
	}
	if p.Resolution > math.Min(p.Width, p.Length) {
		return invalid("plane.resolution", "must not exceed the shorter side (%g), got %g",
			math.Min(p.Width, p.Length), p.Resolution)
	}
	if n := p.PointCount(); n > MaxSampleGridPoints {
		return fmt.Errorf("%w: plane samples %.4g points, limit is %d; use a coarser resolution",
			ErrGridTooLarge, n, MaxSampleGridPoints)
	}
	return nil
}

// Diagonal returns the length of the plane's diagonal.
func (p PlaneSpec) Diagonal() float64 {
	return math.Hypot(p.Width, p.Length)
}

// Dimensions returns the grid size for this plane: ceil(width/res) × ceil(length/res).
// Only planes that pass Validate are guaranteed to fit in an int.
func (p PlaneSpec) Dimensions() (columns, rows int) {
	return cells(p.Width, p.Resolution), cells(p.Length, p.Resolution)
}

// PointCount is the number of sample points the plane discretises into, computed
// in float64 so that absurd resolutions overflow to a large count instead of wrapping.
func (p PlaneSpec) PointCount() float64 {
	return cellCount(p.Width, p.Resolution) * cellCount(p.Length, p.Resolution)
}

// GridPoints returns PointCount as an int, saturating at MaxInt.
func (p PlaneSpec) GridPoints() int {
	n := p.PointCount()
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// cellCount absorbs float noise so that 1.1/0.1 counts as 11 cells, not 12.
func cellCount(extent, res float64) float64 {
	n := math.Ceil(extent/res - 1e-9)
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	return n
}

func cells(extent, res float64) int {
	n := cellCount(extent, res)
	if n > MaxSampleGridPoints {
		return MaxSampleGridPoints
	}
	return int(n)
}

// contains reports whether (x, y) lies within margin of the plane's bounding box.
func (p PlaneSpec) contains(x, y, margin float64) bool {
	return x >= -margin && x <= p.Width+margin && y >= -margin && y <= p.Length+margin
}

// SampleGrid holds accumulated PPFD per grid point, row-major (Y outer, X inner).
// Points sit at cell centres, so the grid is symmetric about the plane's centre.
type SampleGrid struct {
	Columns int       `json:"columns" bson:"columns"`
	Rows    int       `json:"rows" bson:"rows"`
	CellW   float64   `json:"cell_w" bson:"cellW"`
	CellL   float64   `json:"cell_l" bson:"cellL"`
	Values  []float64 `json:"values" bson:"values"`
}

// NewSampleGrid allocates an all-zero grid for the plane.
func NewSampleGrid(p PlaneSpec) *SampleGrid {
	cols, rows := p.Dimensions()
	return &SampleGrid{
		Columns: cols,
		Rows:    rows,
		CellW:   p.Width / float64(cols),
		CellL:   p.Length / float64(rows),
		Values:  make([]float64, cols*rows),
	}
}

// Point returns the plane coordinates of grid point (col, row).
func (g *SampleGrid) Point(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * g.CellW, (float64(row) + 0.5) * g.CellL
}

// At returns the PPFD at grid point (col, row).
func (g *SampleGrid) At(col, row int) float64 {
	return g.Values[row*g.Columns+col]
}

// Len returns the number of grid points.
func (g *SampleGrid) Len() int {
	return len(g.Values)
}

// Normalized returns the grid scaled to [0,1] by its maximum, for heatmap rendering.
func (g *SampleGrid) Normalized() []float64 {
	out := make([]float64, len(g.Values))
	var max float64
	for _, v := range g.Values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return out
	}
	for i, v := range g.Values {
		out[i] = v / max
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
