package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// FieldParams configures the ambient force field.
type FieldParams struct {
	Resolution float64 // world units per cell
	Scale      float64 // noise frequency per cell
	TimeScale  float64 // noise drift per frame
	Strength   float64 // magnitude of the sampled force
}

// AmbientField is a noise-driven direction field sampled on a coarse grid.
// Each cell holds a unit vector; Sample scales it by Strength.
type AmbientField struct {
	params FieldParams
	noise  opensimplex.Noise
	cols   int
	rows   int
	cellW  float64
	cellH  float64
	dirs   []r2.Vec
}

// NewAmbientField creates a field for the given space. The grid is filled
// on the first Refresh.
func NewAmbientField(space Space, params FieldParams, seed int64) *AmbientField {
	f := &AmbientField{
		params: params,
		noise:  opensimplex.New(seed),
	}
	f.Resize(space)
	return f
}

// Resize rebuilds the grid to cover the new space and clears it.
func (f *AmbientField) Resize(space Space) {
	res := f.params.Resolution
	if res <= 0 {
		res = 20
	}
	f.cols = max(1, int(math.Ceil(space.Width/res)))
	f.rows = max(1, int(math.Ceil(space.Height/res)))
	f.cellW = res
	f.cellH = res
	f.dirs = make([]r2.Vec, f.cols*f.rows)
}

// Dims returns the grid size in cells.
func (f *AmbientField) Dims() (cols, rows int) {
	return f.cols, f.rows
}

// CellSize returns the side of a grid cell in world units.
func (f *AmbientField) CellSize() float64 {
	return f.cellW
}

// Refresh recomputes every cell direction for the given frame.
func (f *AmbientField) Refresh(tick int) {
	t := float64(tick) * f.params.TimeScale
	for row := 0; row < f.rows; row++ {
		for col := 0; col < f.cols; col++ {
			n := f.noise.Eval3(float64(col)*f.params.Scale, float64(row)*f.params.Scale, t)
			angle := n * 2 * math.Pi
			f.dirs[row*f.cols+col] = r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
		}
	}
}

// Sample returns the field force at p. Positions outside the grid use the
// nearest edge cell.
func (f *AmbientField) Sample(p r2.Vec) r2.Vec {
	if len(f.dirs) == 0 {
		return r2.Vec{}
	}
	col := int(p.X / f.cellW)
	row := int(p.Y / f.cellH)
	col = max(0, min(col, f.cols-1))
	row = max(0, min(row, f.rows-1))
	return r2.Scale(f.params.Strength, f.dirs[row*f.cols+col])
}

// Direction returns the unit vector of a cell, for drawing.
func (f *AmbientField) Direction(col, row int) r2.Vec {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return r2.Vec{}
	}
	return f.dirs[row*f.cols+col]
}
