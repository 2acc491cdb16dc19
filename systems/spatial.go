package systems

import (
	"cmp"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is an agent as seen by a neighbor index.
type Point struct {
	E   ecs.Entity
	ID  uint64
	Pos r2.Vec
}

// Neighbor holds a nearby agent with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	ID     uint64
	Delta  r2.Vec  // shortest displacement from the query origin
	DistSq float64 // squared distance
}

// NeighborIndex answers radius queries over the points given to the last Build.
//
// QueryInto appends to dst the points strictly closer than radius to origin,
// excluding origin itself (matched by ID), ordered by ascending distance then
// ascending ID, and truncated to at most k entries.
type NeighborIndex interface {
	Build(points []Point)
	QueryInto(dst []Neighbor, origin Point, radius float64, k int) []Neighbor
}

// NaiveIndex is the O(n²) reference index.
type NaiveIndex struct {
	space  Space
	points []Point
}

// NewNaiveIndex creates a naive index over the given space.
func NewNaiveIndex(space Space) *NaiveIndex {
	return &NaiveIndex{space: space}
}

// Resize changes the space used for distance computation.
func (n *NaiveIndex) Resize(space Space) {
	n.space = space
}

// Build snapshots the points.
func (n *NaiveIndex) Build(points []Point) {
	n.points = append(n.points[:0], points...)
}

// QueryInto scans every point.
func (n *NaiveIndex) QueryInto(dst []Neighbor, origin Point, radius float64, k int) []Neighbor {
	start := len(dst)
	radiusSq := radius * radius
	for _, p := range n.points {
		if p.ID == origin.ID {
			continue
		}
		d := n.space.Delta(origin.Pos, p.Pos)
		distSq := r2.Norm2(d)
		if distSq < radiusSq {
			dst = append(dst, Neighbor{E: p.E, ID: p.ID, Delta: d, DistSq: distSq})
		}
	}
	return finishQuery(dst, start, k)
}

// SpatialGrid provides neighbor lookups using a cell-based grid.
// Cells are square-ish and evenly divide the world so that toroidal
// traversal never skips a partial cell at the edge.
type SpatialGrid struct {
	space   Space
	minCell float64
	cellW   float64
	cellH   float64
	cols    int
	rows    int
	cells   [][]int // indices into points
	points  []Point

	built        bool
	needsRebuild bool
}

// NewSpatialGrid creates a spatial grid covering the given space.
// The grid is empty until Build is called.
func NewSpatialGrid(space Space, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{minCell: cellSize}
	g.Resize(space)
	return g
}

// Resize re-dimensions the grid to a new space. The grid must be rebuilt
// before it answers queries again.
func (g *SpatialGrid) Resize(space Space) {
	g.space = space
	cs := g.minCell
	if cs <= 0 {
		cs = 1
	}
	g.cols = max(1, int(space.Width/cs))
	g.rows = max(1, int(space.Height/cs))
	g.cellW = math.Max(space.Width, 1) / float64(g.cols)
	g.cellH = math.Max(space.Height, 1) / float64(g.rows)

	g.cells = make([][]int, g.cols*g.rows)
	for i := range g.cells {
		g.cells[i] = make([]int, 0, 8)
	}
	g.points = g.points[:0]
	g.built = false
}

// NeedsRebuild reports whether a query hit an unbuilt or stale grid.
func (g *SpatialGrid) NeedsRebuild() bool {
	return g.needsRebuild || !g.built
}

// Build clears the grid and inserts the points.
func (g *SpatialGrid) Build(points []Point) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.points = append(g.points[:0], points...)
	for i, p := range g.points {
		idx := g.cellIndex(g.cellCoords(p.Pos))
		g.cells[idx] = append(g.cells[idx], i)
	}
	g.built = true
	g.needsRebuild = false
}

// QueryInto finds points within radius using the cell buckets. An unbuilt
// grid yields no results and flags itself for rebuild.
func (g *SpatialGrid) QueryInto(dst []Neighbor, origin Point, radius float64, k int) []Neighbor {
	if !g.built {
		g.needsRebuild = true
		return dst
	}
	start := len(dst)
	radiusSq := radius * radius

	cc, cr := g.cellCoords(origin.Pos)
	colSpan := int(math.Ceil(radius / g.cellW))
	rowSpan := int(math.Ceil(radius / g.cellH))

	for _, col := range g.span(cc, colSpan, g.cols) {
		for _, row := range g.span(cr, rowSpan, g.rows) {
			for _, i := range g.cells[g.cellIndex(col, row)] {
				p := g.points[i]
				if p.ID == origin.ID {
					continue
				}
				d := g.space.Delta(origin.Pos, p.Pos)
				distSq := r2.Norm2(d)
				if distSq < radiusSq {
					dst = append(dst, Neighbor{E: p.E, ID: p.ID, Delta: d, DistSq: distSq})
				}
			}
		}
	}
	return finishQuery(dst, start, k)
}

// span lists the distinct cell coordinates within reach of center.
// With wrapping the range is taken modulo n; otherwise it is clipped.
func (g *SpatialGrid) span(center, reach, n int) []int {
	out := make([]int, 0, 2*reach+1)
	if g.space.Wrap && 2*reach+1 >= n {
		for i := 0; i < n; i++ {
			out = append(out, i)
		}
		return out
	}
	for d := -reach; d <= reach; d++ {
		c := center + d
		if g.space.Wrap {
			c = (c%n + n) % n
		} else if c < 0 || c >= n {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (g *SpatialGrid) cellCoords(p r2.Vec) (col, row int) {
	col = int(p.X / g.cellW)
	row = int(p.Y / g.cellH)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func (g *SpatialGrid) cellIndex(col, row int) int {
	return row*g.cols + col
}

// finishQuery orders dst[start:] by distance then ID and truncates it to k.
func finishQuery(dst []Neighbor, start, k int) []Neighbor {
	found := dst[start:]
	slices.SortFunc(found, func(a, b Neighbor) int {
		if c := cmp.Compare(a.DistSq, b.DistSq); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if k < 0 {
		k = 0
	}
	if len(found) > k {
		dst = dst[:start+k]
	}
	return dst
}
