package systems

import (
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func randomPoints(rng *rand.Rand, n int, w, h float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{ID: uint64(i + 1), Pos: r2.Vec{X: rng.Float64() * w, Y: rng.Float64() * h}}
	}
	return pts
}

func neighborIDs(ns []Neighbor) []uint64 {
	ids := make([]uint64, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}

func TestGridMatchesNaive(t *testing.T) {
	tests := []struct {
		name     string
		space    Space
		cellSize float64
		radius   float64
		k        int
	}{
		{"wrap", Space{Width: 400, Height: 300, Wrap: true}, 40, 40, 8},
		{"reflect", Space{Width: 400, Height: 300}, 40, 40, 8},
		{"small cells", Space{Width: 400, Height: 300, Wrap: true}, 13, 50, 20},
		{"radius spans world", Space{Width: 100, Height: 80, Wrap: true}, 30, 90, 1000},
		{"uneven cells", Space{Width: 100, Height: 100, Wrap: true}, 30, 30, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(17))
			pts := randomPoints(rng, 300, tt.space.Width, tt.space.Height)

			naive := NewNaiveIndex(tt.space)
			naive.Build(pts)
			grid := NewSpatialGrid(tt.space, tt.cellSize)
			grid.Build(pts)

			var a, b []Neighbor
			for _, p := range pts {
				a = naive.QueryInto(a[:0], p, tt.radius, tt.k)
				b = grid.QueryInto(b[:0], p, tt.radius, tt.k)
				if !slices.Equal(neighborIDs(a), neighborIDs(b)) {
					t.Fatalf("point %d: naive %v, grid %v", p.ID, neighborIDs(a), neighborIDs(b))
				}
			}
		})
	}
}

func TestQueryOrderingAndBounds(t *testing.T) {
	space := Space{Width: 200, Height: 200}
	pts := []Point{
		{ID: 1, Pos: r2.Vec{X: 100, Y: 100}},
		{ID: 5, Pos: r2.Vec{X: 110, Y: 100}}, // 10
		{ID: 3, Pos: r2.Vec{X: 100, Y: 110}}, // 10, lower id
		{ID: 4, Pos: r2.Vec{X: 105, Y: 100}}, // 5
		{ID: 2, Pos: r2.Vec{X: 120, Y: 100}}, // exactly at the radius
		{ID: 6, Pos: r2.Vec{X: 100, Y: 100}}, // coincident
	}

	for _, idx := range []NeighborIndex{NewNaiveIndex(space), NewSpatialGrid(space, 20)} {
		idx.Build(pts)
		got := neighborIDs(idx.QueryInto(nil, pts[0], 20, 10))
		want := []uint64{6, 4, 3, 5}
		if !slices.Equal(got, want) {
			t.Errorf("%T: QueryInto = %v, want %v", idx, got, want)
		}

		got = neighborIDs(idx.QueryInto(nil, pts[0], 20, 2))
		if !slices.Equal(got, []uint64{6, 4}) {
			t.Errorf("%T: capped QueryInto = %v, want [6 4]", idx, got)
		}
	}
}

func TestQueryEmpty(t *testing.T) {
	space := Space{Width: 100, Height: 100, Wrap: true}
	lone := Point{ID: 1, Pos: r2.Vec{X: 50, Y: 50}}

	for _, idx := range []NeighborIndex{NewNaiveIndex(space), NewSpatialGrid(space, 10)} {
		idx.Build([]Point{lone, {ID: 2, Pos: r2.Vec{X: 10, Y: 10}}})
		if got := idx.QueryInto(nil, lone, 5, 8); len(got) != 0 {
			t.Errorf("%T: expected no neighbors, got %v", idx, neighborIDs(got))
		}
		idx.Build(nil)
		if got := idx.QueryInto(nil, lone, 500, 8); len(got) != 0 {
			t.Errorf("%T: empty index returned %v", idx, neighborIDs(got))
		}
	}
}

func TestUnbuiltGridFlagsRebuild(t *testing.T) {
	space := Space{Width: 100, Height: 100, Wrap: true}
	grid := NewSpatialGrid(space, 10)
	p := Point{ID: 1, Pos: r2.Vec{X: 5, Y: 5}}

	if got := grid.QueryInto(nil, p, 50, 8); len(got) != 0 {
		t.Fatalf("unbuilt grid returned %d neighbors", len(got))
	}
	if !grid.NeedsRebuild() {
		t.Fatal("expected NeedsRebuild after querying an unbuilt grid")
	}

	grid.Build([]Point{p, {ID: 2, Pos: r2.Vec{X: 8, Y: 5}}})
	if grid.NeedsRebuild() {
		t.Fatal("Build should clear NeedsRebuild")
	}
	if got := grid.QueryInto(nil, p, 50, 8); len(got) != 1 {
		t.Fatalf("built grid returned %d neighbors, want 1", len(got))
	}

	grid.Resize(Space{Width: 300, Height: 200, Wrap: true})
	if got := grid.QueryInto(nil, p, 50, 8); len(got) != 0 {
		t.Fatalf("resized grid returned %d neighbors before rebuild", len(got))
	}
	if !grid.NeedsRebuild() {
		t.Fatal("expected NeedsRebuild after Resize")
	}
}

func TestWrapNeighborsAcrossEdge(t *testing.T) {
	space := Space{Width: 100, Height: 100, Wrap: true}
	pts := []Point{
		{ID: 1, Pos: r2.Vec{X: 1, Y: 50}},
		{ID: 2, Pos: r2.Vec{X: 98, Y: 50}},
	}
	grid := NewSpatialGrid(space, 10)
	grid.Build(pts)

	got := grid.QueryInto(nil, pts[0], 5, 8)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected neighbor across the edge, got %v", neighborIDs(got))
	}
	if got[0].Delta.X != -3 {
		t.Errorf("Delta.X = %v, want -3", got[0].Delta.X)
	}
}

// Without a cap the neighbor relation is symmetric. With a cap it may not be,
// which is accepted.
func TestNeighborSymmetryUncapped(t *testing.T) {
	space := Space{Width: 300, Height: 300, Wrap: true}
	rng := rand.New(rand.NewSource(99))
	pts := randomPoints(rng, 200, space.Width, space.Height)

	grid := NewSpatialGrid(space, 30)
	grid.Build(pts)

	lists := make(map[uint64]map[uint64]bool, len(pts))
	for _, p := range pts {
		set := make(map[uint64]bool)
		for _, n := range grid.QueryInto(nil, p, 30, len(pts)) {
			set[n.ID] = true
		}
		lists[p.ID] = set
	}
	for a, set := range lists {
		for b := range set {
			if !lists[b][a] {
				t.Fatalf("%d lists %d but not the reverse", a, b)
			}
		}
	}
}
