package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/petri/species"
)

func TestLookupIsUnordered(t *testing.T) {
	table := DefaultReactions()
	for pair := range table {
		ab, ok1 := table.Lookup(pair.A, pair.B)
		ba, ok2 := table.Lookup(pair.B, pair.A)
		if !ok1 || !ok2 {
			t.Fatalf("Lookup(%v, %v) missing in one order", pair.A, pair.B)
		}
		if ab.Spawns() != ba.Spawns() {
			t.Errorf("Lookup(%v, %v) differs by order", pair.A, pair.B)
		}
	}
}

func TestDefaultReactions(t *testing.T) {
	table := DefaultReactions()

	tests := []struct {
		a, b   species.Kind
		first  species.Kind
		spawns int
	}{
		{species.Fire, species.Water, species.Steam, 1},
		{species.Fire, species.Earth, species.Lava, 1},
		{species.Water, species.Earth, species.Mud, 1},
		{species.Earth, species.Air, species.Dust, 2},
		{species.Mud, species.Water, species.Life, 1},
		{species.Lava, species.Water, species.Earth, 2},
		{species.Fire, species.Air, species.Fire, 1},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"+"+tt.b.String(), func(t *testing.T) {
			r, ok := table.Lookup(tt.a, tt.b)
			if !ok {
				t.Fatalf("Lookup(%v, %v) not found", tt.a, tt.b)
			}
			if r.Products[0].Kind != tt.first {
				t.Errorf("first product = %v, want %v", r.Products[0].Kind, tt.first)
			}
			if r.Spawns() != tt.spawns {
				t.Errorf("Spawns() = %d, want %d", r.Spawns(), tt.spawns)
			}
			for _, p := range r.Products {
				if !p.Kind.Valid() {
					t.Errorf("product kind %d out of set", p.Kind)
				}
			}
		})
	}
}

func TestUnknownPair(t *testing.T) {
	if _, ok := DefaultReactions().Lookup(species.Steam, species.Dust); ok {
		t.Error("steam+dust should not react")
	}
}

func TestKeepFor(t *testing.T) {
	r, _ := DefaultReactions().Lookup(species.Fire, species.Water)
	if got := r.KeepFor(species.Fire, species.Water); got != 0.5 {
		t.Errorf("KeepFor(fire) = %v, want 0.5", got)
	}
	if got := r.KeepFor(species.Water, species.Fire); got != 0.8 {
		t.Errorf("KeepFor(water) = %v, want 0.8", got)
	}
}

func TestShortenLifespan(t *testing.T) {
	tests := []struct {
		age, maxAge int
		keep        float64
		want        int
	}{
		{100, 200, 0.5, 150},
		{100, 200, 1, 200},
		{100, 200, 0, 200},
		{100, 101, 0.1, 101},
		{100, 103, 0.01, 101},
		{0, 10, 0.25, 3},
	}
	for _, tt := range tests {
		if got := ShortenLifespan(tt.age, tt.maxAge, tt.keep); got != tt.want {
			t.Errorf("ShortenLifespan(%d, %d, %v) = %d, want %d", tt.age, tt.maxAge, tt.keep, got, tt.want)
		}
	}
}

func TestReactivity(t *testing.T) {
	base := Reactivity(species.Earth, species.AbilityNone, 0.2)
	boosted := Reactivity(species.Earth, species.AbilityCatalyst, 0.2)
	if math.Abs(boosted-base-0.2) > 1e-12 {
		t.Errorf("catalyst bonus = %v, want 0.2", boosted-base)
	}
}
