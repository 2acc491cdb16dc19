package genetics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/petri/species"
)

func TestInheritZeroRateIsExactCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	j := Jitter{Hue: 30, Size: 2, Speed: 1, Lifespan: 100}

	for _, k := range species.All {
		parent := species.RandomTraits(k, rng)
		for i := 0; i < 50; i++ {
			child, mutated := Inherit(parent, k, j, 0, rng)
			if child != parent {
				t.Fatalf("%v: child %+v differs from parent %+v at rate 0", k, child, parent)
			}
			if mutated != 0 {
				t.Fatalf("%v: mutated = %d, want 0", k, mutated)
			}
		}
	}
}

func TestMutateCategoricalFrequency(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"low", 0.05},
		{"mid", 0.3},
		{"high", 0.8},
		{"always", 1.0},
	}

	const n = 20000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			changed := 0
			for i := 0; i < n; i++ {
				got := MutateCategorical(species.ShapeStar, species.Shapes, tt.rate, rng)
				if got != species.ShapeStar {
					changed++
				}
			}
			frac := float64(changed) / n
			// 4 standard errors of a binomial proportion
			tol := 4*math.Sqrt(tt.rate*(1-tt.rate)/n) + 1e-9
			if math.Abs(frac-tt.rate) > tol {
				t.Errorf("changed fraction = %.4f, want %.4f ± %.4f", frac, tt.rate, tol)
			}
		})
	}
}

func TestMutateCategoricalStaysInSet(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		got := MutateCategorical(species.BehaviorLoner, species.Behaviors, 1, rng)
		if !got.Valid() || got == species.BehaviorLoner {
			t.Fatalf("MutateCategorical returned %v", got)
		}
	}
}

func TestMutateCategoricalSingleOption(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	only := []string{"a"}
	if got := MutateCategorical("a", only, 1, rng); got != "a" {
		t.Errorf("MutateCategorical(a, [a]) = %q, want a", got)
	}
}

func TestMutateNumericFrequencyAndBounds(t *testing.T) {
	const n = 20000
	rate := 0.25
	rng := rand.New(rand.NewSource(9))

	changed := 0
	for i := 0; i < n; i++ {
		got := MutateNumeric(180, 0, 360, 20, rate, rng)
		if got < 160 || got > 200 {
			t.Fatalf("MutateNumeric = %v outside jitter window", got)
		}
		if got != 180 {
			changed++
		}
	}
	frac := float64(changed) / n
	tol := 4 * math.Sqrt(rate*(1-rate)/n)
	if math.Abs(frac-rate) > tol {
		t.Errorf("changed fraction = %.4f, want %.4f ± %.4f", frac, rate, tol)
	}
}

func TestMutateNumericClamps(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		got := MutateNumeric(1, 0, 2, 50, 1, rng)
		if got < 0 || got > 2 {
			t.Fatalf("MutateNumeric = %v, want within [0, 2]", got)
		}
	}
}

func TestInheritCountsMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	parent := species.Traits{
		Shape:    species.ShapeCircle,
		Behavior: species.BehaviorSchooler,
		Ability:  species.AbilityNone,
		Hue:      180,
		Size:     4,
		Speed:    2,
		Lifespan: 1200,
	}
	child, mutated := Inherit(parent, species.Air, Jitter{Hue: 10, Size: 0.5, Speed: 0.2, Lifespan: 50}, 1, rng)

	if mutated != 7 {
		t.Errorf("mutated = %d, want 7 at rate 1 with interior values", mutated)
	}
	if child.Shape == parent.Shape || child.Behavior == parent.Behavior || child.Ability == parent.Ability {
		t.Errorf("categorical fields did not change: %+v", child)
	}
}

func TestSplitEnergy(t *testing.T) {
	tests := []struct {
		parent, k       float64
		child, remained float64
	}{
		{1.0, 0.75, 0.75, 0.75},
		{0.8, 0.7, 0.56, 0.56},
		{0, 0.75, 0, 0},
		{2, 0.75, 1, 1},
	}
	for _, tt := range tests {
		c, p := SplitEnergy(tt.parent, tt.k)
		if math.Abs(c-tt.child) > 1e-9 || math.Abs(p-tt.remained) > 1e-9 {
			t.Errorf("SplitEnergy(%v, %v) = %v, %v, want %v, %v", tt.parent, tt.k, c, p, tt.child, tt.remained)
		}
	}
}

func TestScheduleBounded(t *testing.T) {
	s := Schedule{Initial: 0.01, GrowthPerFrame: 0.001, Max: 0.05}

	tests := []struct {
		tick int
		want float64
	}{
		{0, 0.01},
		{10, 0.02},
		{40, 0.05},
		{1_000_000, 0.05},
	}
	for _, tt := range tests {
		if got := s.Rate(tt.tick); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Rate(%d) = %v, want %v", tt.tick, got, tt.want)
		}
	}

	prev := s.Rate(0)
	for tick := 1; tick < 100; tick++ {
		r := s.Rate(tick)
		if r < prev {
			t.Fatalf("Rate decreased at tick %d: %v < %v", tick, r, prev)
		}
		prev = r
	}
}
