// Package genetics implements trait inheritance with bounded random mutation.
package genetics

import (
	"math/rand"

	"github.com/pthm-cable/petri/species"
)

// MutateCategorical returns v unchanged with probability 1-rate. Otherwise it
// returns a uniformly chosen member of options other than v, so a mutation
// always changes the value when the set has a second member.
func MutateCategorical[T comparable](v T, options []T, rate float64, rng *rand.Rand) T {
	if rate <= 0 || len(options) == 0 || rng.Float64() >= rate {
		return v
	}

	others := 0
	for _, o := range options {
		if o != v {
			others++
		}
	}
	if others == 0 {
		return v
	}

	pick := rng.Intn(others)
	for _, o := range options {
		if o == v {
			continue
		}
		if pick == 0 {
			return o
		}
		pick--
	}
	return v
}

// MutateNumeric returns v unchanged with probability 1-rate. Otherwise it adds
// a uniform perturbation in [-jitter, jitter] and clamps to [min, max].
func MutateNumeric(v, min, max, jitter, rate float64, rng *rand.Rand) float64 {
	if rate <= 0 || rng.Float64() >= rate {
		return v
	}
	v += (rng.Float64()*2 - 1) * jitter
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Jitter holds the maximum perturbation for each numeric trait.
type Jitter struct {
	Hue      float64
	Size     float64
	Speed    float64
	Lifespan float64
}

// Inherit copies parent field by field through the mutate functions.
// mutated counts the fields whose value changed.
func Inherit(parent species.Traits, kind species.Kind, j Jitter, rate float64, rng *rand.Rand) (child species.Traits, mutated int) {
	p := kind.Profile()

	child.Shape = MutateCategorical(parent.Shape, species.Shapes, rate, rng)
	child.Behavior = MutateCategorical(parent.Behavior, species.Behaviors, rate, rng)
	child.Ability = MutateCategorical(parent.Ability, species.Abilities, rate, rng)
	child.Hue = MutateNumeric(parent.Hue, species.HueMin, species.HueMax, j.Hue, rate, rng)
	child.Size = MutateNumeric(parent.Size, p.SizeMin, p.SizeMax, j.Size, rate, rng)
	child.Speed = MutateNumeric(parent.Speed, p.SpeedMin, p.SpeedMax, j.Speed, rate, rng)
	child.Lifespan = MutateNumeric(parent.Lifespan, p.LifespanMin, p.LifespanMax, j.Lifespan, rate, rng)

	if child.Shape != parent.Shape {
		mutated++
	}
	if child.Behavior != parent.Behavior {
		mutated++
	}
	if child.Ability != parent.Ability {
		mutated++
	}
	if child.Hue != parent.Hue {
		mutated++
	}
	if child.Size != parent.Size {
		mutated++
	}
	if child.Speed != parent.Speed {
		mutated++
	}
	if child.Lifespan != parent.Lifespan {
		mutated++
	}
	return child, mutated
}

// SplitEnergy gives the child parent*k and reduces the parent by the same factor.
// Both results are clamped to [0, 1].
func SplitEnergy(parent, k float64) (child, parentAfter float64) {
	child = clamp01(parent * k)
	parentAfter = clamp01(parent * k)
	return child, parentAfter
}

// Schedule is a bounded linear growth schedule for the mutation rate.
type Schedule struct {
	Initial        float64
	GrowthPerFrame float64
	Max            float64
}

// Rate returns the mutation rate at the given frame.
func (s Schedule) Rate(tick int) float64 {
	r := s.Initial + s.GrowthPerFrame*float64(tick)
	if r > s.Max {
		r = s.Max
	}
	return clamp01(r)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
