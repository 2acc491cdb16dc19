package components

import "github.com/pthm-cable/petri/species"

// Energy tracks an agent's metabolic state and age.
// Value is normalized to [0, 1]; Age and MaxAge are in frames.
type Energy struct {
	Value  float64
	Age    int
	MaxAge int
}

// Live reports whether the agent satisfies the liveness invariant.
func (e *Energy) Live() bool {
	return e.Age < e.MaxAge && e.Value > 0
}

// AgeRatio returns Age/MaxAge in [0, 1].
func (e *Energy) AgeRatio() float64 {
	if e.MaxAge <= 0 {
		return 1
	}
	r := float64(e.Age) / float64(e.MaxAge)
	if r > 1 {
		return 1
	}
	return r
}

// Organism bundles identity, kind, lineage and cooldown state.
type Organism struct {
	ID       uint64 // monotonic, never reused
	ParentID uint64 // 0 for seeded agents and reaction products
	Kind     species.Kind

	Generation    int
	MutationCount int

	ReactionCooldown int // frames until the agent may react again
	ReproCooldown    int // frames until the agent may reproduce again
}
