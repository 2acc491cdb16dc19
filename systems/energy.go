package systems

import (
	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/species"
)

// MetabolismParams holds the per-frame energy rates.
type MetabolismParams struct {
	Metabolism     float64 // base drain per frame
	Photosynthesis float64 // gain per frame for photosynthesizing agents
}

// UpdateEnergy ages an agent by one frame and applies its metabolic cost
// and any photosynthesis gain. Energy is clamped to [0, 1].
// Returns the net energy change.
func UpdateEnergy(energy *components.Energy, kind species.Kind, traits species.Traits, p MetabolismParams) float64 {
	before := energy.Value
	energy.Age++

	cost := p.Metabolism * kind.Profile().Metabolism
	if traits.Ability == species.AbilityLongevity {
		cost *= 0.5
	}
	energy.Value -= cost

	if traits.Photosynthesizes(kind) {
		energy.Value += p.Photosynthesis
	}

	energy.Value = clamp01(energy.Value)
	return energy.Value - before
}

// CanReproduce reports whether an agent's energy and cooldown allow a
// reproduction attempt this frame.
func CanReproduce(kind species.Kind, energy *components.Energy, org *components.Organism, threshold float64) bool {
	return kind.Profile().Reproduces &&
		org.ReproCooldown == 0 &&
		energy.Live() &&
		energy.Value >= threshold
}
