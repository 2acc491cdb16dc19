package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/species"
)

// Body is the kinematic state flocking reads from an agent.
type Body struct {
	Pos, Vel r2.Vec
}

// FlockWeights scales the three flocking terms.
type FlockWeights struct {
	Alignment        float64
	Cohesion         float64
	Separation       float64
	SeparationRadius float64
}

// Damping applied to the flocking terms of field-following and pointer-seeking agents.
const (
	drifterDamping = 0.3
	seekerDamping  = 0.5
)

// ForBehavior returns the weights an agent with behavior b steers with.
func (w FlockWeights) ForBehavior(b species.Behavior) FlockWeights {
	switch b {
	case species.BehaviorLoner:
		w.Alignment, w.Cohesion = 0, 0
	case species.BehaviorDrifter:
		w.Alignment *= drifterDamping
		w.Cohesion *= drifterDamping
		w.Separation *= drifterDamping
	case species.BehaviorSeeker:
		w.Alignment *= seekerDamping
		w.Cohesion *= seekerDamping
		w.Separation *= seekerDamping
	}
	return w
}

// Steer computes the flocking acceleration for self given its neighbors.
// Each term is normalized before weighting; with no neighbors the result is zero.
// Steer does not modify its inputs.
func Steer(self Body, others []Body, w FlockWeights, space Space) r2.Vec {
	if len(others) == 0 {
		return r2.Vec{}
	}

	var sumVel, sumDelta, away r2.Vec
	sepSq := w.SeparationRadius * w.SeparationRadius
	for _, o := range others {
		d := space.Delta(self.Pos, o.Pos)
		sumVel = r2.Add(sumVel, o.Vel)
		sumDelta = r2.Add(sumDelta, d)

		distSq := r2.Norm2(d)
		if distSq > 0 && distSq < sepSq {
			// unit(-d) / dist
			away = r2.Add(away, r2.Scale(-1/distSq, d))
		}
	}

	n := float64(len(others))
	alignment := unitOrZero(r2.Sub(r2.Scale(1/n, sumVel), self.Vel))
	cohesion := unitOrZero(r2.Scale(1/n, sumDelta))
	separation := unitOrZero(away)

	acc := r2.Scale(w.Alignment, alignment)
	acc = r2.Add(acc, r2.Scale(w.Cohesion, cohesion))
	acc = r2.Add(acc, r2.Scale(w.Separation, separation))
	return finite(acc)
}

// Seek returns a unit steering vector from pos toward target scaled by strength.
// Targets closer than one unit produce no force.
func Seek(pos, target r2.Vec, strength float64, space Space) r2.Vec {
	d := space.Delta(pos, target)
	if r2.Norm2(d) < 1 {
		return r2.Vec{}
	}
	return r2.Scale(strength, unitOrZero(d))
}
