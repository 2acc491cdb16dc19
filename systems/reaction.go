package systems

import (
	"math"

	"github.com/pthm-cable/petri/species"
)

// Pair is an unordered pair of kinds. Use MakePair to build one.
type Pair struct {
	A, B species.Kind // A <= B
}

// MakePair returns the canonical pair for a and b.
func MakePair(a, b species.Kind) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Product is a kind and how many agents of it a reaction spawns.
type Product struct {
	Kind  species.Kind
	Count int
}

// Rule is the outcome of a reacting pair.
// Keep[0] and Keep[1] are the fractions of remaining lifespan kept by the
// pair's A and B participants; values outside (0, 1) leave lifespan unchanged.
type Rule struct {
	Products []Product
	Keep     [2]float64
}

// Spawns returns the total number of agents the rule produces.
func (r Rule) Spawns() int {
	n := 0
	for _, p := range r.Products {
		n += max(p.Count, 0)
	}
	return n
}

// KeepFor returns the lifespan factor for a participant of kind k reacting
// with a partner of kind other.
func (r Rule) KeepFor(k, other species.Kind) float64 {
	if k <= other {
		return r.Keep[0]
	}
	return r.Keep[1]
}

// ReactionTable maps unordered kind pairs to rules.
type ReactionTable map[Pair]Rule

// DefaultReactions returns the elemental reaction table.
func DefaultReactions() ReactionTable {
	one := func(k species.Kind) Product { return Product{Kind: k, Count: 1} }
	return ReactionTable{
		MakePair(species.Water, species.Fire): {
			Products: []Product{one(species.Steam)},
			Keep:     keep(species.Water, 0.8, species.Fire, 0.5),
		},
		MakePair(species.Earth, species.Fire): {
			Products: []Product{one(species.Lava)},
			Keep:     keep(species.Earth, 1, species.Fire, 0.5),
		},
		MakePair(species.Water, species.Earth): {
			Products: []Product{one(species.Mud)},
			Keep:     keep(species.Water, 0.9, species.Earth, 0.9),
		},
		MakePair(species.Air, species.Earth): {
			Products: []Product{{Kind: species.Dust, Count: 2}},
			Keep:     keep(species.Air, 0.8, species.Earth, 0.9),
		},
		MakePair(species.Water, species.Mud): {
			Products: []Product{one(species.Life)},
			Keep:     keep(species.Water, 1, species.Mud, 1),
		},
		MakePair(species.Water, species.Lava): {
			Products: []Product{one(species.Earth), one(species.Steam)},
			Keep:     keep(species.Water, 0.7, species.Lava, 0.5),
		},
		MakePair(species.Air, species.Fire): {
			Products: []Product{one(species.Fire)},
			Keep:     keep(species.Air, 0.6, species.Fire, 1),
		},
	}
}

// keep orders lifespan factors to match MakePair(a, b).
func keep(a species.Kind, fa float64, b species.Kind, fb float64) [2]float64 {
	if b < a {
		return [2]float64{fb, fa}
	}
	return [2]float64{fa, fb}
}

// Lookup returns the rule for a and b in either order.
func (t ReactionTable) Lookup(a, b species.Kind) (Rule, bool) {
	r, ok := t[MakePair(a, b)]
	return r, ok
}

// Reactivity returns the effective reactivity of an agent of kind k.
func Reactivity(k species.Kind, ability species.Ability, catalystBonus float64) float64 {
	r := k.Reactivity()
	if ability == species.AbilityCatalyst {
		r += catalystBonus
	}
	return r
}

// ShortenLifespan returns the new max age after keeping the given fraction of
// the remaining frames. The result is never below age+1, so an agent is never
// killed by a reaction in the frame it reacts.
func ShortenLifespan(age, maxAge int, keep float64) int {
	if keep <= 0 || keep >= 1 {
		return maxAge
	}
	remaining := maxAge - age
	if remaining <= 1 {
		return maxAge
	}
	next := age + int(math.Ceil(float64(remaining)*keep))
	if next < age+1 {
		next = age + 1
	}
	return next
}
