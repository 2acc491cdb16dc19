// Package species defines the closed set of agent kinds and their defaults.
package species

// Kind is the type tag of an agent. The set is closed: every value below
// NumKinds is valid and every component indexes its tables by Kind.
type Kind uint8

const (
	// Primal kinds, used for seeding
	Air Kind = iota
	Water
	Earth
	Fire

	// Derived kinds, produced by reactions
	Steam
	Mud
	Lava
	Dust
	Life

	NumKinds
)

// Primal lists the kinds used by the default seeding distribution.
var Primal = []Kind{Air, Water, Earth, Fire}

// All lists every kind in declaration order.
var All = []Kind{Air, Water, Earth, Fire, Steam, Mud, Lava, Dust, Life}

// Profile holds the per-kind physical ranges and behavior flags.
type Profile struct {
	Reactivity float64 // compared against the reaction threshold

	SpeedMin, SpeedMax       float64
	SizeMin, SizeMax         float64
	LifespanMin, LifespanMax float64 // frames

	Metabolism     float64 // multiplier on the configured metabolism rate
	Photosynthesis bool    // gains energy every frame
	Flocks         bool    // receives flocking forces
	Reproduces     bool
	Hue            float64 // centre of the seeded hue distribution
}

var profiles = [NumKinds]Profile{
	Air: {
		Reactivity: 0.6,
		SpeedMin: 1.5, SpeedMax: 3.0,
		SizeMin: 3, SizeMax: 5,
		LifespanMin: 900, LifespanMax: 1500,
		Metabolism: 1.0, Flocks: true, Reproduces: true,
		Hue: 190,
	},
	Water: {
		Reactivity: 0.7,
		SpeedMin: 1.0, SpeedMax: 2.2,
		SizeMin: 4, SizeMax: 7,
		LifespanMin: 1200, LifespanMax: 1800,
		Metabolism: 0.9, Flocks: true, Reproduces: true,
		Hue: 215,
	},
	Earth: {
		Reactivity: 0.5,
		SpeedMin: 0.5, SpeedMax: 1.2,
		SizeMin: 5, SizeMax: 9,
		LifespanMin: 1500, LifespanMax: 2400,
		Metabolism: 0.7, Reproduces: true,
		Hue: 30,
	},
	Fire: {
		Reactivity: 0.9,
		SpeedMin: 1.8, SpeedMax: 3.5,
		SizeMin: 3, SizeMax: 6,
		LifespanMin: 400, LifespanMax: 800,
		Metabolism: 1.6, Flocks: true, Reproduces: true,
		Hue: 10,
	},
	Steam: {
		Reactivity: 0.2,
		SpeedMin: 1.0, SpeedMax: 2.0,
		SizeMin: 3, SizeMax: 5,
		LifespanMin: 300, LifespanMax: 600,
		Metabolism: 1.2, Flocks: true,
		Hue: 200,
	},
	Mud: {
		Reactivity: 0.55,
		SpeedMin: 0.3, SpeedMax: 0.8,
		SizeMin: 6, SizeMax: 10,
		LifespanMin: 900, LifespanMax: 1400,
		Metabolism: 0.8,
		Hue: 25,
	},
	Lava: {
		Reactivity: 0.8,
		SpeedMin: 0.3, SpeedMax: 0.9,
		SizeMin: 6, SizeMax: 10,
		LifespanMin: 500, LifespanMax: 900,
		Metabolism: 1.3,
		Hue: 18,
	},
	Dust: {
		Reactivity: 0.1,
		SpeedMin: 0.8, SpeedMax: 1.6,
		SizeMin: 2, SizeMax: 3,
		LifespanMin: 300, LifespanMax: 500,
		Metabolism: 1.0, Flocks: true,
		Hue: 45,
	},
	Life: {
		Reactivity: 0.3,
		SpeedMin: 0.6, SpeedMax: 1.4,
		SizeMin: 4, SizeMax: 8,
		LifespanMin: 1800, LifespanMax: 3000,
		Metabolism: 0.6, Photosynthesis: true, Flocks: true, Reproduces: true,
		Hue: 120,
	},
}

var kindNames = [NumKinds]string{
	Air:   "air",
	Water: "water",
	Earth: "earth",
	Fire:  "fire",
	Steam: "steam",
	Mud:   "mud",
	Lava:  "lava",
	Dust:  "dust",
	Life:  "life",
}

// Valid reports whether k belongs to the declared set.
func (k Kind) Valid() bool {
	return k < NumKinds
}

// Profile returns the defaults for k. Invalid kinds fall back to Air.
func (k Kind) Profile() Profile {
	if !k.Valid() {
		return profiles[Air]
	}
	return profiles[k]
}

// Reactivity returns the kind's base reactivity.
func (k Kind) Reactivity() float64 {
	return k.Profile().Reactivity
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for _, k := range All {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}
