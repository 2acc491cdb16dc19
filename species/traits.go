package species

import (
	"math"
	"math/rand"
)

// Shape is the drawable outline of an agent.
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeTriangle
	ShapeSquare
	ShapeStar
	ShapeRing
)

// Behavior selects how an agent weighs its steering inputs.
type Behavior uint8

const (
	BehaviorSchooler Behavior = iota // full flocking
	BehaviorLoner                    // separation only
	BehaviorDrifter                  // follows the ambient field
	BehaviorSeeker                   // steers toward the pointer
)

// Ability is a special trait with a simulation effect.
type Ability uint8

const (
	AbilityNone Ability = iota
	AbilityPhotosynthesis
	AbilityCatalyst  // raises reactivity
	AbilityLongevity // halves metabolism
)

// Option sets for categorical mutation.
var (
	Shapes    = []Shape{ShapeCircle, ShapeTriangle, ShapeSquare, ShapeStar, ShapeRing}
	Behaviors = []Behavior{BehaviorSchooler, BehaviorLoner, BehaviorDrifter, BehaviorSeeker}
	Abilities = []Ability{AbilityNone, AbilityPhotosynthesis, AbilityCatalyst, AbilityLongevity}
)

// HueMin and HueMax bound the Hue trait.
const (
	HueMin = 0.0
	HueMax = 360.0
)

// Traits is the inheritable DNA of an agent.
type Traits struct {
	Shape    Shape
	Behavior Behavior
	Ability  Ability

	Hue      float64 // degrees
	Size     float64 // radius in world units
	Speed    float64 // maximum speed per frame
	Lifespan float64 // frames
}

// RandomTraits draws traits from the default seeding distribution of k.
func RandomTraits(k Kind, rng *rand.Rand) Traits {
	p := k.Profile()

	ability := AbilityNone
	if rng.Float64() < 0.4 {
		ability = Abilities[1+rng.Intn(len(Abilities)-1)]
	}

	t := Traits{
		Shape:    Shapes[rng.Intn(len(Shapes))],
		Behavior: Behaviors[rng.Intn(len(Behaviors))],
		Ability:  ability,
		Hue:      wrapHue(p.Hue + (rng.Float64()-0.5)*40),
		Size:     uniform(rng, p.SizeMin, p.SizeMax),
		Speed:    uniform(rng, p.SpeedMin, p.SpeedMax),
		Lifespan: uniform(rng, p.LifespanMin, p.LifespanMax),
	}
	return t.Clamp(k)
}

// Clamp forces every field into its declared range for kind k.
func (t Traits) Clamp(k Kind) Traits {
	p := k.Profile()
	if !t.Shape.Valid() {
		t.Shape = ShapeCircle
	}
	if !t.Behavior.Valid() {
		t.Behavior = BehaviorSchooler
	}
	if !t.Ability.Valid() {
		t.Ability = AbilityNone
	}
	t.Hue = clamp(t.Hue, HueMin, HueMax)
	t.Size = clamp(t.Size, p.SizeMin, p.SizeMax)
	t.Speed = clamp(t.Speed, p.SpeedMin, p.SpeedMax)
	t.Lifespan = clamp(t.Lifespan, p.LifespanMin, p.LifespanMax)
	return t
}

// MaxAge returns the lifespan trait as a whole number of frames (at least 1).
func (t Traits) MaxAge() int {
	n := int(t.Lifespan + 0.5)
	if n < 1 {
		return 1
	}
	return n
}

// Photosynthesizes reports whether an agent of kind k with these traits gains energy each frame.
func (t Traits) Photosynthesizes(k Kind) bool {
	return t.Ability == AbilityPhotosynthesis || k.Profile().Photosynthesis
}

func (s Shape) Valid() bool    { return int(s) < len(Shapes) }
func (b Behavior) Valid() bool { return int(b) < len(Behaviors) }
func (a Ability) Valid() bool  { return int(a) < len(Abilities) }

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeTriangle:
		return "triangle"
	case ShapeSquare:
		return "square"
	case ShapeStar:
		return "star"
	case ShapeRing:
		return "ring"
	default:
		return "unknown"
	}
}

func (b Behavior) String() string {
	switch b {
	case BehaviorSchooler:
		return "schooler"
	case BehaviorLoner:
		return "loner"
	case BehaviorDrifter:
		return "drifter"
	case BehaviorSeeker:
		return "seeker"
	default:
		return "unknown"
	}
}

func (a Ability) String() string {
	switch a {
	case AbilityNone:
		return "none"
	case AbilityPhotosynthesis:
		return "photosynthesis"
	case AbilityCatalyst:
		return "catalyst"
	case AbilityLongevity:
		return "longevity"
	default:
		return "unknown"
	}
}

// wrapHue maps h onto [0, 360) around the color wheel.
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
