// Package systems contains the per-frame simulation pieces driven by the game clock.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Space is the rectangular world the agents move in.
// Wrap selects toroidal edges; otherwise agents reflect off the walls.
type Space struct {
	Width, Height float64
	Wrap          bool
}

// Delta returns the shortest displacement from a to b.
func (s Space) Delta(a, b r2.Vec) r2.Vec {
	d := r2.Sub(b, a)
	if !s.Wrap {
		return d
	}
	if s.Width > 0 {
		d.X -= s.Width * math.Round(d.X/s.Width)
	}
	if s.Height > 0 {
		d.Y -= s.Height * math.Round(d.Y/s.Height)
	}
	return d
}

// DistSq returns the squared shortest distance between a and b.
func (s Space) DistSq(a, b r2.Vec) float64 {
	return r2.Norm2(s.Delta(a, b))
}

// Apply enforces the bounds policy on a position, flipping the velocity
// component that crossed a wall when reflecting.
func (s Space) Apply(pos, vel *r2.Vec) {
	if s.Wrap {
		pos.X = wrap(pos.X, s.Width)
		pos.Y = wrap(pos.Y, s.Height)
		return
	}
	pos.X, vel.X = reflect(pos.X, vel.X, s.Width)
	pos.Y, vel.Y = reflect(pos.Y, vel.Y, s.Height)
}

func wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}

func reflect(v, vel, size float64) (float64, float64) {
	if size <= 0 {
		return 0, 0
	}
	if v < 0 {
		v = -v
		vel = math.Abs(vel)
	} else if v > size {
		v = 2*size - v
		vel = -math.Abs(vel)
	}
	// a step longer than the world still has to land inside it
	return clamp(v, 0, size), vel
}
