// Package components defines the ECS components that make up an agent.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an agent's world position.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's velocity in world units per frame.
type Velocity struct {
	X, Y float64
}

// Acceleration accumulates steering input for the current frame.
// It is reset to zero after integration.
type Acceleration struct {
	X, Y float64
}

func (p Position) Vec() r2.Vec     { return r2.Vec{X: p.X, Y: p.Y} }
func (v Velocity) Vec() r2.Vec     { return r2.Vec{X: v.X, Y: v.Y} }
func (a Acceleration) Vec() r2.Vec { return r2.Vec{X: a.X, Y: a.Y} }

func (p *Position) Set(v r2.Vec)     { p.X, p.Y = v.X, v.Y }
func (v *Velocity) Set(u r2.Vec)     { v.X, v.Y = u.X, u.Y }
func (a *Acceleration) Set(v r2.Vec) { a.X, a.Y = v.X, v.Y }
