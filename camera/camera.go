// Package camera maps world coordinates to the viewport with pan and zoom.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/systems"
)

// Camera controls the viewport into the simulation world.
// On a wrapping world it pans across the edges; otherwise the center is
// kept inside the world.
type Camera struct {
	// Center in world coordinates
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	Space systems.Space

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH float64, space systems.Space) *Camera {
	c := &Camera{
		Zoom:    1,
		MaxZoom: 4,
	}
	c.Resize(viewportW, viewportH, space)
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates, taking the
// shortest path across wrapped edges.
func (c *Camera) WorldToScreen(p r2.Vec) r2.Vec {
	d := c.Space.Delta(r2.Vec{X: c.X, Y: c.Y}, p)
	return r2.Vec{
		X: c.ViewportW/2 + d.X*c.Zoom,
		Y: c.ViewportH/2 + d.Y*c.Zoom,
	}
}

// ScreenToWorld converts screen coordinates to a position inside the world.
func (c *Camera) ScreenToWorld(s r2.Vec) r2.Vec {
	p := r2.Vec{
		X: c.X + (s.X-c.ViewportW/2)/c.Zoom,
		Y: c.Y + (s.Y-c.ViewportH/2)/c.Zoom,
	}
	if c.Space.Wrap {
		return r2.Vec{X: mod(p.X, c.Space.Width), Y: mod(p.Y, c.Space.Height)}
	}
	return r2.Vec{X: clamp(p.X, 0, c.Space.Width), Y: clamp(p.Y, 0, c.Space.Height)}
}

// ScaleLength converts a world length to screen pixels.
func (c *Camera) ScaleLength(l float64) float64 {
	return l * c.Zoom
}

// IsVisible returns true if a circle at p with the given radius could be
// visible on screen.
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	d := c.Space.Delta(r2.Vec{X: c.X, Y: c.Y}, p)
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return math.Abs(d.X) <= halfW && math.Abs(d.Y) <= halfH
}

// Ghosts appends the extra screen positions at which a circle straddling a
// wrapped world edge must also be drawn. Nothing is appended on a
// non-wrapping world.
func (c *Camera) Ghosts(dst []r2.Vec, p r2.Vec, radius float64) []r2.Vec {
	if !c.Space.Wrap {
		return dst
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	d := c.Space.Delta(r2.Vec{X: c.X, Y: c.Y}, p)

	var shiftX, shiftY float64
	switch {
	case d.X > halfW-radius && d.X < halfW+radius:
		shiftX = -c.Space.Width
	case d.X < -halfW+radius && d.X > -halfW-radius:
		shiftX = c.Space.Width
	}
	switch {
	case d.Y > halfH-radius && d.Y < halfH+radius:
		shiftY = -c.Space.Height
	case d.Y < -halfH+radius && d.Y > -halfH-radius:
		shiftY = c.Space.Height
	}

	screen := func(dx, dy float64) r2.Vec {
		return r2.Vec{
			X: c.ViewportW/2 + (d.X+dx)*c.Zoom,
			Y: c.ViewportH/2 + (d.Y+dy)*c.Zoom,
		}
	}
	if shiftX != 0 {
		dst = append(dst, screen(shiftX, 0))
	}
	if shiftY != 0 {
		dst = append(dst, screen(0, shiftY))
	}
	if shiftX != 0 && shiftY != 0 {
		dst = append(dst, screen(shiftX, shiftY))
	}
	return dst
}

// Resize updates the viewport and world dimensions and recalculates the zoom
// constraints so the view never exceeds the world.
func (c *Camera) Resize(viewportW, viewportH float64, space systems.Space) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.Space = space

	c.MinZoom = 1
	if space.Width > 0 && space.Height > 0 {
		c.MinZoom = math.Max(viewportW/space.Width, viewportH/space.Height)
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	c.SetZoom(c.Zoom)
	c.Pan(0, 0)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	x := c.X + dx/c.Zoom
	y := c.Y + dy/c.Zoom
	if c.Space.Wrap {
		c.X = mod(x, c.Space.Width)
		c.Y = mod(y, c.Space.Height)
		return
	}
	c.X = clamp(x, 0, c.Space.Width)
	c.Y = clamp(y, 0, c.Space.Height)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center at minimum zoom.
func (c *Camera) Reset() {
	c.X = c.Space.Width / 2
	c.Y = c.Space.Height / 2
	c.Zoom = c.MinZoom
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float64) float64 {
	if m <= 0 {
		return 0
	}
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
