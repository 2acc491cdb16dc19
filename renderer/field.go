// Package renderer draws the simulation with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/systems"
)

// FieldRenderer draws the ambient field as a grid of short strokes.
type FieldRenderer struct {
	color rl.Color
}

// NewFieldRenderer creates a field renderer.
func NewFieldRenderer() *FieldRenderer {
	return &FieldRenderer{color: rl.Color{R: 50, G: 100, B: 130, A: 255}}
}

// Draw renders one stroke per visible field cell, pointing along the cell
// direction. A soft shimmer keyed to tick keeps a static field readable.
func (r *FieldRenderer) Draw(field *systems.AmbientField, cam *camera.Camera, tick int) {
	cols, rows := field.Dims()
	cell := field.CellSize()
	half := cell * 0.4

	rl.BeginBlendMode(rl.BlendAdditive)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			center := r2.Vec{X: (float64(col) + 0.5) * cell, Y: (float64(row) + 0.5) * cell}
			if !cam.IsVisible(center, cell) {
				continue
			}
			dir := field.Direction(col, row)

			pulse := math.Sin(float64(tick)*0.03+center.X*0.01+center.Y*0.01)*0.5 + 0.5
			c := r.color
			c.A = uint8(40 + 80*pulse)

			from := cam.WorldToScreen(r2.Sub(center, r2.Scale(half, dir)))
			to := cam.WorldToScreen(r2.Add(center, r2.Scale(half, dir)))
			rl.DrawLineEx(vec2(from), vec2(to), 2, c)
			rl.DrawCircleV(vec2(to), 2, c)
		}
	}
	rl.EndBlendMode()
}

// DrawLinks renders connection segments between neighboring agents.
func DrawLinks(links []game.Link, cam *camera.Camera) {
	c := rl.Color{R: 120, G: 140, B: 170, A: 60}
	for _, l := range links {
		from := cam.WorldToScreen(l.From)
		to := r2.Add(from, r2.Scale(cam.Zoom, r2.Sub(l.To, l.From)))
		rl.DrawLineV(vec2(from), vec2(to), c)
	}
}

func vec2(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
