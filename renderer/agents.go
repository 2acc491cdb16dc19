package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/ui"
)

// AgentRenderer draws agents as hue-colored shapes that fade with age.
type AgentRenderer struct {
	ghosts []r2.Vec
}

// NewAgentRenderer creates an agent renderer.
func NewAgentRenderer() *AgentRenderer {
	return &AgentRenderer{}
}

// Draw renders every visible agent in the snapshot, including wrapped
// copies of agents straddling an edge.
func (r *AgentRenderer) Draw(snap *game.Snapshot, cam *camera.Camera, headings bool) {
	for i := range snap.Agents {
		a := &snap.Agents[i]
		p := r2.Vec{X: a.X, Y: a.Y}
		if !cam.IsVisible(p, a.Traits.Size) {
			continue
		}

		radius := float32(cam.ScaleLength(a.Traits.Size))
		color := rl.Fade(ui.KindColor(a.Traits.Hue, a.Energy), float32(1-0.6*a.AgeRatio))
		rotation := float32(a.Heading * 180 / math.Pi)

		r.ghosts = append(r.ghosts[:0], cam.WorldToScreen(p))
		r.ghosts = cam.Ghosts(r.ghosts, p, a.Traits.Size)
		for _, s := range r.ghosts {
			center := vec2(s)
			drawShape(a.Traits.Shape, center, radius, rotation, color)
			if headings {
				tip := rl.Vector2{
					X: center.X + float32(math.Cos(a.Heading))*radius*2,
					Y: center.Y + float32(math.Sin(a.Heading))*radius*2,
				}
				rl.DrawLineV(center, tip, rl.Fade(rl.White, 0.5))
			}
		}
	}
}

// DrawSelection outlines the agent at p.
func DrawSelection(p r2.Vec, size float64, cam *camera.Camera) {
	radius := float32(cam.ScaleLength(size)) + 4
	s := cam.WorldToScreen(p)
	rl.DrawCircleLines(int32(s.X), int32(s.Y), radius, rl.Yellow)
}

func drawShape(shape species.Shape, center rl.Vector2, radius, rotation float32, color rl.Color) {
	switch shape {
	case species.ShapeTriangle:
		rl.DrawPoly(center, 3, radius, rotation, color)
	case species.ShapeSquare:
		rl.DrawPoly(center, 4, radius, rotation+45, color)
	case species.ShapeStar:
		rl.DrawPoly(center, 3, radius, rotation, color)
		rl.DrawPoly(center, 3, radius, rotation+180, color)
	case species.ShapeRing:
		rl.DrawRing(center, radius*0.55, radius, 0, 360, 24, color)
	default:
		rl.DrawCircleV(center, radius, color)
	}
}
