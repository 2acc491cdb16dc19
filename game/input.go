package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/telemetry"
)

// PointerState is the latest pointer sample pushed by the frontend.
type PointerState struct {
	X, Y    float64
	Pressed bool // primary button held
	Present bool // pointer inside the viewport
}

// SetPointer records the pointer state used by the next Update.
func (g *Game) SetPointer(p PointerState) {
	g.pointer = p
}

// Pointer returns the last pointer state.
func (g *Game) Pointer() PointerState {
	return g.pointer
}

// ingestPointer stages pointer spawns while the button is held.
// Fractional spawn rates accumulate across frames.
func (g *Game) ingestPointer() {
	if !g.pointer.Present || !g.pointer.Pressed {
		g.spawnAccum = 0
		return
	}

	pc := &g.cfg.Pointer
	g.spawnAccum += pc.SpawnRate
	at := r2.Vec{X: g.pointer.X, Y: g.pointer.Y}
	for g.spawnAccum >= 1 {
		g.spawnAccum--
		kind := species.Primal[g.rng.Intn(len(species.Primal))]
		jitter := r2.Vec{
			X: (g.rng.Float64()*2 - 1) * pc.SpawnJitter,
			Y: (g.rng.Float64()*2 - 1) * pc.SpawnJitter,
		}
		ok := g.stage(spawnRequest{
			Kind:   kind,
			Pos:    r2.Add(at, jitter),
			Vel:    g.randomVelocity(1),
			Traits: species.RandomTraits(kind, g.rng),
			Energy: g.cfg.Energy.Initial,
			Source: telemetry.SourcePointer,
		})
		if !ok {
			g.spawnAccum = 0
			return
		}
	}
}

// Resize changes the world size to match the viewport. The neighbor index
// and the ambient field are rebuilt, and every agent is brought back inside
// the new bounds. Non-positive sizes are ignored.
func (g *Game) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == g.space.Width && height == g.space.Height {
		return
	}

	g.space.Width = width
	g.space.Height = height

	g.grid.Resize(g.space)
	g.naive.Resize(g.space)
	g.field.Resize(g.space)
	g.field.Refresh(g.tick)

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, _, _, _, _ := query.Get()
		g.clampInto(pos, vel)
	}
	g.neighborsDirty = true

	slog.Info("world_resized", "width", width, "height", height, "population", g.aliveCount)
}

func (g *Game) clampInto(pos *components.Position, vel *components.Velocity) {
	p, v := pos.Vec(), vel.Vec()
	g.space.Apply(&p, &v)
	pos.Set(p)
	vel.Set(v)
}
