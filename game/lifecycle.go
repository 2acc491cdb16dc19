package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/genetics"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/telemetry"
)

// spawnRequest is an agent waiting to enter the world at the end of the frame.
type spawnRequest struct {
	Kind   species.Kind
	Pos    r2.Vec
	Vel    r2.Vec
	Traits species.Traits
	Energy float64

	ParentID      uint64
	Generation    int
	MutationCount int

	Source telemetry.SpawnSource
}

// canSpawn reports whether one more agent fits under the population cap,
// counting agents already staged this frame.
func (g *Game) canSpawn() bool {
	return g.aliveCount+len(g.pending) < g.cfg.Population.Max
}

// stage queues a spawn. Returns false and records the rejection when the
// population cap is reached.
func (g *Game) stage(req spawnRequest) bool {
	if !g.canSpawn() {
		g.collector.RecordRejected()
		return false
	}
	g.pending = append(g.pending, req)
	return true
}

// applySpawns creates every staged agent. Must not run during a query.
func (g *Game) applySpawns() {
	for _, req := range g.pending {
		g.createAgent(req)
	}
	g.pending = g.pending[:0]
}

// createAgent adds a staged agent to the world. Agents that would be born
// dead are dropped and counted as rejected.
func (g *Game) createAgent(req spawnRequest) bool {
	traits := req.Traits.Clamp(req.Kind)
	energy := components.Energy{
		Value:  clamp01(req.Energy),
		MaxAge: traits.MaxAge(),
	}
	if !energy.Live() {
		g.collector.RecordRejected()
		return false
	}

	id := g.nextID
	g.nextID++

	pos := req.Pos
	vel := req.Vel
	g.space.Apply(&pos, &vel)

	p := components.Position{X: pos.X, Y: pos.Y}
	v := components.Velocity{X: vel.X, Y: vel.Y}
	a := components.Acceleration{}
	org := components.Organism{
		ID:            id,
		ParentID:      req.ParentID,
		Kind:          req.Kind,
		Generation:    req.Generation,
		MutationCount: req.MutationCount,
	}
	genome := components.Genome{Traits: traits}
	conn := components.Connections{}

	g.agentMapper.NewEntity(&p, &v, &a, &org, &energy, &genome, &conn)
	g.aliveCount++
	g.collector.RecordSpawn(req.Source)
	return true
}

// cleanupDead removes agents that reached their max age or ran out of energy.
func (g *Game) cleanupDead() {
	var dead []ecs.Entity
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, energy, _, _ := query.Get()
		if energy.Live() {
			continue
		}
		dead = append(dead, query.Entity())
		if energy.Age >= energy.MaxAge {
			g.collector.RecordDeath(telemetry.DeathAge)
		} else {
			g.collector.RecordDeath(telemetry.DeathStarvation)
		}
	}

	for _, e := range dead {
		g.world.RemoveEntity(e)
		g.aliveCount--
	}
}

// spawnInitialPopulation seeds the configured number of primal agents.
func (g *Game) spawnInitialPopulation() {
	for range g.cfg.Population.Initial {
		if !g.stage(g.randomPrimal(telemetry.SourceSeed)) {
			break
		}
	}
	g.applySpawns()
	g.neighborsDirty = true
}

// topUp reseeds random primal agents until the population reaches the floor.
func (g *Game) topUp() {
	before := g.aliveCount
	for g.aliveCount+len(g.pending) < g.cfg.Population.Floor {
		if !g.stage(g.randomPrimal(telemetry.SourceSeed)) {
			break
		}
	}
	if len(g.pending) == 0 {
		return
	}
	g.applySpawns()
	g.neighborsDirty = true

	slog.Info("population_topup",
		"tick", g.tick,
		"population_before", before,
		"added", g.aliveCount-before,
	)
}

// randomPrimal builds a seed request for a random primal kind at a random
// position.
func (g *Game) randomPrimal(src telemetry.SpawnSource) spawnRequest {
	kind := species.Primal[g.rng.Intn(len(species.Primal))]
	return spawnRequest{
		Kind:   kind,
		Pos:    r2.Vec{X: g.rng.Float64() * g.space.Width, Y: g.rng.Float64() * g.space.Height},
		Vel:    g.randomVelocity(1),
		Traits: species.RandomTraits(kind, g.rng),
		Energy: g.cfg.Energy.Initial,
		Source: src,
	}
}

// randomVelocity returns a vector with a uniform heading and length up to speed.
func (g *Game) randomVelocity(speed float64) r2.Vec {
	angle := g.rng.Float64() * 2 * math.Pi
	s := g.rng.Float64() * speed
	return r2.Vec{X: math.Cos(angle) * s, Y: math.Sin(angle) * s}
}

// reproduce stages a mutated copy of parent next to it and splits the
// parent's energy. Returns false if the parent is gone or the population
// cap is reached; in that case nothing changes.
func (g *Game) reproduce(parent ecs.Entity) bool {
	if !g.world.Alive(parent) {
		return false
	}
	if !g.canSpawn() {
		g.collector.RecordRejected()
		return false
	}

	org := g.orgMap.Get(parent)
	energy := g.energyMap.Get(parent)
	genome := g.genomeMap.Get(parent)
	pos := g.posMap.Get(parent)
	vel := g.velMap.Get(parent)

	traits, mutated := genetics.Inherit(genome.Traits, org.Kind, g.jitter, g.MutationRate(), g.rng)
	childEnergy, parentEnergy := genetics.SplitEnergy(energy.Value, g.cfg.Reproduction.EnergyFraction)

	offset := g.randomVelocity(genome.Traits.Size)
	g.stage(spawnRequest{
		Kind:          org.Kind,
		Pos:           r2.Add(pos.Vec(), offset),
		Vel:           r2.Add(vel.Vec(), g.randomVelocity(0.5)),
		Traits:        traits,
		Energy:        childEnergy,
		ParentID:      org.ID,
		Generation:    org.Generation + 1,
		MutationCount: org.MutationCount + mutated,
		Source:        telemetry.SourceBirth,
	})

	energy.Value = parentEnergy
	org.ReproCooldown = g.cfg.Reproduction.CooldownFrames
	g.collector.RecordMutations(mutated)
	return true
}

// Spawn adds an agent of kind at (x, y) immediately, outside the frame
// loop. Returns the new agent's ID, or false if the kind is invalid or the
// population cap is reached.
func (g *Game) Spawn(kind species.Kind, x, y float64) (uint64, bool) {
	if !kind.Valid() {
		return 0, false
	}
	req := spawnRequest{
		Kind:   kind,
		Pos:    r2.Vec{X: x, Y: y},
		Traits: species.RandomTraits(kind, g.rng),
		Energy: g.cfg.Energy.Initial,
		Source: telemetry.SourceSeed,
	}
	if !g.stage(req) {
		return 0, false
	}
	id := g.nextID
	g.applySpawns()
	if g.nextID == id {
		return 0, false
	}
	g.neighborsDirty = true
	return id, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
