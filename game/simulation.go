package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/telemetry"
)

// Update advances the simulation by one frame.
func (g *Game) Update() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.ingestPointer()

	g.perfCollector.StartPhase(telemetry.PhaseCooldowns)
	g.updateCooldowns()

	g.perfCollector.StartPhase(telemetry.PhaseField)
	if g.fieldDirty || g.tick%g.fieldEvery == 0 {
		g.field.Refresh(g.tick)
		g.fieldDirty = false
	}

	g.perfCollector.StartPhase(telemetry.PhaseNeighbors)
	if g.neighborsDue() {
		g.refreshNeighbors()
	}

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.updateAgents()

	g.perfCollector.StartPhase(telemetry.PhaseMetabolism)
	g.updateMetabolism()

	g.perfCollector.StartPhase(telemetry.PhaseSpawnCull)
	g.applySpawns()
	g.cleanupDead()

	g.perfCollector.StartPhase(telemetry.PhaseTopUp)
	g.topUp()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateCooldowns counts reaction and reproduction cooldowns down to zero.
func (g *Game) updateCooldowns() {
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, org, _, _, _ := query.Get()
		if org.ReactionCooldown > 0 {
			org.ReactionCooldown--
		}
		if org.ReproCooldown > 0 {
			org.ReproCooldown--
		}
	}
}

// neighborsDue reports whether connection lists must be rebuilt this frame.
func (g *Game) neighborsDue() bool {
	if g.neighborsDirty || g.tick%g.neighborsEvery == 0 {
		return true
	}
	return g.aliveCount >= g.cfg.Neighbors.NaiveBelow && g.grid.NeedsRebuild()
}

// refreshNeighbors rebuilds the neighbor index from live agents and
// rewrites every agent's connection list.
func (g *Game) refreshNeighbors() {
	g.points = g.points[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, org, energy, _, conn := query.Get()
		conn.Reset()
		if !energy.Live() {
			continue
		}
		g.points = append(g.points, systems.Point{
			E:   query.Entity(),
			ID:  org.ID,
			Pos: pos.Vec(),
		})
	}

	var index systems.NeighborIndex = g.grid
	if len(g.points) < g.cfg.Neighbors.NaiveBelow {
		index = g.naive
	}
	index.Build(g.points)

	radius := g.cfg.Neighbors.Radius
	k := g.cfg.Neighbors.MaxConnections
	for _, p := range g.points {
		g.neighbors = index.QueryInto(g.neighbors[:0], p, radius, k)
		conn := g.connMap.Get(p.E)
		for _, n := range g.neighbors {
			conn.Neighbors = append(conn.Neighbors, n.E)
		}
	}

	g.neighborsDirty = false
}

// updateAgents resolves reactions, then computes steering for every live
// agent and integrates motion.
func (g *Game) updateAgents() {
	if g.cfg.Reaction.Enabled {
		g.resolveReactions()
	}

	cfg := g.cfg
	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, acc, org, energy, genome, conn := query.Get()
		if !energy.Live() {
			continue
		}

		traits := genome.Traits
		self := systems.Body{Pos: pos.Vec(), Vel: vel.Vec()}
		force := acc.Vec()

		if org.Kind.Profile().Flocks {
			g.bodies = g.liveBodies(g.bodies[:0], conn)
			weights := g.weights.ForBehavior(traits.Behavior)
			force = r2.Add(force, systems.Steer(self, g.bodies, weights, g.space))
		}

		fieldWeight := cfg.Flocking.FieldWeight
		if traits.Behavior == species.BehaviorDrifter {
			fieldWeight *= 2
		}
		force = r2.Add(force, r2.Scale(fieldWeight, g.field.Sample(self.Pos)))

		if traits.Behavior == species.BehaviorSeeker && g.pointer.Present {
			target := r2.Vec{X: g.pointer.X, Y: g.pointer.Y}
			force = r2.Add(force, systems.Seek(self.Pos, target, cfg.Pointer.Attraction, g.space))
		}

		force = systems.Limit(force, cfg.Physics.MaxForce)

		p, v := self.Pos, self.Vel
		systems.Integrate(&p, &v, force, cfg.Physics.Drag, traits.Speed)
		g.space.Apply(&p, &v)
		pos.Set(p)
		vel.Set(v)
		acc.Set(r2.Vec{})
	}
}

// resolveReactions runs before anything moves, so every pair is measured
// at its start-of-frame positions.
func (g *Game) resolveReactions() {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, org, energy, genome, conn := query.Get()
		if !energy.Live() {
			continue
		}
		g.tryReaction(query.Entity(), pos, org, energy, genome, conn)
	}
}

// liveBodies appends the kinematic state of connected agents that are still
// alive and live.
func (g *Game) liveBodies(dst []systems.Body, conn *components.Connections) []systems.Body {
	for _, n := range conn.Neighbors {
		if !g.world.Alive(n) {
			continue
		}
		if e := g.energyMap.Get(n); !e.Live() {
			continue
		}
		dst = append(dst, systems.Body{
			Pos: g.posMap.Get(n).Vec(),
			Vel: g.velMap.Get(n).Vec(),
		})
	}
	return dst
}

// tryReaction reacts the agent with the first eligible connected partner.
// Both participants must be off cooldown and above the reactivity threshold.
// Products are staged at the agent's position and enter the world at the
// end of the frame.
func (g *Game) tryReaction(
	self ecs.Entity,
	pos *components.Position,
	org *components.Organism,
	energy *components.Energy,
	genome *components.Genome,
	conn *components.Connections,
) {
	rc := &g.cfg.Reaction
	if org.ReactionCooldown > 0 {
		return
	}
	if systems.Reactivity(org.Kind, genome.Traits.Ability, rc.CatalystBonus) <= rc.Threshold {
		return
	}

	here := pos.Vec()
	maxDistSq := rc.Distance * rc.Distance

	for _, other := range conn.Neighbors {
		if other == self || !g.world.Alive(other) {
			continue
		}
		oEnergy := g.energyMap.Get(other)
		if !oEnergy.Live() {
			continue
		}
		oOrg := g.orgMap.Get(other)
		if oOrg.ReactionCooldown > 0 {
			continue
		}
		if g.space.DistSq(here, g.posMap.Get(other).Vec()) >= maxDistSq {
			continue
		}
		oGenome := g.genomeMap.Get(other)
		if systems.Reactivity(oOrg.Kind, oGenome.Traits.Ability, rc.CatalystBonus) <= rc.Threshold {
			continue
		}
		rule, ok := g.reactions.Lookup(org.Kind, oOrg.Kind)
		if !ok {
			continue
		}

		org.ReactionCooldown = rc.CooldownFrames
		oOrg.ReactionCooldown = rc.CooldownFrames
		energy.MaxAge = systems.ShortenLifespan(energy.Age, energy.MaxAge, rule.KeepFor(org.Kind, oOrg.Kind))
		oEnergy.MaxAge = systems.ShortenLifespan(oEnergy.Age, oEnergy.MaxAge, rule.KeepFor(oOrg.Kind, org.Kind))

		for _, product := range rule.Products {
			for range product.Count {
				g.stage(spawnRequest{
					Kind:   product.Kind,
					Pos:    here,
					Vel:    g.randomVelocity(0.5),
					Traits: species.RandomTraits(product.Kind, g.rng),
					Energy: g.cfg.Energy.Initial,
					Source: telemetry.SourceReaction,
				})
			}
		}
		g.collector.RecordReaction()
		return
	}
}

// updateMetabolism ages every live agent, applies its energy budget and
// rolls for reproduction.
func (g *Game) updateMetabolism() {
	rp := &g.cfg.Reproduction
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, org, energy, genome, _ := query.Get()
		if !energy.Live() {
			continue
		}
		systems.UpdateEnergy(energy, org.Kind, genome.Traits, g.metabolic)

		if !systems.CanReproduce(org.Kind, energy, org, rp.Threshold) {
			continue
		}
		if g.rng.Float64() < rp.Probability {
			g.reproduce(query.Entity())
		}
	}
}
