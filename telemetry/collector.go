// Package telemetry provides windowed population statistics, phase timing
// and CSV experiment output.
package telemetry

import "github.com/pthm-cable/petri/species"

// DeathCause distinguishes the two ways an agent leaves the simulation.
type DeathCause uint8

const (
	DeathAge DeathCause = iota
	DeathStarvation
)

// SpawnSource identifies the path that created an agent.
type SpawnSource uint8

const (
	SourceBirth SpawnSource = iota
	SourceReaction
	SourceSeed
	SourcePointer
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	births         int
	reactionSpawns int
	reactions      int
	seeded         int
	pointerSpawns  int
	rejected       int
	deathsAge      int
	deathsStarved  int
	mutations      int
}

// NewCollector creates a collector that flushes every windowTicks frames.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordSpawn records an agent added by the given source.
func (c *Collector) RecordSpawn(src SpawnSource) {
	switch src {
	case SourceBirth:
		c.births++
	case SourceReaction:
		c.reactionSpawns++
	case SourceSeed:
		c.seeded++
	case SourcePointer:
		c.pointerSpawns++
	}
}

// RecordRejected records a spawn refused by the population cap or born
// without energy.
func (c *Collector) RecordRejected() {
	c.rejected++
}

// RecordReaction records a reaction between two agents.
func (c *Collector) RecordReaction() {
	c.reactions++
}

// RecordMutations records trait fields changed during inheritance.
func (c *Collector) RecordMutations(n int) {
	c.mutations += n
}

// RecordDeath records a culled agent.
func (c *Collector) RecordDeath(cause DeathCause) {
	if cause == DeathAge {
		c.deathsAge++
	} else {
		c.deathsStarved++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Sample is the population state measured at the end of a window.
type Sample struct {
	Energies     []float64
	Generations  []float64
	KindCounts   [species.NumKinds]int
	MutationRate float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, s Sample) WindowStats {
	energy := ComputeDistribution(s.Energies)
	gen := ComputeDistribution(s.Generations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: len(s.Energies),

		Births:         c.births,
		ReactionSpawns: c.reactionSpawns,
		Reactions:      c.reactions,
		Seeded:         c.seeded,
		PointerSpawns:  c.pointerSpawns,
		Rejected:       c.rejected,
		DeathsAge:      c.deathsAge,
		DeathsStarved:  c.deathsStarved,
		Mutations:      c.mutations,

		EnergyMean: energy.Mean,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		GenerationMean: gen.Mean,
		GenerationMax:  gen.Max,

		MutationRate: s.MutationRate,
	}
	stats.setKindCounts(s.KindCounts)

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.reactionSpawns = 0
	c.reactions = 0
	c.seeded = 0
	c.pointerSpawns = 0
	c.rejected = 0
	c.deathsAge = 0
	c.deathsStarved = 0
	c.mutations = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowTicks
}
