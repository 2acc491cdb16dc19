// Package game implements the simulation clock: it owns the agent world and
// advances it one frame at a time.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/genetics"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/telemetry"
)

// Options configures a Game beyond the simulation config.
type Options struct {
	Seed      int64
	LogStats  bool   // log window stats via slog
	OutputDir string // CSV output directory; empty disables file output

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game is the complete simulation state. It is not safe for concurrent use.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	// Entity mappers for the seven agent components
	agentMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Organism,
		components.Energy,
		components.Genome,
		components.Connections,
	]
	agentFilter *ecs.Filter7[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Organism,
		components.Energy,
		components.Genome,
		components.Connections,
	]

	// Individual component mappers for neighbor lookups
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	orgMap    *ecs.Map[components.Organism]
	energyMap *ecs.Map[components.Energy]
	genomeMap *ecs.Map[components.Genome]
	connMap   *ecs.Map[components.Connections]

	// World geometry and the structures sized to it
	space systems.Space
	grid  *systems.SpatialGrid
	naive *systems.NaiveIndex
	field *systems.AmbientField

	reactions systems.ReactionTable
	schedule  genetics.Schedule
	jitter    genetics.Jitter
	weights   systems.FlockWeights
	metabolic systems.MetabolismParams

	// Refresh cadences in frames, at least 1
	neighborsEvery int
	fieldEvery     int

	// Frame state
	tick           int
	nextID         uint64
	aliveCount     int
	pending        []spawnRequest
	neighborsDirty bool
	fieldDirty     bool

	// Input
	pointer    PointerState
	spawnAccum float64

	// Scratch buffers reused across frames
	points    []systems.Point
	neighbors []systems.Neighbor
	bodies    []systems.Body

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	lastStats     telemetry.WindowStats
}

// NewGameWithOptions creates a simulation from cfg and seeds the initial
// population. The config is used as given; callers that share a config
// between games should pass a Clone.
func NewGameWithOptions(cfg *config.Config, opts Options) *Game {
	world := ecs.NewWorld()

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		seed:  opts.Seed,
		agentMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Organism,
			components.Energy,
			components.Genome,
			components.Connections,
		](world),
		agentFilter: ecs.NewFilter7[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Organism,
			components.Energy,
			components.Genome,
			components.Connections,
		](world),
		posMap:    ecs.NewMap[components.Position](world),
		velMap:    ecs.NewMap[components.Velocity](world),
		orgMap:    ecs.NewMap[components.Organism](world),
		energyMap: ecs.NewMap[components.Energy](world),
		genomeMap: ecs.NewMap[components.Genome](world),
		connMap:   ecs.NewMap[components.Connections](world),

		space: systems.Space{
			Width:  cfg.Derived.ScreenW,
			Height: cfg.Derived.ScreenH,
			Wrap:   cfg.Derived.Wrap,
		},
		reactions: systems.DefaultReactions(),
		schedule: genetics.Schedule{
			Initial:        cfg.Mutation.InitialRate,
			GrowthPerFrame: cfg.Mutation.GrowthPerFrame,
			Max:            cfg.Mutation.MaxRate,
		},
		jitter: genetics.Jitter{
			Hue:      cfg.Mutation.HueJitter,
			Size:     cfg.Mutation.SizeJitter,
			Speed:    cfg.Mutation.SpeedJitter,
			Lifespan: cfg.Mutation.LifespanJitter,
		},
		weights: systems.FlockWeights{
			Alignment:        cfg.Flocking.Alignment,
			Cohesion:         cfg.Flocking.Cohesion,
			Separation:       cfg.Flocking.Separation,
			SeparationRadius: cfg.Flocking.SeparationRadius,
		},
		metabolic: systems.MetabolismParams{
			Metabolism:     cfg.Energy.Metabolism,
			Photosynthesis: cfg.Energy.Photosynthesis,
		},

		nextID:         1,
		neighborsDirty: true,
		fieldDirty:     true,
		neighborsEvery: max(1, cfg.Neighbors.RefreshInterval),
		fieldEvery:     max(1, cfg.Field.RefreshInterval),

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:      opts.LogStats || cfg.Telemetry.LogStats,
		statsCallback: opts.StatsCallback,
	}

	g.grid = systems.NewSpatialGrid(g.space, cfg.Derived.GridCellSize)
	g.naive = systems.NewNaiveIndex(g.space)
	g.field = systems.NewAmbientField(g.space, systems.FieldParams{
		Resolution: cfg.Field.Resolution,
		Scale:      cfg.Field.Scale,
		TimeScale:  cfg.Field.TimeScale,
		Strength:   cfg.Field.Strength,
	}, opts.Seed)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.spawnInitialPopulation()

	return g
}

// Unload releases resources held by the game.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of frames simulated so far.
func (g *Game) Tick() int {
	return g.tick
}

// Population returns the current number of agents in the world.
func (g *Game) Population() int {
	return g.aliveCount
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the simulation config.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Space returns the current world geometry.
func (g *Game) Space() systems.Space {
	return g.space
}

// Field returns the ambient force field, for drawing.
func (g *Game) Field() *systems.AmbientField {
	return g.field
}

// MutationRate returns the mutation rate in effect this frame.
func (g *Game) MutationRate() float64 {
	return g.schedule.Rate(g.tick)
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// PerfStats returns the rolling phase timing statistics.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records render frame timing for FPS reporting.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}
