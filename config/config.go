// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Bounds policies applied at the viewport edge.
const (
	BoundsWrap    = "wrap"
	BoundsReflect = "reflect"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Population   PopulationConfig   `yaml:"population"`
	Neighbors    NeighborsConfig    `yaml:"neighbors"`
	Flocking     FlockingConfig     `yaml:"flocking"`
	Reaction     ReactionConfig     `yaml:"reaction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Field        FieldConfig        `yaml:"field"`
	Pointer      PointerConfig      `yaml:"pointer"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	Drag     float64 `yaml:"drag"`   // velocity multiplier per frame (1 = no drag)
	Bounds   string  `yaml:"bounds"` // "wrap" or "reflect"
	MaxForce float64 `yaml:"max_force"`
}

// PopulationConfig holds population bounds and seeding.
type PopulationConfig struct {
	Max     int `yaml:"max"`     // MAX_POPULATION: hard cap on live agents
	Floor   int `yaml:"floor"`   // top-up target when the population falls below it
	Initial int `yaml:"initial"` // agents seeded at startup
}

// NeighborsConfig holds neighbor index bounds.
type NeighborsConfig struct {
	Radius          float64 `yaml:"radius"`           // CONNECTION_RADIUS
	MaxConnections  int     `yaml:"max_connections"`  // MAX_CONNECTIONS
	RefreshInterval int     `yaml:"refresh_interval"` // frames between refreshes
	GridCellSize    float64 `yaml:"grid_cell_size"`   // 0 = radius
	NaiveBelow      int     `yaml:"naive_below"`      // use the O(n^2) scan below this population
}

// FlockingConfig holds steering weights.
type FlockingConfig struct {
	Alignment        float64 `yaml:"alignment"`
	Cohesion         float64 `yaml:"cohesion"`
	Separation       float64 `yaml:"separation"`
	SeparationRadius float64 `yaml:"separation_radius"`
	FieldWeight      float64 `yaml:"field_weight"`
}

// ReactionConfig holds reaction engine parameters.
type ReactionConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Distance       float64 `yaml:"distance"`        // REACTION_DISTANCE
	CooldownFrames int     `yaml:"cooldown_frames"` // REACTION_COOLDOWN_FRAMES
	Threshold      float64 `yaml:"threshold"`       // reactivity threshold
	CatalystBonus  float64 `yaml:"catalyst_bonus"`  // reactivity bonus for the Catalyst ability
}

// MutationConfig holds the mutation rate schedule and per-field jitter.
type MutationConfig struct {
	InitialRate    float64 `yaml:"initial_rate"`
	GrowthPerFrame float64 `yaml:"growth_per_frame"`
	MaxRate        float64 `yaml:"max_rate"`
	HueJitter      float64 `yaml:"hue_jitter"`
	SizeJitter     float64 `yaml:"size_jitter"`
	SpeedJitter    float64 `yaml:"speed_jitter"`
	LifespanJitter float64 `yaml:"lifespan_jitter"`
}

// EnergyConfig holds metabolic parameters.
type EnergyConfig struct {
	Initial        float64 `yaml:"initial"`
	Metabolism     float64 `yaml:"metabolism"`     // energy lost per frame at multiplier 1
	Photosynthesis float64 `yaml:"photosynthesis"` // energy gained per frame by photosynthesizers
}

// ReproductionConfig holds reproduction gating.
type ReproductionConfig struct {
	EnergyFraction float64 `yaml:"energy_fraction"` // k: child gets parent*k, parent keeps parent*k
	Probability    float64 `yaml:"probability"`     // chance per eligible frame
	Threshold      float64 `yaml:"threshold"`       // minimum energy to reproduce
	CooldownFrames int     `yaml:"cooldown_frames"`
}

// FieldConfig holds the ambient noise field parameters.
type FieldConfig struct {
	Resolution      float64 `yaml:"resolution"` // world units per field cell
	Scale           float64 `yaml:"scale"`      // noise frequency per cell
	TimeScale       float64 `yaml:"time_scale"` // noise z advance per frame
	Strength        float64 `yaml:"strength"`
	RefreshInterval int     `yaml:"refresh_interval"`
}

// PointerConfig holds pointer interaction parameters.
type PointerConfig struct {
	SpawnRate   float64 `yaml:"spawn_rate"` // agents per frame while pressed
	SpawnJitter float64 `yaml:"spawn_jitter"`
	Attraction  float64 `yaml:"attraction"` // steering weight for Seeker agents
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow int  `yaml:"stats_window"` // frames per stats window
	PerfWindow  int  `yaml:"perf_window"`
	LogStats    bool `yaml:"log_stats"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Wrap         bool    // Physics.Bounds == wrap
	GridCellSize float64 // effective neighbor grid cell size
	ScreenW      float64
	ScreenH      float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Population.Max < 0 {
		errs = append(errs, fmt.Errorf("population.max must be >= 0, got %d", c.Population.Max))
	}
	if c.Population.Floor > c.Population.Max {
		errs = append(errs, fmt.Errorf("population.floor (%d) exceeds population.max (%d)", c.Population.Floor, c.Population.Max))
	}
	if c.Neighbors.Radius <= 0 {
		errs = append(errs, fmt.Errorf("neighbors.radius must be > 0, got %v", c.Neighbors.Radius))
	}
	if c.Neighbors.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("neighbors.max_connections must be >= 0, got %d", c.Neighbors.MaxConnections))
	}
	if e := c.Energy.Initial; e <= 0 || e > 1 {
		errs = append(errs, fmt.Errorf("energy.initial must be in (0,1], got %v", e))
	}
	if k := c.Reproduction.EnergyFraction; k <= 0 || k > 1 {
		errs = append(errs, fmt.Errorf("reproduction.energy_fraction must be in (0,1], got %v", k))
	}
	if c.Mutation.MaxRate < c.Mutation.InitialRate {
		errs = append(errs, fmt.Errorf("mutation.max_rate (%v) below mutation.initial_rate (%v)", c.Mutation.MaxRate, c.Mutation.InitialRate))
	}
	if c.Mutation.InitialRate < 0 || c.Mutation.MaxRate > 1 {
		errs = append(errs, errors.New("mutation rates must lie in [0,1]"))
	}
	switch c.Physics.Bounds {
	case BoundsWrap, BoundsReflect:
	default:
		errs = append(errs, fmt.Errorf("physics.bounds must be %q or %q, got %q", BoundsWrap, BoundsReflect, c.Physics.Bounds))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Wrap = c.Physics.Bounds == BoundsWrap
	c.Derived.GridCellSize = c.Neighbors.GridCellSize
	if c.Derived.GridCellSize <= 0 {
		c.Derived.GridCellSize = c.Neighbors.Radius
	}
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)

	if c.Neighbors.RefreshInterval < 1 {
		c.Neighbors.RefreshInterval = 1
	}
	if c.Field.RefreshInterval < 1 {
		c.Field.RefreshInterval = 1
	}
	if c.Field.Resolution <= 0 {
		c.Field.Resolution = 20
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 600
	}
}

// Refresh recomputes derived values after fields were edited in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
