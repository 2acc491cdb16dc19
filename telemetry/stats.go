package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/petri/species"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`

	// Events during window
	Births         int `csv:"births"`
	ReactionSpawns int `csv:"reaction_spawns"`
	Reactions      int `csv:"reactions"`
	Seeded         int `csv:"seeded"`
	PointerSpawns  int `csv:"pointer_spawns"`
	Rejected       int `csv:"rejected"`
	DeathsAge      int `csv:"deaths_age"`
	DeathsStarved  int `csv:"deaths_starved"`
	Mutations      int `csv:"mutations"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage depth
	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  float64 `csv:"generation_max"`

	MutationRate float64 `csv:"mutation_rate"`

	// Per-kind counts
	Air   int `csv:"air"`
	Water int `csv:"water"`
	Earth int `csv:"earth"`
	Fire  int `csv:"fire"`
	Steam int `csv:"steam"`
	Mud   int `csv:"mud"`
	Lava  int `csv:"lava"`
	Dust  int `csv:"dust"`
	Life  int `csv:"life"`
}

func (s *WindowStats) setKindCounts(c [species.NumKinds]int) {
	s.Air = c[species.Air]
	s.Water = c[species.Water]
	s.Earth = c[species.Earth]
	s.Fire = c[species.Fire]
	s.Steam = c[species.Steam]
	s.Mud = c[species.Mud]
	s.Lava = c[species.Lava]
	s.Dust = c[species.Dust]
	s.Life = c[species.Life]
}

// KindCount returns the count for kind k.
func (s WindowStats) KindCount(k species.Kind) int {
	switch k {
	case species.Air:
		return s.Air
	case species.Water:
		return s.Water
	case species.Earth:
		return s.Earth
	case species.Fire:
		return s.Fire
	case species.Steam:
		return s.Steam
	case species.Mud:
		return s.Mud
	case species.Lava:
		return s.Lava
	case species.Dust:
		return s.Dust
	case species.Life:
		return s.Life
	}
	return 0
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution calculates mean, standard deviation, percentiles and
// maximum of values. An empty sample yields the zero Distribution.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var d Distribution
	d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		d.Std = 0
	}
	d.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	d.Max = floats.Max(sorted)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("births", s.Births),
		slog.Int("reaction_spawns", s.ReactionSpawns),
		slog.Int("reactions", s.Reactions),
		slog.Int("rejected", s.Rejected),
		slog.Int("deaths_age", s.DeathsAge),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("generation_max", s.GenerationMax),
		slog.Float64("mutation_rate", s.MutationRate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"births", s.Births,
		"reaction_spawns", s.ReactionSpawns,
		"reactions", s.Reactions,
		"seeded", s.Seeded,
		"pointer_spawns", s.PointerSpawns,
		"rejected", s.Rejected,
		"deaths_age", s.DeathsAge,
		"deaths_starved", s.DeathsStarved,
		"mutations", s.Mutations,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"generation_mean", s.GenerationMean,
		"generation_max", s.GenerationMax,
		"mutation_rate", s.MutationRate,
		"air", s.Air,
		"water", s.Water,
		"earth", s.Earth,
		"fire", s.Fire,
		"steam", s.Steam,
		"mud", s.Mud,
		"lava", s.Lava,
		"dust", s.Dust,
		"life", s.Life,
	)
}
