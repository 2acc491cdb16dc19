package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/telemetry"
)

// Quality component weights.
const (
	qualityWeightDiversity = 0.35
	qualityWeightRenewal   = 0.25
	qualityWeightStability = 0.20
	qualityWeightLineage   = 0.20

	qualityWarmupWindows = 2 // skip first N windows (warmup)

	// lineageScale is the generation depth at which the lineage score
	// reaches 1-1/e.
	lineageScale = 10.0
)

// Quality breaks an evaluation down into its scored components, each in [0, 1].
type Quality struct {
	Diversity float64 // normalized Shannon entropy of kind counts
	Renewal   float64 // share of agents born or reacted rather than seeded
	Stability float64 // exp(-cv^2) of population size across windows
	Lineage   float64 // depth of the deepest generation
	Total     float64
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config
	window     int

	mu          sync.Mutex
	lastQuality Quality
}

// NewFitnessEvaluator creates a new evaluator. window is the stats window
// length in frames.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config, window int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		window:     window,
	}
}

// LastQuality returns the quality from the most recent evaluation,
// averaged over seeds.
func (fe *FitnessEvaluator) LastQuality() Quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.StatsWindow = fe.window
	if err := cfg.Refresh(); err != nil {
		// Outside the engine's valid range: worst possible score.
		fe.mu.Lock()
		fe.lastQuality = Quality{}
		fe.mu.Unlock()
		return 0
	}

	results := make([]Quality, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = computeQuality(fe.runSimulation(cfg.Clone(), s))
		}(i, seed)
	}
	wg.Wait()

	var avg Quality
	for _, q := range results {
		avg.Diversity += q.Diversity
		avg.Renewal += q.Renewal
		avg.Stability += q.Stability
		avg.Lineage += q.Lineage
		avg.Total += q.Total
	}
	n := float64(len(results))
	avg.Diversity /= n
	avg.Renewal /= n
	avg.Stability /= n
	avg.Lineage /= n
	avg.Total /= n

	fe.mu.Lock()
	fe.lastQuality = avg
	fe.mu.Unlock()

	return -avg.Total
}

// runSimulation executes a single headless run and returns every flushed
// stats window.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats
	g := game.NewGameWithOptions(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.Update()
	}
	return windows
}

// computeQuality scores a run from its window stats.
func computeQuality(windows []telemetry.WindowStats) Quality {
	if len(windows) <= qualityWarmupWindows {
		return Quality{}
	}
	valid := windows[qualityWarmupWindows:]

	var q Quality
	var created, seeded float64
	populations := make([]float64, 0, len(valid))
	for _, w := range valid {
		populations = append(populations, float64(w.Population))
		q.Diversity += kindEntropy(w)
		created += float64(w.Births + w.ReactionSpawns)
		seeded += float64(w.Seeded)
		q.Lineage = math.Max(q.Lineage, w.GenerationMax)
	}
	q.Diversity /= float64(len(valid))

	if created+seeded > 0 {
		q.Renewal = created / (created + seeded)
	}

	if mean, std := stat.MeanStdDev(populations, nil); mean > 0 && len(populations) >= 2 {
		cv := std / mean
		q.Stability = math.Exp(-cv * cv)
	}

	q.Lineage = 1 - math.Exp(-q.Lineage/lineageScale)

	q.Total = clamp01(qualityWeightDiversity*q.Diversity +
		qualityWeightRenewal*q.Renewal +
		qualityWeightStability*q.Stability +
		qualityWeightLineage*q.Lineage)
	return q
}

// kindEntropy returns the Shannon entropy of the window's kind mix,
// normalized so an even spread over every kind scores 1.
func kindEntropy(w telemetry.WindowStats) float64 {
	if w.Population == 0 {
		return 0
	}
	p := make([]float64, species.NumKinds)
	for k := range species.NumKinds {
		p[k] = float64(w.KindCount(species.Kind(k))) / float64(w.Population)
	}
	return stat.Entropy(p) / math.Log(float64(species.NumKinds))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
