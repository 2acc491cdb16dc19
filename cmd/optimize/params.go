// Package main provides CMA-ES optimization for petri simulation parameters.
package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/petri/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy
			{Name: "metabolism", Path: "energy.metabolism", Min: 0.0005, Max: 0.004, Default: 0.0015},
			{Name: "photosynthesis", Path: "energy.photosynthesis", Min: 0.0, Max: 0.008, Default: 0.003},
			// Reproduction
			{Name: "repro_fraction", Path: "reproduction.energy_fraction", Min: 0.5, Max: 1.0, Default: 0.75},
			{Name: "repro_probability", Path: "reproduction.probability", Min: 0.002, Max: 0.05, Default: 0.01},
			{Name: "repro_threshold", Path: "reproduction.threshold", Min: 0.3, Max: 0.9, Default: 0.6},
			{Name: "repro_cooldown", Path: "reproduction.cooldown_frames", Min: 60, Max: 600, Default: 240},
			// Reactions
			{Name: "reaction_distance", Path: "reaction.distance", Min: 6, Max: 30, Default: 14},
			{Name: "reaction_cooldown", Path: "reaction.cooldown_frames", Min: 20, Max: 300, Default: 90},
			{Name: "reaction_threshold", Path: "reaction.threshold", Min: 0.1, Max: 0.9, Default: 0.4},
			// Mutation (max_rate locked at 0.2)
			{Name: "mutation_initial", Path: "mutation.initial_rate", Min: 0.0, Max: 0.1, Default: 0.02},
			{Name: "mutation_growth", Path: "mutation.growth_per_frame", Min: 0.0, Max: 0.00002, Default: 0.000005},
			// Flocking
			{Name: "alignment", Path: "flocking.alignment", Min: 0.0, Max: 2.5, Default: 1.0},
			{Name: "cohesion", Path: "flocking.cohesion", Min: 0.0, Max: 2.5, Default: 0.8},
			{Name: "separation", Path: "flocking.separation", Min: 0.5, Max: 3.0, Default: 1.5},
			{Name: "field_weight", Path: "flocking.field_weight", Min: 0.0, Max: 1.5, Default: 0.6},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Format renders values as "name=value" pairs for logging.
func (pv *ParamVector) Format(values []float64) string {
	parts := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		parts[i] = fmt.Sprintf("%s=%.6g", spec.Name, values[i])
	}
	return strings.Join(parts, " ")
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	i := 0
	next := func() float64 {
		v := c[i]
		i++
		return v
	}

	cfg.Energy.Metabolism = next()
	cfg.Energy.Photosynthesis = next()

	cfg.Reproduction.EnergyFraction = next()
	cfg.Reproduction.Probability = next()
	cfg.Reproduction.Threshold = next()
	cfg.Reproduction.CooldownFrames = int(math.Round(next()))

	cfg.Reaction.Distance = next()
	cfg.Reaction.CooldownFrames = int(math.Round(next()))
	cfg.Reaction.Threshold = next()

	cfg.Mutation.InitialRate = next()
	cfg.Mutation.GrowthPerFrame = next()
	cfg.Mutation.MaxRate = 0.2

	cfg.Flocking.Alignment = next()
	cfg.Flocking.Cohesion = next()
	cfg.Flocking.Separation = next()
	cfg.Flocking.FieldWeight = next()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Energy.Metabolism,
		cfg.Energy.Photosynthesis,

		cfg.Reproduction.EnergyFraction,
		cfg.Reproduction.Probability,
		cfg.Reproduction.Threshold,
		float64(cfg.Reproduction.CooldownFrames),

		cfg.Reaction.Distance,
		float64(cfg.Reaction.CooldownFrames),
		cfg.Reaction.Threshold,

		cfg.Mutation.InitialRate,
		cfg.Mutation.GrowthPerFrame,

		cfg.Flocking.Alignment,
		cfg.Flocking.Cohesion,
		cfg.Flocking.Separation,
		cfg.Flocking.FieldWeight,
	}
}
