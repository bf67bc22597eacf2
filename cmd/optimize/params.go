// Package main provides CMA-ES optimization for flock steering parameters.
package main

import (
	"github.com/pthm-cable/flock/config"
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
			// Steering biases
			{Name: "cohesion_bias", Path: "boid.cohesion_bias", Min: 0, Max: 5, Default: 1.0},
			{Name: "separation_bias", Path: "boid.separation_bias", Min: 0, Max: 5, Default: 1.2},
			{Name: "alignment_bias", Path: "boid.alignment_bias", Min: 0, Max: 5, Default: 1.0},
			{Name: "target_bias", Path: "boid.target_bias", Min: 0, Max: 5, Default: 0.5},
			// Neighborhood
			{Name: "perception_radius", Path: "boid.perception_radius", Min: 1, Max: 8, Default: 4.0},
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

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	b := &cfg.Boid
	b.CohesionBias = clamped[0]
	b.SeparationBias = clamped[1]
	b.AlignmentBias = clamped[2]
	b.TargetBias = clamped[3]
	b.PerceptionRadius = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	b := &cfg.Boid
	return []float64{
		b.CohesionBias,
		b.SeparationBias,
		b.AlignmentBias,
		b.TargetBias,
		b.PerceptionRadius,
	}
}
