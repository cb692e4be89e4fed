package main

import (
	"github.com/pthm-cable/qsoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	field func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters: the
// learning scalars plus the rewards and pairing odds they interact with.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "epsilon", Path: "learning.epsilon", Min: 0.0, Max: 0.5, Default: 0.2,
				field: func(c *config.Config) *float64 { return &c.Learning.Epsilon }},
			{Name: "alpha", Path: "learning.alpha", Min: 0.01, Max: 0.5, Default: 0.1,
				field: func(c *config.Config) *float64 { return &c.Learning.Alpha }},
			{Name: "gamma", Path: "learning.gamma", Min: 0.5, Max: 0.99, Default: 0.9,
				field: func(c *config.Config) *float64 { return &c.Learning.Gamma }},
			{Name: "plant_reward", Path: "learning.plant_reward", Min: 1, Max: 20, Default: 5,
				field: func(c *config.Config) *float64 { return &c.Learning.PlantReward }},
			{Name: "prey_reward", Path: "learning.prey_reward", Min: 1, Max: 30, Default: 10,
				field: func(c *config.Config) *float64 { return &c.Learning.PreyReward }},
			{Name: "partner_chance", Path: "reproduction.partner_chance", Min: 0.05, Max: 1.0, Default: 0.2,
				field: func(c *config.Config) *float64 { return &c.Reproduction.PartnerChance }},
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
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		values[i] = *spec.field(cfg)
	}
	return values
}
