package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/emshower/internal/material"
	"github.com/roach88/emshower/internal/shower"
)

// Profile is the mean longitudinal development of a batch of showers.
// Every slice has one entry per generation of the longest run; shorter runs
// count as zero past their end. Errors are standard errors of the mean.
type Profile struct {
	E0   float64 `json:"e0"`
	Runs int     `json:"runs"`

	// Depth is the longitudinal coordinate in radiation lengths.
	Depth []float64 `json:"depth"`

	Energy           []float64 `json:"energy"`
	EnergyErr        []float64 `json:"energy_err"`
	Population       []float64 `json:"population"`
	PopulationErr    []float64 `json:"population_err"`
	CumulativeEnergy []float64 `json:"cumulative_energy"`
	CumulativeErr    []float64 `json:"cumulative_err"`
}

// Steps returns the number of profile entries.
func (p *Profile) Steps() int {
	return len(p.Depth)
}

// BuildProfile aggregates results of runs that advanced s radiation lengths
// per generation.
func BuildProfile(results []*shower.Result, s float64) (*Profile, error) {
	n := len(results)
	if n == 0 {
		return nil, fmt.Errorf("build profile: no results")
	}

	steps := 0
	for _, r := range results {
		steps = max(steps, len(r.PopulationPerStep))
	}

	prof := &Profile{
		Runs:             n,
		Depth:            make([]float64, steps),
		Energy:           make([]float64, steps),
		EnergyErr:        make([]float64, steps),
		Population:       make([]float64, steps),
		PopulationErr:    make([]float64, steps),
		CumulativeEnergy: make([]float64, steps),
		CumulativeErr:    make([]float64, steps),
	}

	energy := make([]float64, n)
	pop := make([]float64, n)
	cum := make([]float64, n)
	for j := 0; j < steps; j++ {
		for i, r := range results {
			energy[i], pop[i] = 0, 0
			if j < len(r.EnergyPerStep) {
				energy[i] = r.EnergyPerStep[j]
				pop[i] = float64(r.PopulationPerStep[j])
			}
			cum[i] += energy[i]
		}

		prof.Depth[j] = float64(j) * s
		prof.Energy[j] = Mean(energy)
		prof.EnergyErr[j] = StdErr(energy, 0)
		prof.Population[j] = Mean(pop)
		prof.PopulationErr[j] = StdErr(pop, 0)
		prof.CumulativeEnergy[j] = Mean(cum)
		prof.CumulativeErr[j] = StdErr(cum, 0)
	}
	return prof, nil
}

// ProfileConfig describes profiles at evenly spaced primary energies in one
// material.
type ProfileConfig struct {
	Material     material.Material
	EnergyMin    float64
	EnergyMax    float64
	Points       int
	Runs         int
	StepFraction float64
	Initial      shower.Kind
	Seed         int64
}

// DefaultProfilePoints is the number of energies ProfileAt samples when
// Points is zero.
const DefaultProfilePoints = 3

// Validate checks the energy range and counts.
func (c ProfileConfig) Validate() error {
	if err := validateRange(c.EnergyMin, c.EnergyMax); err != nil {
		return err
	}
	if c.Points < 0 {
		return invalidConfig("points", "must be non-negative, got %d", c.Points)
	}
	if c.Runs < 1 {
		return invalidConfig("runs", "must be at least 1, got %d", c.Runs)
	}
	return nil
}

// ProfileAt builds one profile per energy of Linspace(EnergyMin,
// EnergyMax, Points). Energy k uses seeds Seed+k*Runs onward.
func (r *Runner) ProfileAt(ctx context.Context, cfg ProfileConfig) ([]*Profile, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	points := cfg.Points
	if points == 0 {
		points = DefaultProfilePoints
	}

	r.logger.Info("profile start",
		"material", cfg.Material.Name,
		"e_min", cfg.EnergyMin,
		"e_max", cfg.EnergyMax,
		"points", points,
		"runs", cfg.Runs,
	)

	var profiles []*Profile
	for k, e0 := range Linspace(cfg.EnergyMin, cfg.EnergyMax, points) {
		p := cfg.Material.Params(e0, cfg.StepFraction, cfg.Initial)
		results, err := r.batch(ctx, cfg.Material.Name, p, cfg.Runs, cfg.Seed+int64(k*cfg.Runs))
		if err != nil {
			return nil, fmt.Errorf("profile at %g MeV: %w", e0, err)
		}
		prof, err := BuildProfile(results, cfg.StepFraction)
		if err != nil {
			return nil, err
		}
		prof.E0 = e0
		profiles = append(profiles, prof)
	}

	r.logger.Info("profile complete", "material", cfg.Material.Name, "points", len(profiles))
	return profiles, nil
}

func validateRange(lo, hi float64) error {
	if math.IsNaN(lo) || math.IsInf(lo, 0) || lo <= 0 {
		return invalidConfig("energy.min", "must be a positive finite number, got %g", lo)
	}
	if math.IsNaN(hi) || math.IsInf(hi, 0) || hi < lo {
		return invalidConfig("energy.max", "must be finite and >= energy.min (%g), got %g", lo, hi)
	}
	return nil
}

func invalidConfig(field, format string, args ...any) error {
	return &shower.ParamError{
		Code:    shower.ErrCodeInvalidParameter,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
