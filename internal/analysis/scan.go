package analysis

import (
	"context"
	"fmt"

	"github.com/roach88/emshower/internal/material"
	"github.com/roach88/emshower/internal/shower"
)

// ScanConfig describes a comparison of materials over log-spaced primary
// energies.
type ScanConfig struct {
	EnergyMin    float64
	EnergyMax    float64
	Energies     int
	Runs         int
	StepFraction float64
	Initial      shower.Kind
	Materials    []material.Material
	Seed         int64
}

// Validate checks the energy range, counts and material list.
func (c ScanConfig) Validate() error {
	if err := validateRange(c.EnergyMin, c.EnergyMax); err != nil {
		return err
	}
	if c.Energies < 1 {
		return invalidConfig("energy.count", "must be at least 1, got %d", c.Energies)
	}
	if c.Runs < 1 {
		return invalidConfig("runs", "must be at least 1, got %d", c.Runs)
	}
	if len(c.Materials) == 0 {
		return invalidConfig("materials", "at least one material is required")
	}
	return nil
}

// ScanPoint aggregates the runs at one primary energy. Lengths are in cm;
// errors are standard errors of the mean.
type ScanPoint struct {
	E0 float64 `json:"e0"`

	TotalEnergy    float64 `json:"total_energy"`
	TotalEnergyErr float64 `json:"total_energy_err"`

	PeakPopulation    float64 `json:"peak_population"`
	PeakPopulationErr float64 `json:"peak_population_err"`

	// Depth is how far the shower travels before it dies out.
	Depth    float64 `json:"depth"`
	DepthErr float64 `json:"depth_err"`

	// PeakDepth is where the population is largest.
	PeakDepth    float64 `json:"peak_depth"`
	PeakDepthErr float64 `json:"peak_depth_err"`
}

// MaterialScan is the scan of one material.
type MaterialScan struct {
	Material material.Material `json:"material"`
	Points   []ScanPoint       `json:"points"`
}

// ScanResult holds the energies sampled and one MaterialScan per material,
// in configuration order.
type ScanResult struct {
	Energies  []float64      `json:"energies"`
	Materials []MaterialScan `json:"materials"`
}

// Scan runs cfg.Runs showers at each of cfg.Energies log-spaced energies for
// every material. Batch (m, i) uses seeds Seed+(m*Energies+i)*Runs onward.
func (r *Runner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	energies := Logspace(cfg.EnergyMin, cfg.EnergyMax, cfg.Energies)
	out := &ScanResult{Energies: energies}

	r.logger.Info("scan start",
		"materials", len(cfg.Materials),
		"energies", len(energies),
		"runs", cfg.Runs,
		"seed", cfg.Seed,
	)

	for m, mat := range cfg.Materials {
		ms := MaterialScan{Material: mat, Points: make([]ScanPoint, 0, len(energies))}
		for i, e0 := range energies {
			base := cfg.Seed + int64((m*len(energies)+i)*cfg.Runs)
			results, err := r.batch(ctx, mat.Name, mat.Params(e0, cfg.StepFraction, cfg.Initial), cfg.Runs, base)
			if err != nil {
				return nil, fmt.Errorf("scan %s at %g MeV: %w", mat.Name, e0, err)
			}
			ms.Points = append(ms.Points, summarize(e0, results, cfg.StepFraction*mat.RadiationLength))
		}
		out.Materials = append(out.Materials, ms)
		r.logger.Info("material scanned", "material", mat.Name)
	}

	return out, nil
}

// summarize reduces a batch to a ScanPoint. stepLength converts generation
// counts to cm.
func summarize(e0 float64, results []*shower.Result, stepLength float64) ScanPoint {
	n := len(results)
	totals := make([]float64, n)
	peaks := make([]float64, n)
	lengths := make([]float64, n)
	peakSteps := make([]float64, n)
	for i, res := range results {
		peak, at := res.PeakPopulation()
		totals[i] = res.TotalEnergy
		peaks[i] = float64(peak)
		lengths[i] = float64(len(res.PopulationPerStep))
		peakSteps[i] = float64(at)
	}

	return ScanPoint{
		E0:                e0,
		TotalEnergy:       Mean(totals),
		TotalEnergyErr:    StdErr(totals, 1),
		PeakPopulation:    Mean(peaks),
		PeakPopulationErr: StdErr(peaks, 1),
		Depth:             Mean(lengths) * stepLength,
		DepthErr:          StdErr(lengths, 1) * stepLength,
		PeakDepth:         Mean(peakSteps) * stepLength,
		PeakDepthErr:      StdErr(peakSteps, 1) * stepLength,
	}
}
