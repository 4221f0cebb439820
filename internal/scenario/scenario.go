// Package scenario loads YAML descriptions of shower batches.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/emshower/internal/analysis"
	"github.com/roach88/emshower/internal/material"
	"github.com/roach88/emshower/internal/shower"
)

// Mode selects what a scenario computes.
type Mode string

// Scenario modes.
const (
	// ModeProfile builds mean longitudinal profiles at evenly spaced
	// energies for each material.
	ModeProfile Mode = "profile"

	// ModeScan compares materials over log-spaced energies.
	ModeScan Mode = "scan"
)

// Scenario describes a reproducible batch of showers.
type Scenario struct {
	// Name identifies the scenario in output and logs.
	Name string `yaml:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty"`

	Mode Mode `yaml:"mode"`

	// Kind is the species of every primary.
	Kind shower.Kind `yaml:"kind"`

	StepFraction float64 `yaml:"step_fraction"`

	// Runs is the number of showers per (material, energy) pair.
	Runs int `yaml:"runs"`

	// Seed is the base seed. When absent a random seed is drawn at run time
	// and reported so the batch can be repeated.
	Seed *int64 `yaml:"seed,omitempty"`

	Energy EnergyRange `yaml:"energy"`

	// Materials are names resolved against the built-ins and Catalog.
	Materials []string `yaml:"materials"`

	// Catalog is an optional directory of CUE material files, relative to
	// the scenario file.
	Catalog string `yaml:"catalog,omitempty"`
}

// EnergyRange is a span of primary energies in MeV. Count is the number of
// energies sampled; profile scenarios default to three.
type EnergyRange struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Count int     `yaml:"count,omitempty"`
}

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if sc.Catalog != "" && !filepath.IsAbs(sc.Catalog) {
		sc.Catalog = filepath.Join(filepath.Dir(path), sc.Catalog)
	}
	return sc, nil
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks that required fields are present and valid.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch s.Mode {
	case ModeProfile, ModeScan:
	case "":
		return fmt.Errorf("mode is required")
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeProfile, ModeScan, s.Mode)
	}

	if s.Kind == shower.KindUnspecified {
		return fmt.Errorf("kind is required")
	}
	if math.IsNaN(s.StepFraction) || s.StepFraction <= 0 || s.StepFraction > 1 {
		return fmt.Errorf("step_fraction must be in (0, 1], got %g", s.StepFraction)
	}
	if s.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", s.Runs)
	}

	if !(s.Energy.Min > 0) || math.IsInf(s.Energy.Min, 0) {
		return fmt.Errorf("energy.min must be a positive finite number, got %g", s.Energy.Min)
	}
	if !(s.Energy.Max >= s.Energy.Min) || math.IsInf(s.Energy.Max, 0) {
		return fmt.Errorf("energy.max must be finite and >= energy.min, got %g", s.Energy.Max)
	}
	if s.Energy.Count < 0 {
		return fmt.Errorf("energy.count must be non-negative, got %d", s.Energy.Count)
	}
	if s.Mode == ModeScan && s.Energy.Count < 1 {
		return fmt.Errorf("energy.count is required for scan scenarios")
	}

	if len(s.Materials) == 0 {
		return fmt.Errorf("materials list is required and must be non-empty")
	}
	for i, name := range s.Materials {
		if name == "" {
			return fmt.Errorf("materials[%d]: name is empty", i)
		}
	}
	return nil
}

// ResolveMaterials looks up the scenario's materials in base merged with the
// scenario's own catalog, if any.
func (s *Scenario) ResolveMaterials(base *material.Catalog) ([]material.Material, error) {
	cat := base
	if s.Catalog != "" {
		loaded, errs := material.Load(s.Catalog)
		if len(errs) > 0 {
			return nil, fmt.Errorf("scenario %s: loading catalog: %w", s.Name, errs[0])
		}
		cat = base.Merge(loaded)
	}
	return cat.LookupAll(s.Materials)
}

// ScanConfig converts a scan scenario into an analysis configuration.
func (s *Scenario) ScanConfig(materials []material.Material, seed int64) analysis.ScanConfig {
	return analysis.ScanConfig{
		EnergyMin:    s.Energy.Min,
		EnergyMax:    s.Energy.Max,
		Energies:     s.Energy.Count,
		Runs:         s.Runs,
		StepFraction: s.StepFraction,
		Initial:      s.Kind,
		Materials:    materials,
		Seed:         seed,
	}
}

// ProfileConfigs converts a profile scenario into one configuration per
// material. Material m uses seeds from seed+m*Points*Runs onward.
func (s *Scenario) ProfileConfigs(materials []material.Material, seed int64) []analysis.ProfileConfig {
	points := s.Energy.Count
	if points == 0 {
		points = analysis.DefaultProfilePoints
	}

	cfgs := make([]analysis.ProfileConfig, len(materials))
	for m, mat := range materials {
		cfgs[m] = analysis.ProfileConfig{
			Material:     mat,
			EnergyMin:    s.Energy.Min,
			EnergyMax:    s.Energy.Max,
			Points:       points,
			Runs:         s.Runs,
			StepFraction: s.StepFraction,
			Initial:      s.Kind,
			Seed:         seed + int64(m*points*s.Runs),
		}
	}
	return cfgs
}
