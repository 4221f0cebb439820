package shower

import "math"

// ElectronMass is the electron rest energy in MeV.
const ElectronMass = 0.511

// PairThreshold is the minimum photon energy (MeV) for pair production.
const PairThreshold = 2 * ElectronMass

// Params are the inputs of a single shower run. Energies are in MeV,
// lengths in cm.
type Params struct {
	// E0 is the energy of the primary.
	E0 float64 `json:"e0" yaml:"e0"`

	// CriticalElectron and CriticalPositron are the critical energies of the
	// absorber. Charged particles at or below their critical energy no longer
	// radiate.
	CriticalElectron float64 `json:"critical_electron" yaml:"critical_electron"`
	CriticalPositron float64 `json:"critical_positron" yaml:"critical_positron"`

	// LossPerX0 is the ionization loss per unit length (MeV/cm).
	LossPerX0 float64 `json:"loss_per_x0" yaml:"loss_per_x0"`

	// RadiationLength is the absorber's radiation length X0.
	RadiationLength float64 `json:"radiation_length" yaml:"radiation_length"`

	// StepFraction is the fraction of X0 advanced per generation, in (0, 1].
	StepFraction float64 `json:"step_fraction" yaml:"step_fraction"`

	// Initial is the species of the primary.
	Initial Kind `json:"initial_kind" yaml:"initial_kind"`
}

// Validate checks every parameter range. It returns the first violation as
// a *ParamError.
func (p Params) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"e0", p.E0},
		{"critical_electron", p.CriticalElectron},
		{"critical_positron", p.CriticalPositron},
		{"loss_per_x0", p.LossPerX0},
		{"radiation_length", p.RadiationLength},
		{"step_fraction", p.StepFraction},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return invalid(c.field, "must be a finite number, got %v", c.value)
		}
	}

	if p.E0 <= 0 {
		return invalid("e0", "primary energy must be positive, got %g MeV", p.E0)
	}
	if p.CriticalElectron < 0 {
		return invalid("critical_electron", "must be non-negative, got %g MeV", p.CriticalElectron)
	}
	if p.CriticalPositron < 0 {
		return invalid("critical_positron", "must be non-negative, got %g MeV", p.CriticalPositron)
	}
	if p.LossPerX0 < 0 {
		return invalid("loss_per_x0", "must be non-negative, got %g MeV/cm", p.LossPerX0)
	}
	if p.RadiationLength <= 0 {
		return invalid("radiation_length", "must be positive, got %g cm", p.RadiationLength)
	}
	if p.StepFraction <= 0 || p.StepFraction > 1 {
		return invalid("step_fraction", "must be in (0, 1], got %g", p.StepFraction)
	}
	switch p.Initial {
	case KindElectron, KindPositron, KindPhoton:
	default:
		return invalid("initial_kind", "must be electron, positron or photon, got %q", p.Initial.String())
	}
	return nil
}

// IonizationLoss is the energy a charged particle deposits per generation.
func (p Params) IonizationLoss() float64 {
	return p.LossPerX0 * p.RadiationLength * p.StepFraction
}

// CriticalEnergy returns the critical energy for a charged kind.
func (p Params) CriticalEnergy(k Kind) float64 {
	if k == KindPositron {
		return p.CriticalPositron
	}
	return p.CriticalElectron
}
