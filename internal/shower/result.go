package shower

// Result is the output of one shower run.
//
// EnergyPerStep[k] is the ionization energy deposited during generation k
// and PopulationPerStep[k] the number of live entities after it. Index 0
// describes the seed: no deposit, one entity. The last entry is always the
// first generation with no survivors.
type Result struct {
	EnergyPerStep     []float64 `json:"energy_per_step"`
	PopulationPerStep []int     `json:"population_per_step"`
	TotalEnergy       float64   `json:"total_energy"`
}

// Generations returns the number of generations processed.
func (r *Result) Generations() int {
	return len(r.EnergyPerStep) - 1
}

// PeakPopulation returns the largest population and the first step at
// which it occurs.
func (r *Result) PeakPopulation() (peak, step int) {
	for i, n := range r.PopulationPerStep {
		if n > peak {
			peak, step = n, i
		}
	}
	return peak, step
}

// CumulativeEnergy returns the running sum of EnergyPerStep.
func (r *Result) CumulativeEnergy() []float64 {
	out := make([]float64, len(r.EnergyPerStep))
	var sum float64
	for i, e := range r.EnergyPerStep {
		sum += e
		out[i] = sum
	}
	return out
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}
