package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/emshower/internal/shower"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for changing the encoding later.
const (
	DomainParams = "emshower/params/v1"
	DomainResult = "emshower/result/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ParamsObject converts run parameters to a canonical object.
func ParamsObject(p shower.Params) map[string]any {
	return map[string]any{
		"e0":                p.E0,
		"critical_electron": p.CriticalElectron,
		"critical_positron": p.CriticalPositron,
		"loss_per_x0":       p.LossPerX0,
		"radiation_length":  p.RadiationLength,
		"step_fraction":     p.StepFraction,
		"initial_kind":      p.Initial.String(),
	}
}

// ResultObject converts a run result to a canonical object.
func ResultObject(r *shower.Result) map[string]any {
	return map[string]any{
		"energy_per_step":     r.EnergyPerStep,
		"population_per_step": r.PopulationPerStep,
		"total_energy":        r.TotalEnergy,
	}
}

// ParamsHash is the content address of a parameter set. Runs with equal
// hashes differ only by their seed.
func ParamsHash(p shower.Params) (string, error) {
	data, err := Marshal(ParamsObject(p))
	if err != nil {
		return "", fmt.Errorf("params hash: %w", err)
	}
	return hashWithDomain(DomainParams, data), nil
}

// ResultHash is the content address of a result. Replays compare hashes to
// prove byte-identical output.
func ResultHash(r *shower.Result) (string, error) {
	data, err := Marshal(ResultObject(r))
	if err != nil {
		return "", fmt.Errorf("result hash: %w", err)
	}
	return hashWithDomain(DomainResult, data), nil
}
