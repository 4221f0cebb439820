package shower

import "math"

// Entity is a live member of a shower generation. The set of variants is
// closed: Charged and Photon.
type Entity interface {
	Species() Kind
	Energy() float64
	isEntity()
}

// Charged is an electron or a positron.
type Charged struct {
	Kind Kind
	E    float64
}

// Photon is a gamma.
type Photon struct {
	E float64
}

func (c Charged) Species() Kind { return c.Kind }
func (c Charged) Energy() float64 { return c.E }
func (Charged) isEntity() {}

func (Photon) Species() Kind { return KindPhoton }
func (p Photon) Energy() float64 { return p.E }
func (Photon) isEntity() {}

// Step advances a charged particle by one generation.
//
// A particle with less energy than the per-step ionization loss is excluded:
// it deposits U(0, E) and is not carried into next. Otherwise it deposits
// loss, and above its critical energy it radiates with probability
// 1 - exp(-s), handing half of its energy to a new photon. The photon is
// appended before the particle itself.
//
// Step returns the updated deposit and next.
func (c Charged) Step(src Source, loss, critical, s, deposit float64, next []Entity) (float64, []Entity) {
	if c.E < loss {
		return deposit + uniform(src, c.E), next
	}

	c.E -= loss
	deposit += loss

	if c.E > critical && src.Float64() > math.Exp(-s) {
		next = append(next, Photon{E: c.E / 2})
		c.E /= 2
	}
	return deposit, append(next, c)
}

// Step advances a photon by one generation.
//
// At or below PairThreshold the photon is excluded and deposits U(0, E).
// Above it, the photon converts with probability 1 - exp(-7s/9) into an
// electron and a positron carrying E/2 each (in that order); otherwise it is
// carried into next unchanged.
func (p Photon) Step(src Source, s, deposit float64, next []Entity) (float64, []Entity) {
	if p.E <= PairThreshold {
		return deposit + uniform(src, p.E), next
	}

	if src.Float64() > math.Exp(-(7*s)/9) {
		half := p.E / 2
		return deposit, append(next,
			Charged{Kind: KindElectron, E: half},
			Charged{Kind: KindPositron, E: half},
		)
	}
	return deposit, append(next, p)
}

// Primary builds the generation-0 entity for p.
func Primary(p Params) Entity {
	if p.Initial == KindPhoton {
		return Photon{E: p.E0}
	}
	return Charged{Kind: p.Initial, E: p.E0}
}
