// Package material describes bulk absorbers and loads material catalogs
// written in CUE.
package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/emshower/internal/shower"
)

// ErrUnknownMaterial is returned by Lookup when no material has the
// requested name.
var ErrUnknownMaterial = errors.New("unknown material")

// Material holds the absorber constants a shower run needs. Energies are in
// MeV, lengths in cm.
type Material struct {
	Name             string  `json:"name"`
	CriticalElectron float64 `json:"critical_electron"`
	CriticalPositron float64 `json:"critical_positron"`
	LossPerX0        float64 `json:"loss_per_x0"`
	RadiationLength  float64 `json:"radiation_length"`

	// Color is a display hint for external plotting tools.
	Color string `json:"color,omitempty"`
}

// Built-in materials.
var (
	NaI = Material{
		Name:             "NaI",
		CriticalElectron: 13.37,
		CriticalPositron: 12.94,
		LossPerX0:        4.785,
		RadiationLength:  2.588,
		Color:            "purple",
	}
	StandardRock = Material{
		Name:             "Standard rock",
		CriticalElectron: 49.13,
		CriticalPositron: 47.74,
		LossPerX0:        4.472,
		RadiationLength:  10.02,
		Color:            "green",
	}
)

// Params builds shower parameters for a primary of energy e0 (MeV) and kind
// k advancing s radiation lengths per generation.
func (m Material) Params(e0, s float64, k shower.Kind) shower.Params {
	return shower.Params{
		E0:               e0,
		CriticalElectron: m.CriticalElectron,
		CriticalPositron: m.CriticalPositron,
		LossPerX0:        m.LossPerX0,
		RadiationLength:  m.RadiationLength,
		StepFraction:     s,
		Initial:          k,
	}
}

// Catalog is an ordered set of materials with unique names.
type Catalog struct {
	materials []Material
}

// Builtin returns a catalog holding NaI and Standard rock.
func Builtin() *Catalog {
	return &Catalog{materials: []Material{NaI, StandardRock}}
}

// Materials returns the catalog entries in order.
func (c *Catalog) Materials() []Material {
	out := make([]Material, len(c.materials))
	copy(out, c.materials)
	return out
}

// Len returns the number of materials.
func (c *Catalog) Len() int {
	return len(c.materials)
}

// Add inserts m, replacing any entry with the same name in place.
func (c *Catalog) Add(m Material) {
	for i := range c.materials {
		if c.materials[i].Name == m.Name {
			c.materials[i] = m
			return
		}
	}
	c.materials = append(c.materials, m)
}

// Merge returns a new catalog with the entries of c followed by those of
// other. Entries of other win on name collisions.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := &Catalog{materials: c.Materials()}
	if other != nil {
		for _, m := range other.materials {
			merged.Add(m)
		}
	}
	return merged
}

// Lookup finds a material by name. An exact match wins over a
// case-insensitive one.
func (c *Catalog) Lookup(name string) (Material, error) {
	for _, m := range c.materials {
		if m.Name == name {
			return m, nil
		}
	}
	for _, m := range c.materials {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}

// LookupAll resolves names in order.
func (c *Catalog) LookupAll(names []string) ([]Material, error) {
	out := make([]Material, 0, len(names))
	for _, name := range names {
		m, err := c.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
