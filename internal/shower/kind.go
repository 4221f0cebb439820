package shower

import (
	"fmt"
	"strings"
)

// Kind identifies the species of a shower entity.
type Kind int

const (
	KindUnspecified Kind = iota
	KindElectron
	KindPositron
	KindPhoton
)

// String returns the canonical lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindElectron:
		return "electron"
	case KindPositron:
		return "positron"
	case KindPhoton:
		return "photon"
	default:
		return "unspecified"
	}
}

// Charged reports whether the kind is an electron or a positron.
func (k Kind) Charged() bool {
	return k == KindElectron || k == KindPositron
}

// kindAliases maps accepted names to kinds. Italian names are accepted too.
var kindAliases = map[string]Kind{
	"electron":  KindElectron,
	"e-":        KindElectron,
	"elettrone": KindElectron,
	"positron":  KindPositron,
	"e+":        KindPositron,
	"positrone": KindPositron,
	"photon":    KindPhoton,
	"gamma":     KindPhoton,
	"fotone":    KindPhoton,
}

// ParseKind resolves a kind name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return KindUnspecified, &ParamError{
			Code:    ErrCodeInvalidParameter,
			Field:   "initial_kind",
			Message: fmt.Sprintf("unknown particle kind %q: must be electron, positron or photon", s),
		}
	}
	return k, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindElectron && k != KindPositron && k != KindPhoton {
		return nil, fmt.Errorf("cannot marshal kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
