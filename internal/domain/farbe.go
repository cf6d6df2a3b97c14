package domain

import "strings"

// Farbe is the trump suit (or play mode) announced for a round.
type Farbe string

const (
	FarbeSchaelle     Farbe = "Schälle"
	FarbeSchilte      Farbe = "Schilte"
	FarbeRose         Farbe = "Rose"
	FarbeEichle       Farbe = "Eichle"
	FarbeObenabe      Farbe = "Obenabe"
	FarbeUndenufe     Farbe = "Undenufe"
	FarbeQuaer        Farbe = "Quär"
	FarbeSlalom       Farbe = "Slalom"
	FarbeGuschti      Farbe = "Guschti"
	FarbeMisere       Farbe = "Misère"
	FarbeMisereMisere Farbe = "Misère-Misère"
)

// Farben lists every suit in the order they appear on the Jasstafel.
var Farben = []Farbe{
	FarbeSchaelle,
	FarbeSchilte,
	FarbeRose,
	FarbeEichle,
	FarbeObenabe,
	FarbeUndenufe,
	FarbeQuaer,
	FarbeSlalom,
	FarbeGuschti,
	FarbeMisere,
	FarbeMisereMisere,
}

func (f Farbe) IsValid() bool {
	for _, known := range Farben {
		if f == known {
			return true
		}
	}

	return false
}

// ParseFarbe resolves name case-insensitively, so keys lowercased by the
// config loader still match.
func ParseFarbe(name string) (Farbe, bool) {
	for _, known := range Farben {
		if strings.EqualFold(string(known), name) {
			return known, true
		}
	}

	return "", false
}

// FarbeNames returns the suits as plain strings, e.g. for validation.In.
func FarbeNames() []interface{} {
	names := make([]interface{}, len(Farben))
	for i, f := range Farben {
		names[i] = string(f)
	}

	return names
}

const DefaultMultiplier = 1.0

// MultiplierTable maps a trump suit to the factor its round score is
// multiplied with.
type MultiplierTable map[Farbe]float64

func DefaultMultipliers() MultiplierTable {
	return MultiplierTable{
		FarbeSchaelle:     2,
		FarbeSchilte:      3,
		FarbeRose:         4,
		FarbeEichle:       7,
		FarbeObenabe:      5,
		FarbeUndenufe:     6,
		FarbeQuaer:        7,
		FarbeSlalom:       7,
		FarbeGuschti:      4,
		FarbeMisere:       1,
		FarbeMisereMisere: 1,
	}
}

// Lookup returns the multiplier for f. Suits without a positive configured
// multiplier score with DefaultMultiplier.
func (t MultiplierTable) Lookup(f Farbe) float64 {
	if m, ok := t[f]; ok && m > 0 {
		return m
	}

	return DefaultMultiplier
}

// WithOverrides returns a copy of t where every positive entry of overrides
// replaces the table value. Unknown suits in overrides are ignored.
func (t MultiplierTable) WithOverrides(overrides map[string]float64) MultiplierTable {
	merged := make(MultiplierTable, len(t))
	for f, m := range t {
		merged[f] = m
	}

	for name, m := range overrides {
		f, ok := ParseFarbe(name)
		if !ok || m <= 0 {
			continue
		}
		merged[f] = m
	}

	return merged
}
