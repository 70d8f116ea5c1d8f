// Package sensor defines the sensors the engine understands, the samples
// they deliver, the catalog built from the platform registry, and the
// subscription port platforms implement.
package sensor

import (
	"fmt"
	"strings"
)

// Kind identifies one of the sensor types the engine can classify.
type Kind uint8

const (
	KindUnknown Kind = iota
	Proximity
	MagneticField
	Light
	Tilt
)

// Kinds lists the known kinds in catalog order.
var Kinds = []Kind{Proximity, MagneticField, Light, Tilt}

var kindNames = map[Kind]struct {
	slug    string
	display string
}{
	Proximity:     {"proximity", "Sensor de proximidad"},
	MagneticField: {"magnetic", "Sensor magnético"},
	Light:         {"light", "Sensor de luz"},
	Tilt:          {"tilt", "Sensor de inclinación"},
}

var kindAliases = map[string]Kind{
	"proximity":      Proximity,
	"prox":           Proximity,
	"magnetic":       MagneticField,
	"magnetic_field": MagneticField,
	"magn":           MagneticField,
	"light":          Light,
	"illuminance":    Light,
	"tilt":           Tilt,
	"rotation":       Tilt,
	"game_rotation":  Tilt,
}

// String returns the stable slug used in config, topics and the API.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n.slug
	}
	return "unknown"
}

// DisplayName returns the user-facing name used in notices.
func (k Kind) DisplayName() string {
	if n, ok := kindNames[k]; ok {
		return n.display
	}
	return "Sensor desconocido"
}

// Known reports whether k is one of the classifiable kinds.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a slug or alias to a Kind.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("unknown sensor kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
