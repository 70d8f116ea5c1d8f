// Package classify turns raw sensor samples into the small discrete display
// state the presenters render. Every function here is pure.
package classify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/luki/sensores/internal/sensor"
)

// Emphasis selects how prominently the label is shown.
type Emphasis uint8

const (
	EmphasisNormal Emphasis = iota
	EmphasisAlert
)

func (e Emphasis) String() string {
	if e == EmphasisAlert {
		return "alert"
	}
	return "normal"
}

// Image selects which of the two images is shown.
type Image uint8

const (
	ImageOne Image = iota + 1
	ImageTwo
)

func (i Image) String() string {
	switch i {
	case ImageOne:
		return "one"
	case ImageTwo:
		return "two"
	}
	return "none"
}

// Background is an optional label background colour.
type Background uint8

const (
	BackgroundNone Background = iota
	BackgroundNormal
	BackgroundAlert
)

func (b Background) String() string {
	switch b {
	case BackgroundNormal:
		return "gray"
	case BackgroundAlert:
		return "red"
	}
	return ""
}

// DisplayState is the renderable summary of one classified sample.
type DisplayState struct {
	Kind       sensor.Kind
	Label      string
	Value      float64 // derived value the rule compared
	Threshold  float64
	Emphasis   Emphasis
	Image      Image
	Background Background
}

type rule struct {
	threshold float64
	derive    func(values []float64) float64
	state     func(v, threshold float64) DisplayState
}

var rules = map[sensor.Kind]rule{
	sensor.Proximity: {
		threshold: 1.0,
		derive:    first,
		state: func(d, th float64) DisplayState {
			if d < th {
				return DisplayState{Label: "CERCA: " + formatValue(d), Emphasis: EmphasisAlert, Image: ImageOne}
			}
			return DisplayState{Label: "LEJOS: " + formatValue(d), Image: ImageTwo}
		},
	},
	sensor.MagneticField: {
		threshold: 60,
		derive:    magnitude,
		state: func(m, th float64) DisplayState {
			if m > th {
				return DisplayState{
					Label:      fmt.Sprintf("Campo magnético FUERTE: %s µT", formatValue(m)),
					Image:      ImageOne,
					Background: BackgroundAlert,
				}
			}
			return DisplayState{
				Label:      fmt.Sprintf("Campo magnético normal: %s µT", formatValue(m)),
				Image:      ImageTwo,
				Background: BackgroundNormal,
			}
		},
	},
	sensor.Light: {
		threshold: 10,
		derive:    first,
		state: func(v, th float64) DisplayState {
			s := DisplayState{Label: "Intensidad de luz: " + formatValue(v), Image: ImageTwo}
			if v < th {
				s.Image = ImageOne
			}
			return s
		},
	},
	sensor.Tilt: {
		threshold: 0.5,
		derive:    first,
		state: func(x, th float64) DisplayState {
			s := DisplayState{Label: "Inclinación detectada: " + formatValue(x), Image: ImageTwo}
			if x > th {
				s.Image = ImageOne
			}
			return s
		},
	},
}

// Classify maps a sample of the given kind to its display state. The sample
// must already satisfy sample.Validate. Classify panics for kinds without a
// rule.
func Classify(kind sensor.Kind, sample sensor.Sample) DisplayState {
	r, ok := rules[kind]
	if !ok {
		panic(fmt.Sprintf("classify: no rule for sensor kind %v", kind))
	}
	v := r.derive(sample.Values)
	s := r.state(v, r.threshold)
	s.Kind = kind
	s.Value = v
	s.Threshold = r.threshold
	return s
}

// Threshold returns the decision threshold for kind.
func Threshold(kind sensor.Kind) (float64, bool) {
	r, ok := rules[kind]
	return r.threshold, ok
}

func first(values []float64) float64 {
	return values[0]
}

// magnitude is the Euclidean norm of the first three components.
func magnitude(values []float64) float64 {
	x, y, z := values[0], values[1], values[2]
	return math.Sqrt(x*x + y*y + z*z)
}

// formatValue prints the shortest round-trip decimal, keeping a trailing
// ".0" on integral values ("5.0", "0.99").
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
