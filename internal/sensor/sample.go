package sensor

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrUnavailable means the platform has no sensor of the requested kind.
	ErrUnavailable = errors.New("sensor unavailable")
	// ErrRegistrationFailed means the platform rejected the subscription.
	ErrRegistrationFailed = errors.New("sensor registration failed")
	// ErrMalformedSample means a sample does not match its kind's shape.
	ErrMalformedSample = errors.New("malformed sample")
)

// Sample is one reading delivered by an active subscription. Proximity and
// Light carry a scalar, MagneticField a 3-axis vector in µT, and Tilt a
// rotation vector of which only the first component is used.
type Sample struct {
	Kind   Kind
	Values []float64
	At     time.Time
}

// Scalar builds a single-value sample.
func Scalar(kind Kind, v float64) Sample {
	return Sample{Kind: kind, Values: []float64{v}, At: time.Now()}
}

// Vector builds a 3-axis sample.
func Vector(kind Kind, x, y, z float64) Sample {
	return Sample{Kind: kind, Values: []float64{x, y, z}, At: time.Now()}
}

// minValues is the number of components each kind needs.
var minValues = map[Kind]int{
	Proximity:     1,
	MagneticField: 3,
	Light:         1,
	Tilt:          1,
}

// Validate checks the sample against its kind's declared shape.
func (s Sample) Validate() error {
	need, ok := minValues[s.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown kind %d", ErrMalformedSample, s.Kind)
	}
	if len(s.Values) < need {
		return fmt.Errorf("%w: %s needs %d values, got %d", ErrMalformedSample, s.Kind, need, len(s.Values))
	}
	for i, v := range s.Values[:need] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s value %d is not finite", ErrMalformedSample, s.Kind, i)
		}
	}
	return nil
}
