package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/luki/sensores/internal/sensor"
)

// Scenario is the top-level structure of a simulation file:
//
//	sensors:
//	  - kind: light
//	    device: sim-als
//	    rate_hz: 5
//	    axes:
//	      - {base: 20, amplitude: 15, period: 8s, noise: 0.5}
type Scenario struct {
	Sensors []SensorSpec `yaml:"sensors"`
}

// SensorSpec describes one simulated device.
type SensorSpec struct {
	Kind             sensor.Kind `yaml:"kind"`
	Device           string      `yaml:"device"`
	Available        *bool       `yaml:"available"` // default true
	FailRegistration bool        `yaml:"fail_registration"`
	RateHz           float64     `yaml:"rate_hz"`
	Axes             []Waveform  `yaml:"axes"`
	Trace            string      `yaml:"trace"` // CSV replayed instead of axes
}

// Waveform is base + amplitude*sin(2πt/period) + uniform noise in ±noise.
type Waveform struct {
	Base      float64       `yaml:"base"`
	Amplitude float64       `yaml:"amplitude"`
	Period    time.Duration `yaml:"period"`
	Noise     float64       `yaml:"noise"`
}

// IsAvailable reports whether the device is present in the registry.
func (s SensorSpec) IsAvailable() bool {
	return s.Available == nil || *s.Available
}

func (s SensorSpec) interval() time.Duration {
	if s.RateHz <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(float64(time.Second) / s.RateHz)
}

// LoadScenario reads and parses a scenario file. Relative trace paths are
// resolved against the scenario's directory.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	var scn Scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	for i, s := range scn.Sensors {
		if !s.Kind.Known() {
			return Scenario{}, fmt.Errorf("parse scenario: sensor %d has no kind", i)
		}
		if s.Trace != "" && !filepath.IsAbs(s.Trace) {
			scn.Sensors[i].Trace = filepath.Join(filepath.Dir(path), s.Trace)
		}
		if s.Device == "" {
			scn.Sensors[i].Device = "sim-" + s.Kind.String()
		}
	}
	return scn, nil
}

// DefaultScenario simulates all four sensors with waveforms that cross
// their thresholds every few seconds.
func DefaultScenario() Scenario {
	return Scenario{Sensors: []SensorSpec{
		{
			Kind: sensor.Proximity, Device: "sim-proximity", RateHz: 4,
			Axes: []Waveform{{Base: 2.5, Amplitude: 2.5, Period: 6 * time.Second}},
		},
		{
			Kind: sensor.MagneticField, Device: "sim-magnetometer", RateHz: 5,
			Axes: []Waveform{
				{Base: 25, Amplitude: 20, Period: 9 * time.Second, Noise: 0.5},
				{Base: -10, Amplitude: 15, Period: 7 * time.Second, Noise: 0.5},
				{Base: 40, Amplitude: 25, Period: 11 * time.Second, Noise: 0.5},
			},
		},
		{
			Kind: sensor.Light, Device: "sim-als", RateHz: 5,
			Axes: []Waveform{{Base: 15, Amplitude: 14, Period: 8 * time.Second, Noise: 0.3}},
		},
		{
			Kind: sensor.Tilt, Device: "sim-game-rotation", RateHz: 10,
			Axes: []Waveform{
				{Amplitude: 0.9, Period: 5 * time.Second, Noise: 0.01},
				{Amplitude: 0.2, Period: 7 * time.Second},
				{Amplitude: 0.2, Period: 3 * time.Second},
			},
		},
	}}
}
