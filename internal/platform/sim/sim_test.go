package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luki/sensores/internal/sensor"
)

type chanSink chan sensor.Sample

func (c chanSink) Deliver(_ sensor.Handle, s sensor.Sample) {
	select {
	case c <- s:
	default:
	}
}

func TestDefaultScenarioCoversAllKinds(t *testing.T) {
	p := New(DefaultScenario(), nil)
	seen := map[sensor.Kind]bool{}
	for _, d := range p.Available() {
		seen[d.Kind] = true
	}
	for _, k := range sensor.Kinds {
		require.True(t, seen[k], "missing %v", k)
	}
}

func TestSubscribeDeliversAndUnsubscribeStops(t *testing.T) {
	scn := Scenario{Sensors: []SensorSpec{{
		Kind: sensor.MagneticField, Device: "sim-mag", RateHz: 200,
		Axes: []Waveform{{Base: 30}, {Base: 40}},
	}}}
	p := New(scn, nil)
	t.Cleanup(func() { _ = p.Close() })

	sink := make(chanSink, 8)
	h, err := p.Subscribe(sensor.MagneticField, sink)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.Equal(t, 1, p.Live())

	select {
	case s := <-sink:
		require.Equal(t, sensor.MagneticField, s.Kind)
		require.Equal(t, []float64{30, 40, 0}, s.Values)
		require.NoError(t, s.Validate())
	case <-time.After(2 * time.Second):
		t.Fatal("no sample delivered")
	}

	p.Unsubscribe(h)
	require.Equal(t, 0, p.Live())
	p.Unsubscribe(h)
}

func TestSubscribeFailures(t *testing.T) {
	off := false
	scn := Scenario{Sensors: []SensorSpec{
		{Kind: sensor.Light, Available: &off},
		{Kind: sensor.Tilt, FailRegistration: true},
	}}
	p := New(scn, nil)

	require.Len(t, p.Available(), 1)

	_, err := p.Subscribe(sensor.Light, make(chanSink))
	require.True(t, errors.Is(err, sensor.ErrUnavailable))

	_, err = p.Subscribe(sensor.Tilt, make(chanSink))
	require.True(t, errors.Is(err, sensor.ErrRegistrationFailed))

	_, err = p.Subscribe(sensor.Proximity, make(chanSink))
	require.True(t, errors.Is(err, sensor.ErrUnavailable))
}

func TestLoadScenarioAndTraceReplay(t *testing.T) {
	dir := t.TempDir()
	trace := "kind,v0,v1,v2\nproximity,0.5\nlight,12\nproximity,3,,\nproximity,bad\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trace.csv"), []byte(trace), 0o644))

	yml := `
sensors:
  - kind: proximity
    rate_hz: 100
    trace: trace.csv
  - kind: light
    available: false
  - kind: tilt
    device: rot0
    axes:
      - {base: 0.1, amplitude: 0.5, period: 4s, noise: 0}
`
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	scn, err := LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, scn.Sensors, 3)
	require.Equal(t, "sim-proximity", scn.Sensors[0].Device)
	require.Equal(t, filepath.Join(dir, "trace.csv"), scn.Sensors[0].Trace)
	require.False(t, scn.Sensors[1].IsAvailable())
	require.Equal(t, 4*time.Second, scn.Sensors[2].Axes[0].Period)

	samples, err := LoadTrace(scn.Sensors[0].Trace, sensor.Proximity)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, []float64{3}, samples[1].Values)

	p := New(scn, nil)
	t.Cleanup(func() { _ = p.Close() })
	sink := make(chanSink, 4)
	_, err = p.Subscribe(sensor.Proximity, sink)
	require.NoError(t, err)

	select {
	case s := <-sink:
		require.Equal(t, []float64{0.5}, s.Values)
	case <-time.After(2 * time.Second):
		t.Fatal("no trace sample delivered")
	}
}

func TestLoadScenarioRejectsMissingKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensors:\n  - device: x\n"), 0o644))
	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestWaveform(t *testing.T) {
	w := Waveform{Base: 10, Amplitude: 5, Period: 4 * time.Second}
	require.InDelta(t, 10, w.at(0, nil), 1e-9)
	require.InDelta(t, 15, w.at(time.Second, nil), 1e-9)
	require.InDelta(t, 5, w.at(3*time.Second, nil), 1e-9)
}
