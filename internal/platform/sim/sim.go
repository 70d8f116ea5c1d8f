// Package sim is a simulated sensor platform. Each subscription runs a
// ticker goroutine that synthesizes samples from a waveform or replays a
// recorded trace.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/luki/sensores/internal/sensor"
)

// Port implements sensor.Port over a Scenario.
type Port struct {
	scn Scenario
	log *slog.Logger

	mu   sync.Mutex
	subs map[sensor.Handle]context.CancelFunc

	produced uint64
}

// New creates a simulated platform.
func New(scn Scenario, log *slog.Logger) *Port {
	if log == nil {
		log = slog.Default()
	}
	return &Port{
		scn:  scn,
		log:  log.With(slog.String("component", "sim")),
		subs: make(map[sensor.Handle]context.CancelFunc),
	}
}

// Available lists the scenario's available devices.
func (p *Port) Available() []sensor.Descriptor {
	var out []sensor.Descriptor
	for _, s := range p.scn.Sensors {
		if !s.IsAvailable() {
			continue
		}
		out = append(out, sensor.Descriptor{Kind: s.Kind, Device: s.Device, Vendor: "Simulated"})
	}
	return out
}

// Subscribe starts a generator goroutine for the first available device of kind.
func (p *Port) Subscribe(kind sensor.Kind, sink sensor.Sink) (sensor.Handle, error) {
	spec, ok := p.find(kind)
	if !ok {
		return "", fmt.Errorf("sim %s: %w", kind, sensor.ErrUnavailable)
	}
	if spec.FailRegistration {
		return "", fmt.Errorf("sim %s: %w", kind, sensor.ErrRegistrationFailed)
	}

	var trace []sensor.Sample
	if spec.Trace != "" {
		var err error
		trace, err = LoadTrace(spec.Trace, kind)
		if err != nil {
			return "", fmt.Errorf("sim %s: %w: %w", kind, sensor.ErrRegistrationFailed, err)
		}
		if len(trace) == 0 {
			return "", fmt.Errorf("sim %s: %w: empty trace %s", kind, sensor.ErrRegistrationFailed, spec.Trace)
		}
	}

	h := sensor.Handle(uuid.NewString())
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.subs[h] = cancel
	p.mu.Unlock()

	go p.run(ctx, h, spec, trace, sink)
	p.log.Info("generator started", "kind", kind.String(), "device", spec.Device, "interval", spec.interval())
	return h, nil
}

// Unsubscribe stops the generator without waiting for it to exit.
func (p *Port) Unsubscribe(h sensor.Handle) {
	p.mu.Lock()
	cancel, ok := p.subs[h]
	delete(p.subs, h)
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Live returns the number of running generators.
func (p *Port) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Produced returns the number of samples generated so far.
func (p *Port) Produced() uint64 {
	return atomic.LoadUint64(&p.produced)
}

// Close stops every generator.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for h, cancel := range p.subs {
		cancel()
		delete(p.subs, h)
	}
	return nil
}

func (p *Port) find(kind sensor.Kind) (SensorSpec, bool) {
	for _, s := range p.scn.Sensors {
		if s.Kind == kind && s.IsAvailable() {
			return s, true
		}
	}
	return SensorSpec{}, false
}

func (p *Port) run(ctx context.Context, h sensor.Handle, spec SensorSpec, trace []sensor.Sample, sink sensor.Sink) {
	ticker := time.NewTicker(spec.interval())
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()
	var step int

	for {
		select {
		case <-ctx.Done():
			p.log.Debug("generator stopped", "kind", spec.Kind.String(), "samples", step)
			return
		case now := <-ticker.C:
			var s sensor.Sample
			if len(trace) > 0 {
				s = trace[step%len(trace)]
				s.At = now
			} else {
				s = synthesize(spec, now.Sub(start), rng)
				s.At = now
			}
			step++
			atomic.AddUint64(&p.produced, 1)
			sink.Deliver(h, s)
		}
	}
}

// synthesize evaluates each axis waveform at elapsed time t. Magnetic
// samples always carry three axes.
func synthesize(spec SensorSpec, t time.Duration, rng *rand.Rand) sensor.Sample {
	n := len(spec.Axes)
	if spec.Kind == sensor.MagneticField && n < 3 {
		n = 3
	}
	if n == 0 {
		n = 1
	}
	values := make([]float64, n)
	for i := range spec.Axes {
		values[i] = spec.Axes[i].at(t, rng)
	}
	return sensor.Sample{Kind: spec.Kind, Values: values}
}

func (w Waveform) at(t time.Duration, rng *rand.Rand) float64 {
	v := w.Base
	if w.Period > 0 {
		v += w.Amplitude * math.Sin(2*math.Pi*t.Seconds()/w.Period.Seconds())
	}
	if w.Noise > 0 && rng != nil {
		v += (rng.Float64()*2 - 1) * w.Noise
	}
	return v
}
