// Package iio reads sensors exposed by the Linux Industrial I/O subsystem
// under /sys/bus/iio/devices. Subscriptions poll sysfs on a fixed interval.
package iio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luki/sensores/internal/sensor"
)

// Port implements sensor.Port over IIO sysfs.
type Port struct {
	root     string
	interval time.Duration
	chans    []channel
	log      *slog.Logger

	mu   sync.Mutex
	subs map[sensor.Handle]context.CancelFunc
}

// New scans root once for devices. An empty or missing root yields a port
// with no sensors.
func New(root string, interval time.Duration, log *slog.Logger) *Port {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	p := &Port{
		root:     root,
		interval: interval,
		chans:    discover(root),
		log:      log.With(slog.String("component", "iio")),
		subs:     make(map[sensor.Handle]context.CancelFunc),
	}
	p.log.Info("discovered iio channels", "root", root, "count", len(p.chans))
	return p
}

// Available lists one descriptor per discovered channel.
func (p *Port) Available() []sensor.Descriptor {
	out := make([]sensor.Descriptor, 0, len(p.chans))
	for _, c := range p.chans {
		out = append(out, sensor.Descriptor{Kind: c.kind, Device: c.device})
	}
	return out
}

// Subscribe starts polling the first channel of kind. A channel that cannot
// be read once up front is reported as a registration failure.
func (p *Port) Subscribe(kind sensor.Kind, sink sensor.Sink) (sensor.Handle, error) {
	c, ok := p.find(kind)
	if !ok {
		return "", fmt.Errorf("iio %s: %w", kind, sensor.ErrUnavailable)
	}
	if _, err := c.read(); err != nil {
		return "", fmt.Errorf("iio %s: %w: %w", kind, sensor.ErrRegistrationFailed, err)
	}

	h := sensor.Handle(uuid.NewString())
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.subs[h] = cancel
	p.mu.Unlock()

	go p.poll(ctx, h, c, sink)
	p.log.Info("polling started", "kind", kind.String(), "device", c.device, "interval", p.interval)
	return h, nil
}

// Unsubscribe stops polling without waiting for an in-flight read.
func (p *Port) Unsubscribe(h sensor.Handle) {
	p.mu.Lock()
	cancel, ok := p.subs[h]
	delete(p.subs, h)
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Close stops every poller.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for h, cancel := range p.subs {
		cancel()
		delete(p.subs, h)
	}
	return nil
}

func (p *Port) find(kind sensor.Kind) (channel, bool) {
	for _, c := range p.chans {
		if c.kind == kind {
			return c, true
		}
	}
	return channel{}, false
}

func (p *Port) poll(ctx context.Context, h sensor.Handle, c channel, sink sensor.Sink) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var failing bool
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			values, err := c.read()
			if err != nil {
				if !failing {
					p.log.Warn("read failed", "device", c.device, "error", err)
					failing = true
				}
				continue
			}
			failing = false
			sink.Deliver(h, sensor.Sample{Kind: c.kind, Values: values, At: now})
		}
	}
}
