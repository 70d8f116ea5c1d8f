// Package kafkabus receives sensor samples from a remote gateway that
// publishes one Kafka topic per sensor kind (<prefix>.<kind>).
package kafkabus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/luki/sensores/internal/sensor"
)

// Config describes the gateway.
type Config struct {
	Brokers     []string
	TopicPrefix string
	Group       string
	Kinds       []sensor.Kind // kinds the gateway advertises
}

// messageReader is the subset of *kafka.Reader the port uses.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Port implements sensor.Port over Kafka topics.
type Port struct {
	cfg       Config
	log       *slog.Logger
	newReader func(topic string) messageReader

	mu   sync.Mutex
	subs map[sensor.Handle]context.CancelFunc
}

// New creates a gateway port. No connection is made until Subscribe.
func New(cfg Config, log *slog.Logger) *Port {
	if log == nil {
		log = slog.Default()
	}
	p := &Port{
		cfg:  cfg,
		log:  log.With(slog.String("component", "kafka-bus")),
		subs: make(map[sensor.Handle]context.CancelFunc),
	}
	p.newReader = p.reader
	return p
}

func (p *Port) reader(topic string) messageReader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     p.cfg.Brokers,
		GroupID:     p.cfg.Group,
		Topic:       topic,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
}

// Topic returns the topic carrying samples of kind.
func (p *Port) Topic(kind sensor.Kind) string {
	prefix := p.cfg.TopicPrefix
	if prefix == "" {
		prefix = "sensors"
	}
	return prefix + "." + kind.String()
}

// Available lists the advertised kinds.
func (p *Port) Available() []sensor.Descriptor {
	out := make([]sensor.Descriptor, 0, len(p.cfg.Kinds))
	for _, k := range p.cfg.Kinds {
		out = append(out, sensor.Descriptor{Kind: k, Device: "kafka-" + p.Topic(k), Vendor: "Remote gateway"})
	}
	return out
}

// Subscribe starts a reader on the kind's topic.
func (p *Port) Subscribe(kind sensor.Kind, sink sensor.Sink) (sensor.Handle, error) {
	if !p.advertises(kind) {
		return "", fmt.Errorf("kafka %s: %w", kind, sensor.ErrUnavailable)
	}
	if len(p.cfg.Brokers) == 0 {
		return "", fmt.Errorf("kafka %s: %w: no brokers configured", kind, sensor.ErrRegistrationFailed)
	}

	h := sensor.Handle(uuid.NewString())
	ctx, cancel := context.WithCancel(context.Background())
	r := p.newReader(p.Topic(kind))

	p.mu.Lock()
	p.subs[h] = cancel
	p.mu.Unlock()

	go p.consume(ctx, h, kind, r, sink)
	p.log.Info("consumer started", "kind", kind.String(), "topic", p.Topic(kind))
	return h, nil
}

// Unsubscribe cancels the reader; it closes itself in its goroutine.
func (p *Port) Unsubscribe(h sensor.Handle) {
	p.mu.Lock()
	cancel, ok := p.subs[h]
	delete(p.subs, h)
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Close cancels every reader.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for h, cancel := range p.subs {
		cancel()
		delete(p.subs, h)
	}
	return nil
}

func (p *Port) advertises(kind sensor.Kind) bool {
	for _, k := range p.cfg.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Port) consume(ctx context.Context, h sensor.Handle, kind sensor.Kind, r messageReader, sink sensor.Sink) {
	defer func() {
		if err := r.Close(); err != nil {
			p.log.Warn("reader close", "error", err)
		}
	}()

	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			p.log.Warn("read message", "kind", kind.String(), "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		s, err := DecodeSample(msg.Value, kind)
		if err != nil {
			p.log.Warn("decode sample", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}
		sink.Deliver(h, s)
	}
}

// wireSample is the JSON payload published by the gateway.
type wireSample struct {
	Kind   sensor.Kind `json:"kind"`
	Values []float64   `json:"values"`
	TS     int64       `json:"ts"` // unix milliseconds
}

// DecodeSample parses a gateway payload. A missing kind defaults to the
// topic's kind; a missing timestamp to now.
func DecodeSample(data []byte, topicKind sensor.Kind) (sensor.Sample, error) {
	var w wireSample
	if err := json.Unmarshal(data, &w); err != nil {
		return sensor.Sample{}, fmt.Errorf("decode sample: %w", err)
	}
	if w.Kind == sensor.KindUnknown {
		w.Kind = topicKind
	}
	at := time.Now()
	if w.TS > 0 {
		at = time.UnixMilli(w.TS)
	}
	return sensor.Sample{Kind: w.Kind, Values: w.Values, At: at}, nil
}
