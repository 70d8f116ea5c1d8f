// Package platform opens the configured sensor backend.
package platform

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/luki/sensores/internal/config"
	"github.com/luki/sensores/internal/platform/iio"
	"github.com/luki/sensores/internal/platform/kafkabus"
	"github.com/luki/sensores/internal/platform/sim"
	"github.com/luki/sensores/internal/sensor"
)

// Backend is a sensor port that owns background resources.
type Backend interface {
	sensor.Port
	io.Closer
}

// Open creates the backend named by cfg.Backend.
func Open(cfg config.PlatformConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "sim":
		scn := sim.DefaultScenario()
		if cfg.Sim.Scenario != "" {
			var err error
			scn, err = sim.LoadScenario(cfg.Sim.Scenario)
			if err != nil {
				return nil, fmt.Errorf("open sim platform: %w", err)
			}
		}
		return sim.New(scn, log), nil

	case "iio":
		return iio.New(cfg.IIO.Root, cfg.IIO.PollInterval, log), nil

	case "kafka":
		kinds := make([]sensor.Kind, 0, len(cfg.Kafka.Kinds))
		for _, s := range cfg.Kafka.Kinds {
			k, err := sensor.ParseKind(s)
			if err != nil {
				return nil, fmt.Errorf("open kafka platform: %w", err)
			}
			kinds = append(kinds, k)
		}
		return kafkabus.New(kafkabus.Config{
			Brokers:     cfg.Kafka.Brokers,
			TopicPrefix: cfg.Kafka.TopicPrefix,
			Group:       cfg.Kafka.Group,
			Kinds:       kinds,
		}, log), nil
	}
	return nil, fmt.Errorf("unknown platform backend %q", cfg.Backend)
}
