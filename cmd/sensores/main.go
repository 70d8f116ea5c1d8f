// sensores lets the user pick one device sensor at a time and shows its
// readings interpreted against fixed thresholds. It runs as a terminal UI
// or headless behind an HTTP control API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/luki/sensores/internal/config"
	"github.com/luki/sensores/internal/platform"
	"github.com/luki/sensores/internal/sensor"
)

var version = "dev"

type globalFlags struct {
	config   string
	platform string
}

func main() {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "sensores",
		Short: "Pick a sensor and watch its readings interpreted live",
		Long: `sensores lists the sensors the platform offers, keeps at most one of
them subscribed, and turns each sample into a labelled display state.

Without a subcommand it starts the terminal UI. Losing terminal focus or
pressing p pauses the active sensor until the terminal is back.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default ~/.config/sensores/config.*)")
	cmd.PersistentFlags().StringVar(&flags.platform, "platform", "", "sensor backend: sim, iio or kafka")

	cmd.AddCommand(serveCmd(&flags), listCmd(&flags))

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func loadConfig(flags globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return config.Config{}, err
	}
	if flags.platform != "" {
		cfg.Platform.Backend = flags.platform
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// openPlatform opens the backend and builds the catalog from what it
// reports.
func openPlatform(cfg config.Config, log *slog.Logger) (platform.Backend, *sensor.Catalog, error) {
	backend, err := platform.Open(cfg.Platform, log)
	if err != nil {
		return nil, nil, err
	}
	catalog := sensor.NewCatalog(backend.Available())
	log.Info("platform ready",
		"backend", cfg.Platform.Backend,
		"devices", len(catalog.Devices()),
		"sensors", len(catalog.List()),
	)
	return backend, catalog, nil
}

func startupKind(cfg config.Config) (sensor.Kind, error) {
	if cfg.Startup.Sensor == "" {
		return sensor.KindUnknown, nil
	}
	k, err := sensor.ParseKind(cfg.Startup.Sensor)
	if err != nil {
		return sensor.KindUnknown, fmt.Errorf("startup.sensor: %w", err)
	}
	return k, nil
}
