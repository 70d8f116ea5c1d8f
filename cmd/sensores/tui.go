package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/luki/sensores/internal/controller"
	"github.com/luki/sensores/internal/lifecycle"
	"github.com/luki/sensores/internal/logging"
	"github.com/luki/sensores/internal/monitor"
)

const feedSize = 64

func runTUI(ctx context.Context, flags globalFlags) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	kind, err := startupKind(cfg)
	if err != nil {
		return err
	}

	// stdout belongs to the renderer
	log, closer, err := logging.Init(cfg.Log, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	backend, catalog, err := openPlatform(cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	feed := monitor.NewFeed(feedSize, log)
	ctl := controller.New(backend, catalog, feed, log)
	defer ctl.Close()

	bridge := lifecycle.New(ctl, log)
	go bridge.WatchSignals(ctx)

	return monitor.Run(ctx, ctl, bridge, catalog, feed, monitor.Options{
		NoticeTTL: cfg.UI.NoticeTTL,
		Startup:   kind,
		Log:       log,
	})
}
