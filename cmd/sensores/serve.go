package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"github.com/luki/sensores/internal/api"
	"github.com/luki/sensores/internal/controller"
	"github.com/luki/sensores/internal/lifecycle"
	"github.com/luki/sensores/internal/logging"
	"github.com/luki/sensores/internal/present"
)

const (
	recentNotices   = 16
	shutdownTimeout = 5 * time.Second
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run headless with an HTTP control API",
		Long: `serve runs the engine without a terminal UI. Sensors are selected over
HTTP; SIGUSR1 sends the engine to the background and SIGUSR2 brings it
back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *flags, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides api.addr)")
	return cmd
}

func runServe(ctx context.Context, flags globalFlags, addr string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.API.Addr = addr
	}
	kind, err := startupKind(cfg)
	if err != nil {
		return err
	}

	log, closer, err := logging.Init(cfg.Log, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	backend, catalog, err := openPlatform(cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	latest := present.NewLatest(recentNotices, cfg.UI.NoticeTTL)
	ctl := controller.New(backend, catalog, present.Fanout{present.NewLog(log), latest}, log)
	defer ctl.Close()

	bridge := lifecycle.New(ctl, log)
	go bridge.WatchSignals(ctx)

	if kind.Known() {
		if err := ctl.Activate(kind); err != nil {
			log.Warn("startup sensor not activated", "sensor", kind.String(), "error", err)
		}
	}

	router := api.NewRouter(&api.Server{
		Engine:  ctl,
		Host:    bridge,
		Catalog: catalog,
		Latest:  latest,
	})
	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           handlers.LoggingHandler(os.Stdout, router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
