// Package lifecycle forwards host foreground/background signals to the
// sensor controller, so no device subscription is held while the host is
// in the background.
package lifecycle

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Target is the part of the controller the bridge drives.
type Target interface {
	Suspend()
	Resume() error
}

// Bridge translates host lifecycle events into Suspend/Resume calls.
// Repeated events for the state the host is already in are ignored.
type Bridge struct {
	target Target
	log    *slog.Logger

	mu         sync.Mutex
	background bool
}

// New creates a bridge for a host that starts in the foreground.
func New(target Target, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{target: target, log: log.With(slog.String("component", "lifecycle"))}
}

// Background handles the host entering the background.
func (b *Bridge) Background() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enterBackground()
}

// Foreground handles the host returning to the foreground. The resume error
// has already been surfaced to the presenter by the controller.
func (b *Bridge) Foreground() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enterForeground()
}

// Toggle flips between background and foreground.
func (b *Bridge) Toggle() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.background {
		return b.enterForeground()
	}
	b.enterBackground()
	return nil
}

// enterBackground and enterForeground run with b.mu held.
func (b *Bridge) enterBackground() {
	if b.background {
		return
	}
	b.background = true
	b.log.Info("host entered background")
	b.target.Suspend()
}

func (b *Bridge) enterForeground() error {
	if !b.background {
		return nil
	}
	b.background = false
	b.log.Info("host entered foreground")
	return b.target.Resume()
}

// InBackground reports the last host state seen.
func (b *Bridge) InBackground() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.background
}

// WatchSignals maps SIGUSR1 to background and SIGUSR2 to foreground until
// ctx is done.
func (b *Bridge) WatchSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			b.handleSignal(sig)
		}
	}
}

func (b *Bridge) handleSignal(sig os.Signal) {
	switch sig {
	case syscall.SIGUSR1:
		b.Background()
	case syscall.SIGUSR2:
		if err := b.Foreground(); err != nil {
			b.log.Warn("resume after foreground failed", "error", err)
		}
	}
}
