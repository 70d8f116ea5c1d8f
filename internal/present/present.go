// Package present holds presenter adapters for the headless mode: a slog
// presenter, a cache of the latest state for the API, and a fan-out.
package present

import (
	"log/slog"
	"sync"
	"time"

	"github.com/luki/sensores/internal/classify"
	"github.com/luki/sensores/internal/controller"
	"github.com/luki/sensores/internal/notice"
)

// Log writes display states at debug level and notices at info/warn.
type Log struct {
	log *slog.Logger
}

// NewLog creates a slog-backed presenter.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log.With(slog.String("component", "presenter"))}
}

func (l *Log) Show(s classify.DisplayState) {
	l.log.Debug("display",
		"kind", s.Kind.String(),
		"label", s.Label,
		"emphasis", s.Emphasis.String(),
		"image", s.Image.String(),
		"background", s.Background.String(),
	)
}

func (l *Log) Notify(n notice.Notice) {
	if n.Failure() {
		l.log.Warn(n.Text(), "type", n.Type.String(), "error", n.Err)
		return
	}
	l.log.Info(n.Text(), "type", n.Type.String())
}

// Latest keeps the last display state and the recent notices.
type Latest struct {
	mu      sync.RWMutex
	state   classify.DisplayState
	updated time.Time
	has     bool
	notices *notice.Ring
	now     func() time.Time
}

// NewLatest creates a cache holding up to keep notices for ttl.
func NewLatest(keep int, ttl time.Duration) *Latest {
	return &Latest{notices: notice.NewRing(keep, ttl), now: time.Now}
}

func (l *Latest) Show(s classify.DisplayState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s
	l.updated = l.now()
	l.has = true
}

func (l *Latest) Notify(n notice.Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n.At.IsZero() {
		n.At = l.now()
	}
	l.notices.Push(n)
}

// State returns the last display state and when it arrived.
func (l *Latest) State() (classify.DisplayState, time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state, l.updated, l.has
}

// Notices returns the unexpired notices, oldest first.
func (l *Latest) Notices() []notice.Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices.Expire(l.now())
	return l.notices.LastN(len(l.notices.Items))
}

// Clear forgets the last state, e.g. after deactivation.
func (l *Latest) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = classify.DisplayState{}
	l.has = false
}

// Fanout forwards to every presenter in order.
type Fanout []controller.Presenter

func (f Fanout) Show(s classify.DisplayState) {
	for _, p := range f {
		p.Show(s)
	}
}

func (f Fanout) Notify(n notice.Notice) {
	for _, p := range f {
		p.Notify(n)
	}
}
