package monitor

import (
	"log/slog"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/sensores/internal/classify"
	"github.com/luki/sensores/internal/notice"
)

type stateMsg classify.DisplayState

type noticeMsg notice.Notice

// Feed is the presenter used by the TUI. The controller pushes into it and
// the program drains one message at a time. Sends never block. Display
// states go through a bounded buffer and are dropped when it is full;
// notices are queued without limit and handed out first.
type Feed struct {
	states  chan tea.Msg
	ready   chan struct{}
	log     *slog.Logger
	dropped atomic.Uint64

	mu      sync.Mutex
	notices []notice.Notice
}

// NewFeed creates a feed buffering up to size display states.
func NewFeed(size int, log *slog.Logger) *Feed {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Feed{
		states: make(chan tea.Msg, size),
		ready:  make(chan struct{}, 1),
		log:    log.With(slog.String("component", "feed")),
	}
}

func (f *Feed) Show(s classify.DisplayState) {
	select {
	case f.states <- stateMsg(s):
	default:
		f.dropped.Add(1)
		f.log.Warn("feed full, dropping display state", "dropped", f.dropped.Load())
	}
}

func (f *Feed) Notify(n notice.Notice) {
	f.mu.Lock()
	f.notices = append(f.notices, n)
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// Dropped returns how many display states were discarded because the
// buffer was full.
func (f *Feed) Dropped() uint64 { return f.dropped.Load() }

func (f *Feed) popNotice() (notice.Notice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return notice.Notice{}, false
	}
	n := f.notices[0]
	f.notices = f.notices[1:]
	return n, true
}

// wait returns a command that blocks until the next update arrives.
func (f *Feed) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			if n, ok := f.popNotice(); ok {
				return noticeMsg(n)
			}
			select {
			case msg := <-f.states:
				return msg
			case <-f.ready:
			}
		}
	}
}
