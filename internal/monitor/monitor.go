// Package monitor implements the interactive sensor TUI using BubbleTea: a
// catalog list on the left and the active sensor's display on the right.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/sensores/internal/classify"
	"github.com/luki/sensores/internal/controller"
	"github.com/luki/sensores/internal/notice"
	"github.com/luki/sensores/internal/sensor"
)

const (
	tickInterval = 500 * time.Millisecond
	noticeKeep   = 4
	listWidth    = 34
)

// Engine is the controller surface the TUI drives.
type Engine interface {
	Activate(kind sensor.Kind) error
	Deactivate()
	Status() controller.Status
}

// Host receives lifecycle events from the terminal.
type Host interface {
	Background()
	Foreground() error
	Toggle() error
	InBackground() bool
}

// Options tunes the TUI.
type Options struct {
	NoticeTTL time.Duration
	Startup   sensor.Kind // activated on start when known
	Log       *slog.Logger
}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

// opDoneMsg reports the controller state after a command ran.
type opDoneMsg struct {
	status controller.Status
	paused bool
	err    error
}

// ── List items ───────────────────────────────────────────────────────

type item struct{ entry sensor.Entry }

func (i item) Title() string { return i.entry.Name }

func (i item) Description() string {
	return i.entry.Device + "  " + sensor.FriendlyName(i.entry.Device)
}

func (i item) FilterValue() string { return i.entry.Name }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the sensor TUI.
type Model struct {
	engine  Engine
	host    Host
	feed    *Feed
	catalog *sensor.Catalog
	opts    Options
	log     *slog.Logger

	list    list.Model
	keys    keyMap
	notices *notice.Ring

	status    controller.Status
	selected  sensor.Kind // kind whose states are shown, set before the controller confirms
	display   *classify.DisplayState
	paused    bool
	err       error
	width     int
	height    int
	startTime time.Time
}

// New creates the initial model.
func New(engine Engine, host Host, catalog *sensor.Catalog, feed *Feed, opts Options) Model {
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = 2 * time.Second
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	entries := catalog.List()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = item{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), listWidth, 10)
	l.Title = "Sensors"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = l.Styles.Title.Background(colorBorder)

	return Model{
		engine:    engine,
		host:      host,
		feed:      feed,
		catalog:   catalog,
		opts:      opts,
		log:       log.With(slog.String("component", "monitor")),
		list:      l,
		keys:      defaultKeys(),
		notices:   notice.NewRing(noticeKeep, opts.NoticeTTL),
		selected:  opts.Startup,
		startTime: time.Now(),
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, engine Engine, host Host, catalog *sensor.Catalog, feed *Feed, opts Options) error {
	p := tea.NewProgram(
		New(engine, host, catalog, feed, opts),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Controller calls may block on device I/O, so they run as commands and
// never inside Update.

func (m Model) activateCmd(kind sensor.Kind) tea.Cmd {
	engine, host := m.engine, m.host
	return func() tea.Msg {
		err := engine.Activate(kind)
		return opDoneMsg{status: engine.Status(), paused: host.InBackground(), err: err}
	}
}

func (m Model) deactivateCmd() tea.Cmd {
	engine, host := m.engine, m.host
	return func() tea.Msg {
		engine.Deactivate()
		return opDoneMsg{status: engine.Status(), paused: host.InBackground()}
	}
}

func (m Model) lifecycleCmd(op func() error) tea.Cmd {
	engine, host := m.engine, m.host
	return func() tea.Msg {
		err := op()
		return opDoneMsg{status: engine.Status(), paused: host.InBackground(), err: err}
	}
}

func (m Model) backgroundCmd() tea.Cmd {
	host := m.host
	return m.lifecycleCmd(func() error {
		host.Background()
		return nil
	})
}

func (m Model) foregroundCmd() tea.Cmd { return m.lifecycleCmd(m.host.Foreground) }

func (m Model) toggleCmd() tea.Cmd { return m.lifecycleCmd(m.host.Toggle) }

func (m Model) statusCmd() tea.Cmd { return m.lifecycleCmd(func() error { return nil }) }

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.feed.wait(), tickCmd()}
	if m.opts.Startup.Known() {
		cmds = append(cmds, m.activateCmd(m.opts.Startup))
	} else {
		cmds = append(cmds, m.statusCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Activate):
			it, ok := m.list.SelectedItem().(item)
			if !ok {
				return m, nil
			}
			m.display = nil
			m.selected = it.entry.Kind
			return m, m.activateCmd(it.entry.Kind)
		case key.Matches(msg, m.keys.Deactivate):
			m.display = nil
			m.selected = sensor.KindUnknown
			return m, m.deactivateCmd()
		case key.Matches(msg, m.keys.Pause):
			return m, m.toggleCmd()
		case key.Matches(msg, m.keys.Suspend):
			return m, tea.Sequence(m.backgroundCmd(), tea.Suspend)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 4
		if h < 5 {
			h = 5
		}
		m.list.SetSize(listWidth, h)
		return m, nil

	case tea.BlurMsg:
		return m, m.backgroundCmd()

	case tea.FocusMsg, tea.ResumeMsg:
		return m, m.foregroundCmd()

	case tickMsg:
		m.notices.Expire(time.Time(msg))
		return m, tickCmd()

	case stateMsg:
		s := classify.DisplayState(msg)
		// states queued by a previous sensor may still be in the feed
		if s.Kind == m.selected {
			m.display = &s
		}
		return m, m.feed.wait()

	case noticeMsg:
		m.notices.Push(notice.Notice(msg))
		return m, m.feed.wait()

	case opDoneMsg:
		m.status = msg.status
		m.paused = msg.paused
		m.err = nil
		if msg.err != nil {
			m.log.Debug("operation failed", "error", msg.err)
			if !errorNoticed(msg.err) {
				m.err = msg.err
			}
		}
		if m.status.Phase == controller.Idle {
			m.display = nil
			m.selected = sensor.KindUnknown
		} else {
			m.selected = m.status.Kind
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// errorNoticed reports whether err was already surfaced as a notice by the
// controller.
func errorNoticed(err error) bool {
	return errors.Is(err, sensor.ErrUnavailable) || errors.Is(err, sensor.ErrRegistrationFailed)
}

func (m Model) phaseText() string {
	switch m.status.Phase {
	case controller.Active:
		return fmt.Sprintf("active: %s", m.status.Kind.DisplayName())
	case controller.Suspended:
		return fmt.Sprintf("suspended: %s", m.status.Kind.DisplayName())
	}
	return "idle"
}
