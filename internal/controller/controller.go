// Package controller owns the single active-sensor slot. It subscribes to
// at most one sensor at a time, classifies the samples of that
// subscription, and follows the host's foreground/background lifecycle.
//
// The intended transitions:
//
//	idle      -> active                (Activate)
//	active    -> active | idle         (Activate, Deactivate)
//	active    -> suspended             (Suspend)
//	suspended -> active | suspended    (Resume, failed Resume)
//	suspended -> idle                  (Deactivate)
//
// No samples are classified outside the active phase.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/luki/sensores/internal/classify"
	"github.com/luki/sensores/internal/notice"
	"github.com/luki/sensores/internal/sensor"
)

// ErrClosed is returned by operations on a closed controller.
var ErrClosed = errors.New("controller closed")

// Phase is the controller's lifecycle phase.
type Phase uint8

const (
	Idle Phase = iota
	Active
	Suspended
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Suspended:
		return "suspended"
	}
	return "idle"
}

// Status is a snapshot of the controller state. Kind is set while Active or
// Suspended; Handle only while Active.
type Status struct {
	Phase  Phase
	Kind   sensor.Kind
	Handle sensor.Handle
}

// Presenter renders display states and surfaces notices. It is called with
// the controller lock held and must not call back into the controller.
type Presenter interface {
	Show(s classify.DisplayState)
	Notify(n notice.Notice)
}

// Controller enforces the at-most-one-active-sensor rule.
type Controller struct {
	port      sensor.Port
	catalog   *sensor.Catalog
	presenter Presenter
	log       *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	phase      Phase
	kind       sensor.Kind
	handle     sensor.Handle
	background bool // host is backgrounded, set by Suspend and cleared by Resume
	closed     bool
	dropped    uint64
}

// New creates an idle controller.
func New(port sensor.Port, catalog *sensor.Catalog, presenter Presenter, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		port:      port,
		catalog:   catalog,
		presenter: presenter,
		log:       log.With(slog.String("component", "controller")),
		now:       time.Now,
	}
}

// Status returns the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{Phase: c.phase, Kind: c.kind, Handle: c.handle}
}

// Dropped returns how many delivered samples were discarded.
func (c *Controller) Dropped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Activate releases any current subscription and subscribes to kind. On
// failure the controller is left idle and a single notice is emitted.
// While the host is in the background, the new kind is only remembered and
// subscribed on Resume.
func (c *Controller) Activate(kind sensor.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.background {
		c.release()
		if _, ok := c.catalog.Lookup(kind); !ok {
			c.setIdle()
			return c.fail(kind, fmt.Errorf("activate %s: %w", kind, sensor.ErrUnavailable))
		}
		c.log.Info("activation deferred until resume", "kind", kind.String())
		c.phase = Suspended
		c.kind = kind
		return nil
	}

	c.release()
	c.setIdle()

	h, err := c.subscribe(kind)
	if err != nil {
		return fmt.Errorf("activate %s: %w", kind, err)
	}
	c.phase = Active
	c.kind = kind
	c.handle = h
	return nil
}

// Deactivate releases the current subscription. It is a no-op when idle.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
	c.setIdle()
}

// Suspend marks the host as backgrounded and releases the live
// subscription, remembering its kind.
func (c *Controller) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.background = true
	if c.phase != Active {
		return
	}
	c.release()
	c.phase = Suspended
	c.log.Info("suspended", "kind", c.kind.String())
}

// Resume re-subscribes to the remembered kind. A failed resume keeps the
// kind remembered so a later Resume tries again.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.background = false
	if c.phase != Suspended {
		return nil
	}

	h, err := c.subscribe(c.kind)
	if err != nil {
		return fmt.Errorf("resume %s: %w", c.kind, err)
	}
	c.phase = Active
	c.handle = h
	c.log.Info("resumed", "kind", c.kind.String())
	return nil
}

// Close releases any subscription. Further Activate/Resume calls fail.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
	c.setIdle()
	c.closed = true
}

// Deliver implements sensor.Sink. Samples for a stale handle, of the wrong
// kind, malformed, or arriving outside the active phase are dropped.
func (c *Controller) Deliver(h sensor.Handle, s sensor.Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Active || h != c.handle {
		c.dropped++
		c.log.Debug("dropped sample for inactive subscription", "handle", string(h), "phase", c.phase.String())
		return
	}
	if s.Kind != c.kind {
		c.dropped++
		c.log.Warn("dropped sample of unexpected kind", "want", c.kind.String(), "got", s.Kind.String())
		return
	}
	if err := s.Validate(); err != nil {
		c.dropped++
		c.log.Warn("dropped sample", "error", err)
		return
	}

	state := classify.Classify(c.kind, s)
	c.log.Debug("classified", "kind", c.kind.String(), "value", state.Value, "image", state.Image.String())
	c.presenter.Show(state)
}

// subscribe checks the catalog, asks the port for a subscription and emits
// the resulting notice. Callers hold c.mu.
func (c *Controller) subscribe(kind sensor.Kind) (sensor.Handle, error) {
	if _, ok := c.catalog.Lookup(kind); !ok {
		return "", c.fail(kind, sensor.ErrUnavailable)
	}
	h, err := c.port.Subscribe(kind, c)
	if err != nil {
		if !errors.Is(err, sensor.ErrUnavailable) && !errors.Is(err, sensor.ErrRegistrationFailed) {
			err = fmt.Errorf("%w: %w", sensor.ErrRegistrationFailed, err)
		}
		return "", c.fail(kind, err)
	}
	c.log.Info("subscribed", "kind", kind.String(), "handle", string(h))
	c.presenter.Notify(notice.Notice{Type: notice.Activated, Kind: kind, At: c.now()})
	return h, nil
}

// fail reports err once to the presenter and returns it.
func (c *Controller) fail(kind sensor.Kind, err error) error {
	t := notice.RegistrationFailed
	if errors.Is(err, sensor.ErrUnavailable) {
		t = notice.Unavailable
	}
	c.log.Warn("activation failed", "kind", kind.String(), "error", err)
	c.presenter.Notify(notice.Notice{Type: t, Kind: kind, Err: err, At: c.now()})
	return err
}

func (c *Controller) release() {
	if c.handle == "" {
		return
	}
	c.port.Unsubscribe(c.handle)
	c.log.Info("unsubscribed", "kind", c.kind.String(), "handle", string(c.handle))
	c.handle = ""
}

func (c *Controller) setIdle() {
	c.phase = Idle
	c.kind = sensor.KindUnknown
	c.handle = ""
}
