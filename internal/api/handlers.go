package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/luki/sensores/internal/controller"
	"github.com/luki/sensores/internal/present"
	"github.com/luki/sensores/internal/sensor"
)

// Engine is the controller surface the API drives.
type Engine interface {
	Activate(kind sensor.Kind) error
	Deactivate()
	Status() controller.Status
}

// Host receives lifecycle events.
type Host interface {
	Background()
	Foreground() error
	InBackground() bool
}

// Server holds the handler dependencies.
type Server struct {
	Engine  Engine
	Host    Host
	Catalog *sensor.Catalog
	Latest  *present.Latest
}

type sensorJSON struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Device string `json:"device"`
}

type deviceJSON struct {
	Kind   string `json:"kind"`
	Device string `json:"device"`
	Vendor string `json:"vendor"`
}

type displayJSON struct {
	Label      string    `json:"label"`
	Value      float64   `json:"value"`
	Threshold  float64   `json:"threshold"`
	Emphasis   string    `json:"emphasis"`
	Image      string    `json:"image"`
	Background string    `json:"background,omitempty"`
	Updated    time.Time `json:"updated"`
}

type noticeJSON struct {
	Type string    `json:"type"`
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type stateJSON struct {
	Phase      string       `json:"phase"`
	Kind       string       `json:"kind,omitempty"`
	Background bool         `json:"host_background"`
	Display    *displayJSON `json:"display"`
	Notices    []noticeJSON `json:"notices"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listSensors(w http.ResponseWriter, r *http.Request) {
	out := []sensorJSON{}
	for _, e := range s.Catalog.List() {
		out = append(out, sensorJSON{Kind: e.Kind.String(), Name: e.Name, Device: e.Device})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	out := []deviceJSON{}
	for _, d := range s.Catalog.Devices() {
		out = append(out, deviceJSON{Kind: d.Kind.String(), Device: d.Device, Vendor: d.Vendor})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) activate(w http.ResponseWriter, r *http.Request) {
	kind, err := sensor.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.Latest.Clear()
	if err := s.Engine.Activate(kind); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.state(w, r)
}

func (s *Server) deactivate(w http.ResponseWriter, r *http.Request) {
	s.Engine.Deactivate()
	s.Latest.Clear()
	s.state(w, r)
}

func (s *Server) background(w http.ResponseWriter, r *http.Request) {
	s.Host.Background()
	s.state(w, r)
}

func (s *Server) foreground(w http.ResponseWriter, r *http.Request) {
	if err := s.Host.Foreground(); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.state(w, r)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	st := s.Engine.Status()
	out := stateJSON{
		Phase:      st.Phase.String(),
		Background: s.Host.InBackground(),
		Notices:    []noticeJSON{},
	}
	if st.Kind.Known() {
		out.Kind = st.Kind.String()
	}
	if d, at, ok := s.Latest.State(); ok && st.Phase == controller.Active && d.Kind == st.Kind {
		out.Display = &displayJSON{
			Label:      d.Label,
			Value:      d.Value,
			Threshold:  d.Threshold,
			Emphasis:   d.Emphasis.String(),
			Image:      d.Image.String(),
			Background: d.Background.String(),
			Updated:    at,
		}
	}
	for _, n := range s.Latest.Notices() {
		out.Notices = append(out.Notices, noticeJSON{Type: n.Type.String(), Kind: n.Kind.String(), Text: n.Text(), At: n.At})
	}
	writeJSON(w, http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sensor.ErrUnavailable):
		return http.StatusNotFound
	case errors.Is(err, sensor.ErrRegistrationFailed):
		return http.StatusConflict
	case errors.Is(err, controller.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
