// Package api exposes the engine over HTTP for headless use: the catalog,
// the current state, sensor selection and host lifecycle events.
package api

import (
	"github.com/gorilla/mux"
)

// NewRouter wires the routes onto s.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/sensors", s.listSensors).Methods("GET")
	r.HandleFunc("/sensors/devices", s.listDevices).Methods("GET")
	r.HandleFunc("/sensors/deactivate", s.deactivate).Methods("POST")
	r.HandleFunc("/sensors/{kind}/activate", s.activate).Methods("POST")
	r.HandleFunc("/state", s.state).Methods("GET")
	r.HandleFunc("/lifecycle/background", s.background).Methods("POST")
	r.HandleFunc("/lifecycle/foreground", s.foreground).Methods("POST")

	return r
}
