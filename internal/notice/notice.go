// Package notice models the transient user notices raised by sensor
// activation, and a bounded ring of recent notices with a display lifetime.
package notice

import (
	"time"

	"github.com/luki/sensores/internal/sensor"
)

// Type classifies a notice.
type Type uint8

const (
	Activated Type = iota
	Unavailable
	RegistrationFailed
)

func (t Type) String() string {
	switch t {
	case Activated:
		return "activated"
	case Unavailable:
		return "unavailable"
	case RegistrationFailed:
		return "registration_failed"
	}
	return "unknown"
}

// Notice is a transient, user-visible message about one activation attempt.
type Notice struct {
	Type Type
	Kind sensor.Kind
	Err  error
	At   time.Time
}

// Text renders the message shown to the user.
func (n Notice) Text() string {
	name := n.Kind.DisplayName()
	switch n.Type {
	case Activated:
		return name + " activado"
	case Unavailable:
		return name + " no disponible"
	case RegistrationFailed:
		return name + " no se pudo registrar"
	}
	return name
}

// Failure reports whether the notice describes a failed attempt.
func (n Notice) Failure() bool {
	return n.Type != Activated
}

// Ring stores the most recent notices, oldest first.
type Ring struct {
	Items []Notice
	Max   int           // capacity
	TTL   time.Duration // display lifetime, 0 keeps notices until evicted
}

// NewRing creates a ring with the given capacity and lifetime.
func NewRing(capacity int, ttl time.Duration) *Ring {
	return &Ring{
		Items: make([]Notice, 0, capacity),
		Max:   capacity,
		TTL:   ttl,
	}
}

// Push adds a notice, evicting the oldest when full.
func (r *Ring) Push(n Notice) {
	if r.Max <= 0 {
		return
	}
	if len(r.Items) >= r.Max {
		copy(r.Items, r.Items[1:])
		r.Items[len(r.Items)-1] = n
	} else {
		r.Items = append(r.Items, n)
	}
}

// Expire drops notices older than the ring's TTL at now. It reports whether
// anything was removed.
func (r *Ring) Expire(now time.Time) bool {
	if r.TTL <= 0 {
		return false
	}
	kept := r.Items[:0]
	for _, n := range r.Items {
		if now.Sub(n.At) < r.TTL {
			kept = append(kept, n)
		}
	}
	removed := len(kept) != len(r.Items)
	r.Items = kept
	return removed
}

// Last returns the most recent notice, if any.
func (r *Ring) Last() (Notice, bool) {
	if len(r.Items) == 0 {
		return Notice{}, false
	}
	return r.Items[len(r.Items)-1], true
}

// LastN returns up to n of the most recent notices, oldest first.
func (r *Ring) LastN(n int) []Notice {
	if n <= 0 || len(r.Items) == 0 {
		return nil
	}
	start := len(r.Items) - n
	if start < 0 {
		start = 0
	}
	out := make([]Notice, len(r.Items[start:]))
	copy(out, r.Items[start:])
	return out
}
