package sensor

// Handle identifies one live subscription.
type Handle string

// Sink receives samples for a subscription. Platforms may call Deliver from
// their own goroutines, and may deliver a stray sample after Unsubscribe.
type Sink interface {
	Deliver(h Handle, s Sample)
}

// Port is the boundary to a sensor platform.
//
// Subscribe returns ErrUnavailable or ErrRegistrationFailed (possibly
// wrapped) on failure. Unsubscribe must not wait for in-flight deliveries
// to finish, since the sink may be blocked on the caller.
type Port interface {
	Available() []Descriptor
	Subscribe(kind Kind, sink Sink) (Handle, error)
	Unsubscribe(h Handle)
}
