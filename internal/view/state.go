package view

// State is the controller's initialization state.
type State int32

const (
	// Uninitialized means Initialize has not been called.
	Uninitialized State = iota

	// Initializing means engine acquisition or image load is in flight.
	Initializing

	// Ready means the viewport is attached and operations are live.
	Ready

	// Failed is terminal: the image failed to load and the instance will
	// not retry. The embedding application may re-instantiate to retry.
	Failed

	// Closed means Close released the engine; operations are no-ops.
	Closed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
