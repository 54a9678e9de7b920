// Package lifecycle implements the application's phase state machine.
//
// A Machine holds the current phase and at most one pending phase. Requests
// made during a tick are only committed by Apply, which the scheduler calls
// at the start of the next tick, so every reader within a tick observes the
// same phase.
package lifecycle

// Phase is the coarse-grained mode of the application.
type Phase int

const (
	Loading     Phase = iota // assets are being loaded; initial phase
	Ready                    // everything is loaded and input is live
	Terminating              // shutdown requested; terminal
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	case Terminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no transition can leave p.
func (p Phase) IsTerminal() bool {
	return p == Terminating
}

// Transition describes a committed phase change.
type Transition struct {
	From Phase
	To   Phase
}

// canTransition reports whether from -> to is an edge of the lifecycle graph.
func canTransition(from, to Phase) bool {
	switch from {
	case Loading:
		return to == Ready
	case Ready:
		return to == Terminating
	default:
		return false
	}
}
