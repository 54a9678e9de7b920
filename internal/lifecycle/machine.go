package lifecycle

import "fmt"

// Hook is a one-shot behavior attached to entering or leaving a phase.
type Hook func(Transition)

// Machine is the double-buffered lifecycle state machine.
//
// Machine is not safe for concurrent use. It is owned by a single tick
// loop; collaborators running on other goroutines must hand their results
// to that loop instead of calling Request directly.
type Machine struct {
	current Phase
	next    Phase
	hasNext bool
	onEnter map[Phase][]Hook
	onExit  map[Phase][]Hook
	history []Transition
}

// NewMachine creates a machine in the Loading phase.
func NewMachine() *Machine {
	return &Machine{
		current: Loading,
		onEnter: make(map[Phase][]Hook),
		onExit:  make(map[Phase][]Hook),
	}
}

// Current returns the phase visible for the rest of this tick.
func (m *Machine) Current() Phase {
	return m.current
}

// Pending returns the phase queued for the next tick boundary, if any.
func (m *Machine) Pending() (Phase, bool) {
	return m.next, m.hasNext
}

// IsActive reports whether p is the current phase.
func (m *Machine) IsActive(p Phase) bool {
	return m.current == p
}

// Request queues a transition to next. The change becomes visible only after
// the next call to Apply. A later request in the same tick replaces an
// earlier one, except that a pending Terminating is never replaced.
//
// Requests made while Terminating is current, or that name the current
// phase, are ignored. Any other request that is not an edge of the
// lifecycle graph panics: it means a caller has lost track of the phase.
func (m *Machine) Request(next Phase) {
	if m.current.IsTerminal() || next == m.current {
		return
	}
	if m.hasNext && m.next.IsTerminal() {
		return
	}
	if !canTransition(m.current, next) {
		panic(fmt.Sprintf("lifecycle: invalid transition %s -> %s", m.current, next))
	}
	m.next = next
	m.hasNext = true
}

// OnEnter registers fn to run once when p becomes current.
func (m *Machine) OnEnter(p Phase, fn Hook) {
	m.onEnter[p] = append(m.onEnter[p], fn)
}

// OnExit registers fn to run once when p stops being current.
func (m *Machine) OnExit(p Phase, fn Hook) {
	m.onExit[p] = append(m.onExit[p], fn)
}

// Apply commits the pending phase, if any. Exit hooks of the old phase run
// before enter hooks of the new one. It returns the committed transition and
// true, or false when nothing was pending.
func (m *Machine) Apply() (Transition, bool) {
	if !m.hasNext {
		return Transition{}, false
	}

	t := Transition{From: m.current, To: m.next}
	m.current = m.next
	m.hasNext = false
	m.history = append(m.history, t)

	for _, fn := range m.onExit[t.From] {
		fn(t)
	}
	for _, fn := range m.onEnter[t.To] {
		fn(t)
	}
	return t, true
}

// History returns every transition committed so far, oldest first.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}
