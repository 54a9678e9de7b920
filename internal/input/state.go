package input

import "time"

// DefaultReleaseDelay is how long a key stays held without a repeat event.
// It must outlast the terminal's auto-repeat delay (commonly 250-600ms),
// or one continuous hold reads as press, release, press.
const DefaultReleaseDelay = 660 * time.Millisecond

// DefaultReleaseAfter is DefaultReleaseDelay at a 16ms tick.
const DefaultReleaseAfter = 42

// ReleaseTicks converts a release delay into whole ticks at tickRate,
// rounding up. It never returns less than 1.
func ReleaseTicks(delay, tickRate time.Duration) int {
	if delay <= 0 || tickRate <= 0 {
		return DefaultReleaseAfter
	}
	n := int((delay + tickRate - 1) / tickRate)
	if n < 1 {
		return 1
	}
	return n
}

// Keyboard is the device-polling side of input. Terminals report key
// presses (and auto-repeats) but never key releases, so a key stays held
// until releaseAfter ticks pass without another event for it.
type Keyboard struct {
	releaseAfter uint64
	tick         uint64
	lastSeen     map[Key]uint64
}

// NewKeyboard creates a keyboard. A releaseAfter below 1 uses
// DefaultReleaseAfter.
func NewKeyboard(releaseAfter int) *Keyboard {
	if releaseAfter < 1 {
		releaseAfter = DefaultReleaseAfter
	}
	return &Keyboard{
		releaseAfter: uint64(releaseAfter),
		lastSeen:     make(map[Key]uint64),
	}
}

// Press records a key event. Events that arrive between two ticks belong to
// the next tick.
func (k *Keyboard) Press(key Key) {
	k.lastSeen[key] = k.tick + 1
}

// Advance moves the keyboard to the next tick and drops released keys.
func (k *Keyboard) Advance() {
	k.tick++
	for key, seen := range k.lastSeen {
		if seen <= k.tick && k.tick-seen >= k.releaseAfter {
			delete(k.lastSeen, key)
		}
	}
}

// Held reports whether key counts as pressed during the current tick.
func (k *Keyboard) Held(key Key) bool {
	seen, ok := k.lastSeen[key]
	return ok && seen <= k.tick
}

// ActionState is the per-tick state of every bound action.
type ActionState struct {
	prev    map[Action]bool
	current map[Action]bool
}

// NewActionState creates an empty action state.
func NewActionState() *ActionState {
	return &ActionState{
		prev:    make(map[Action]bool),
		current: make(map[Action]bool),
	}
}

// Update recomputes every action from the keyboard. Call it exactly once per
// tick, after Keyboard.Advance.
func (s *ActionState) Update(m *InputMap, kb *Keyboard) {
	s.prev, s.current = s.current, s.prev
	for _, a := range m.order {
		trigger, _ := m.Trigger(a)
		s.current[a] = kb.Held(trigger)
	}
}

// Pressed reports whether a is held this tick.
func (s *ActionState) Pressed(a Action) bool {
	return s.current[a]
}

// JustPressed reports whether a went from released to pressed this tick.
func (s *ActionState) JustPressed(a Action) bool {
	return s.current[a] && !s.prev[a]
}

// JustReleased reports whether a went from pressed to released this tick.
func (s *ActionState) JustReleased(a Action) bool {
	return !s.current[a] && s.prev[a]
}
